package main

import (
	"context"
	"flag"
	"os"
	"time"

	"pm-go/internal/config"
	"pm-go/internal/handler"
	"pm-go/internal/models"
	"pm-go/internal/router"
	"pm-go/internal/service"
	"pm-go/internal/session"
	"pm-go/internal/utils"
	"pm-go/pkg/redis_limiter"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults to PM_CONFIG or ./config/config.yaml)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	logger := newLogger(cfg.Log.Level)
	logrus.SetFormatter(logger.Formatter)
	logrus.SetLevel(logger.Level)

	if err := models.InitDB(cfg); err != nil {
		logger.Fatalf("init database: %v", err)
	}
	db := models.GetDB()

	jwtManager := utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Algorithm, cfg.Session.GetTTL())

	var (
		store   session.Store
		limiter handler.LoginLimiter
	)
	switch cfg.Session.Backend {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddress(),
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			logger.Fatalf("connect redis at %s: %v", cfg.Redis.GetAddress(), err)
		}
		store = session.NewRedisStore(redisClient, cfg.Session.KeyPrefix, cfg.Session.GetTTL())
		limiter = redis_limiter.NewRedisLimiter(
			redisClient,
			cfg.LoginLimit.MaxAttempts,
			"pm:login:",
			cfg.LoginLimit.GetWindow(),
		)
		logger.WithField("addr", cfg.Redis.GetAddress()).Info("using redis session store")
	default:
		store = session.NewMemoryStore(cfg.Session.GetTTL())
		logger.Info("using in-memory session store")
	}
	sessions := session.NewManager(store, jwtManager)

	authService := service.NewAuthService(db, sessions, cfg)
	if err := authService.InitAdmin(); err != nil {
		logger.Warnf("init admin: %v", err)
	}

	r, err := router.SetupRouter(cfg, sessions, logger, db, limiter)
	if err != nil {
		logger.Fatalf("setup router: %v", err)
	}

	addr := cfg.Server.GetAddress()
	logger.WithFields(logrus.Fields{
		"addr":       addr,
		"driver":     cfg.Database.Driver,
		"production": cfg.Server.ProductionMode,
	}).Info("server starting")

	if err := r.Run(addr); err != nil {
		logger.Fatalf("run server: %v", err)
	}
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
