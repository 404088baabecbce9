package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	globalConfig *Config
	once         sync.Once
)

// LoadConfig loads the configuration once per process
func LoadConfig(configFile string) (*Config, error) {
	var err error

	once.Do(func() {
		var cfg *Config
		cfg, err = loadConfigFromFile(configFile)
		if err == nil {
			globalConfig = cfg
		}
	})

	return globalConfig, err
}

// loadConfigFromFile reads .env, the YAML file and PM_* environment overrides
func loadConfigFromFile(configFile string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()

	if configFile == "" {
		configFile = os.Getenv("PM_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("PM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v)

	if err := v.ReadInConfig(); err != nil {
		// running on defaults and environment alone is allowed
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	setDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// bindKeys registers every key so AutomaticEnv overrides reach Unmarshal
func bindKeys(v *viper.Viper) {
	keys := []string{
		"server.host", "server.port", "server.production_mode",
		"database.driver", "database.path", "database.dsn",
		"database.max_open_conns", "database.max_idle_conns", "database.log_level",
		"redis_service.host", "redis_service.port", "redis_service.db", "redis_service.password",
		"session.backend", "session.cookie_name", "session.ttl_minutes",
		"session.secure", "session.key_prefix",
		"jwt.secret_key", "jwt.algorithm",
		"admin.username", "admin.password", "admin.email", "admin.name",
		"cors.allow_credentials",
		"login_limit.max_attempts", "login_limit.window_seconds",
		"log.level",
		"prototype.host", "prototype.port", "prototype.database_path",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

// setDefaults fills zero values
func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./database/project_management.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "silent"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = "memory"
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "session"
	}
	if cfg.Session.TTLMinutes == 0 {
		cfg.Session.TTLMinutes = 60 * 24 * 7
	}
	if cfg.Session.KeyPrefix == "" {
		cfg.Session.KeyPrefix = "pm:session:"
	}
	if cfg.JWT.Algorithm == "" {
		cfg.JWT.Algorithm = "HS256"
	}
	if cfg.Admin.Username == "" {
		cfg.Admin.Username = "admin"
	}
	if cfg.Admin.Email == "" {
		cfg.Admin.Email = "admin@localhost"
	}
	if cfg.Admin.Name == "" {
		cfg.Admin.Name = "Administrator"
	}
	if cfg.CORS.AllowMethods == nil {
		cfg.CORS.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if cfg.CORS.AllowHeaders == nil {
		cfg.CORS.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	}
	if cfg.LoginLimit.MaxAttempts == 0 {
		cfg.LoginLimit.MaxAttempts = 10
	}
	if cfg.LoginLimit.WindowSeconds == 0 {
		cfg.LoginLimit.WindowSeconds = 300
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Prototype.Host == "" {
		cfg.Prototype.Host = "0.0.0.0"
	}
	if cfg.Prototype.Port == 0 {
		cfg.Prototype.Port = 8000
	}
	if cfg.Prototype.DatabasePath == "" {
		cfg.Prototype.DatabasePath = "./database/database.db"
	}
}

// validateConfig rejects settings the server cannot start with
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key must not be empty")
	}
	switch cfg.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported jwt.algorithm: %q", cfg.JWT.Algorithm)
	}

	switch cfg.Database.Driver {
	case "sqlite":
		dbDir := filepath.Dir(cfg.Database.Path)
		if _, err := os.Stat(dbDir); os.IsNotExist(err) {
			if err := os.MkdirAll(dbDir, 0o755); err != nil {
				return fmt.Errorf("create database directory: %w", err)
			}
		}
	case "postgres":
		if cfg.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}

	switch cfg.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported session backend: %q", cfg.Session.Backend)
	}

	if cfg.Session.TTLMinutes < 0 {
		return fmt.Errorf("session.ttl_minutes must be positive")
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Config {
	return globalConfig
}
