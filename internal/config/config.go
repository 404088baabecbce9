package config

import (
	"fmt"
	"time"
)

// Config application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis_service"`
	Session    SessionConfig    `mapstructure:"session"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Admin      AdminConfig      `mapstructure:"admin"`
	CORS       CORSConfig       `mapstructure:"cors"`
	LoginLimit LoginLimitConfig `mapstructure:"login_limit"`
	Log        LogConfig        `mapstructure:"log"`
	Prototype  PrototypeConfig  `mapstructure:"prototype"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	ProductionMode bool   `mapstructure:"production_mode"`
}

// GetAddress returns host:port
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig relational store settings
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // sqlite, postgres
	Path         string `mapstructure:"path"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	LogLevel     string `mapstructure:"log_level"` // silent, error, warn, info
}

// RedisConfig Redis settings
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
}

// GetAddress returns host:port
func (r *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SessionConfig server-side session settings
type SessionConfig struct {
	Backend    string `mapstructure:"backend"` // memory, redis
	CookieName string `mapstructure:"cookie_name"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
	Secure     bool   `mapstructure:"secure"`
	KeyPrefix  string `mapstructure:"key_prefix"`
}

// GetTTL returns the session lifetime
func (s *SessionConfig) GetTTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

// JWTConfig signing settings for session cookies
type JWTConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	Algorithm string `mapstructure:"algorithm"`
}

// AdminConfig bootstrap administrator account
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Email    string `mapstructure:"email"`
	Name     string `mapstructure:"name"`
}

// CORSConfig CORS settings
type CORSConfig struct {
	Origins          []string `mapstructure:"origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
}

// LoginLimitConfig failed-login throttling, only active with Redis
type LoginLimitConfig struct {
	MaxAttempts   int `mapstructure:"max_attempts"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

// GetWindow returns the counting window
func (l *LoginLimitConfig) GetWindow() time.Duration {
	return time.Duration(l.WindowSeconds) * time.Second
}

// LogConfig logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// PrototypeConfig settings for the standalone projects/tasks prototype
type PrototypeConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	DatabasePath string `mapstructure:"database_path"`
}

// GetAddress returns host:port
func (p *PrototypeConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}
