package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "dev-secret-change-me"

type Config struct {
	App struct {
		ENV string
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		Driver   string
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		LogSQL   bool
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	HTTP struct {
		Host            string
		Port            string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}

	GRPC struct {
		Host string
		Port string
	}

	Auth struct {
		JWTSecret  string
		TokenTTL   time.Duration
		BcryptCost int
	}

	CORS struct {
		AllowOrigins []string
	}

	RateLimit struct {
		RPS           float64
		Burst         int
		LoginAttempts int64
		LoginWindow   time.Duration
	}
}

// New loads configuration from defaults, an optional .env file and the environment.
// Environment variables always win over the file.
func New() *Config {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // the file is optional

	v.AutomaticEnv()

	cfg := &Config{}
	cfg.App.ENV = v.GetString("APP_ENV")

	// Logger
	cfg.Log.Level = v.GetString("LOG_LEVEL")
	cfg.Log.Format = v.GetString("LOG_FORMAT")
	cfg.Log.Component = v.GetString("LOG_COMPONENT")
	cfg.Log.Source = v.GetBool("LOG_SOURCE")

	// Database
	cfg.DB.Driver = strings.ToLower(v.GetString("DB_DRIVER"))
	cfg.DB.DSN = strings.TrimSpace(v.GetString("DB_DSN"))
	cfg.DB.Host = v.GetString("DB_HOST")
	cfg.DB.Port = v.GetString("DB_PORT")
	cfg.DB.User = v.GetString("DB_USER")
	cfg.DB.Password = v.GetString("DB_PASSWORD")
	cfg.DB.Name = v.GetString("DB_NAME")
	cfg.DB.LogSQL = v.GetBool("DB_LOG_SQL")
	if cfg.DB.DSN == "" {
		cfg.DB.DSN = cfg.buildDSN()
	}

	// Redis
	cfg.Redis.Addr = v.GetString("REDIS_ADDR")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")

	// HTTP
	cfg.HTTP.Host = v.GetString("HTTP_HOST")
	cfg.HTTP.Port = v.GetString("HTTP_PORT")
	cfg.HTTP.ReadTimeout = v.GetDuration("HTTP_READ_TIMEOUT")
	cfg.HTTP.WriteTimeout = v.GetDuration("HTTP_WRITE_TIMEOUT")
	cfg.HTTP.ShutdownTimeout = v.GetDuration("HTTP_SHUTDOWN_TIMEOUT")

	// gRPC
	cfg.GRPC.Host = v.GetString("GRPC_HOST")
	cfg.GRPC.Port = v.GetString("GRPC_PORT")

	// Auth
	cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	cfg.Auth.TokenTTL = v.GetDuration("JWT_TTL")
	cfg.Auth.BcryptCost = v.GetInt("BCRYPT_COST")

	// CORS
	cfg.CORS.AllowOrigins = splitList(v.GetString("CORS_ALLOW_ORIGINS"))

	// Rate limiting
	cfg.RateLimit.RPS = v.GetFloat64("RATE_LIMIT_RPS")
	cfg.RateLimit.Burst = v.GetInt("RATE_LIMIT_BURST")
	cfg.RateLimit.LoginAttempts = v.GetInt64("LOGIN_MAX_ATTEMPTS")
	cfg.RateLimit.LoginWindow = v.GetDuration("LOGIN_WINDOW")

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_COMPONENT", "api")
	v.SetDefault("LOG_SOURCE", false)

	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "root")
	v.SetDefault("DB_NAME", "swipe")
	v.SetDefault("DB_LOG_SQL", false)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("HTTP_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)

	v.SetDefault("GRPC_HOST", "127.0.0.1")
	v.SetDefault("GRPC_PORT", "50051")

	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", 7*24*time.Hour)
	v.SetDefault("BCRYPT_COST", 10)

	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")

	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 5)
	v.SetDefault("LOGIN_WINDOW", 15*time.Minute)
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.App.ENV != "development" && c.Auth.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set outside development")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

func (c *Config) buildDSN() string {
	switch c.DB.Driver {
	case "postgres":
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name,
		)
	case "sqlite":
		return c.DB.Name + ".db"
	default:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name,
		)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
