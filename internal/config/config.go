package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/oztunc/lesson-planner/internal/domain"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string `mapstructure:"SERVER_PORT"`
	Host         string `mapstructure:"SERVER_HOST"`
	Env          string `mapstructure:"ENV"`
	ReadTimeout  string `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"DATABASE_URL"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	Enabled  bool   `mapstructure:"REDIS_ENABLED"`
}

type SchedulerConfig struct {
	DelinquencySpec string `mapstructure:"SCHEDULER_DELINQUENCY_SPEC"`
	DigestSpec      string `mapstructure:"SCHEDULER_DIGEST_SPEC"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	WorkStart         string `mapstructure:"WORK_START"`
	WorkEnd           string `mapstructure:"WORK_END"`
	DefaultPaymentDay int    `mapstructure:"DEFAULT_PAYMENT_DAY"`
	CacheTTL          string `mapstructure:"CACHE_TTL"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Optional .env file; real environments set variables directly
	_ = godotenv.Load()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_ENABLED", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("WORK_START", "08:00")
	viper.SetDefault("WORK_END", "22:00")
	viper.SetDefault("DEFAULT_PAYMENT_DAY", 1)
	viper.SetDefault("CACHE_TTL", "60s")
	// Delinquency scan every morning, weekly digest on Monday
	viper.SetDefault("SCHEDULER_DELINQUENCY_SPEC", "0 0 8 * * *")
	viper.SetDefault("SCHEDULER_DIGEST_SPEC", "0 0 9 * * MON")

	// Read from environment variables
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if _, err := time.ParseDuration(c.Server.ReadTimeout); err != nil {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Server.WriteTimeout); err != nil {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Business.CacheTTL); err != nil {
		return fmt.Errorf("CACHE_TTL must be a valid duration: %w", err)
	}

	if c.Business.DefaultPaymentDay < 1 || c.Business.DefaultPaymentDay > 31 {
		return fmt.Errorf("DEFAULT_PAYMENT_DAY must be between 1 and 31")
	}

	hours, err := c.workingHours()
	if err != nil {
		return err
	}
	if err := hours.Validate(); err != nil {
		return fmt.Errorf("working hours: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetReadTimeout returns the server read timeout as duration
func (c *Config) GetReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ReadTimeout)
	return d
}

// GetWriteTimeout returns the server write timeout as duration
func (c *Config) GetWriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.WriteTimeout)
	return d
}

// GetCacheTTL returns the cache entry lifetime as duration
func (c *Config) GetCacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.Business.CacheTTL)
	return d
}

// GetWorkingHours returns the configured default working-hours window.
// Only valid after Validate has passed.
func (c *Config) GetWorkingHours() domain.WorkingHours {
	hours, _ := c.workingHours()
	return hours
}

func (c *Config) workingHours() (domain.WorkingHours, error) {
	start, err := domain.ParseTimeOfDay(c.Business.WorkStart)
	if err != nil {
		return domain.WorkingHours{}, fmt.Errorf("WORK_START: %w", err)
	}
	end, err := domain.ParseTimeOfDay(c.Business.WorkEnd)
	if err != nil {
		return domain.WorkingHours{}, fmt.Errorf("WORK_END: %w", err)
	}
	return domain.WorkingHours{Start: start, End: end}, nil
}
