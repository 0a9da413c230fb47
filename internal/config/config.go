// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"-"` // SERVER_TIMEOUT_SECONDS

	// Database Configuration
	DBDriver          string        `mapstructure:"DB_DRIVER"` // "sqlite" or "postgres"
	DBPath            string        `mapstructure:"DB_PATH"`   // sqlite file
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"-"` // DB_CONN_MAX_LIFETIME_MINUTES

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Session / UI state
	LoginDelay       time.Duration `mapstructure:"-"` // LOGIN_DELAY_MS
	UIStateGrace     time.Duration `mapstructure:"-"` // UI_STATE_GRACE_SECONDS
	SessionWSBuffer  int           `mapstructure:"SESSION_WS_BUFFER"`
	LoginMaxAttempts int           `mapstructure:"LOGIN_MAX_ATTEMPTS"` // 0 disables lockout
	LoginLockout     time.Duration `mapstructure:"-"`                  // LOGIN_LOCKOUT_SECONDS

	// Audio records
	RecordingsPath             string `mapstructure:"RECORDINGS_PATH"`
	MaxRecordingSizeMB         int    `mapstructure:"MAX_RECORDING_SIZE_MB"`
	RecordRetentionDays        int    `mapstructure:"RECORD_RETENTION_DAYS"`
	RecordRetentionJobSchedule string `mapstructure:"RECORD_RETENTION_JOB_SCHEDULE"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.LoginDelay = time.Duration(v.GetInt("LOGIN_DELAY_MS")) * time.Millisecond
	cfg.UIStateGrace = time.Duration(v.GetInt("UI_STATE_GRACE_SECONDS")) * time.Second
	cfg.LoginLockout = time.Duration(v.GetInt("LOGIN_LOCKOUT_SECONDS")) * time.Second

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", "medical_assistant.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "medical_assistant_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("LOGIN_DELAY_MS", 2000)
	v.SetDefault("UI_STATE_GRACE_SECONDS", 5)
	v.SetDefault("SESSION_WS_BUFFER", 16)
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 0) // lockout is opt-in
	v.SetDefault("LOGIN_LOCKOUT_SECONDS", 300)

	v.SetDefault("RECORDINGS_PATH", "./recordings")
	v.SetDefault("MAX_RECORDING_SIZE_MB", 25)
	v.SetDefault("RECORD_RETENTION_DAYS", 0) // 0 keeps records forever
	v.SetDefault("RECORD_RETENTION_JOB_SCHEDULE", "@daily")
}

func (c *Config) validate() error {
	switch strings.ToLower(c.DBDriver) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", c.DBDriver)
	}
	if strings.EqualFold(c.DBDriver, "sqlite") && strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH is required when DB_DRIVER is sqlite")
	}
	if c.LoginDelay < 0 {
		return fmt.Errorf("LOGIN_DELAY_MS must not be negative")
	}
	if c.UIStateGrace < 0 {
		return fmt.Errorf("UI_STATE_GRACE_SECONDS must not be negative")
	}
	if c.LoginMaxAttempts < 0 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must not be negative")
	}
	if c.LoginMaxAttempts > 0 && c.LoginLockout <= 0 {
		return fmt.Errorf("LOGIN_LOCKOUT_SECONDS must be positive when LOGIN_MAX_ATTEMPTS is set")
	}
	if c.RecordRetentionDays < 0 {
		return fmt.Errorf("RECORD_RETENTION_DAYS must not be negative")
	}
	return nil
}

// PostgresDSN builds the GORM DSN from the individual DB_* parameters.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.DBTimezone)
}
