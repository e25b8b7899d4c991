package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Payment    PaymentConfig    `yaml:"payment"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Log        LogConfig        `yaml:"log"`
	Settlement SettlementConfig `yaml:"settlement"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// PaymentConfig contains the payment provider credentials
type PaymentConfig struct {
	OmisePublicKey string `yaml:"omise_public_key"`
	OmiseSecretKey string `yaml:"omise_secret_key"`
	Currency       string `yaml:"currency"`
}

// SMTPConfig contains email notification settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SettlementConfig contains the time gates of the settlement pipeline
type SettlementConfig struct {
	ExpireTimedAfterDays        int `yaml:"expire_timed_after_days"`
	ExpireNoTimeAfterDays       int `yaml:"expire_no_time_after_days"`
	TransferAssessmentDelayDays int `yaml:"transfer_assessment_delay_days"`
}

// SchedulerConfig contains cron expressions for the settlement workers
type SchedulerConfig struct {
	ExpireBookings           string `yaml:"expire_bookings"`
	CapturePayments          string `yaml:"capture_payments"`
	TransferPayments         string `yaml:"transfer_payments"`
	ReverseCancelledPayments string `yaml:"reverse_cancelled_payments"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Payment provider
	if val := os.Getenv("OMISE_PUBLIC_KEY"); val != "" {
		c.Payment.OmisePublicKey = val
	}
	if val := os.Getenv("OMISE_SECRET_KEY"); val != "" {
		c.Payment.OmiseSecretKey = val
	}

	// SMTP
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.SMTP.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.SMTP.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.SMTP.Password = val
	}
	if val := os.Getenv("SMTP_FROM"); val != "" {
		c.SMTP.From = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Payment provider validation
	if c.Payment.OmiseSecretKey == "" {
		return fmt.Errorf("omise secret key is required")
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = "thb"
	}

	// SMTP validation
	if c.SMTP.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTP.Port)
	}

	// Settlement defaults match the product rules: expire timed bookings
	// 3 days past their start, no-time bookings 7 days past creation, and
	// hold transfers until the input assessment is 2 days old.
	if c.Settlement.ExpireTimedAfterDays == 0 {
		c.Settlement.ExpireTimedAfterDays = 3
	}
	if c.Settlement.ExpireNoTimeAfterDays == 0 {
		c.Settlement.ExpireNoTimeAfterDays = 7
	}
	if c.Settlement.TransferAssessmentDelayDays == 0 {
		c.Settlement.TransferAssessmentDelayDays = 2
	}

	// Scheduler defaults (cron with seconds, UTC)
	if c.Scheduler.ExpireBookings == "" {
		c.Scheduler.ExpireBookings = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.CapturePayments == "" {
		c.Scheduler.CapturePayments = "0 */15 * * * *" // every 15 minutes
	}
	if c.Scheduler.TransferPayments == "" {
		c.Scheduler.TransferPayments = "0 30 * * * *" // hourly at :30
	}
	if c.Scheduler.ReverseCancelledPayments == "" {
		c.Scheduler.ReverseCancelledPayments = "0 0 * * * *" // hourly
	}

	return nil
}

// GetDatabaseConnectionString returns the PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password,
		c.Database.Database, sslMode)
}
