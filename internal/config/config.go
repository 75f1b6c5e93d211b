package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Log          LogConfig          `yaml:"log"`
	Payment      PaymentConfig      `yaml:"payment"`
	Notification NotificationConfig `yaml:"notification"`
	JWT          JWTConfig          `yaml:"jwt"`
	Staff        []StaffConfig      `yaml:"staff"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
	Seed         SeedConfig         `yaml:"seed"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig selects the storage backend. The memory driver keeps
// everything in process and needs no other settings.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	Migrate  bool   `yaml:"migrate"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// PaymentConfig selects the payment gateway. Only the mock gateway exists.
type PaymentConfig struct {
	Provider string `yaml:"provider"`
}

const (
	ChannelLog      = "log"
	ChannelSMTP     = "smtp"
	ChannelSendGrid = "sendgrid"
	ChannelAMQP     = "amqp"
)

type NotificationConfig struct {
	Channel  string         `yaml:"channel"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	SendGrid SendGridConfig `yaml:"sendgrid"`
	AMQP     AMQPConfig     `yaml:"amqp"`
}

// SMTPConfig contains email service settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

type AMQPConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	VirtualHost string `yaml:"virtual_host"`
	Exchange    string `yaml:"exchange"`
}

// JWTConfig contains staff token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// StaffConfig is a front-desk account allowed to check guests in and out.
type StaffConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
	Role         string `yaml:"role"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SendCheckInReminders string `yaml:"send_check_in_reminders"`
}

type SeedConfig struct {
	Rooms bool `yaml:"rooms"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a configuration from YAML, applies environment overrides and validates it.
func Parse(data []byte) (*Config, error) {
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
	if val := os.Getenv("DB_DRIVER"); val != "" {
		c.Database.Driver = val
	}
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

	// Notification
	if val := os.Getenv("NOTIFICATION_CHANNEL"); val != "" {
		c.Notification.Channel = val
	}
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.Notification.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Notification.SMTP.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.Notification.SMTP.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.Notification.SMTP.Password = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Notification.SendGrid.APIKey = val
	}
	if val := os.Getenv("AMQP_HOST"); val != "" {
		c.Notification.AMQP.Host = val
	}
	if val := os.Getenv("AMQP_PASSWORD"); val != "" {
		c.Notification.AMQP.Password = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
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

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = 10
	}

	// Database
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMemory
	}
	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	// Payment
	if c.Payment.Provider == "" {
		c.Payment.Provider = "mock"
	}
	if c.Payment.Provider != "mock" {
		return fmt.Errorf("unsupported payment provider: %s", c.Payment.Provider)
	}

	// Notification
	if err := c.Notification.validate(); err != nil {
		return err
	}

	// JWT
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Staff
	for i, s := range c.Staff {
		if s.Username == "" || s.PasswordHash == "" {
			return fmt.Errorf("staff[%d]: username and password_hash are required", i)
		}
		if s.Role == "" {
			c.Staff[i].Role = "staff"
		}
	}

	// Scheduler
	if c.Scheduler.SendCheckInReminders == "" {
		c.Scheduler.SendCheckInReminders = "0 0 9 * * *" // Daily at 9 AM
	}

	return nil
}

func (n *NotificationConfig) validate() error {
	n.Channel = strings.ToLower(n.Channel)
	if n.Channel == "" {
		n.Channel = ChannelLog
	}
	switch n.Channel {
	case ChannelLog:
	case ChannelSMTP:
		if n.SMTP.Host == "" {
			return fmt.Errorf("SMTP host is required")
		}
		if n.SMTP.Port <= 0 || n.SMTP.Port > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", n.SMTP.Port)
		}
		if n.SMTP.From == "" {
			return fmt.Errorf("SMTP from address is required")
		}
	case ChannelSendGrid:
		if n.SendGrid.APIKey == "" {
			return fmt.Errorf("SendGrid API key is required")
		}
		if n.SendGrid.FromEmail == "" {
			return fmt.Errorf("SendGrid from email is required")
		}
		if n.SendGrid.FromName == "" {
			n.SendGrid.FromName = "Crown Hotels"
		}
	case ChannelAMQP:
		if n.AMQP.Exchange == "" {
			n.AMQP.Exchange = "hotel.notifications"
		}
	default:
		return fmt.Errorf("unsupported notification channel: %s", n.Channel)
	}
	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}
