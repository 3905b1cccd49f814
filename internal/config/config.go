package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the application configuration, read from the environment.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Booking  BookingConfig
	Mail     MailConfig
	Metrics  MetricsConfig
}

type AppConfig struct {
	Env            string
	MigrationsPath string
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig describes the PostgreSQL connection. URL, when set, wins
// over the individual fields.
type DatabaseConfig struct {
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig describes the optional Redis used for locks and the availability cache.
type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

// BookingConfig tunes the per-property lock and the availability cache.
type BookingConfig struct {
	LockTTL        time.Duration
	LockRetries    int
	LockRetryDelay time.Duration
	CacheTTL       time.Duration
}

// MailConfig configures confirmation mail. An empty SMTPHost logs instead of sending.
type MailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	From         string
	FromName     string
	QueueSize    int
}

// MetricsConfig protects /metrics with basic auth when both fields are set.
type MetricsConfig struct {
	User     string
	Password string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		App: AppConfig{
			Env:            getEnv("APP_ENV", "development"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			DBName:       getEnv("DB_NAME", "property_booking"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", true),
			URL:      os.Getenv("REDIS_URL"),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Booking: BookingConfig{
			LockTTL:        getDurationEnv("BOOKING_LOCK_TTL", 10*time.Second),
			LockRetries:    getIntEnv("BOOKING_LOCK_RETRIES", 3),
			LockRetryDelay: getDurationEnv("BOOKING_LOCK_RETRY_DELAY", 100*time.Millisecond),
			CacheTTL:       getDurationEnv("AVAILABILITY_CACHE_TTL", 5*time.Minute),
		},
		Mail: MailConfig{
			SMTPHost:     os.Getenv("SMTP_HOST"),
			SMTPPort:     getIntEnv("SMTP_PORT", 587),
			SMTPUser:     os.Getenv("SMTP_USERNAME"),
			SMTPPassword: os.Getenv("SMTP_PASSWORD"),
			From:         getEnv("MAIL_FROM", "bookings@localhost"),
			FromName:     getEnv("MAIL_FROM_NAME", "Property Booking"),
			QueueSize:    getIntEnv("MAIL_QUEUE_SIZE", 100),
		},
		Metrics: MetricsConfig{
			User:     os.Getenv("METRICS_USER"),
			Password: os.Getenv("METRICS_PASSWORD"),
		},
	}
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr returns the Redis host:port.
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// SMTPEnabled reports whether confirmation mail goes out over SMTP.
func (c *MailConfig) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// IsEnabled reports whether /metrics requires basic auth.
func (c *MetricsConfig) IsEnabled() bool {
	return c.User != "" && c.Password != ""
}

// IsProduction reports whether the app runs with production settings.
func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
