package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	// BILL_TIMEZONE must resolve on hosts without a zoneinfo database
	_ "time/tzdata"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
	Billing     BillingConfig
	Printer     PrinterConfig
	Store       StoreConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Idempotency IdempotencyConfig
}

type AppConfig struct {
	Name            string
	Env             string
	Port            string
	Debug           bool
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	// Path is the database file used by the sqlite driver.
	Path         string
	MaxIdleConns int
	MaxOpenConns int
	SeedDemo     bool
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LogConfig struct {
	Level      string
	Format     string
	Output     string
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

type BillingConfig struct {
	TaxRate               decimal.Decimal
	Location              *time.Location
	MaxAllocationAttempts int
}

type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
	Width   int
}

// StoreConfig holds the receipt header details.
type StoreConfig struct {
	Name    string
	Phone   string
	Address string
	Footer  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a redis address was configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type KafkaConfig struct {
	Brokers      []string
	BillsTopic   string
	PollInterval time.Duration
	BatchSize    int
}

// Enabled reports whether sale events should be written and published.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type IdempotencyConfig struct {
	TTL           time.Duration
	PurgeInterval time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		slog.Warn(".env file not found, using environment variables", "error", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "outlet-pos")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "5000")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_SHUTDOWN_TIMEOUT_SECONDS", 10)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "outlet_pos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Colombo")
	viper.SetDefault("DB_PATH", "./data/outlet-pos.db")
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 100)
	viper.SetDefault("DB_SEED_DEMO", false)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", "")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("LOG_FILE_PATH", "logs/outlet-pos.log")
	viper.SetDefault("LOG_MAX_SIZE_MB", 100)
	viper.SetDefault("LOG_MAX_BACKUPS", 10)
	viper.SetDefault("LOG_MAX_AGE_DAYS", 30)
	viper.SetDefault("LOG_COMPRESS", true)
	viper.SetDefault("BILL_TAX_RATE", "0.10")
	viper.SetDefault("BILL_TIMEZONE", "Local")
	viper.SetDefault("BILL_MAX_ALLOCATION_ATTEMPTS", 3)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_WIDTH", 32)
	viper.SetDefault("STORE_NAME", "Cycle Mart")
	viper.SetDefault("STORE_PHONE", "")
	viper.SetDefault("STORE_ADDRESS", "")
	viper.SetDefault("STORE_FOOTER", "Thank you for your business!")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_TTL_SECONDS", 300)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_BILLS_TOPIC", "pos.bills")
	viper.SetDefault("KAFKA_POLL_INTERVAL_SECONDS", 5)
	viper.SetDefault("KAFKA_BATCH_SIZE", 50)
	viper.SetDefault("IDEMPOTENCY_TTL_HOURS", 24)
	viper.SetDefault("IDEMPOTENCY_PURGE_INTERVAL_MINUTES", 60)

	taxRate, err := decimal.NewFromString(viper.GetString("BILL_TAX_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid BILL_TAX_RATE: %w", err)
	}
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("BILL_TAX_RATE must not be negative")
	}

	loc, err := time.LoadLocation(viper.GetString("BILL_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid BILL_TIMEZONE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:            viper.GetString("APP_NAME"),
			Env:             viper.GetString("APP_ENV"),
			Port:            viper.GetString("APP_PORT"),
			Debug:           viper.GetBool("APP_DEBUG"),
			ShutdownTimeout: time.Duration(viper.GetInt("APP_SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			Name:         viper.GetString("DB_NAME"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASSWORD"),
			SSLMode:      viper.GetString("DB_SSL_MODE"),
			Timezone:     viper.GetString("DB_TIMEZONE"),
			Path:         viper.GetString("DB_PATH"),
			MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
			SeedDemo:     viper.GetBool("DB_SEED_DEMO"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(viper.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(viper.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level:      viper.GetString("LOG_LEVEL"),
			Format:     viper.GetString("LOG_FORMAT"),
			Output:     viper.GetString("LOG_OUTPUT"),
			FilePath:   viper.GetString("LOG_FILE_PATH"),
			MaxSize:    viper.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: viper.GetInt("LOG_MAX_BACKUPS"),
			MaxAge:     viper.GetInt("LOG_MAX_AGE_DAYS"),
			Compress:   viper.GetBool("LOG_COMPRESS"),
		},
		Billing: BillingConfig{
			TaxRate:               taxRate,
			Location:              loc,
			MaxAllocationAttempts: viper.GetInt("BILL_MAX_ALLOCATION_ATTEMPTS"),
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
			Width:   viper.GetInt("PRINTER_WIDTH"),
		},
		Store: StoreConfig{
			Name:    viper.GetString("STORE_NAME"),
			Phone:   viper.GetString("STORE_PHONE"),
			Address: viper.GetString("STORE_ADDRESS"),
			Footer:  viper.GetString("STORE_FOOTER"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      time.Duration(viper.GetInt("REDIS_TTL_SECONDS")) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(viper.GetString("KAFKA_BROKERS")),
			BillsTopic:   viper.GetString("KAFKA_BILLS_TOPIC"),
			PollInterval: time.Duration(viper.GetInt("KAFKA_POLL_INTERVAL_SECONDS")) * time.Second,
			BatchSize:    viper.GetInt("KAFKA_BATCH_SIZE"),
		},
		Idempotency: IdempotencyConfig{
			TTL:           time.Duration(viper.GetInt("IDEMPOTENCY_TTL_HOURS")) * time.Hour,
			PurgeInterval: time.Duration(viper.GetInt("IDEMPOTENCY_PURGE_INTERVAL_MINUTES")) * time.Minute,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values viper cannot type-check on its own.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Billing.MaxAllocationAttempts < 1 {
		return fmt.Errorf("BILL_MAX_ALLOCATION_ATTEMPTS must be at least 1")
	}
	if c.Printer.Width < 24 {
		return fmt.Errorf("PRINTER_WIDTH must be at least 24")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = c.Host + ":" + c.Port
		mc.DBName = c.Name
		mc.ParseTime = true
		// report matched rows so conditional updates behave the same as on postgres
		mc.ClientFoundRows = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		if loc, err := time.LoadLocation(c.Timezone); err == nil {
			mc.Loc = loc
		}
		return mc.FormatDSN()
	case "sqlite":
		return c.Path
	default:
		return "host=" + c.Host +
			" user=" + c.User +
			" password=" + c.Password +
			" dbname=" + c.Name +
			" port=" + c.Port +
			" sslmode=" + c.SSLMode +
			" TimeZone=" + c.Timezone
	}
}

// splitList reads a comma separated env value.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
