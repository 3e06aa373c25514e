package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
	Sales       SalesConfig
	Idempotency IdempotencyConfig
	Printer     PrinterConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	SeedDemo bool
}

type DatabaseConfig struct {
	Host          string
	Port          string
	Name          string
	User          string
	Password      string
	SSLMode       string
	Timezone      string
	MaxIdleConns  int
	MaxOpenConns  int
	LogLevel      string
	SlowThreshold time.Duration
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
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

// LogConfig controls the zap logger
type LogConfig struct {
	Level    string // debug, info, warn, error
	Format   string // console, json
	Output   string // stdout, file
	FilePath string
}

// SalesConfig holds the store policies applied by the sale services
type SalesConfig struct {
	ReturnWindowDays       int
	ParkedCartExpiryMinute int
}

// ReturnWindow is the restricted-return window, never shorter than a day
func (c SalesConfig) ReturnWindow() time.Duration {
	days := c.ReturnWindowDays
	if days < 1 {
		days = 1
	}
	return time.Duration(days) * 24 * time.Hour
}

// ParkedCartExpiry is how long a parked cart may wait, never shorter than a minute
func (c SalesConfig) ParkedCartExpiry() time.Duration {
	minutes := c.ParkedCartExpiryMinute
	if minutes < 1 {
		minutes = 1
	}
	return time.Duration(minutes) * time.Minute
}

type IdempotencyConfig struct {
	TTL           time.Duration
	PurgeInterval time.Duration
}

// PrinterConfig addresses the receipt printer. Type is usb, network or none.
type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
	Width   int
	Footer  string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("APP_PORT"),
			Debug:    viper.GetBool("APP_DEBUG"),
			SeedDemo: viper.GetBool("SEED_DEMO_DATA"),
		},
		Database: DatabaseConfig{
			Host:          viper.GetString("DB_HOST"),
			Port:          viper.GetString("DB_PORT"),
			Name:          viper.GetString("DB_NAME"),
			User:          viper.GetString("DB_USER"),
			Password:      viper.GetString("DB_PASSWORD"),
			SSLMode:       viper.GetString("DB_SSL_MODE"),
			Timezone:      viper.GetString("DB_TIMEZONE"),
			MaxIdleConns:  viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns:  viper.GetInt("DB_MAX_OPEN_CONNS"),
			LogLevel:      viper.GetString("DB_LOG_LEVEL"),
			SlowThreshold: time.Duration(viper.GetInt("DB_SLOW_THRESHOLD_MS")) * time.Millisecond,
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level:    viper.GetString("LOG_LEVEL"),
			Format:   viper.GetString("LOG_FORMAT"),
			Output:   viper.GetString("LOG_OUTPUT"),
			FilePath: viper.GetString("LOG_FILE_PATH"),
		},
		Sales: SalesConfig{
			ReturnWindowDays:       viper.GetInt("SALES_RETURN_WINDOW_DAYS"),
			ParkedCartExpiryMinute: viper.GetInt("SALES_PARKED_CART_EXPIRY_MINUTES"),
		},
		Idempotency: IdempotencyConfig{
			TTL:           time.Duration(viper.GetInt("IDEMPOTENCY_TTL_HOURS")) * time.Hour,
			PurgeInterval: time.Duration(viper.GetInt("IDEMPOTENCY_PURGE_INTERVAL_MINUTES")) * time.Minute,
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
			Width:   viper.GetInt("PRINTER_WIDTH"),
			Footer:  viper.GetString("PRINTER_FOOTER"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "pos-engine")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("SEED_DEMO_DATA", false)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "pos_engine")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Africa/Nairobi")
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 100)
	viper.SetDefault("DB_LOG_LEVEL", "warn")
	viper.SetDefault("DB_SLOW_THRESHOLD_MS", 200)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("LOG_FILE_PATH", "./logs/pos-engine.log")
	viper.SetDefault("SALES_RETURN_WINDOW_DAYS", 30)
	viper.SetDefault("SALES_PARKED_CART_EXPIRY_MINUTES", 30)
	viper.SetDefault("IDEMPOTENCY_TTL_HOURS", 24)
	viper.SetDefault("IDEMPOTENCY_PURGE_INTERVAL_MINUTES", 60)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_WIDTH", 32)
	viper.SetDefault("PRINTER_FOOTER", "Thank you for shopping with us")
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
