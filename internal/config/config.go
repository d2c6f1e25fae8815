// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Supplier    SupplierConfig
	Uploads     UploadsConfig
	AWS         AWSConfig
	Payment     PaymentConfig
	Email       EmailConfig
	Shipping    ShippingConfig
	Sync        SyncConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	ReadTimeout    int
	WriteTimeout   int
	IdleTimeout    int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  int // in hours
	RefreshTokenTTL int // in hours
}

// SupplierConfig holds S&S Activewear API credentials. The API uses HTTP
// Basic auth with account number as username and API key as password.
type SupplierConfig struct {
	APIURL         string
	AccountNumber  string
	APIKey         string
	Brand          string
	TimeoutSeconds int
}

// UploadsConfig points at the two mockup search roots: the app-managed
// uploads directory (preferred) and the bulk-upload directory.
type UploadsConfig struct {
	MockupDir     string
	BulkMockupDir string
	DesignDir     string
	MaxUploadMB   int
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

type PaymentConfig struct {
	StripeSecretKey      string
	StripePublishableKey string
	StripeWebhookSecret  string
	PayPalClientID       string
	PayPalClientSecret   string
	PayPalMode           string
}

type EmailConfig struct {
	SMTPHost          string
	SMTPPort          string
	SMTPUsername      string
	SMTPPassword      string
	FromEmail         string
	FromName          string
	AdminEmail        string
	AdminPhone        string
	AdminPhoneCarrier string
}

type ShippingConfig struct {
	FlatRate float64
}

type SyncConfig struct {
	Enabled  bool
	Schedule string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			AllowedOrigins: strings.Split(
				getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "apparel_shop"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET", "dev-secret-key-change-in-production"),
			AccessTokenTTL:  getEnvAsInt("JWT_ACCESS_TTL", 24),
			RefreshTokenTTL: getEnvAsInt("JWT_REFRESH_TTL", 168),
		},
		Supplier: SupplierConfig{
			APIURL:         strings.TrimRight(getEnv("SSACTIVEWEAR_API_URL", "https://api.ssactivewear.com"), "/"),
			AccountNumber:  strings.TrimSpace(getEnv("SSACTIVEWEAR_ACCOUNT_NUMBER", "")),
			APIKey:         strings.TrimSpace(getEnv("SSACTIVEWEAR_API_KEY", "")),
			Brand:          getEnv("SUPPLIER_BRAND", "Bella+Canvas"),
			TimeoutSeconds: getEnvAsInt("SUPPLIER_TIMEOUT_SECONDS", 60),
		},
		Uploads: UploadsConfig{
			MockupDir:     getEnv("MOCKUP_DIR", "./static/uploads/mockups"),
			BulkMockupDir: getEnv("BULK_MOCKUP_DIR", "./uploads/mockups"),
			DesignDir:     getEnv("DESIGN_DIR", "./static/uploads/designs"),
			MaxUploadMB:   getEnvAsInt("MAX_UPLOAD_MB", 16),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "pmkc-shop-assets"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Payment: PaymentConfig{
			StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			StripeWebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
			PayPalClientID:       getEnv("PAYPAL_CLIENT_ID", ""),
			PayPalClientSecret:   getEnv("PAYPAL_CLIENT_SECRET", ""),
			PayPalMode:           getEnv("PAYPAL_MODE", "sandbox"),
		},
		Email: EmailConfig{
			SMTPHost:          getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:          getEnv("SMTP_PORT", "587"),
			SMTPUsername:      getEnv("SMTP_USERNAME", ""),
			SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
			FromEmail:         getEnv("FROM_EMAIL", "noreply@purposefullymadekc.com"),
			FromName:          getEnv("FROM_NAME", "Purposefully Made KC"),
			AdminEmail:        getEnv("ADMIN_EMAIL", ""),
			AdminPhone:        getEnv("ADMIN_PHONE", ""),
			AdminPhoneCarrier: strings.ToLower(getEnv("ADMIN_PHONE_CARRIER", "")),
		},
		Shipping: ShippingConfig{
			FlatRate: getEnvAsFloat("SHIPPING_FLAT_RATE", 11.00),
		},
		Sync: SyncConfig{
			Enabled:  getEnvAsBool("INVENTORY_SYNC_ENABLED", false),
			Schedule: getEnv("INVENTORY_SYNC_SCHEDULE", "0 0 3 * * *"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "dev-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Sync.Enabled && !c.Supplier.Configured() {
		return fmt.Errorf("inventory sync requires SSACTIVEWEAR_ACCOUNT_NUMBER and SSACTIVEWEAR_API_KEY")
	}

	return nil
}

// Configured reports whether supplier credentials are present.
func (s SupplierConfig) Configured() bool {
	return s.AccountNumber != "" && s.APIKey != ""
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
