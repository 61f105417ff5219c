package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the API server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// RedisURL is the connection string for Redis (cart storage and job queues).
	RedisURL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379"`

	// JWTSecret signs the bearer tokens issued on register/login.
	JWTSecret string `mapstructure:"JWT_SECRET" required:"true"`
	// EncryptionKey protects provider credentials stored in the settings table.
	EncryptionKey string `mapstructure:"ENCRYPTION_KEY" required:"true"`

	// Database holds the Postgres configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// Payment holds the payment gateway credentials.
	Payment PaymentConfig `mapstructure:",squash"`

	// Providers holds the fulfillment provider credentials.
	Providers ProvidersConfig `mapstructure:",squash"`

	// Analytics holds the Google Analytics Measurement Protocol credentials.
	Analytics AnalyticsConfig `mapstructure:",squash"`
}

// DatabaseConfig holds Postgres connection details.
type DatabaseConfig struct {
	// Host is the database server hostname.
	Host string `mapstructure:"DB_HOST" default:"localhost"`
	// Port is the database connection port.
	Port int `mapstructure:"DB_PORT" default:"5432"`
	// User is the database role used by the application.
	User string `mapstructure:"DB_USER" default:"podstore"`
	// Password is the database password.
	Password string `mapstructure:"DB_PASSWORD"`
	// Name is the database name.
	Name string `mapstructure:"DB_NAME" default:"podstore"`
	// SSLMode is the lib/pq sslmode parameter.
	SSLMode string `mapstructure:"DB_SSLMODE" default:"disable"`
}

// PaymentConfig holds the Razorpay gateway credentials.
type PaymentConfig struct {
	// BaseURL is the gateway API base URL.
	BaseURL string `mapstructure:"RAZORPAY_BASE_URL" default:"https://api.razorpay.com/v1"`
	// KeyID is the public key identifier sent to the storefront client.
	KeyID string `mapstructure:"RAZORPAY_KEY_ID" required:"true"`
	// KeySecret signs payment verification HMACs and authenticates API calls.
	KeySecret string `mapstructure:"RAZORPAY_KEY_SECRET" required:"true"`
	// WebhookSecret verifies inbound gateway webhook signatures.
	WebhookSecret string `mapstructure:"RAZORPAY_WEBHOOK_SECRET"`
}

// ProvidersConfig holds per-provider API and webhook credentials.
type ProvidersConfig struct {
	// PrintroveAPIKey authenticates against the Printrove API.
	PrintroveAPIKey string `mapstructure:"PRINTROVE_API_KEY"`
	// PrintroveWebhookSecret verifies inbound Printrove webhook signatures.
	PrintroveWebhookSecret string `mapstructure:"PRINTROVE_WEBHOOK_SECRET"`
	// PrintfulAPIKey authenticates against the Printful API.
	PrintfulAPIKey string `mapstructure:"PRINTFUL_API_KEY"`
	// PrintfulWebhookSecret verifies inbound Printful webhook signatures.
	PrintfulWebhookSecret string `mapstructure:"PRINTFUL_WEBHOOK_SECRET"`
	// PrintifyAPIKey authenticates against the Printify API.
	PrintifyAPIKey string `mapstructure:"PRINTIFY_API_KEY"`
	// PrintifyShopID selects the Printify shop for catalog and order calls.
	PrintifyShopID string `mapstructure:"PRINTIFY_SHOP_ID"`
	// PrintifyWebhookSecret verifies inbound Printify webhook signatures.
	PrintifyWebhookSecret string `mapstructure:"PRINTIFY_WEBHOOK_SECRET"`
}

// AnalyticsConfig holds GA Measurement Protocol credentials. Leaving both
// values empty disables analytics.
type AnalyticsConfig struct {
	// MeasurementID is the GA4 measurement ID.
	MeasurementID string `mapstructure:"GA_MEASUREMENT_ID"`
	// APISecret is the Measurement Protocol API secret.
	APISecret string `mapstructure:"GA_API_SECRET"`
}

// DSN builds the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
