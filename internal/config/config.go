// Package config defines the configuration structure for the CropCura lending
// service. Configuration is loaded once at process initialization and is
// immutable thereafter.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> struct tag defaults (Lowest)
//
// Any missing required value or invalid format aborts startup.
package config

import (
	"time"

	"cropcura/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type used
// throughout configuration to prevent accidental logging of sensitive values.
type SecretString = types.SecretString

// Config is the top-level configuration struct for the CropCura service.
// Sub-components receive only the config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"cropcura-api"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Server   ServerConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Map      MapConfig
	Location LocationConfig
	Events   EventsConfig
	Metrics  MetricsConfig
	Seed     SeedConfig
	AWS      AWSConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string        `envconfig:"PORT" default:"8080"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	CorsAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	EnableCompression  bool          `envconfig:"ENABLE_COMPRESSION" default:"true"`
}

// AuthConfig holds the demo credential pair, the officer profile returned on
// login, and session lifetime.
type AuthConfig struct {
	DemoUsername string        `envconfig:"AUTH_DEMO_USERNAME" default:"demo_bank" validate:"required"`
	DemoPassword SecretString  `envconfig:"AUTH_DEMO_PASSWORD" default:"demo123" validate:"required"`
	LoginDelay   time.Duration `envconfig:"AUTH_LOGIN_DELAY" default:"800ms" validate:"gte=0"`
	SessionTTL   time.Duration `envconfig:"AUTH_SESSION_TTL" default:"24h" validate:"gt=0"`
	CookieName   string        `envconfig:"AUTH_COOKIE_NAME" default:"cropcura_session"`
	CookieSecure bool          `envconfig:"AUTH_COOKIE_SECURE" default:"false"`

	BankName    string `envconfig:"AUTH_BANK_NAME" default:"AgriFirst Bank"`
	LoanOfficer string `envconfig:"AUTH_LOAN_OFFICER" default:"Sarah Johnson"`
	Role        string `envconfig:"AUTH_ROLE" default:"Senior Loan Officer"`
}

// StorageConfig selects the session storage backend.
type StorageConfig struct {
	Backend string `envconfig:"STORAGE_BACKEND" default:"memory" validate:"oneof=memory postgres"`

	URL               SecretString  `envconfig:"DATABASE_URL" validate:"required_if=Backend postgres"`
	MaxConns          int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns          int32         `envconfig:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime   time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	HealthCheckPeriod time.Duration `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"1m"`
}

// MapConfig holds the basemap tile templates and the initial viewport.
type MapConfig struct {
	ImageryURL         string  `envconfig:"MAP_IMAGERY_URL" default:"https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}"`
	ImageryAttribution string  `envconfig:"MAP_IMAGERY_ATTRIBUTION" default:"Tiles &copy; Esri"`
	LabelsURL          string  `envconfig:"MAP_LABELS_URL" default:"https://{s}.basemaps.cartocdn.com/light_only_labels/{z}/{x}/{y}{r}.png"`
	LabelsAttribution  string  `envconfig:"MAP_LABELS_ATTRIBUTION" default:"&copy; CARTO"`
	LabelsSubdomains   string  `envconfig:"MAP_LABELS_SUBDOMAINS" default:"abcd"`
	MaxZoom            int     `envconfig:"MAP_MAX_ZOOM" default:"19" validate:"gte=1,lte=22"`
	CenterLat          float64 `envconfig:"MAP_CENTER_LAT" default:"-1.2821" validate:"gte=-90,lte=90"`
	CenterLng          float64 `envconfig:"MAP_CENTER_LNG" default:"36.8219" validate:"gte=-180,lte=180"`
	Zoom               int     `envconfig:"MAP_ZOOM" default:"13" validate:"gte=1,lte=22"`
}

// LocationConfig configures the best-effort device location lookup.
type LocationConfig struct {
	Enabled     bool          `envconfig:"LOCATION_ENABLED" default:"true"`
	ProviderURL string        `envconfig:"LOCATION_PROVIDER_URL" default:"https://ipapi.co" validate:"required_if=Enabled true"`
	Timeout     time.Duration `envconfig:"LOCATION_TIMEOUT" default:"5s"`
}

// EventsConfig selects where domain events are published.
type EventsConfig struct {
	Backend  string `envconfig:"EVENTS_BACKEND" default:"log" validate:"oneof=log sqs"`
	QueueURL string `envconfig:"SQS_EVENTS_QUEUE_URL" validate:"required_if=Backend sqs"`
}

// MetricsConfig selects the request metrics sink.
type MetricsConfig struct {
	Backend   string `envconfig:"METRICS_BACKEND" default:"prometheus" validate:"oneof=prometheus cloudwatch none"`
	Namespace string `envconfig:"METRIC_NAMESPACE" default:"CropCura"`
}

// SeedConfig controls mock data generation. A zero Value seeds from the clock.
type SeedConfig struct {
	Value uint64 `envconfig:"SEED_VALUE" default:"0"`
}

// AWSConfig holds AWS regional configuration.
type AWSConfig struct {
	Region string `envconfig:"AWS_REGION" default:"us-east-1"`

	// LocalStack Support (Empty in Prod)
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL"`
}

// NeedsAWS reports whether any configured backend talks to AWS.
func (c *Config) NeedsAWS() bool {
	return c.Events.Backend == "sqs" || c.Metrics.Backend == "cloudwatch"
}

// BuildInfo holds build-time metadata injected via ldflags.
// These values are NOT populated from environment variables.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates a required environment variable was not found.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
