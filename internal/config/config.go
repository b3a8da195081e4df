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

// Meeting provider names accepted by MEETING_PROVIDER.
const (
	MeetingProviderGoogle   = "google"
	MeetingProviderDisabled = "disabled"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode            string        `mapstructure:"GIN_MODE"`
	ServerHost         string        `mapstructure:"SERVER_HOST"`
	ServerPort         string        `mapstructure:"SERVER_PORT"`
	ServerTimeout      time.Duration `mapstructure:"-"` // SERVER_TIMEOUT_SECONDS
	CORSAllowedOrigins string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	TrustedProxies     string        `mapstructure:"TRUSTED_PROXIES"`

	// Database Configuration
	DBDriver          string        `mapstructure:"DB_DRIVER"`
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
	DBSource          string        `mapstructure:"DB_SOURCE"`
	DBAutoMigrate     bool          `mapstructure:"DB_AUTO_MIGRATE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// JWT Configuration
	JWTSecretKey         string        `mapstructure:"JWT_SECRET_KEY"`
	JWTIssuer            string        `mapstructure:"JWT_ISSUER"`
	JWTAccessTokenExpiry time.Duration `mapstructure:"-"` // JWT_ACCESS_TOKEN_EXPIRY_HOURS

	// Access Policies
	PublicAppointmentRoutes  bool   `mapstructure:"PUBLIC_APPOINTMENT_ROUTES"`
	RegistrationAllowedRoles string `mapstructure:"REGISTRATION_ALLOWED_ROLES"`

	// Rate limiting for /api/auth/register and /api/auth/login
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	// Meeting Integration
	MeetingProvider       string        `mapstructure:"MEETING_PROVIDER"`
	GoogleCredentialsFile string        `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	GoogleCalendarID      string        `mapstructure:"GOOGLE_CALENDAR_ID"`
	GoogleImpersonateUser string        `mapstructure:"GOOGLE_IMPERSONATE_USER"`
	MeetingTimezone       string        `mapstructure:"MEETING_TIMEZONE"`
	MeetingDuration       time.Duration `mapstructure:"-"` // MEETING_DURATION_MINUTES
	MeetingDefaultTitle   string        `mapstructure:"MEETING_DEFAULT_TITLE"`

	// Admin bootstrap (optional)
	AdminBootstrapEmail    string `mapstructure:"ADMIN_BOOTSTRAP_EMAIL"`
	AdminBootstrapPassword string `mapstructure:"ADMIN_BOOTSTRAP_PASSWORD"`
	AdminBootstrapName     string `mapstructure:"ADMIN_BOOTSTRAP_NAME"`
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

	// Duration fields are expressed in whole units in the environment.
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.JWTAccessTokenExpiry = time.Duration(v.GetInt("JWT_ACCESS_TOKEN_EXPIRY_HOURS")) * time.Hour
	cfg.MeetingDuration = time.Duration(v.GetInt("MEETING_DURATION_MINUTES")) * time.Minute

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXIES", "")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "sinergia_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_ISSUER", "sinergia_backend")
	v.SetDefault("JWT_ACCESS_TOKEN_EXPIRY_HOURS", 24*7)

	v.SetDefault("PUBLIC_APPOINTMENT_ROUTES", true)
	v.SetDefault("REGISTRATION_ALLOWED_ROLES", "patient,therapist,admin")

	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	v.SetDefault("MEETING_PROVIDER", MeetingProviderGoogle)
	v.SetDefault("GOOGLE_CREDENTIALS_FILE", "google-credentials.json")
	v.SetDefault("GOOGLE_CALENDAR_ID", "primary")
	v.SetDefault("GOOGLE_IMPERSONATE_USER", "")
	v.SetDefault("MEETING_TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("MEETING_DURATION_MINUTES", 60)
	v.SetDefault("MEETING_DEFAULT_TITLE", "Teleatendimento Sinergia Pro")

	v.SetDefault("ADMIN_BOOTSTRAP_EMAIL", "")
	v.SetDefault("ADMIN_BOOTSTRAP_PASSWORD", "")
	v.SetDefault("ADMIN_BOOTSTRAP_NAME", "Administrator")
}

// Validate checks the settings the application cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("JWT_SECRET_KEY is not set")
	}
	if c.JWTAccessTokenExpiry <= 0 {
		return fmt.Errorf("JWT_ACCESS_TOKEN_EXPIRY_HOURS must be positive")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (expected postgres or sqlite)", c.DBDriver)
	}
	if _, err := time.LoadLocation(c.MeetingTimezone); err != nil {
		return fmt.Errorf("invalid MEETING_TIMEZONE %q: %w", c.MeetingTimezone, err)
	}
	if c.MeetingDuration <= 0 {
		return fmt.Errorf("MEETING_DURATION_MINUTES must be positive")
	}
	for _, role := range c.RegistrationRoles() {
		switch role {
		case "patient", "therapist", "admin":
		default:
			return fmt.Errorf("invalid role %q in REGISTRATION_ALLOWED_ROLES", role)
		}
	}
	switch c.MeetingProvider {
	case MeetingProviderGoogle, MeetingProviderDisabled:
	default:
		return fmt.Errorf("unsupported MEETING_PROVIDER %q", c.MeetingProvider)
	}
	return nil
}

// RegistrationRoles returns the roles accepted by public self-registration.
func (c *Config) RegistrationRoles() []string {
	var roles []string
	for _, r := range strings.Split(c.RegistrationAllowedRoles, ",") {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

// CORSOrigins splits CORS_ALLOWED_ORIGINS into a list.
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// TrustedProxyList splits TRUSTED_PROXIES into IPs/CIDRs. Nil means no proxy
// is trusted and the client IP is the connection's remote address.
func (c *Config) TrustedProxyList() []string {
	var proxies []string
	for _, p := range strings.Split(c.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	return proxies
}

// GoogleCredentialsAvailable reports whether GOOGLE_CREDENTIALS_FILE exists.
func (c *Config) GoogleCredentialsAvailable() bool {
	if c.GoogleCredentialsFile == "" {
		return false
	}
	_, err := os.Stat(c.GoogleCredentialsFile)
	return err == nil
}

// MeetingLocation returns the configured meeting time zone.
// Validate guarantees it loads.
func (c *Config) MeetingLocation() *time.Location {
	loc, err := time.LoadLocation(c.MeetingTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Address returns the host:port the HTTP server binds to.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}
