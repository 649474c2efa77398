package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	StorageMongoDB = "mongodb"
	StorageSQLite  = "sqlite"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	MongoDB   MongoDBConfig
	Auth      AuthConfig
	Kiosk     KioskConfig
	Locale    LocaleConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	Notifier  NotifierConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// StorageConfig selects the vote store backend.
type StorageConfig struct {
	Driver     string
	SQLitePath string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// AuthConfig holds the admin credentials and session settings.
type AuthConfig struct {
	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string
	SessionTTL        time.Duration
}

// KioskConfig holds vote submission settings.
type KioskConfig struct {
	Cooldown time.Duration
}

// LocaleConfig controls how dates, weekdays and labels are written.
type LocaleConfig struct {
	Tag      string
	Timezone string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	ExportRange     string
	SummaryRange    string
}

// Enabled reports whether the Sheets integration is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	DailyCron  string
	WeeklyCron string
}

// NotifierConfig holds the outbound webhook used for scheduled summaries.
type NotifierConfig struct {
	WebhookURL string
	Token      string
}

// Enabled reports whether a webhook is configured.
func (c NotifierConfig) Enabled() bool {
	return c.WebhookURL != ""
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	sessionTTL, err := getDurationWithDefault("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	cooldown, err := getDurationWithDefault("KIOSK_COOLDOWN", 3*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: splitList(getenvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(getenvWithDefault("STORAGE_DRIVER", StorageMongoDB)),
			SQLitePath: getenvWithDefault("SQLITE_PATH", "data/satisfaction.db"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "satisfaction"),
		},
		Auth: AuthConfig{
			AdminEmail:        os.Getenv("ADMIN_EMAIL"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			JWTSecret:         os.Getenv("JWT_SECRET"),
			SessionTTL:        sessionTTL,
		},
		Kiosk: KioskConfig{
			Cooldown: cooldown,
		},
		Locale: LocaleConfig{
			Tag:      getenvWithDefault("LOCALE", "pt-PT"),
			Timezone: getenvWithDefault("TIMEZONE", "Europe/Lisbon"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			ExportRange:     getenvWithDefault("SHEETS_EXPORT_RANGE", "Export!A:E"),
			SummaryRange:    getenvWithDefault("SHEETS_SUMMARY_RANGE", "Summary!A:I"),
		},
		Reporting: ReportingConfig{
			DailyCron:  getenvWithDefault("REPORT_DAILY_CRON", "0 20 * * *"),
			WeeklyCron: getenvWithDefault("REPORT_WEEKLY_CRON", "0 20 * * 5"),
		},
		Notifier: NotifierConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
			Token:      os.Getenv("NOTIFY_WEBHOOK_TOKEN"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Storage.Driver {
	case StorageMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("SQLITE_PATH must be provided")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageMongoDB, StorageSQLite, c.Storage.Driver)
	}

	switch {
	case c.Auth.AdminEmail == "":
		return errors.New("ADMIN_EMAIL must be provided")
	case c.Auth.AdminPasswordHash == "":
		return errors.New("ADMIN_PASSWORD_HASH must be provided")
	case len(c.Auth.JWTSecret) < 32:
		return errors.New("JWT_SECRET must be at least 32 characters")
	case c.Auth.SessionTTL <= 0:
		return errors.New("SESSION_TTL must be positive")
	}

	if c.Kiosk.Cooldown < 0 {
		return errors.New("KIOSK_COOLDOWN must not be negative")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	for key, spec := range map[string]string{"REPORT_DAILY_CRON": c.Reporting.DailyCron, "REPORT_WEEKLY_CRON": c.Reporting.WeeklyCron} {
		if spec == "" {
			continue
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("%s is invalid: %w", key, err)
		}
	}

	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Locale.Timezone == "" {
		return nil, errors.New("TIMEZONE must be provided")
	}
	loc, err := time.LoadLocation(c.Locale.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	return loc, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s is invalid: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
