package initializers

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port    string
	GinMode string
	Env     string

	DBURL          string
	RunMigrations  bool
	MigrationsPath string
	RedisURL       string

	Secret   string
	Timezone string

	LogLevel  string
	LogFormat string

	ResendAPIKey       string
	ResendFromEmail    string
	EmailRatePerSecond float64

	SMSAPIURL   string
	SMSAPIKey   string
	SMSSenderID string
	SMSTimeout  time.Duration

	FirebaseServiceAccountPath string
	PrayerTopic                string
}

var Config *AppConfig

// LoadConfig builds the typed configuration from the environment. Call LoadEnv first
// so values from .env are visible.
func LoadConfig() (*AppConfig, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("app_env", "development")
	v.SetDefault("run_migrations", false)
	v.SetDefault("migrations_path", "migrations")
	v.SetDefault("timezone", "Local")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("email_rate_per_second", 2)
	v.SetDefault("sms_timeout", "30s")
	v.SetDefault("prayer_topic", "weekly-prayer")

	cfg := &AppConfig{
		Port:                       v.GetString("port"),
		GinMode:                    v.GetString("gin_mode"),
		Env:                        v.GetString("app_env"),
		DBURL:                      v.GetString("db_url"),
		RunMigrations:              v.GetBool("run_migrations"),
		MigrationsPath:             v.GetString("migrations_path"),
		RedisURL:                   v.GetString("redis_url"),
		Secret:                     v.GetString("secret"),
		Timezone:                   v.GetString("timezone"),
		LogLevel:                   v.GetString("log_level"),
		LogFormat:                  v.GetString("log_format"),
		ResendAPIKey:               v.GetString("resend_api_key"),
		ResendFromEmail:            v.GetString("resend_from_email"),
		EmailRatePerSecond:         v.GetFloat64("email_rate_per_second"),
		SMSAPIURL:                  v.GetString("sms_api_url"),
		SMSAPIKey:                  v.GetString("sms_api_key"),
		SMSSenderID:                v.GetString("sms_sender_id"),
		SMSTimeout:                 v.GetDuration("sms_timeout"),
		FirebaseServiceAccountPath: v.GetString("firebase_service_account_path"),
		PrayerTopic:                v.GetString("prayer_topic"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	Config = cfg
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *AppConfig) Validate() error {
	if c.DBURL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	if c.Secret == "" {
		return fmt.Errorf("SECRET is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.EmailRatePerSecond <= 0 {
		return fmt.Errorf("EMAIL_RATE_PER_SECOND must be positive")
	}
	return nil
}

// Location resolves the configured time zone. Weeks are cut on calendar dates in this zone.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
