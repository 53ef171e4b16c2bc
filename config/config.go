package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	SiteURL           string `mapstructure:"SITE_URL"`
	BusinessTimezone  string `mapstructure:"BUSINESS_TIMEZONE"`

	// Calendly.
	CalendlyAPIToken     string `mapstructure:"CALENDLY_API_TOKEN"`
	CalendlyEventTypeURI string `mapstructure:"CALENDLY_EVENT_TYPE_URI"`
	CalendlyLocationKind string `mapstructure:"CALENDLY_LOCATION_KIND"`
	CalendlyBaseURL      string `mapstructure:"CALENDLY_BASE_URL"`

	// ClickUp.
	ClickUpAPIToken string `mapstructure:"CLICKUP_API_TOKEN"`
	ClickUpListID   string `mapstructure:"CLICKUP_LIST_ID"`
	ClickUpBaseURL  string `mapstructure:"CLICKUP_BASE_URL"`

	// Prompt generation. AIProvider is "openrouter" or "gemini".
	AIProvider        string `mapstructure:"AI_PROVIDER"`
	OpenRouterAPIKey  string `mapstructure:"OPENROUTER_API_KEY"`
	OpenRouterModel   string `mapstructure:"OPENROUTER_MODEL"`
	OpenRouterBaseURL string `mapstructure:"OPENROUTER_BASE_URL"`
	GeminiAPIKey      string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel       string `mapstructure:"GEMINI_MODEL"`
	// AITimeout bounds one prompt generation; it must stay below
	// FollowUpTimeout so the ClickUp call that follows still has time.
	AITimeout time.Duration `mapstructure:"AI_TIMEOUT"`

	// Availability policy.
	MinNoticeHours       int           `mapstructure:"MIN_NOTICE_HOURS"`
	MaxDaysAhead         int           `mapstructure:"MAX_DAYS_AHEAD"`
	MaxRangeDays         int           `mapstructure:"MAX_RANGE_DAYS"`
	AvailabilityCacheTTL time.Duration `mapstructure:"AVAILABILITY_CACHE_TTL"`

	// Redis configuration. An empty RedisAddr runs follow-up jobs in-process
	// and disables the availability cache.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	FollowUpTimeout time.Duration `mapstructure:"FOLLOWUP_TIMEOUT"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("SITE_URL", "http://localhost:3000")
	v.SetDefault("BUSINESS_TIMEZONE", "Europe/Amsterdam")

	v.SetDefault("CALENDLY_API_TOKEN", "")
	v.SetDefault("CALENDLY_EVENT_TYPE_URI", "")
	v.SetDefault("CALENDLY_LOCATION_KIND", "")
	v.SetDefault("CALENDLY_BASE_URL", "https://api.calendly.com")

	v.SetDefault("CLICKUP_API_TOKEN", "")
	v.SetDefault("CLICKUP_LIST_ID", "")
	v.SetDefault("CLICKUP_BASE_URL", "https://api.clickup.com/api/v2")

	v.SetDefault("AI_PROVIDER", "openrouter")
	v.SetDefault("OPENROUTER_API_KEY", "")
	v.SetDefault("OPENROUTER_MODEL", "openai/gpt-4o-mini")
	v.SetDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "models/gemini-1.5-flash")
	v.SetDefault("AI_TIMEOUT", "20s")

	v.SetDefault("MIN_NOTICE_HOURS", 4)
	v.SetDefault("MAX_DAYS_AHEAD", 31)
	v.SetDefault("MAX_RANGE_DAYS", 7)
	v.SetDefault("AVAILABILITY_CACHE_TTL", "60s")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)

	v.SetDefault("FOLLOWUP_TIMEOUT", "30s")
}

// LoadConfig reads config.yaml (current or ./config directory), .env and
// .env.local files and the process environment, in increasing precedence.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MinNoticeHours < 0 || c.MaxDaysAhead <= 0 || c.MaxRangeDays <= 0 {
		return fmt.Errorf("config: availability policy must be positive (notice=%d, ahead=%d, range=%d)",
			c.MinNoticeHours, c.MaxDaysAhead, c.MaxRangeDays)
	}
	if _, err := time.LoadLocation(c.BusinessTimezone); err != nil {
		return fmt.Errorf("config: invalid BUSINESS_TIMEZONE %q: %w", c.BusinessTimezone, err)
	}
	if c.AITimeout <= 0 || c.AITimeout >= c.FollowUpTimeout {
		return fmt.Errorf("config: AI_TIMEOUT (%s) must be positive and below FOLLOWUP_TIMEOUT (%s)",
			c.AITimeout, c.FollowUpTimeout)
	}
	switch strings.ToLower(c.AIProvider) {
	case "openrouter", "gemini":
	default:
		return fmt.Errorf("config: unknown AI_PROVIDER %q", c.AIProvider)
	}
	return nil
}

// Location returns the business timezone. validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CalendlyConfigured reports whether slot listing and invitee booking can run.
func (c *Config) CalendlyConfigured() bool {
	return c.CalendlyAPIToken != "" && c.CalendlyEventTypeURI != ""
}

func (c *Config) ClickUpConfigured() bool {
	return c.ClickUpAPIToken != "" && c.ClickUpListID != ""
}

// AIConfigured reports whether the selected AI provider has a key.
func (c *Config) AIConfigured() bool {
	if strings.EqualFold(c.AIProvider, "gemini") {
		return c.GeminiAPIKey != ""
	}
	return c.OpenRouterAPIKey != ""
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
