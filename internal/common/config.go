package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// ErrInvalidConfig is returned (wrapped) when the resolved configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Fetch       FetchConfig    `toml:"fetch"`
	Gemini      GeminiConfig   `toml:"gemini"`
	Email       EmailConfig    `toml:"email"`
	Schedule    ScheduleConfig `toml:"schedule"`
	Logging     LoggingConfig  `toml:"logging"`
}

// FetchConfig controls the market data and news fetchers
type FetchConfig struct {
	FailurePolicy  FailurePolicy `toml:"failure_policy" validate:"oneof=degrade fail_fast"`
	HistoryRange   string        `toml:"history_range" validate:"required"`    // Yahoo chart range, e.g. "7d"
	MarketTimeout  string        `toml:"market_timeout" validate:"required"`   // Yahoo request timeout, e.g. "30s"
	NewsTimeout    string        `toml:"news_timeout" validate:"required"`     // Google News request timeout, e.g. "10s"
	MaxHeadlines   int           `toml:"max_headlines" validate:"min=1,max=5"` // Headlines kept per company, at most five
	YahooBaseURL   string        `toml:"yahoo_base_url" validate:"required"`   // Chart API host
	NewsBaseURL    string        `toml:"news_base_url" validate:"required"`    // Google News host
	NewsLanguage   string        `toml:"news_language" validate:"required"`    // hl parameter
	NewsCountry    string        `toml:"news_country" validate:"required"`     // gl parameter
	NewsEditionKey string        `toml:"news_edition_key" validate:"required"` // ceid parameter
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey  string `toml:"api_key" validate:"required"`
	Model   string `toml:"model" validate:"required"`
	Timeout string `toml:"timeout" validate:"required"` // Duration string, e.g. "2m"
	BaseURL string `toml:"base_url"`                    // Optional API endpoint override
}

// EmailConfig holds the sender credential pair, recipient and relay settings
type EmailConfig struct {
	Address  string `toml:"address" validate:"required,email"` // Sender mailbox and SMTP username
	Password string `toml:"password" validate:"required"`      // Sender mailbox credential
	To       string `toml:"to" validate:"required,email"`      // Recipient
	SMTPHost string `toml:"smtp_host" validate:"required"`
	SMTPPort int    `toml:"smtp_port" validate:"gt=0,lt=65536"`
}

// ScheduleConfig configures the optional in-process scheduler
type ScheduleConfig struct {
	Cron string `toml:"cron"` // Standard 5-field cron expression, empty disables
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for console output (default: "15:04:05")
}

// envNames maps validated struct fields to the setting a user has to fix.
var envNames = map[string]string{
	"Config.Fetch.MaxHeadlines":  "fetch.max_headlines",
	"Config.Fetch.FailurePolicy": "DIGEST_FAILURE_POLICY",
	"Config.Gemini.APIKey":       "GEMINI_API_KEY",
	"Config.Gemini.Model":        "DIGEST_GEMINI_MODEL",
	"Config.Gemini.Timeout":      "DIGEST_GEMINI_TIMEOUT",
	"Config.Email.Address":       "EMAIL_ADDRESS",
	"Config.Email.Password":      "EMAIL_PASSWORD",
	"Config.Email.To":            "TO_EMAIL",
	"Config.Email.SMTPHost":      "DIGEST_SMTP_HOST",
	"Config.Email.SMTPPort":      "DIGEST_SMTP_PORT",
}

// NewDefaultConfig creates a configuration with default values.
// Credentials have no defaults and must come from the environment or a config file.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Fetch: FetchConfig{
			FailurePolicy:  FailurePolicyDegrade, // Unattended job: substitute sentinels rather than skip the email
			HistoryRange:   "7d",                 // Tolerates weekends and holidays
			MarketTimeout:  "30s",
			NewsTimeout:    "10s",
			MaxHeadlines:   5,
			YahooBaseURL:   "https://query1.finance.yahoo.com",
			NewsBaseURL:    "https://news.google.com",
			NewsLanguage:   "en-US",
			NewsCountry:    "US",
			NewsEditionKey: "US:en",
		},
		Gemini: GeminiConfig{
			Model:   "gemini-1.5-pro-latest",
			Timeout: "2m",
		},
		Email: EmailConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 587,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> .env -> env.
// Later files override earlier files. Validation is left to the caller (see Validate).
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// .env never overrides variables already present in the process environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) error {
	if env := os.Getenv("DIGEST_ENV"); env != "" {
		config.Environment = env
	}

	// Credentials use the names the deployment already exports
	if address := os.Getenv("EMAIL_ADDRESS"); address != "" {
		config.Email.Address = address
	}
	if password := os.Getenv("EMAIL_PASSWORD"); password != "" {
		config.Email.Password = password
	}
	if to := os.Getenv("TO_EMAIL"); to != "" {
		config.Email.To = to
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}

	if model := os.Getenv("DIGEST_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if timeout := os.Getenv("DIGEST_GEMINI_TIMEOUT"); timeout != "" {
		config.Gemini.Timeout = timeout
	}
	if policy := os.Getenv("DIGEST_FAILURE_POLICY"); policy != "" {
		config.Fetch.FailurePolicy = FailurePolicy(strings.ToLower(strings.TrimSpace(policy)))
	}
	if host := os.Getenv("DIGEST_SMTP_HOST"); host != "" {
		config.Email.SMTPHost = host
	}
	if port := os.Getenv("DIGEST_SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("%w: DIGEST_SMTP_PORT %q is not a number", ErrInvalidConfig, port)
		}
		config.Email.SMTPPort = p
	}
	if schedule := os.Getenv("DIGEST_SCHEDULE"); schedule != "" {
		config.Schedule.Cron = schedule
	}
	if level := os.Getenv("DIGEST_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	return nil
}

// Validate checks required fields and formats. Every failing field is reported in a
// single error, named by the environment variable that sets it.
func (c *Config) Validate() error {
	var problems []string

	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		for _, fe := range fieldErrs {
			name := fe.Namespace()
			if env, ok := envNames[name]; ok {
				name = env
			}
			if fe.Tag() == "required" {
				problems = append(problems, fmt.Sprintf("%s is required", name))
			} else {
				problems = append(problems, fmt.Sprintf("%s is invalid (%s)", name, fe.Tag()))
			}
		}
	}

	durations := []struct{ name, value string }{
		{"DIGEST_GEMINI_TIMEOUT", c.Gemini.Timeout},
		{"fetch.market_timeout", c.Fetch.MarketTimeout},
		{"fetch.news_timeout", c.Fetch.NewsTimeout},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		if parsed, err := time.ParseDuration(d.value); err != nil || parsed <= 0 {
			problems = append(problems, fmt.Sprintf("%s %q is not a positive duration", d.name, d.value))
		}
	}

	if c.Schedule.Cron != "" {
		if err := ValidateSchedule(c.Schedule.Cron); err != nil {
			problems = append(problems, fmt.Sprintf("DIGEST_SCHEDULE: %v", err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// GeminiTimeout returns the parsed Gemini timeout. Call after Validate.
func (c *Config) GeminiTimeout() time.Duration {
	return parseDurationOr(c.Gemini.Timeout, 2*time.Minute)
}

// MarketTimeout returns the parsed Yahoo request timeout.
func (c *Config) MarketTimeout() time.Duration {
	return parseDurationOr(c.Fetch.MarketTimeout, 30*time.Second)
}

// NewsTimeout returns the parsed Google News request timeout.
func (c *Config) NewsTimeout() time.Duration {
	return parseDurationOr(c.Fetch.NewsTimeout, 10*time.Second)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ValidateSchedule validates a standard 5-field cron expression
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
