package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv clears every variable the loader reads and moves into an empty
// directory so a developer's .env cannot leak into the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"EMAIL_ADDRESS", "EMAIL_PASSWORD", "TO_EMAIL", "GEMINI_API_KEY",
		"DIGEST_ENV", "DIGEST_GEMINI_MODEL", "DIGEST_GEMINI_TIMEOUT", "DIGEST_FAILURE_POLICY",
		"DIGEST_SMTP_HOST", "DIGEST_SMTP_PORT", "DIGEST_SCHEDULE", "DIGEST_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("EMAIL_ADDRESS", "sender@example.com")
	t.Setenv("EMAIL_PASSWORD", "app-password")
	t.Setenv("TO_EMAIL", "investor@example.com")
	t.Setenv("GEMINI_API_KEY", "test-key")
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, FailurePolicyDegrade, config.Fetch.FailurePolicy)
	assert.Equal(t, "7d", config.Fetch.HistoryRange)
	assert.Equal(t, 5, config.Fetch.MaxHeadlines)
	assert.Equal(t, "smtp.gmail.com", config.Email.SMTPHost)
	assert.Equal(t, 587, config.Email.SMTPPort)
	assert.Equal(t, "gemini-1.5-pro-latest", config.Gemini.Model)
	assert.Equal(t, 10*time.Second, config.NewsTimeout())
	assert.Equal(t, 30*time.Second, config.MarketTimeout())
	assert.Equal(t, 2*time.Minute, config.GeminiTimeout())
}

func TestLoadFromFiles_EnvOnly(t *testing.T) {
	isolateEnv(t)
	setRequiredEnv(t)

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "sender@example.com", config.Email.Address)
	assert.Equal(t, "app-password", config.Email.Password)
	assert.Equal(t, "investor@example.com", config.Email.To)
	assert.Equal(t, "test-key", config.Gemini.APIKey)
	assert.NoError(t, config.Validate())
}

func TestLoadFromFiles_LaterFilesOverrideEarlier(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(base, []byte(`
[gemini]
model = "gemini-1.5-flash"

[fetch]
failure_policy = "fail_fast"
`), 0644))
	require.NoError(t, os.WriteFile(override, []byte(`
[gemini]
model = "gemini-2.0-flash"
`), 0644))

	config, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", config.Gemini.Model)
	assert.Equal(t, FailurePolicyFailFast, config.Fetch.FailurePolicy)
	assert.Equal(t, "smtp.gmail.com", config.Email.SMTPHost, "unset keys keep defaults")
}

func TestLoadFromFiles_EnvOverridesFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "digest.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[gemini]
model = "gemini-1.5-flash"

[email]
smtp_port = 2525
`), 0644))

	t.Setenv("DIGEST_GEMINI_MODEL", "gemini-1.5-pro-latest")
	t.Setenv("DIGEST_FAILURE_POLICY", " FAIL_FAST ")

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-pro-latest", config.Gemini.Model)
	assert.Equal(t, FailurePolicyFailFast, config.Fetch.FailurePolicy)
	assert.Equal(t, 2525, config.Email.SMTPPort)
}

func TestLoadFromFiles_DotEnv(t *testing.T) {
	isolateEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("GEMINI_API_KEY=from-dotenv\nTO_EMAIL=dotenv@example.com\n"), 0644))
	t.Setenv("TO_EMAIL", "shell@example.com")
	// godotenv treats an empty-but-set variable as present; isolateEnv's cleanup restores it
	require.NoError(t, os.Unsetenv("GEMINI_API_KEY"))

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", config.Gemini.APIKey)
	assert.Equal(t, "shell@example.com", config.Email.To, "process environment wins over .env")
}

func TestLoadFromFiles_Errors(t *testing.T) {
	isolateEnv(t)

	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[gemini\nmodel = "), 0644))
	_, err = LoadFromFiles(bad)
	assert.Error(t, err)

	t.Setenv("DIGEST_SMTP_PORT", "not-a-port")
	_, err = LoadFromFiles()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate_MissingCredentials(t *testing.T) {
	config := NewDefaultConfig()

	err := config.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	for _, name := range []string{"EMAIL_ADDRESS", "EMAIL_PASSWORD", "TO_EMAIL", "GEMINI_API_KEY"} {
		assert.Contains(t, err.Error(), name+" is required")
	}
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{"bad recipient", func(c *Config) { c.Email.To = "not-an-email" }, "TO_EMAIL is invalid"},
		{"bad policy", func(c *Config) { c.Fetch.FailurePolicy = "retry" }, "DIGEST_FAILURE_POLICY is invalid"},
		{"bad port", func(c *Config) { c.Email.SMTPPort = 0 }, "DIGEST_SMTP_PORT is invalid"},
		{"bad timeout", func(c *Config) { c.Gemini.Timeout = "soon" }, "DIGEST_GEMINI_TIMEOUT"},
		{"bad schedule", func(c *Config) { c.Schedule.Cron = "every morning" }, "DIGEST_SCHEDULE"},
		{"too many headlines", func(c *Config) { c.Fetch.MaxHeadlines = 8 }, "fetch.max_headlines is invalid (max)"},
		{"no headlines", func(c *Config) { c.Fetch.MaxHeadlines = 0 }, "fetch.max_headlines is invalid (min)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)

			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_Schedule(t *testing.T) {
	config := validConfig()
	config.Schedule.Cron = "0 7 * * 1-5"
	assert.NoError(t, config.Validate())
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("30 6 * * *"))
	assert.Error(t, ValidateSchedule("* * *"))
	assert.Error(t, ValidateSchedule("0 25 * * *"))
}

func TestIsProduction(t *testing.T) {
	config := NewDefaultConfig()
	assert.False(t, config.IsProduction())

	config.Environment = " Production "
	assert.True(t, config.IsProduction())
}

func validConfig() *Config {
	config := NewDefaultConfig()
	config.Email.Address = "sender@example.com"
	config.Email.Password = "secret"
	config.Email.To = "investor@example.com"
	config.Gemini.APIKey = "key"
	return config
}
