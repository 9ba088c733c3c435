package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, 1, cfg.FreeSuggestionLimitPerDay)
	assert.Equal(t, 8192, cfg.MaxInputLength)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 45*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "gpt-4o", cfg.GenerationModel)
	assert.Equal(t, "gpt-4o-mini", cfg.ParserModel)
	assert.Equal(t, "118784", cfg.BodyLimit)
	assert.Equal(t, "*", cfg.CORSAllowedOrigin)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{
		"Documentation", "Email", "General Text", "GitHub Comment",
		"LinkedIn Post", "Teams Chat", "Text Message",
	}, cfg.ValidContexts)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("FREE_SUGGESTION_LIMIT_PER_DAY", "3")
	t.Setenv("VALID_CONTEXTS", "Email, Slack ,,")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("MAX_INPUT_LENGTH", "not-a-number")

	cfg := Load()

	assert.Equal(t, 3, cfg.FreeSuggestionLimitPerDay)
	assert.Equal(t, []string{"Email", "Slack"}, cfg.ValidContexts)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 8192, cfg.MaxInputLength, "invalid ints fall back to the default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"negative limit", func(c *Config) { c.FreeSuggestionLimitPerDay = -1 }, "FREE_SUGGESTION_LIMIT_PER_DAY"},
		{"zero max input", func(c *Config) { c.MaxInputLength = 0 }, "MAX_INPUT_LENGTH"},
		{"no contexts", func(c *Config) { c.ValidContexts = nil }, "VALID_CONTEXTS"},
		{"bad timezone", func(c *Config) { c.QuotaTimezone = "Mars/Olympus" }, "QUOTA_TIMEZONE"},
		{"body limit below escaped input", func(c *Config) { c.BodyLimit = "64K" }, "BODY_LIMIT"},
		{"unparsable body limit", func(c *Config) { c.BodyLimit = "plenty" }, "BODY_LIMIT"},
		{"larger body limit", func(c *Config) { c.BodyLimit = "1M" }, ""},
		{"input raised past body limit", func(c *Config) { c.MaxInputLength = 16384 }, "BODY_LIMIT"},
		{"production without secret", func(c *Config) {
			c.APIEnvironment = "production"
			c.OpenAIAPIKey = "sk-test"
		}, "JWT_SECRET"},
		{"production without openai key", func(c *Config) {
			c.APIEnvironment = "production"
			c.JWTSecret = "secret"
		}, "OPENAI_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_BodyLimitFollowsMaxInputLength(t *testing.T) {
	t.Setenv("MAX_INPUT_LENGTH", "100")

	cfg := Load()

	assert.Equal(t, "21680", cfg.BodyLimit)
	require.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitBodyLimit(t *testing.T) {
	t.Setenv("BODY_LIMIT", "200K")

	cfg := Load()

	limit, err := cfg.BodyLimitBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(200_000), limit)
}

func TestMinBodyLimit_FitsEscapedAstralInput(t *testing.T) {
	escaped := int64(8192 * len(`\ud83d\ude00`))
	envelope := int64(len(`{"userInput":"","context":"General Text","outputFormat":"Markdown","outputLength":"medium"}`))

	assert.GreaterOrEqual(t, MinBodyLimit(8192), escaped+envelope)
}

func TestLoad_OllamaModelDefaults(t *testing.T) {
	t.Run("all unset", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "ollama")

		cfg := Load()

		assert.Equal(t, "llama3.1:8b", cfg.GenerationModel)
		assert.Equal(t, cfg.GenerationModel, cfg.ParserModel)
		assert.Equal(t, cfg.GenerationModel, cfg.RefineModel)
	})

	t.Run("generation model set", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "ollama")
		t.Setenv("GENERATION_MODEL", "qwen2.5:7b")

		cfg := Load()

		assert.Equal(t, "qwen2.5:7b", cfg.ParserModel)
		assert.Equal(t, "qwen2.5:7b", cfg.RefineModel)
	})

	t.Run("parser model set", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "ollama")
		t.Setenv("GENERATION_MODEL", "qwen2.5:7b")
		t.Setenv("PARSER_MODEL", "llama3.2:3b")

		cfg := Load()

		assert.Equal(t, "llama3.2:3b", cfg.ParserModel)
	})
}

func TestQuotaLocation(t *testing.T) {
	cfg := Load()
	loc, err := cfg.QuotaLocation()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.QuotaTimezone = "UTC"
	loc, err = cfg.QuotaLocation()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
