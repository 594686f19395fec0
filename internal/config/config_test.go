package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("TRANSFORM_WORKERS", "4")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("RAG_MIN_SIMILARITY", "0.25")

	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 4, cfg.Orchestrator.Workers)
	assert.Equal(t, 60*time.Second, cfg.Orchestrator.RequestTimeout)
	assert.True(t, cfg.App.OtelEnabled)
	assert.Equal(t, 0.25, cfg.Ai.MinSimilarity)
	assert.Equal(t, "flatten", cfg.Codec.SectionMode)
}

func TestKey_SeesCurrentEnvironment(t *testing.T) {
	cfg := &Config{Keys: APIKeys{OpenAI: "from-startup"}}
	assert.Equal(t, "from-startup", cfg.Key("openai"))

	t.Setenv("OPENAI_API_KEY", "rotated")
	assert.Equal(t, "rotated", cfg.Key("openai"))
	assert.Equal(t, "", cfg.Key("ollama"))
}

func TestSMTPEnabled(t *testing.T) {
	assert.False(t, SMTPConfig{}.Enabled())
	assert.True(t, SMTPConfig{Host: "smtp.example.com", Email: "a@b.c"}.Enabled())
}
