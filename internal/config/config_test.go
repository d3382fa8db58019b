package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"SUSAN_NAME", "SUSAN_RATE", "SUSAN_VOLUME", "SUSAN_LANGUAGE",
		"SUSAN_LISTEN_TIMEOUT", "WHISPER_MODEL", "OPENAI_API_KEY", "SUSAN_PROXY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "Susan", cfg.Name)
	assert.Equal(t, 150, cfg.Rate)
	assert.Equal(t, 5*time.Second, cfg.ListenTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUSAN_NAME", "Ada")
	t.Setenv("SUSAN_RATE", "180")
	t.Setenv("SUSAN_VOLUME", "0.5")
	t.Setenv("SUSAN_LISTEN_TIMEOUT", "8s")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SUSAN_PROXY", "127.0.0.1:8888")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Ada", cfg.Name)
	assert.Equal(t, 180, cfg.Rate)
	assert.Equal(t, 0.5, cfg.Volume)
	assert.Equal(t, 8*time.Second, cfg.ListenTimeout)
	assert.Equal(t, "sk-test", cfg.OpenAIKey)
	assert.Equal(t, "127.0.0.1:8888", cfg.Proxy)
}

func TestLoad_Invalid(t *testing.T) {
	for k, v := range map[string]string{
		"SUSAN_RATE":           "fast",
		"SUSAN_VOLUME":         "2",
		"SUSAN_LISTEN_TIMEOUT": "-1s",
	} {
		t.Run(k, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(k, v)

			_, err := Load()
			assert.ErrorContains(t, err, k)
		})
	}
}
