package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "bot-token")
	t.Setenv("DISCORD_CHANNEL_ID", "123456")
	t.Setenv("HOOKS_FILE", "/etc/discli/hooks.yaml")
	t.Setenv("PROMPTS_DIR", "/etc/discli/prompts")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bot-token", cfg.DiscordToken)
	assert.Equal(t, "123456", cfg.ChannelID)
	assert.Equal(t, "/etc/discli/hooks.yaml", cfg.HooksFile)
	assert.Equal(t, "/etc/discli/prompts", cfg.PromptsDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "bot-token")
	t.Setenv("DISCORD_CHANNEL_ID", "123456")
	t.Setenv("HOOKS_FILE", "")
	t.Setenv("PROMPTS_DIR", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./hooks.yaml", cfg.HooksFile)
	assert.Equal(t, "./prompts", cfg.PromptsDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DISCORD_CHANNEL_ID", "123456")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_TOKEN")
}

func TestLoadMissingChannel(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "bot-token")
	t.Setenv("DISCORD_CHANNEL_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_CHANNEL_ID")
}
