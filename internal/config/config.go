// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds process configuration resolved from the environment and
// the optional discli.env file.
type Config struct {
	// DiscordToken is the bot token used for both the REST API and the
	// gateway connection.
	DiscordToken string
	// ChannelID is the default channel for outbound messages.
	ChannelID string
	// HooksFile is the path to the hooks configuration file.
	HooksFile string
	// PromptsDir is the default directory for prompt templates.
	PromptsDir string
	// LogLevel is the zerolog level name.
	LogLevel string
	// LogFormat is "json" or "console".
	LogFormat string
}

// Load reads configuration from discli.env (if present) and the
// environment. DISCORD_TOKEN and DISCORD_CHANNEL_ID are required.
func Load() (*Config, error) {
	// Missing discli.env is fine; the environment alone may be enough.
	_ = godotenv.Load("discli.env")

	v := viper.New()
	for key, env := range map[string]string{
		"discord_token":      "DISCORD_TOKEN",
		"discord_channel_id": "DISCORD_CHANNEL_ID",
		"hooks_file":         "HOOKS_FILE",
		"prompts_dir":        "PROMPTS_DIR",
		"log_level":          "LOG_LEVEL",
		"log_format":         "LOG_FORMAT",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}
	v.SetDefault("hooks_file", "./hooks.yaml")
	v.SetDefault("prompts_dir", "./prompts")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	cfg := &Config{
		DiscordToken: v.GetString("discord_token"),
		ChannelID:    v.GetString("discord_channel_id"),
		HooksFile:    v.GetString("hooks_file"),
		PromptsDir:   v.GetString("prompts_dir"),
		LogLevel:     v.GetString("log_level"),
		LogFormat:    v.GetString("log_format"),
	}

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN not set")
	}
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("DISCORD_CHANNEL_ID not set")
	}
	return cfg, nil
}
