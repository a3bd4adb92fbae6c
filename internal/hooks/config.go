// Package hooks implements the hook execution pipeline: declarative
// rules matched against inbound messages, rate limiting, prompt
// rendering, processor invocation and response dispatch.
package hooks

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/discli/discli/internal/config"
	"gopkg.in/yaml.v3"
)

// ConfigError reports a missing, malformed or semantically invalid
// hooks configuration.
type ConfigError struct {
	msg string
	err error
}

func (e *ConfigError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("hooks config: %s: %v", e.msg, e.err)
	}
	return "hooks config: " + e.msg
}

func (e *ConfigError) Unwrap() error { return e.err }

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// ErrorStrategy selects what happens with per-event execution failures.
type ErrorStrategy string

const (
	// OnErrorLog logs failures (default).
	OnErrorLog ErrorStrategy = "log"
	// OnErrorIgnore suppresses failure logging.
	OnErrorIgnore ErrorStrategy = "ignore"
	// OnErrorNotify logs and posts a short failure note to the
	// triggering channel.
	OnErrorNotify ErrorStrategy = "notify"
)

// Trigger type names accepted in configuration.
const (
	TriggerTypeAny      = "any"
	TriggerTypePrefix   = "prefix"
	TriggerTypeContains = "contains"
	TriggerTypeRegex    = "regex"
	TriggerTypeMention  = "mention"
)

// Action type names accepted in configuration.
const (
	ActionReply   = "reply"
	ActionSendDM  = "senddm"
	ActionForward = "forward"
	ActionWebhook = "webhook"
)

// Processor type names accepted in configuration.
const (
	ProcessorCommand = "command"
	ProcessorHTTP    = "http"
)

// Config is the top-level hooks.yaml document.
type Config struct {
	Version    string   `yaml:"version"`
	Settings   Settings `yaml:"settings"`
	PromptsDir string   `yaml:"prompts_dir"`
	Hooks      []Hook   `yaml:"hooks"`
}

// Settings are global hook-system settings.
type Settings struct {
	OnError   ErrorStrategy   `yaml:"on_error"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig bounds how often hooks may fire.
type RateLimitConfig struct {
	PerUser       int `yaml:"per_user"`
	PerChannel    int `yaml:"per_channel"`
	WindowSeconds int `yaml:"window_seconds"`
}

// Window returns the sliding-window duration.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// Hook is one declarative rule from the configuration file.
type Hook struct {
	ID         string           `yaml:"id"`
	Name       string           `yaml:"name"`
	Enabled    *bool            `yaml:"enabled"`
	Channels   []string         `yaml:"channels"`
	Trigger    TriggerConfig    `yaml:"trigger"`
	PromptFile string           `yaml:"prompt_file"`
	Filter     *FilterConfig    `yaml:"filter"`
	Action     ActionConfig     `yaml:"action"`
	Processing ProcessingConfig `yaml:"processing"`
}

// IsEnabled reports whether the hook is active; hooks default to
// enabled when the field is omitted.
func (h Hook) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// TriggerConfig is the tagged trigger variant as written in YAML; the
// relevant field depends on Type.
type TriggerConfig struct {
	Type      string `yaml:"type"`
	Prefix    string `yaml:"prefix"`
	Substring string `yaml:"substring"`
	Pattern   string `yaml:"pattern"`
}

// FilterConfig restricts a hook to specific users. Roles are accepted
// but not enforced: role membership needs guild context the listener
// does not have.
type FilterConfig struct {
	Users []string `yaml:"users"`
	Roles []string `yaml:"roles"`
}

// ActionConfig is the tagged action variant; ChannelID applies to
// forward, URL to webhook.
type ActionConfig struct {
	Type      string `yaml:"type"`
	ChannelID string `yaml:"channel_id"`
	URL       string `yaml:"url"`
}

// ProcessingConfig selects and configures the processor backend.
type ProcessingConfig struct {
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	ProcessorType  string   `yaml:"processor_type"`
	Cmd            []string `yaml:"cmd"`
	URL            string   `yaml:"url"`
}

// Timeout returns the per-invocation processor timeout.
func (c ProcessingConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads, substitutes, parses and validates a hooks configuration
// file. ${env://VAR} references are resolved before parsing.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{msg: "reading hooks file", err: err}
	}

	substituted, err := config.SubstituteEnvVars(string(content))
	if err != nil {
		return nil, &ConfigError{msg: "substituting variables", err: err}
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(substituted), &cfg); err != nil {
		return nil, &ConfigError{msg: "parsing hooks file", err: err}
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Settings.OnError == "" {
		c.Settings.OnError = OnErrorLog
	}
	if c.Settings.RateLimit.PerUser == 0 {
		c.Settings.RateLimit.PerUser = 5
	}
	if c.Settings.RateLimit.PerChannel == 0 {
		c.Settings.RateLimit.PerChannel = 10
	}
	if c.Settings.RateLimit.WindowSeconds == 0 {
		c.Settings.RateLimit.WindowSeconds = 60
	}
	if c.PromptsDir == "" {
		c.PromptsDir = "./prompts"
	}
	for i := range c.Hooks {
		p := &c.Hooks[i].Processing
		if p.TimeoutSeconds == 0 {
			p.TimeoutSeconds = 30
		}
		if p.ProcessorType == "" {
			p.ProcessorType = ProcessorCommand
		}
	}
}

func (c *Config) validate() error {
	if len(c.Hooks) == 0 {
		return configErrorf("no hooks defined")
	}

	switch c.Settings.OnError {
	case OnErrorLog, OnErrorIgnore, OnErrorNotify:
	default:
		return configErrorf("unknown on_error strategy %q", c.Settings.OnError)
	}

	for _, hook := range c.Hooks {
		if hook.ID == "" {
			return configErrorf("hook without an id")
		}
		if len(hook.Channels) == 0 {
			return configErrorf("hook %q has no channels defined", hook.ID)
		}
		switch hook.Trigger.Type {
		case TriggerTypeAny, TriggerTypePrefix, TriggerTypeContains, TriggerTypeRegex, TriggerTypeMention:
		default:
			return configErrorf("hook %q has unknown trigger type %q", hook.ID, hook.Trigger.Type)
		}
		switch hook.Action.Type {
		case ActionReply, ActionSendDM, ActionForward, ActionWebhook:
		default:
			return configErrorf("hook %q has unknown action type %q", hook.ID, hook.Action.Type)
		}
		switch hook.Processing.ProcessorType {
		case ProcessorCommand, ProcessorHTTP:
		default:
			return configErrorf("hook %q has unknown processor type %q", hook.ID, hook.Processing.ProcessorType)
		}
	}
	return nil
}

// EnabledHooks returns the enabled hooks in file order.
func (c *Config) EnabledHooks() []Hook {
	var enabled []Hook
	for _, hook := range c.Hooks {
		if hook.IsEnabled() {
			enabled = append(enabled, hook)
		}
	}
	return enabled
}

// TriggerKind is the compiled trigger discriminant.
type TriggerKind int

const (
	TriggerAny TriggerKind = iota
	TriggerPrefix
	TriggerContains
	TriggerRegex
	TriggerMention
)

// Trigger is a compiled, immediately evaluable trigger.
type Trigger struct {
	Kind      TriggerKind
	Prefix    string
	Substring string
	Pattern   *regexp.Regexp
}

// CompiledHook is a hook ready for matching and execution. It is
// immutable after Compile and safe to share across goroutines.
type CompiledHook struct {
	ID         string
	Name       string
	Channels   []string
	Trigger    Trigger
	PromptFile string
	Filter     *FilterConfig
	Action     ActionConfig
	Processing ProcessingConfig
}

// Compile turns the declarative hook into its executable form. A
// regex trigger with an invalid pattern fails with a ConfigError.
func (h Hook) Compile() (*CompiledHook, error) {
	trigger := Trigger{}
	switch h.Trigger.Type {
	case TriggerTypeAny:
		trigger.Kind = TriggerAny
	case TriggerTypePrefix:
		trigger.Kind = TriggerPrefix
		trigger.Prefix = h.Trigger.Prefix
	case TriggerTypeContains:
		trigger.Kind = TriggerContains
		trigger.Substring = h.Trigger.Substring
	case TriggerTypeRegex:
		pattern, err := regexp.Compile(h.Trigger.Pattern)
		if err != nil {
			return nil, &ConfigError{msg: fmt.Sprintf("hook %q has invalid regex", h.ID), err: err}
		}
		trigger.Kind = TriggerRegex
		trigger.Pattern = pattern
	case TriggerTypeMention:
		trigger.Kind = TriggerMention
	default:
		return nil, configErrorf("hook %q has unknown trigger type %q", h.ID, h.Trigger.Type)
	}

	return &CompiledHook{
		ID:         h.ID,
		Name:       h.Name,
		Channels:   h.Channels,
		Trigger:    trigger,
		PromptFile: h.PromptFile,
		Filter:     h.Filter,
		Action:     h.Action,
		Processing: h.Processing,
	}, nil
}
