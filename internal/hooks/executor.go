package hooks

import (
	"context"
	"fmt"

	"github.com/discli/discli/internal/discord"
	"github.com/discli/discli/internal/processing"
	"github.com/discli/discli/internal/prompt"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Sender delivers hook responses to the platform.
type Sender interface {
	SendMessage(ctx context.Context, channelID string, msg *discord.OutboundMessage) error
	PostWebhook(ctx context.Context, url, content string) error
}

// Result describes one hook execution for one message.
type Result struct {
	// Executed is true only when the pipeline ran to completion.
	Executed bool
	// Response is the processor output, present only on completion.
	Response string
	// Error describes why execution stopped.
	Error string
}

// Executor runs the per-message pipeline for a matched hook:
// admission check, prompt render, processor invocation, dispatch.
type Executor struct {
	sender  Sender
	prompts *prompt.Loader
	limiter *RateLimiter
	log     zerolog.Logger
}

// NewExecutor creates an executor. The limiter and prompt loader are
// shared across all concurrent executions.
func NewExecutor(sender Sender, prompts *prompt.Loader, limiter *RateLimiter, log zerolog.Logger) *Executor {
	return &Executor{
		sender:  sender,
		prompts: prompts,
		limiter: limiter,
		log:     log,
	}
}

// Execute runs one (hook, message) pair. Failures never propagate:
// they are reported in the Result and the message is simply not
// processed for this hook. Nothing is retried.
func (e *Executor) Execute(ctx context.Context, hook *CompiledHook, msg discord.Message) Result {
	log := e.log.With().
		Str("hook", hook.ID).
		Str("execution", uuid.NewString()).
		Str("channel", msg.ChannelID).
		Str("author", msg.Author.ID).
		Logger()

	// User admission first, then channel; a rejected event is dropped,
	// never queued for retry.
	if !e.limiter.AdmitUser(msg.Author.ID) {
		log.Debug().Msg("rate limited by user window")
		return Result{Error: "rate limited (user)"}
	}
	if !e.limiter.AdmitChannel(msg.ChannelID) {
		log.Debug().Msg("rate limited by channel window")
		return Result{Error: "rate limited (channel)"}
	}

	vars := prompt.VariablesFromMessage(msg)
	rendered, err := e.prompts.Render(hook.PromptFile, vars)
	if err != nil {
		return Result{Error: fmt.Sprintf("loading prompt: %v", err)}
	}

	// Single attempt; a failed invocation waits for the trigger to
	// recur naturally.
	response, err := e.runProcessor(ctx, hook.Processing, rendered)
	if err != nil {
		return Result{Error: fmt.Sprintf("processing failed: %v", err)}
	}

	if err := e.dispatch(ctx, log, hook, response, msg); err != nil {
		return Result{Error: fmt.Sprintf("dispatching response: %v", err)}
	}

	log.Info().Str("action", hook.Action.Type).Msg("hook executed")
	return Result{Executed: true, Response: response}
}

func (e *Executor) runProcessor(ctx context.Context, cfg ProcessingConfig, rendered string) (string, error) {
	switch cfg.ProcessorType {
	case ProcessorCommand:
		if len(cfg.Cmd) == 0 {
			return "", configErrorf("no command configured")
		}
		return processing.NewCommandProcessor(cfg.Timeout()).Execute(ctx, cfg.Cmd, rendered)
	case ProcessorHTTP:
		if cfg.URL == "" {
			return "", configErrorf("no url configured")
		}
		return processing.NewHTTPProcessor(cfg.Timeout()).Execute(ctx, cfg.URL, rendered, nil)
	default:
		return "", configErrorf("unknown processor type %q", cfg.ProcessorType)
	}
}

func (e *Executor) dispatch(ctx context.Context, log zerolog.Logger, hook *CompiledHook, response string, msg discord.Message) error {
	switch hook.Action.Type {
	case ActionReply:
		return e.sender.SendMessage(ctx, msg.ChannelID, &discord.OutboundMessage{Content: response})
	case ActionSendDM:
		// DM delivery would need a DM channel opened via the API
		// first; until then the response is only logged.
		log.Info().Str("user", msg.Author.ID).Str("response", response).
			Msg("senddm action is not implemented; response logged only")
		return nil
	case ActionForward:
		return e.sender.SendMessage(ctx, hook.Action.ChannelID, &discord.OutboundMessage{Content: response})
	case ActionWebhook:
		// Fire and forget: webhook failures are logged, never surfaced.
		if err := e.sender.PostWebhook(ctx, hook.Action.URL, response); err != nil {
			log.Warn().Err(err).Str("url", hook.Action.URL).Msg("webhook dispatch failed")
		}
		return nil
	default:
		return configErrorf("unknown action type %q", hook.Action.Type)
	}
}
