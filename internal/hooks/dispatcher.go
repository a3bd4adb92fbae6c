package hooks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/discli/discli/internal/discord"
	"github.com/rs/zerolog"
)

// Dispatcher consumes the inbound event stream and runs the executor
// for every matching hook, one goroutine per (message, hook) pair so a
// slow processor never blocks other hooks or later events.
type Dispatcher struct {
	hooks    []*CompiledHook
	executor *Executor
	onError  ErrorStrategy
	log      zerolog.Logger
}

// NewDispatcher creates a dispatcher over the compiled hook set. The
// hook set is read-only from here on.
func NewDispatcher(hooks []*CompiledHook, executor *Executor, onError ErrorStrategy, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		hooks:    hooks,
		executor: executor,
		onError:  onError,
		log:      log,
	}
}

// Run processes events until the channel closes or ctx is cancelled,
// then waits for in-flight executions to finish.
func (d *Dispatcher) Run(ctx context.Context, events <-chan discord.Message) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			for _, hook := range d.hooks {
				if !ShouldTrigger(hook, msg) {
					continue
				}
				d.log.Debug().Str("hook", hook.ID).Str("message", msg.ID).Msg("hook triggered")
				wg.Add(1)
				go func(hook *CompiledHook) {
					defer wg.Done()
					result := d.executor.Execute(ctx, hook, msg)
					d.report(ctx, hook, msg, result)
				}(hook)
			}
		}
	}
}

// report applies the configured on_error strategy to one result.
func (d *Dispatcher) report(ctx context.Context, hook *CompiledHook, msg discord.Message, result Result) {
	if result.Executed {
		return
	}

	switch d.onError {
	case OnErrorIgnore:
	case OnErrorNotify:
		d.log.Warn().Str("hook", hook.ID).Str("reason", result.Error).Msg("hook execution failed")
		note := fmt.Sprintf("hook %s failed: %s", hook.ID, truncate(result.Error, 200))
		if err := d.executor.sender.SendMessage(ctx, msg.ChannelID, &discord.OutboundMessage{Content: note}); err != nil {
			d.log.Warn().Err(err).Str("hook", hook.ID).Msg("failure notification not delivered")
		}
	default:
		d.log.Warn().Str("hook", hook.ID).Str("reason", result.Error).Msg("hook execution failed")
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max]) + "..."
}
