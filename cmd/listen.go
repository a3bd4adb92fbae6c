package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/discli/discli/internal/discord"
	"github.com/discli/discli/internal/hooks"
	"github.com/discli/discli/internal/prompt"
	"github.com/spf13/cobra"
)

var (
	listenForeground bool
	listenHooksFile  string
	listenPromptsDir string
	listenVerbose    bool
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Start the hook listener (long-running mode)",
	Long: `Connect to the Discord gateway and react to messages in the
configured channels by running hooks from the hooks file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListen(cmd)
	},
}

func init() {
	listenCmd.Flags().BoolVarP(&listenForeground, "foreground", "f", false, "run in the foreground (Ctrl+C to stop)")
	listenCmd.Flags().StringVar(&listenHooksFile, "hooks-file", "", "path to the hooks configuration file (default ./hooks.yaml)")
	listenCmd.Flags().StringVarP(&listenPromptsDir, "prompts-dir", "p", "", "path to the prompts directory (default ./prompts)")
	listenCmd.Flags().BoolVarP(&listenVerbose, "verbose", "v", false, "enable debug logging")
}

func runListen(cmd *cobra.Command) error {
	cfg, logger, err := loadConfig(listenVerbose)
	if err != nil {
		return err
	}

	hooksPath := listenHooksFile
	if hooksPath == "" {
		hooksPath = cfg.HooksFile
	}
	if _, err := os.Stat(hooksPath); err != nil {
		return fmt.Errorf("hooks file not found: %s (use --hooks-file or create hooks.yaml)", hooksPath)
	}

	hooksConfig, err := hooks.Load(hooksPath)
	if err != nil {
		return err
	}

	promptsDir := listenPromptsDir
	if promptsDir == "" {
		promptsDir = hooksConfig.PromptsDir
	}

	// Compile the enabled hooks; a hook with a bad pattern is skipped,
	// not fatal, as long as at least one hook survives.
	var compiled []*hooks.CompiledHook
	for _, hook := range hooksConfig.EnabledHooks() {
		compiledHook, err := hook.Compile()
		if err != nil {
			logger.Warn().Err(err).Str("hook", hook.ID).Msg("skipping hook that failed to compile")
			continue
		}
		if compiledHook.Trigger.Kind == hooks.TriggerMention {
			logger.Debug().Str("hook", hook.ID).Msg("mention triggers never match; this hook will not fire")
		}
		compiled = append(compiled, compiledHook)
	}
	if len(compiled) == 0 {
		return fmt.Errorf("no valid hooks to execute")
	}
	logger.Info().Int("hooks", len(compiled)).Str("file", hooksPath).Str("prompts_dir", promptsDir).Msg("hooks loaded")

	limits := hooksConfig.Settings.RateLimit
	limiter := hooks.NewRateLimiter(limits.PerUser, limits.PerChannel, limits.Window())
	client := discord.NewClient(cfg.DiscordToken)
	executor := hooks.NewExecutor(client, prompt.NewLoader(promptsDir), limiter, logger)
	dispatcher := hooks.NewDispatcher(compiled, executor, hooksConfig.Settings.OnError, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := make(chan discord.Message, 64)
	gateway := discord.NewGateway(cfg.DiscordToken, logger)
	go func() {
		defer close(events)
		if err := gateway.Run(ctx, events); err != nil {
			logger.Error().Err(err).Msg("gateway stopped")
		}
	}()

	logger.Info().Msg("listening for messages; press Ctrl+C to stop")
	dispatcher.Run(ctx, events)
	logger.Info().Msg("listener stopped")
	return nil
}
