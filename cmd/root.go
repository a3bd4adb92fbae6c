// Package cmd defines the discli command line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/discli/discli/internal/config"
	"github.com/discli/discli/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "discli [message]",
	Short: "Send messages and images to Discord from the command line",
	Long: `discli sends notifications to Discord and can run a long-lived
listener that reacts to messages with configurable hooks.

Configuration comes from the environment (or a discli.env file):
DISCORD_TOKEN and DISCORD_CHANNEL_ID are required.

Examples:
  # Send a text message
  discli send "deploy finished"

  # Send a message with a screenshot
  discli send "build failed" --attach ./screenshot.png

  # Send images with a caption
  discli image --attach graph.png --caption "latency over 24h"

  # Run the hook listener
  discli listen --hooks-file ./hooks.yaml --verbose`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		// Legacy invocation: discli "message" behaves like discli send.
		fmt.Fprintln(os.Stderr, "Warning: direct message arguments are deprecated; use 'discli send \"message\"' instead")
		cfg, _, err := loadConfig(false)
		if err != nil {
			return err
		}
		return sendMessage(cmd.Context(), cfg, strings.Join(args, " "), nil, nil, "")
	},
}

// GetRootCommand returns the root command with the version set.
func GetRootCommand(version string) *cobra.Command {
	rootCmd.Version = version
	return rootCmd
}

// loadConfig loads the environment configuration and sets up logging.
// verbose forces debug-level logging regardless of LOG_LEVEL.
func loadConfig(verbose bool) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return cfg, logging.Setup(level, cfg.LogFormat), nil
}

func init() {
	rootCmd.AddCommand(sendCmd, imageCmd, listenCmd)
}
