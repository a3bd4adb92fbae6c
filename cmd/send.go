package cmd

import (
	"context"
	"fmt"

	"github.com/discli/discli/internal/config"
	"github.com/discli/discli/internal/discord"
	"github.com/discli/discli/internal/message"
	"github.com/spf13/cobra"
)

var (
	sendAttach    []string
	sendEmbedURLs []string
	sendCaption   string
)

var sendCmd = &cobra.Command{
	Use:     "send [content]",
	Aliases: []string{"message"},
	Short:   "Send a message to Discord",
	Long: `Send a message to the configured channel. The message can be plain
text, text with image attachments, or images only.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(false)
		if err != nil {
			return err
		}
		content := ""
		if len(args) > 0 {
			content = args[0]
		}
		return sendMessage(cmd.Context(), cfg, content, sendAttach, sendEmbedURLs, sendCaption)
	},
}

func init() {
	sendCmd.Flags().StringArrayVarP(&sendAttach, "attach", "a", nil, "attach an image file (repeatable)")
	sendCmd.Flags().StringArrayVar(&sendEmbedURLs, "embed-url", nil, "embed an externally hosted image URL (repeatable)")
	sendCmd.Flags().StringVarP(&sendCaption, "caption", "c", "", "alt text applied to all attachments")
}

// sendMessage validates, builds and posts one outbound message. Embed
// URLs count against the attachment limit but are not uploaded yet.
func sendMessage(ctx context.Context, cfg *config.Config, content string, attach, embedURLs []string, caption string) error {
	if err := message.ValidateAttachmentCount(len(attach) + len(embedURLs)); err != nil {
		return err
	}
	if content != "" {
		if err := message.ValidateContentLength(content); err != nil {
			return err
		}
	}

	builder := message.NewBuilder().Content(content).Caption(caption)
	if err := builder.AttachAll(attach); err != nil {
		return err
	}

	client := discord.NewClient(cfg.DiscordToken)
	if err := client.SendMessage(ctx, cfg.ChannelID, builder.Build()); err != nil {
		return err
	}

	summary := "text message"
	if len(attach) > 0 {
		summary = fmt.Sprintf("message with %d image attachment(s)", len(attach))
	}
	fmt.Printf("Successfully sent %s to channel %s\n", summary, cfg.ChannelID)
	return nil
}
