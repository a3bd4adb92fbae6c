package cmd

import (
	"github.com/spf13/cobra"
)

var (
	imageAttach    []string
	imageEmbedURLs []string
	imageCaption   string
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Send a message with images (convenience command)",
	Long: `Convenience form of 'discli send' focused on images: at least one
attachment is required, text is an optional caption.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(false)
		if err != nil {
			return err
		}
		return sendMessage(cmd.Context(), cfg, imageCaption, imageAttach, imageEmbedURLs, "")
	},
}

func init() {
	imageCmd.Flags().StringArrayVarP(&imageAttach, "attach", "a", nil, "image file to attach (repeatable, required)")
	imageCmd.Flags().StringArrayVar(&imageEmbedURLs, "embed-url", nil, "embed an externally hosted image URL (repeatable)")
	imageCmd.Flags().StringVarP(&imageCaption, "caption", "c", "", "caption text for the images")
	_ = imageCmd.MarkFlagRequired("attach")
}
