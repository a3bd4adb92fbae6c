// Package message builds and validates outbound Discord messages.
package message

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/discli/discli/internal/discord"
)

const (
	// MaxAttachments is Discord's per-message attachment limit.
	MaxAttachments = 10
	// MaxContentLength is Discord's message content limit.
	MaxContentLength = 2000

	maxAttachmentSize = 25 * 1024 * 1024
)

// NewAttachment validates a local file and prepares it for upload.
// The file must exist, be at most 25MB, and carry an image MIME type.
func NewAttachment(path string) (discord.FileAttachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return discord.FileAttachment{}, fmt.Errorf("file not found: %s", path)
		}
		return discord.FileAttachment{}, err
	}

	if info.Size() > maxAttachmentSize {
		return discord.FileAttachment{}, fmt.Errorf("%s exceeds Discord's 25MB limit", path)
	}

	filename := filepath.Base(path)
	mimeType, err := detectMIME(path)
	if err != nil {
		return discord.FileAttachment{}, err
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return discord.FileAttachment{}, fmt.Errorf("not an image file: %s (detected type: %s)", path, mimeType)
	}

	return discord.FileAttachment{
		Path:     path,
		Filename: filename,
		MIMEType: mimeType,
		Size:     info.Size(),
	}, nil
}

// detectMIME resolves the MIME type from the file extension, sniffing
// the content when the extension is unknown.
func detectMIME(path string) (string, error) {
	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		// Strip any charset parameter; Discord wants the bare type.
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType, nil
		}
		return byExt, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return "", fmt.Errorf("reading %s for type detection: %w", path, err)
	}
	return http.DetectContentType(head[:n]), nil
}

// ValidateAttachmentCount enforces Discord's attachment limit.
func ValidateAttachmentCount(count int) error {
	if count > MaxAttachments {
		return fmt.Errorf("cannot attach more than %d images (got %d)", MaxAttachments, count)
	}
	return nil
}

// ValidateContentLength enforces Discord's content length limit.
func ValidateContentLength(content string) error {
	if len(content) > MaxContentLength {
		return fmt.Errorf("message content exceeds Discord's %d character limit (got %d)", MaxContentLength, len(content))
	}
	return nil
}
