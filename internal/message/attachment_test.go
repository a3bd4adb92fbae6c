package message

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a real PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestNewAttachmentFromPNG(t *testing.T) {
	path := writeFile(t, "shot.png", pngHeader)

	att, err := NewAttachment(path)
	require.NoError(t, err)

	assert.Equal(t, path, att.Path)
	assert.Equal(t, "shot.png", att.Filename)
	assert.Equal(t, "image/png", att.MIMEType)
	assert.Equal(t, int64(len(pngHeader)), att.Size)
}

func TestNewAttachmentSniffsUnknownExtension(t *testing.T) {
	path := writeFile(t, "screenshot.img_backup", pngHeader)

	att, err := NewAttachment(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", att.MIMEType)
}

func TestNewAttachmentMissingFile(t *testing.T) {
	_, err := NewAttachment(filepath.Join(t.TempDir(), "ghost.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestNewAttachmentRejectsNonImage(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("plain text"))

	_, err := NewAttachment(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an image file")
}

func TestValidateAttachmentCount(t *testing.T) {
	assert.NoError(t, ValidateAttachmentCount(0))
	assert.NoError(t, ValidateAttachmentCount(MaxAttachments))
	assert.Error(t, ValidateAttachmentCount(MaxAttachments+1))
}

func TestValidateContentLength(t *testing.T) {
	assert.NoError(t, ValidateContentLength(""))
	assert.NoError(t, ValidateContentLength(strings.Repeat("a", MaxContentLength)))
	assert.Error(t, ValidateContentLength(strings.Repeat("a", MaxContentLength+1)))
}

func TestBuilder(t *testing.T) {
	first := writeFile(t, "a.png", pngHeader)
	second := writeFile(t, "b.png", pngHeader)

	b := NewBuilder().Content("look at these")
	b.Caption("release screenshots")
	require.NoError(t, b.AttachAll([]string{first, second}))

	msg := b.Build()
	assert.Equal(t, "look at these", msg.Content)
	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, "a.png", msg.Attachments[0].Filename)
	assert.Equal(t, "release screenshots", msg.Attachments[0].Description)
	assert.Equal(t, "release screenshots", msg.Attachments[1].Description)
}

func TestBuilderCaptionAppliesRetroactively(t *testing.T) {
	path := writeFile(t, "a.png", pngHeader)

	b := NewBuilder()
	require.NoError(t, b.Attach(path))
	b.Caption("late caption")

	msg := b.Build()
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "late caption", msg.Attachments[0].Description)
}

func TestBuilderStopsAtFirstInvalidFile(t *testing.T) {
	good := writeFile(t, "a.png", pngHeader)
	bad := filepath.Join(t.TempDir(), "missing.png")

	b := NewBuilder()
	err := b.AttachAll([]string{good, bad, good})
	require.Error(t, err)
	assert.Len(t, b.Build().Attachments, 1)
}
