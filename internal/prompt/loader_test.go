package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/discli/discli/internal/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderRelativeAndAbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "rel.txt", "relative")
	absPath := writeTemplate(t, t.TempDir(), "abs.txt", "absolute")

	loader := NewLoader(dir)

	rel, err := loader.Load("rel.txt")
	require.NoError(t, err)
	assert.Equal(t, "relative", rel.Content)

	abs, err := loader.Load(absPath)
	require.NoError(t, err)
	assert.Equal(t, "absolute", abs.Content)
}

func TestLoaderCachesUntilCleared(t *testing.T) {
	dir := t.TempDir()
	path := writeTemplate(t, dir, "cached.txt", "v1")

	loader := NewLoader(dir)
	first, err := loader.Load("cached.txt")
	require.NoError(t, err)
	assert.Equal(t, "v1", first.Content)

	// The cached copy survives deletion of the backing file.
	require.NoError(t, os.Remove(path))
	second, err := loader.Load("cached.txt")
	require.NoError(t, err)
	assert.Equal(t, "v1", second.Content)

	loader.ClearCache()
	_, err = loader.Load("cached.txt")
	require.Error(t, err)
}

func TestLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "one.txt", "1")
	writeTemplate(t, dir, "two.txt", "2")
	writeTemplate(t, dir, "notes.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	loader := NewLoader(dir)
	templates, err := loader.LoadAll()
	require.NoError(t, err)

	require.Len(t, templates, 2)
	names := []string{templates[0].Name, templates[1].Name}
	assert.ElementsMatch(t, []string{"one", "two"}, names)
}

func TestLoaderLoadAllMissingDir(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent"))
	templates, err := loader.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, templates)
}

func TestLoaderRender(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "greet.txt", "Hi {{author_name}}: {{content}}")

	loader := NewLoader(dir)
	msg := discord.Message{
		ChannelID: "42",
		Content:   "hello there",
		Author:    discord.Author{ID: "u1", Username: "sam"},
	}

	rendered, err := loader.Render("greet.txt", VariablesFromMessage(msg))
	require.NoError(t, err)
	assert.Equal(t, "Hi sam: hello there", rendered)
}

func TestLoaderRenderMissingTemplate(t *testing.T) {
	loader := NewLoader(t.TempDir())
	_, err := loader.Render("ghost.txt", MessageVariables{})
	require.Error(t, err)
}
