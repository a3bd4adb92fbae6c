package prompt

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// Loader loads templates from a prompts directory with caching.
//
// Cache entries are keyed by resolved path and live until ClearCache;
// a template edited on disk is not picked up while the process runs.
type Loader struct {
	promptsDir string

	mu    sync.RWMutex
	cache map[string]Template
}

// NewLoader creates a loader rooted at promptsDir.
func NewLoader(promptsDir string) *Loader {
	return &Loader{
		promptsDir: promptsDir,
		cache:      make(map[string]Template),
	}
}

// resolve maps a template path to its cache key: absolute paths are
// used as-is, relative paths resolve against the prompts directory.
func (l *Loader) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.promptsDir, path)
}

// Load returns the template at path, from cache when possible.
func (l *Loader) Load(path string) (Template, error) {
	resolved := l.resolve(path)

	l.mu.RLock()
	cached, ok := l.cache[resolved]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	// Miss: load and insert under the write lock so concurrent misses
	// for the same path cannot interleave a partial insert.
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.cache[resolved]; ok {
		return cached, nil
	}

	template, err := LoadTemplate(resolved)
	if err != nil {
		return Template{}, err
	}
	l.cache[resolved] = template
	return template, nil
}

// LoadAll loads every .txt template in the prompts directory. Files
// that fail to load are skipped with a warning.
func (l *Loader) LoadAll() ([]Template, error) {
	entries, err := os.ReadDir(l.promptsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var templates []Template
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
			continue
		}
		template, err := l.Load(entry.Name())
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping prompt template")
			continue
		}
		templates = append(templates, template)
	}
	return templates, nil
}

// Render loads the template at path and substitutes vars into it.
func (l *Loader) Render(path string, vars MessageVariables) (string, error) {
	template, err := l.Load(path)
	if err != nil {
		return "", err
	}
	return Substitute(template.Content, vars), nil
}

// ClearCache drops all cached templates.
func (l *Loader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]Template)
}
