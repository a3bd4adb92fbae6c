// Package prompt loads and renders prompt templates with {{variable}}
// placeholders.
package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Template is a loaded prompt template.
type Template struct {
	// Name is the file name without extension.
	Name string
	// Content is the raw template text.
	Content string
	// Variables lists the placeholder names found in Content, sorted
	// and deduplicated.
	Variables []string
}

// LoadTemplate reads a template file from disk.
func LoadTemplate(path string) (Template, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("reading prompt template: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Template{
		Name:      name,
		Content:   string(content),
		Variables: extractVariables(string(content)),
	}, nil
}

func extractVariables(content string) []string {
	seen := make(map[string]struct{})
	var vars []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(content, -1) {
		if _, ok := seen[match[1]]; ok {
			continue
		}
		seen[match[1]] = struct{}{}
		vars = append(vars, match[1])
	}
	sort.Strings(vars)
	return vars
}
