package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var envVarPattern = regexp.MustCompile(`\$\{env://([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// SubstituteEnvVars replaces ${env://VAR} and ${env://VAR:-default}
// occurrences in content with values from the environment. A reference
// without a default that names an unset variable is an error, so
// secrets never silently render as empty strings.
func SubstituteEnvVars(content string) (string, error) {
	var missing []string

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varPart := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${env://")

		varName := varPart
		defaultValue := ""
		hasDefault := false
		if idx := strings.Index(varPart, ":-"); idx >= 0 {
			varName = varPart[:idx]
			defaultValue = varPart[idx+2:]
			hasDefault = true
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		if hasDefault {
			return defaultValue
		}

		missing = append(missing, varName)
		return match
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("environment variable substitution failed: %s not set", strings.Join(missing, ", "))
	}
	return result, nil
}

// HasEnvVars reports whether content contains ${env://...} references.
func HasEnvVars(content string) bool {
	return envVarPattern.MatchString(content)
}
