package common

import (
	"regexp"
	"strings"
)

// SensitivePattern describes one class of secrets to redact from log output.
type SensitivePattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
	// Keys lists attribute keys whose values are always redacted (case-insensitive).
	Keys []string
}

// DefaultSensitivePatterns covers the credentials the harness handles:
// the bearer token threaded through the run, and register/login passwords.
var DefaultSensitivePatterns = []SensitivePattern{
	{
		Name:        "bearer_token",
		Regex:       regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]+=*`),
		Replacement: "Bearer ***MASKED***",
	},
	{
		Name:        "token",
		Regex:       regexp.MustCompile(`(?i)("token"\s*:\s*)"[^"]*"`),
		Replacement: `${1}"***MASKED***"`,
		Keys:        []string{"token", "access_token", "refresh_token"},
	},
	{
		Name:        "password",
		Regex:       regexp.MustCompile(`(?i)("password"\s*:\s*)"[^"]*"`),
		Replacement: `${1}"***MASKED***"`,
		Keys:        []string{"password", "client_secret"},
	},
	{
		Name: "authorization",
		Keys: []string{"authorization"},
	},
}

// Masker redacts sensitive information before it reaches log output.
type Masker struct {
	patterns []SensitivePattern
	enabled  bool
}

// NewMasker creates a masker with the default pattern set.
func NewMasker() *Masker {
	return &Masker{
		patterns: DefaultSensitivePatterns,
		enabled:  true,
	}
}

// SetEnabled enables or disables masking
func (m *Masker) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// IsEnabled returns whether masking is enabled
func (m *Masker) IsEnabled() bool {
	return m.enabled
}

// MaskString applies all regex patterns to the input.
func (m *Masker) MaskString(input string) string {
	if !m.enabled {
		return input
	}
	result := input
	for _, p := range m.patterns {
		if p.Regex == nil {
			continue
		}
		result = p.Regex.ReplaceAllString(result, p.Replacement)
	}
	return result
}

// MaskValue redacts a value when its attribute key is sensitive, otherwise
// applies the regex patterns to string values.
func (m *Masker) MaskValue(key string, value interface{}) interface{} {
	if !m.enabled {
		return value
	}

	lowerKey := strings.ToLower(key)
	for _, p := range m.patterns {
		for _, k := range p.Keys {
			if lowerKey == k {
				return "***MASKED***"
			}
		}
	}

	if s, ok := value.(string); ok {
		return m.MaskString(s)
	}
	return value
}
