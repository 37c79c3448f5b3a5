package tagcatalog

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

type Validator interface {
	ValidateTagName(name string) *ValidationResult
	ValidatePath(path string) error
	ValidateConfig(config *Config) error
}

var (
	queryMetaPrefix = regexp.MustCompile(`^[!$@]+`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

type DefaultValidator struct{}

func NewDefaultValidator() *DefaultValidator {
	return &DefaultValidator{}
}

// ValidateTagName checks that a tag name can be written in a query as a
// plain word. Names that would need quoting are still usable but are
// reported with a suggested alternative.
func (v *DefaultValidator) ValidateTagName(name string) *ValidationResult {
	result := &ValidationResult{
		IsValid:     true,
		Issues:      []string{},
		Suggestions: []string{},
	}

	clean := normalizeTagName(name)
	if clean == "" {
		result.IsValid = false
		result.Issues = append(result.Issues, "Tag name cannot be empty")
		return result
	}

	if queryMetaPrefix.MatchString(clean) {
		result.IsValid = false
		result.Issues = append(result.Issues, "Tag name starts with a query operator (!, $ or @)")
		if trimmed := queryMetaPrefix.ReplaceAllString(clean, ""); trimmed != "" {
			result.Suggestions = append(result.Suggestions, fmt.Sprintf("Suggested: %s", trimmed))
		}
	}

	if strings.ContainsAny(clean, "[]\"\\") {
		result.IsValid = false
		result.Issues = append(result.Issues, "Tag name contains brackets, quotes or backslashes")
	}

	if whitespaceRun.MatchString(clean) {
		result.IsValid = false
		result.Issues = append(result.Issues, "Tag name contains whitespace")
		result.Suggestions = append(result.Suggestions, fmt.Sprintf("Suggested: %s", whitespaceRun.ReplaceAllString(clean, "-")))
	}

	return result
}

func (v *DefaultValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute")
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("path contains directory traversal")
		}
	}

	return nil
}

func (v *DefaultValidator) ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if config.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}

	if config.MaxRecent < 1 {
		return fmt.Errorf("max_recent must be at least 1")
	}

	for _, ext := range config.DefaultIgnoredExtensions {
		if normalizeExtension(ext) == "" {
			return fmt.Errorf("default_ignored_extensions contains an empty extension")
		}
	}

	if _, err := ParseLogLevel(config.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}

	switch LogFormat(config.LogFormat) {
	case LogFormatText, LogFormatJSON, "":
	default:
		return fmt.Errorf("log_format must be %q or %q", LogFormatText, LogFormatJSON)
	}

	return nil
}
