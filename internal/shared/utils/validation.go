package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Size limits
const (
	MaxIDLength          = 128
	MaxTitleLength       = 256
	MaxPromptLength      = 64 * 1024 // 64KB - a single broadcast prompt
	MaxTemplateKeyLength = 128
	MaxURLLength         = 8 * 1024
)

var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// ProviderPattern allows provider ids and bare hostnames
	ProviderPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*$`)
	// TemplateKeyPattern allows slash-separated key paths like "code/review"
	TemplateKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+(/[a-zA-Z0-9_.-]+)*$`)
)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateID validates an ID field
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}

	if id != "" && !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}

	return nil
}

// ValidateProvider validates a provider id or hostname
func ValidateProvider(provider string) error {
	if err := ValidateString(provider, "provider", 1, MaxIDLength, true); err != nil {
		return err
	}
	if !ProviderPattern.MatchString(provider) {
		return fmt.Errorf("provider %q is not a provider id or hostname", provider)
	}
	return nil
}

// ValidateTitle validates a session title. Blank titles are allowed here;
// the session controller decides what a blank rename means.
func ValidateTitle(title string) error {
	return ValidateString(title, "title", 0, MaxTitleLength, false)
}

// ValidatePrompt validates text about to be broadcast
func ValidatePrompt(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	return ValidateString(text, "text", 1, MaxPromptLength, true)
}

// ValidateTemplateKey validates a prompt template key
func ValidateTemplateKey(key string) error {
	if err := ValidateString(key, "key", 1, MaxTemplateKeyLength, true); err != nil {
		return err
	}
	if !TemplateKeyPattern.MatchString(key) {
		return fmt.Errorf("key %q must be slash-separated segments of letters, digits, '.', '_' or '-'", key)
	}
	return nil
}
