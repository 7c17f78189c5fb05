package errors

import (
	"strings"
	"unicode"
)

// ValidateSceneName validates a scene name used as a store key or file stem.
// It rejects names that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 128 characters
func ValidateSceneName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "scene name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "scene name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "scene name contains control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "scene name contains invalid sequence: %q", pattern)
		}
	}

	return nil
}
