package errors

import (
	"strings"
	"unicode"
)

// ValidateDiagramName validates a diagram name used as a store key or file
// basename. It rejects names that could be used for path traversal.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateDiagramName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "diagram name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidName, "diagram name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "diagram name contains invalid control characters")
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
			return New(ErrCodeInvalidName, "diagram name contains invalid characters: %q", pattern)
		}
	}

	return nil
}
