package insight

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyInput     = errors.New("comment text is empty")
	ErrInputTooLong   = errors.New("comment text exceeds the maximum length")
	ErrCredentialLike = errors.New("comment text looks like it contains a credential")
)

// Shapes that must never reach a third-party generation API.
var credentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{20,}\b`),
	regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),
	regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{20,}\b`),
	regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}\b`),
	regexp.MustCompile(`(?i)\b(password|passwort|api[_-]?key|secret)\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9_\-.=]{16,}`),
	regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`),
	regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\b`),
}

// ValidateInput rejects comments that must never be sent to the generator:
// empty, oversized, or containing credential-shaped substrings.
func ValidateInput(text string, maxChars int) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyInput
	}
	if maxChars > 0 && utf8.RuneCountInString(trimmed) > maxChars {
		return fmt.Errorf("%w (%d characters)", ErrInputTooLong, maxChars)
	}
	for _, pattern := range credentialPatterns {
		if pattern.MatchString(trimmed) {
			return ErrCredentialLike
		}
	}
	return nil
}
