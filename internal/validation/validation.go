// Package validation provides request-level validation shared by the
// HTTP handlers.
package validation

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

var fundCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid UUID format: %s", id)
	}
	return nil
}

// ValidateFundCode checks that a fund code is a six-digit string, the
// format the upstream directory uses.
func ValidateFundCode(code string) error {
	if !fundCodePattern.MatchString(code) {
		return fmt.Errorf("invalid fund code: %q", code)
	}
	return nil
}

// Error carries per-field validation messages for a 400 response body.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}
