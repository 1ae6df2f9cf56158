package domain

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/haeseoky/member-service/pkg/util"
)

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

// Email is a normalized, validated email address. The zero value is invalid;
// construct via NewEmail. Code holding an Email may trust it without
// re-validating.
type Email struct {
	value string
}

// NewEmail normalizes raw (trim + lowercase) and validates the canonical
// form. Two inputs differing only in case or surrounding whitespace yield
// the same Email value.
func NewEmail(raw string) (Email, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return Email{}, apperrors.NewValidationError("email cannot be blank", nil)
	}
	if strings.Contains(trimmed, "..") || !emailPattern.MatchString(trimmed) {
		return Email{}, apperrors.NewValidationError(
			fmt.Sprintf("invalid email format: %s", raw),
			map[string]any{"email": raw},
		)
	}
	return Email{value: trimmed}, nil
}

// RestoreEmail wraps an already-canonical value coming back from storage.
// It skips validation; only the persistence adapter should call it.
func RestoreEmail(value string) Email {
	return Email{value: value}
}

// String returns the canonical form.
func (e Email) String() string {
	return e.value
}

// IsZero reports whether e was never constructed through NewEmail.
func (e Email) IsZero() bool {
	return e.value == ""
}
