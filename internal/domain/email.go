package domain

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidEmail reports whether email looks like local@domain.tld. The check is
// deliberately permissive.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ParseEmail normalizes raw and validates the result.
func ParseEmail(raw string) (string, error) {
	email := NormalizeEmail(raw)
	if email == "" {
		return "", ErrEmailRequired
	}
	if !ValidEmail(email) {
		return "", ErrEmailFormat
	}
	return email, nil
}
