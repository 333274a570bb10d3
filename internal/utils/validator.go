package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an email address
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword checks the password length bounds
func ValidatePassword(password string) bool {
	return len(password) >= PasswordMinLength && len(password) <= PasswordMaxLength
}

// ValidateDisplayName checks the display name length
func ValidateDisplayName(name string) bool {
	return len(strings.TrimSpace(name)) >= 2
}

// SanitizeEmail normalizes an email address for lookup and storage
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
