// Package validator holds the pure field checks used during
// registration. Each check returns ok plus the first applicable
// user-facing failure message; callers accumulate across checks.
package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	upperRe = regexp.MustCompile(`[A-Z]`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	digitRe = regexp.MustCompile(`[0-9]`)

	phoneStripper = strings.NewReplacer(" ", "", "-", "")
)

// PasswordStrength requires length >= 8 plus at least one uppercase
// letter, one lowercase letter and one digit.
func PasswordStrength(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}
	if !upperRe.MatchString(password) {
		return false, "Password must contain at least one uppercase letter"
	}
	if !lowerRe.MatchString(password) {
		return false, "Password must contain at least one lowercase letter"
	}
	if !digitRe.MatchString(password) {
		return false, "Password must contain at least one number"
	}
	return true, ""
}

// IDNumber trims whitespace and requires exactly 13 digits.
func IDNumber(raw string) (bool, string) {
	id := strings.TrimSpace(raw)
	if err := validate.Var(id, "len=13,number"); err != nil {
		return false, "ID number must be 13 digits"
	}
	return true, ""
}

// PhoneNumber strips spaces and dashes, then requires 10-15 digits.
func PhoneNumber(raw string) (bool, string) {
	phone := NormalizePhone(raw)
	if err := validate.Var(phone, "number"); err != nil {
		return false, "Phone number must contain only digits"
	}
	if err := validate.Var(phone, "min=10,max=15"); err != nil {
		return false, "Phone number must be between 10 and 15 digits"
	}
	return true, ""
}

// NormalizePhone removes spaces and dashes. The normalized form is
// also what gets stored, so lookups round-trip consistently.
func NormalizePhone(raw string) string {
	return phoneStripper.Replace(raw)
}
