package services

import (
	"regexp"
	"strings"
)

// Validation regex patterns
var (
	phonePattern   = regexp.MustCompile(`^\+?[0-9]{6,15}$`)
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	decimalPattern = regexp.MustCompile(`^-?[0-9]+([.,][0-9]+)?$`)
)

// ValidatePhone validates a phone number (optional +prefix, 6-15 digits,
// spaces and dashes ignored).
func ValidatePhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return true
	}
	phone = strings.NewReplacer(" ", "", "-", "").Replace(phone)
	return phonePattern.MatchString(phone)
}

// ValidateEmail validates an email address format.
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return true
	}
	return emailPattern.MatchString(email)
}

// ValidateDecimal validates a numeric value with an optional comma or dot
// decimal separator.
func ValidateDecimal(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	return decimalPattern.MatchString(s)
}

// ValidatePriceSource validates a price list identifier. Empty is allowed,
// meaning the item has no regional price list attached.
func ValidatePriceSource(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return true
	}
	for _, src := range AllSources {
		if s == string(src) {
			return true
		}
	}
	return false
}

// ValidateClientContact validates the client contact fields of a project
// and returns a map of field -> error message for any format violations.
func ValidateClientContact(fields map[string]string) map[string]string {
	errors := make(map[string]string)

	if v := fields["clientPhone"]; v != "" && !ValidatePhone(v) {
		errors["clientPhone"] = "Invalid phone number format"
	}
	if v := fields["clientEmail"]; v != "" && !ValidateEmail(v) {
		errors["clientEmail"] = "Invalid email format"
	}
	return errors
}
