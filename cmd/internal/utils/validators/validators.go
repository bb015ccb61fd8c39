// Package validators holds the custom validation functions registered on the
// shared validator instance in main.
package validators

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// IsIso8601 accepts RFC3339 timestamps, e.g. "2024-01-10T09:00:00Z".
func IsIso8601(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.RFC3339, fl.Field().String())
	return err == nil
}

// IsE164 accepts international phone numbers like "+251911234567".
func IsE164(fl validator.FieldLevel) bool {
	return e164Pattern.MatchString(fl.Field().String())
}

// NoWhiteSpaces rejects strings containing spaces, tabs or newlines.
func NoWhiteSpaces(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return false
		}
	}
	return true
}
