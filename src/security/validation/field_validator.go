// src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const MaxPeriodLabelLength = 40

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateStringRegex checks if a string matches a given regex pattern.
func ValidateStringRegex(s string, pattern *regexp.Regexp, fieldName, formatDescription string) error {
	if !pattern.MatchString(s) {
		return fmt.Errorf("%w: %s ('%s') is not in the expected format (%s)", ErrValidationFailed, fieldName, s, formatDescription)
	}
	return nil
}

// --- Specific Format Validators ---

// periodLabelRegex accepts month names and year-qualified labels such as
// "Enero" or "Enero 2024", including accented letters.
var periodLabelRegex = regexp.MustCompile(`^[\p{L}\p{N} _-]+$`)

// ValidatePeriodLabel checks that a period label is usable as a dataset key.
func ValidatePeriodLabel(s string) error {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, "period"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(trimmed, MaxPeriodLabelLength, "period"); err != nil {
		return err
	}
	return ValidateStringRegex(trimmed, periodLabelRegex, "period", "letters, digits, spaces, hyphens, underscores")
}
