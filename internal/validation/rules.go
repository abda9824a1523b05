// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/xenoISA/isa-vault/internal/errors"
)

var (
	// tagRegex restricts tags to lowercase alphanumerics with dash, underscore and dot separators
	tagRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._\-]{0,62}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// Tag validates tag format: lowercase alphanumerics plus dash, underscore and
// dot. Empty strings are rejected; a tag list never carries blank entries.
var Tag = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_tag_type", "must be a string")
	}
	if !tagRegex.MatchString(s) {
		return validation.NewError(
			"validation_tag_format",
			"must be lowercase alphanumeric with optional dash, underscore or dot, at most 63 characters",
		)
	}
	return nil
})
