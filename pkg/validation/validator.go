package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// MaxPatternNameLength bounds the names of registered patterns.
const MaxPatternNameLength = 64

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	patternNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
)

func init() {
	validate = validator.New()
	// patternname accepts lower-case, dash separated names such as
	// "controls-state-change".
	if err := validate.RegisterValidation("patternname", func(fl validator.FieldLevel) bool {
		return ValidatePatternName(fl.Field().String()) == nil
	}); err != nil {
		panic(err)
	}
}

// Struct validates the `validate` tags of v.
func Struct(v any) error {
	if v == nil {
		return fmt.Errorf("%w: nil value", ErrInvalidConfig)
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidatePatternName checks a library pattern name.
func ValidatePatternName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: pattern name cannot be empty", ErrInvalidConfig)
	}
	if len(name) > MaxPatternNameLength {
		return fmt.Errorf("%w: pattern name '%s' exceeds maximum length of %d characters", ErrInvalidConfig, name, MaxPatternNameLength)
	}
	if !patternNamePattern.MatchString(name) {
		return fmt.Errorf("%w: pattern name '%s' is invalid (lower-case words separated by dashes)", ErrInvalidConfig, name)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Report the first failure with its full field path
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%w: %s: field is required", ErrInvalidConfig, field)
		case "min", "gte":
			return fmt.Errorf("%w: %s: must be at least %s", ErrInvalidConfig, field, param)
		case "max", "lte":
			return fmt.Errorf("%w: %s: must not exceed %s", ErrInvalidConfig, field, param)
		case "gt":
			return fmt.Errorf("%w: %s: must be greater than %s", ErrInvalidConfig, field, param)
		case "oneof":
			return fmt.Errorf("%w: %s: must be one of [%s]", ErrInvalidConfig, field, param)
		case "patternname":
			return fmt.Errorf("%w: %s: %q is not a valid pattern name", ErrInvalidConfig, field, e.Value())
		default:
			return fmt.Errorf("%w: %s: validation failed (%s)", ErrInvalidConfig, field, e.Tag())
		}
	}

	return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
}
