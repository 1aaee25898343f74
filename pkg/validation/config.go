package validation

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is wrapped by every error ConfigValidator and Struct
// report.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigValidator collects cross-field configuration errors rather than
// failing on the first one.
type ConfigValidator struct {
	errors []error
	name   string // section name for error messages
}

// NewConfigValidator creates a validator for the named config section.
func NewConfigValidator(section string) *ConfigValidator {
	return &ConfigValidator{name: section}
}

func (cv *ConfigValidator) addf(field, format string, args ...any) {
	cv.errors = append(cv.errors, fmt.Errorf("%w: %s.%s: %s", ErrInvalidConfig, cv.name, field, fmt.Sprintf(format, args...)))
}

// MinInt validates that an int field is at least min.
func (cv *ConfigValidator) MinInt(field string, value, min int) *ConfigValidator {
	if value < min {
		cv.addf(field, "value %d is below minimum %d", value, min)
	}
	return cv
}

// RangeInt validates that an int field is within [min, max].
func (cv *ConfigValidator) RangeInt(field string, value, min, max int) *ConfigValidator {
	if value < min || value > max {
		cv.addf(field, "value %d is outside range [%d, %d]", value, min, max)
	}
	return cv
}

// NotAbove validates that one int field does not exceed another.
func (cv *ConfigValidator) NotAbove(field string, value int, boundField string, bound int) *ConfigValidator {
	if value > bound {
		cv.addf(field, "value %d exceeds %s (%d)", value, boundField, bound)
	}
	return cv
}

// Positive validates that an int field is > 0.
func (cv *ConfigValidator) Positive(field string, value int) *ConfigValidator {
	if value <= 0 {
		cv.addf(field, "value %d must be positive", value)
	}
	return cv
}

// NonNegative validates that an int field is >= 0.
func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		cv.addf(field, "value %d must be non-negative", value)
	}
	return cv
}

// NonNegativeDuration validates that a duration field is >= 0.
func (cv *ConfigValidator) NonNegativeDuration(field string, value time.Duration) *ConfigValidator {
	if value < 0 {
		cv.addf(field, "duration %v must be non-negative", value)
	}
	return cv
}

// OneOf validates that a string field is one of the allowed values.
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	cv.addf(field, "value %q must be one of %v", value, allowed)
	return cv
}

// Custom applies a custom validation function.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.addf(field, "%v", err)
	}
	return cv
}

// When applies validations only if condition holds.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// HasErrors reports whether any validation failed.
func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errors) > 0
}

// Errors returns all validation errors.
func (cv *ConfigValidator) Errors() []error {
	return cv.errors
}

// Validate joins every collected error, or returns nil.
func (cv *ConfigValidator) Validate() error {
	return errors.Join(cv.errors...)
}

// ClampInt clamps a value to [min, max].
func ClampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// DefaultOrInt returns value if it is positive, otherwise def.
func DefaultOrInt(value, def int) int {
	if value <= 0 {
		return def
	}
	return value
}
