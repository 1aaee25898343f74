package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is wrapped by every error that rejects a pattern
// definition.
var ErrConfiguration = errors.New("invalid pattern configuration")

// ConfigurationError explains why a constraint could not be added to a
// pattern. The pattern is unchanged when it is returned.
type ConfigurationError struct {
	Entry      int // position the constraint would have taken
	Constraint string
	Labels     []string
	Reason     string
	Cause      error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pattern entry %d", e.Entry)
	if e.Constraint != "" {
		fmt.Fprintf(&b, " %s", e.Constraint)
	}
	if len(e.Labels) > 0 {
		fmt.Fprintf(&b, " on [%s]", strings.Join(e.Labels, ", "))
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns both the configuration sentinel and the cause.
func (e *ConfigurationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrConfiguration, e.Cause}
	}
	return []error{ErrConfiguration}
}

func configError(entry int, c Constraint, labels []string, cause error, format string, args ...any) error {
	return &ConfigurationError{
		Entry:      entry,
		Constraint: describeConstraint(c),
		Labels:     append([]string(nil), labels...),
		Reason:     fmt.Sprintf(format, args...),
		Cause:      cause,
	}
}
