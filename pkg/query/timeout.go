package query

import (
	"errors"
	"fmt"
	"time"
)

// Traversal timeout bounds.
const (
	// DefaultQueryTimeout applies when neither the call nor the
	// configuration sets a timeout.
	DefaultQueryTimeout = 30 * time.Second
	// MaxQueryTimeout caps any requested traversal timeout.
	MaxQueryTimeout = 5 * time.Minute
)

// ErrInvalidTimeout is returned for a TimeoutConfig that cannot bound
// anything.
var ErrInvalidTimeout = errors.New("invalid timeout configuration")

// TimeoutConfig defines the bounds for timeout validation.
type TimeoutConfig struct {
	Min     time.Duration // Minimum allowed timeout (0 means no minimum)
	Max     time.Duration // Maximum allowed timeout (0 means no maximum)
	Default time.Duration // Default timeout when value is invalid
}

// DefaultQueryTimeoutConfig returns the bounds traversals start from; the
// executor replaces Default with the configured traversal timeout.
func DefaultQueryTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Max:     MaxQueryTimeout,
		Default: DefaultQueryTimeout,
	}
}

// Validate rejects negative bounds, a minimum above the maximum and a
// default outside them.
func (c TimeoutConfig) Validate() error {
	switch {
	case c.Min < 0 || c.Max < 0 || c.Default < 0:
		return fmt.Errorf("%w: negative bound (min %v, max %v, default %v)", ErrInvalidTimeout, c.Min, c.Max, c.Default)
	case c.Max > 0 && c.Min > c.Max:
		return fmt.Errorf("%w: min %v above max %v", ErrInvalidTimeout, c.Min, c.Max)
	case c.Max > 0 && c.Default > c.Max:
		return fmt.Errorf("%w: default %v above max %v", ErrInvalidTimeout, c.Default, c.Max)
	}
	return nil
}

// ValidateTimeout normalizes a requested timeout: unset or below Min gives
// Default, above Max gives Max. A zero result means no deadline.
func ValidateTimeout(timeout time.Duration, config TimeoutConfig) time.Duration {
	if timeout <= 0 {
		return config.Default
	}
	if config.Min > 0 && timeout < config.Min {
		return config.Default
	}
	if config.Max > 0 && timeout > config.Max {
		return config.Max
	}
	return timeout
}
