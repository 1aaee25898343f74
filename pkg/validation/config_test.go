package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfigValidator_MinInt(t *testing.T) {
	cv := NewConfigValidator("search")
	cv.MinInt("CheckInterval", 0, 1)

	if !cv.HasErrors() {
		t.Error("Expected error for value below minimum")
	}

	cv2 := NewConfigValidator("search")
	cv2.MinInt("CheckInterval", 5, 1)

	if cv2.HasErrors() {
		t.Error("Expected no error for value at or above minimum")
	}
}

func TestConfigValidator_RangeInt(t *testing.T) {
	tests := []struct {
		name        string
		value       int
		expectError bool
	}{
		{"in range", 25, false},
		{"at min", 0, false},
		{"at max", 100, false},
		{"below min", -1, true},
		{"above max", 101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("traversal")
			cv.RangeInt("ShortestSearchLimit", tt.value, 0, 100)
			if cv.HasErrors() != tt.expectError {
				t.Errorf("RangeInt(%d) errors = %v, want %v", tt.value, cv.Errors(), tt.expectError)
			}
		})
	}
}

func TestConfigValidator_NotAbove(t *testing.T) {
	cv := NewConfigValidator("traversal")
	cv.NotAbove("DefaultLimit", 5, "MaxLimit", 3)

	if !cv.HasErrors() {
		t.Fatal("Expected error when DefaultLimit exceeds MaxLimit")
	}
	if !strings.Contains(cv.Errors()[0].Error(), "traversal.DefaultLimit") {
		t.Errorf("Expected field path in error, got: %v", cv.Errors()[0])
	}

	cv2 := NewConfigValidator("traversal")
	cv2.NotAbove("DefaultLimit", 3, "MaxLimit", 3)
	if cv2.HasErrors() {
		t.Error("Expected no error for equal values")
	}
}

func TestConfigValidator_Positive(t *testing.T) {
	tests := []struct {
		value       int
		expectError bool
	}{
		{1, false},
		{100, false},
		{0, true},
		{-1, true},
	}

	for _, tt := range tests {
		cv := NewConfigValidator("search")
		cv.Positive("Workers", tt.value)

		if cv.HasErrors() != tt.expectError {
			t.Errorf("Positive(%d): expected error=%v, got error=%v", tt.value, tt.expectError, cv.HasErrors())
		}
	}
}

func TestConfigValidator_NonNegative(t *testing.T) {
	cv := NewConfigValidator("search")
	cv.NonNegative("MaxMatches", -1)

	if !cv.HasErrors() {
		t.Error("Expected error for negative value")
	}

	cv2 := NewConfigValidator("search")
	cv2.NonNegative("MaxMatches", 0)

	if cv2.HasErrors() {
		t.Error("Expected no error for zero")
	}
}

func TestConfigValidator_NonNegativeDuration(t *testing.T) {
	cv := NewConfigValidator("search")
	cv.NonNegativeDuration("Timeout", -time.Second)
	if !cv.HasErrors() {
		t.Error("Expected error for negative duration")
	}

	cv2 := NewConfigValidator("search")
	cv2.NonNegativeDuration("Timeout", 0)
	if cv2.HasErrors() {
		t.Error("Expected no error for zero duration")
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	allowed := []string{"directed", "undirected"}

	cv := NewConfigValidator("traversal")
	cv.OneOf("View", "directed", allowed)
	if cv.HasErrors() {
		t.Error("Expected no error for allowed value")
	}

	cv2 := NewConfigValidator("traversal")
	cv2.OneOf("View", "sideways", allowed)
	if !cv2.HasErrors() {
		t.Error("Expected error for disallowed value")
	}
}

func TestConfigValidator_Custom(t *testing.T) {
	cv := NewConfigValidator("blacklist")
	cv.Custom("File", func() error {
		return errors.New("file does not exist")
	})

	if !cv.HasErrors() {
		t.Fatal("Expected error from custom validation")
	}
	if !strings.Contains(cv.Errors()[0].Error(), "file does not exist") {
		t.Errorf("Expected custom message, got: %v", cv.Errors()[0])
	}

	cv2 := NewConfigValidator("blacklist")
	cv2.Custom("File", func() error { return nil })
	if cv2.HasErrors() {
		t.Error("Expected no error from passing custom validation")
	}
}

func TestConfigValidator_When(t *testing.T) {
	cv := NewConfigValidator("blacklist")
	cv.When(true, func(v *ConfigValidator) {
		v.Positive("DegreeThreshold", 0)
	})
	if !cv.HasErrors() {
		t.Error("Expected error when condition is true")
	}

	cv2 := NewConfigValidator("blacklist")
	cv2.When(false, func(v *ConfigValidator) {
		v.Positive("DegreeThreshold", 0)
	})
	if cv2.HasErrors() {
		t.Error("Expected no error when condition is false")
	}
}

func TestConfigValidator_Validate(t *testing.T) {
	cv := NewConfigValidator("search")
	cv.Positive("Workers", 0).
		NonNegative("MaxMatches", -1).
		MinInt("CheckInterval", 0, 1)

	if len(cv.Errors()) != 3 {
		t.Errorf("Expected 3 errors, got %d", len(cv.Errors()))
	}

	err := cv.Validate()
	if err == nil {
		t.Fatal("Expected error from Validate()")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got: %v", err)
	}
	for _, field := range []string{"Workers", "MaxMatches", "CheckInterval"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Expected %s in joined error, got: %v", field, err)
		}
	}

	if err := NewConfigValidator("search").Positive("Workers", 4).Validate(); err != nil {
		t.Errorf("Expected no error from Validate(), got: %v", err)
	}
}

func TestDefaultOrInt(t *testing.T) {
	if DefaultOrInt(0, 10) != 10 {
		t.Error("Expected default for zero")
	}
	if DefaultOrInt(-5, 10) != 10 {
		t.Error("Expected default for negative")
	}
	if DefaultOrInt(5, 10) != 5 {
		t.Error("Expected value for positive")
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		value, min, max, expected int
	}{
		{5, 1, 10, 5},   // in range
		{0, 1, 10, 1},   // below min
		{15, 1, 10, 10}, // above max
		{1, 1, 10, 1},   // at min
		{10, 1, 10, 10}, // at max
	}

	for _, tt := range tests {
		result := ClampInt(tt.value, tt.min, tt.max)
		if result != tt.expected {
			t.Errorf("ClampInt(%d, %d, %d) = %d, want %d", tt.value, tt.min, tt.max, result, tt.expected)
		}
	}
}
