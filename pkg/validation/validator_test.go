package validation

import (
	"errors"
	"strings"
	"testing"
)

type section struct {
	Workers  int      `validate:"gt=0"`
	Mode     string   `validate:"required,oneof=single all parallel"`
	Limit    int      `validate:"gte=0,lte=100"`
	Patterns []string `validate:"dive,patternname"`
}

type wrapper struct {
	Search section
}

func TestStruct(t *testing.T) {
	valid := section{Workers: 4, Mode: "all", Limit: 10, Patterns: []string{"controls-state-change"}}

	tests := []struct {
		name       string
		mutate     func(s *section)
		errorField string
	}{
		{"valid", func(s *section) {}, ""},
		{"zero workers", func(s *section) { s.Workers = 0 }, "Workers"},
		{"missing mode", func(s *section) { s.Mode = "" }, "Mode"},
		{"unknown mode", func(s *section) { s.Mode = "random" }, "Mode"},
		{"negative limit", func(s *section) { s.Limit = -1 }, "Limit"},
		{"limit too large", func(s *section) { s.Limit = 101 }, "Limit"},
		{"bad pattern name", func(s *section) { s.Patterns = []string{"Controls State"} }, "Patterns[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			s.Patterns = append([]string(nil), valid.Patterns...)
			tt.mutate(&s)

			err := Struct(wrapper{Search: s})
			if tt.errorField == "" {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error for %s", tt.errorField)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got: %v", err)
			}
			if !strings.Contains(err.Error(), "wrapper.Search."+tt.errorField) {
				t.Errorf("Expected field path %q in error, got: %v", tt.errorField, err)
			}
		})
	}
}

func TestStruct_Nil(t *testing.T) {
	if err := Struct(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for nil, got: %v", err)
	}
}

func TestValidatePatternName(t *testing.T) {
	tests := []struct {
		name        string
		expectError bool
	}{
		{"controls", false},
		{"controls-state-change", false},
		{"in-complex-with", false},
		{"step2", false},
		{"", true},
		{"Controls", true},
		{"controls_state", true},
		{"-controls", true},
		{"controls-", true},
		{"controls--state", true},
		{"2controls", true},
		{strings.Repeat("a", MaxPatternNameLength+1), true},
	}

	for _, tt := range tests {
		err := ValidatePatternName(tt.name)
		if (err != nil) != tt.expectError {
			t.Errorf("ValidatePatternName(%q) = %v, expectError %v", tt.name, err, tt.expectError)
		}
		if err != nil && !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("ValidatePatternName(%q) error %v does not wrap ErrInvalidConfig", tt.name, err)
		}
	}
}
