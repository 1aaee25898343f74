package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-pathways/pkg/config"
	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

func TestValidateTimeout(t *testing.T) {
	search := TimeoutConfig{Min: time.Second, Max: time.Minute, Default: 10 * time.Second}
	unbounded := TimeoutConfig{Default: 10 * time.Second}
	noDeadline := TimeoutConfig{Max: MaxQueryTimeout}

	tests := []struct {
		name   string
		cfg    TimeoutConfig
		in     time.Duration
		expect time.Duration
	}{
		{"unset takes default", search, 0, 10 * time.Second},
		{"negative takes default", search, -time.Second, 10 * time.Second},
		{"below min takes default", search, 500 * time.Millisecond, 10 * time.Second},
		{"above max is capped", search, 2 * time.Minute, time.Minute},
		{"in range is kept", search, 45 * time.Second, 45 * time.Second},
		{"min boundary is kept", search, time.Second, time.Second},
		{"no max keeps a long timeout", unbounded, 24 * time.Hour, 24 * time.Hour},
		{"no min keeps a short timeout", unbounded, time.Millisecond, time.Millisecond},
		{"zero default means no deadline", noDeadline, 0, 0},
		{"traversal bounds cap", DefaultQueryTimeoutConfig(), time.Hour, MaxQueryTimeout},
		{"traversal bounds default", DefaultQueryTimeoutConfig(), 0, DefaultQueryTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ValidateTimeout(tt.in, tt.cfg))
		})
	}
}

func TestTimeoutConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TimeoutConfig
		wantErr bool
	}{
		{"traversal bounds", DefaultQueryTimeoutConfig(), false},
		{"no bounds", TimeoutConfig{}, false},
		{"no max", TimeoutConfig{Min: time.Second, Default: time.Minute}, false},
		{"negative min", TimeoutConfig{Min: -time.Second}, true},
		{"negative default", TimeoutConfig{Default: -time.Second}, true},
		{"min above max", TimeoutConfig{Min: time.Minute, Max: time.Second}, true},
		{"default above max", TimeoutConfig{Max: time.Second, Default: time.Minute}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeout)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewExecutor_TraversalTimeout(t *testing.T) {
	g := pathwayModel().MustBuild(t, graph.Directed)

	cfg := config.Default()
	cfg.Traversal.Timeout = 2 * time.Second
	e, err := NewExecutor(g, Options{Config: &cfg})
	require.NoError(t, err)
	assert.Equal(t, TimeoutConfig{Max: MaxQueryTimeout, Default: 2 * time.Second}, e.travTimeout)
	assert.Equal(t, MaxQueryTimeout, ValidateTimeout(time.Hour, e.travTimeout))

	cfg.Traversal.Timeout = 0
	e, err = NewExecutor(g, Options{Config: &cfg})
	require.NoError(t, err)
	assert.Zero(t, ValidateTimeout(0, e.travTimeout), "no configured timeout means no deadline")

	cfg.Traversal.Timeout = MaxQueryTimeout + time.Second
	_, err = NewExecutor(g, Options{Config: &cfg})
	assert.ErrorIs(t, err, ErrInvalidTimeout)
}
