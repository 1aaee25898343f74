package query

import (
	"errors"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-pathways/pkg/algorithms"
	"github.com/dd0wney/cluso-pathways/pkg/graph"
	"github.com/dd0wney/cluso-pathways/pkg/validation"
)

// Traversal limits to prevent resource exhaustion
const (
	// MaxAllowedLimit is the absolute maximum distance of any traversal
	MaxAllowedLimit = 100
	// MinLimit is the minimum valid limit (0 means only the start nodes)
	MinLimit = 0
	// UseDefaultLimit asks for the executor's default limit
	UseDefaultLimit = -1

	// DefaultMaxResults is used when MaxResults is not specified or is 0
	DefaultMaxResults = 10000
	// MaxAllowedResults is the absolute maximum to prevent memory exhaustion
	MaxAllowedResults = 1000000
)

// ErrInvalidLimit is returned when a limit is out of its valid range
var ErrInvalidLimit = fmt.Errorf("traversal limit out of valid range [%d, %d]", MinLimit, MaxAllowedLimit)

// ErrInvalidMaxResults is returned when MaxResults is negative
var ErrInvalidMaxResults = errors.New("MaxResults must be non-negative")

// TraversalOptions configures one traversal query.
type TraversalOptions struct {
	Direction graph.Direction
	// Limit bounds distance; for shortest-plus-k path queries it is K.
	// Zero is valid and UseDefaultLimit picks the executor default.
	Limit     int
	LimitType algorithms.LimitType
	// Strict forbids PathsFromTo paths through another endpoint.
	Strict bool
	// NoFilter disables the blacklist for this query.
	NoFilter bool
	// MaxResults caps the paths AllPaths collects.
	MaxResults int
	Timeout    time.Duration
}

// ValidateTraversalOptions validates and normalizes traversal options
// against the given limits. It returns true when MaxResults was capped.
func ValidateTraversalOptions(opts *TraversalOptions, defaultLimit, maxLimit int) (bool, error) {
	if opts.Limit == UseDefaultLimit {
		opts.Limit = defaultLimit
	}
	if opts.Limit < MinLimit {
		return false, fmt.Errorf("%w: got %d", ErrInvalidLimit, opts.Limit)
	}
	if opts.Limit > maxLimit {
		return false, fmt.Errorf("%w: got %d (max %d)", ErrInvalidLimit, opts.Limit, maxLimit)
	}
	if opts.Direction > graph.Both {
		return false, fmt.Errorf("%w: unknown direction %d", algorithms.ErrInvalidOptions, opts.Direction)
	}

	if opts.MaxResults < 0 {
		return false, ErrInvalidMaxResults
	}
	capped := opts.MaxResults > MaxAllowedResults
	opts.MaxResults = validation.ClampInt(validation.DefaultOrInt(opts.MaxResults, DefaultMaxResults), 1, MaxAllowedResults)
	return capped, nil
}

// SubgraphResult is the evidence subgraph of a traversal, as domain
// objects in handle order.
type SubgraphResult struct {
	Nodes     []any
	Edges     []any
	Truncated bool
	RunID     string
	Duration  time.Duration
}

// PathsResult holds the paths of AllPaths as domain object sequences.
type PathsResult struct {
	Paths [][]any
	// Truncated is set when MaxResults, the timeout or the context ended
	// the enumeration.
	Truncated bool
	RunID     string
	Duration  time.Duration
}
