package logging

import (
	"time"
)

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Duration renders the value with time.Duration.String.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field { return Field{Key: key, Value: value} }

// Domain fields. Keys are shared so log queries work across packages.

func Component(name string) Field { return String("component", name) }

func Operation(op string) Field { return String("operation", op) }

func Latency(d time.Duration) Field { return Duration("latency", d) }

func Count(n int) Field { return Int("count", n) }

// Handle records a graph handle.
func Handle(h uint64) Field { return Uint64("handle", h) }

// Pattern records the name or rendering of a pattern.
func Pattern(name string) Field { return String("pattern", name) }

// Query records the traversal or search kind.
func Query(kind string) Field { return String("query", kind) }

// RunID correlates every log line of one search or traversal.
func RunID(id string) Field { return String("run_id", id) }

func Matches(n int) Field { return Int("matches", n) }

func Steps(n int64) Field { return Int64("steps", n) }

func Truncated(v bool) Field { return Bool("truncated", v) }

func Limit(n int) Field { return Int("limit", n) }
