package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// NewJSONLogger creates a JSON logger writing to writer.
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		out:   &sink{w: writer},
		level: level,
		now:   time.Now,
	}
}

// New builds a logger from configuration. Output defaults to stderr so
// that result streams on stdout stay clean.
func New(cfg Config) (Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	return NewJSONLogger(w, level), nil
}

func (l *JSONLogger) log(level Level, msg string, fields ...Field) {
	l.mu.RLock()
	min, preset := l.level, l.fields
	l.mu.RUnlock()
	if level < min {
		return
	}

	entry := LogEntry{
		Time:    l.now().UTC().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if n := len(preset) + len(fields); n > 0 {
		entry.Fields = make(map[string]any, n)
		for _, f := range preset {
			entry.Fields[f.Key] = f.Value
		}
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	if err != nil {
		fmt.Fprintf(l.out.w, "{\"level\":\"ERROR\",\"msg\":\"unencodable log entry\",\"error\":%q}\n", err.Error())
		return
	}
	l.out.w.Write(append(data, '\n'))
}

// Debug logs a debug-level message
func (l *JSONLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields...) }

// Info logs an info-level message
func (l *JSONLogger) Info(msg string, fields ...Field) { l.log(InfoLevel, msg, fields...) }

// Warn logs a warning-level message
func (l *JSONLogger) Warn(msg string, fields ...Field) { l.log(WarnLevel, msg, fields...) }

// Error logs an error-level message
func (l *JSONLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields...) }

// With returns a child sharing the parent's output and current level.
func (l *JSONLogger) With(fields ...Field) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &JSONLogger{out: l.out, level: l.level, fields: merged, now: l.now}
}

// SetLevel sets the minimum log level
func (l *JSONLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *JSONLogger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
	defaultOnce   sync.Once
)

// DefaultLogger returns the process-wide logger. Unless replaced with
// SetDefaultLogger it writes to stderr at the level named by the
// LOG_LEVEL environment variable.
func DefaultLogger() Logger {
	defaultOnce.Do(func() {
		level, err := ParseLevel(os.Getenv("LOG_LEVEL"))
		if err != nil {
			level = InfoLevel
		}
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = NewJSONLogger(os.Stderr, level)
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger.
func SetDefaultLogger(logger Logger) {
	defaultOnce.Do(func() {})
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// OrDefault returns l, or the default logger when l is nil.
func OrDefault(l Logger) Logger {
	if l == nil {
		return DefaultLogger()
	}
	return l
}

func Debug(msg string, fields ...Field) { DefaultLogger().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { DefaultLogger().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { DefaultLogger().Warn(msg, fields...) }

// ErrorLog logs through the default logger. It is not called Error because
// Error is the error field constructor.
func ErrorLog(msg string, fields ...Field) { DefaultLogger().Error(msg, fields...) }

// With creates a child of the default logger.
func With(fields ...Field) Logger { return DefaultLogger().With(fields...) }

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: OrDefault(logger),
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the operation started.
func (t *TimedOperation) Elapsed() time.Duration { return time.Since(t.start) }

// End logs the operation at info level with its duration
func (t *TimedOperation) End(fields ...Field) {
	t.EndWithLevel(InfoLevel, t.msg, fields...)
}

// EndWithLevel logs the operation at the specified level with its duration
func (t *TimedOperation) EndWithLevel(level Level, msg string, fields ...Field) {
	all := make([]Field, 0, len(t.fields)+len(fields)+1)
	all = append(all, t.fields...)
	all = append(all, fields...)
	all = append(all, Latency(t.Elapsed()))
	switch level {
	case DebugLevel:
		t.logger.Debug(msg, all...)
	case InfoLevel:
		t.logger.Info(msg, all...)
	case WarnLevel:
		t.logger.Warn(msg, all...)
	default:
		t.logger.Error(msg, all...)
	}
}

// EndError logs the operation as failed
func (t *TimedOperation) EndError(err error, fields ...Field) {
	t.EndWithLevel(ErrorLevel, t.msg, append(fields, Error(err))...)
}
