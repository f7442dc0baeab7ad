package logger

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger captures log messages so tests can assert on them.
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
	fields   map[string]interface{}
}

// LogMessage represents a captured log message
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// NewTestLogger creates a new capture logger.
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	l.messages = append(l.messages, LogMessage{Level: level, Message: msg, Fields: merged})
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil) }
func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}
func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}
func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}
func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

// WithField returns a logger sharing this capture buffer with an extra field.
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a logger sharing this capture buffer with extra fields.
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &sharedTestLogger{parent: l, fields: merged}
}

// WithError records the error as a field.
func (l *TestLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

// GetZerolog returns a nop zerolog instance.
func (l *TestLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}

// Messages returns a copy of all captured messages.
func (l *TestLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// MessagesByLevel returns captured messages of the given level.
func (l *TestLogger) MessagesByLevel(level string) []LogMessage {
	var filtered []LogMessage
	for _, m := range l.Messages() {
		if m.Level == level {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// HasMessageContaining reports whether any captured message contains text.
func (l *TestLogger) HasMessageContaining(text string) bool {
	for _, m := range l.Messages() {
		if strings.Contains(m.Message, text) {
			return true
		}
	}
	return false
}

// String renders the captured messages for debugging failed tests.
func (l *TestLogger) String() string {
	var b strings.Builder
	for _, m := range l.Messages() {
		fmt.Fprintf(&b, "[%s] %s", m.Level, m.Message)
		if len(m.Fields) > 0 {
			fmt.Fprintf(&b, " fields=%v", m.Fields)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// sharedTestLogger appends into its parent's buffer with bound fields.
type sharedTestLogger struct {
	parent *TestLogger
	fields map[string]interface{}
}

func (s *sharedTestLogger) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(s.fields)+len(fields))
	for k, v := range s.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	s.parent.log(level, msg, merged)
}

func (s *sharedTestLogger) Debug(msg string) { s.log("DEBUG", msg, nil) }
func (s *sharedTestLogger) Info(msg string)  { s.log("INFO", msg, nil) }
func (s *sharedTestLogger) Warn(msg string)  { s.log("WARN", msg, nil) }
func (s *sharedTestLogger) Error(msg string) { s.log("ERROR", msg, nil) }
func (s *sharedTestLogger) Fatal(msg string) { s.log("FATAL", msg, nil) }

func (s *sharedTestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	s.log("DEBUG", msg, fields)
}
func (s *sharedTestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	s.log("INFO", msg, fields)
}
func (s *sharedTestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	s.log("WARN", msg, fields)
}
func (s *sharedTestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	s.log("ERROR", msg, fields)
}

func (s *sharedTestLogger) WithField(key string, value interface{}) Logger {
	return s.WithFields(map[string]interface{}{key: value})
}

func (s *sharedTestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(s.fields)+len(fields))
	for k, v := range s.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &sharedTestLogger{parent: s.parent, fields: merged}
}

func (s *sharedTestLogger) WithError(err error) Logger {
	if err == nil {
		return s
	}
	return s.WithField("error", err.Error())
}

func (s *sharedTestLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
