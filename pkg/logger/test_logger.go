package logger

import (
	"sync"
)

// TestLogger captures log messages for assertions in tests
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

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	return &TestLogger{fields: make(map[string]interface{})}
}

// Messages returns a copy of all captured messages
func (l *TestLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// HasMessage reports whether a message with the given level and text was logged
func (l *TestLogger) HasMessage(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if m.Level == level && m.Message == msg {
			return true
		}
	}
	return false
}

func (l *TestLogger) record(level, msg string, fields map[string]interface{}) {
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

func (l *TestLogger) Debug(msg string) { l.record("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.record("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.record("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.record("ERROR", msg, nil) }
func (l *TestLogger) Fatal(msg string) { l.record("FATAL", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.record("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.record("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.record("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.record("ERROR", msg, fields)
}

// WithField returns a logger that records the extra field on every message
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a logger that records the extra fields on every message
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

// WithError attaches an error field
func (l *TestLogger) WithError(err error) Logger {
	return l.WithField("error", err)
}

// sharedTestLogger forwards records to its parent so that captured
// messages stay in one place regardless of WithField chains.
type sharedTestLogger struct {
	parent *TestLogger
	fields map[string]interface{}
}

func (s *sharedTestLogger) forward(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(s.fields)+len(fields))
	for k, v := range s.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	s.parent.record(level, msg, merged)
}

func (s *sharedTestLogger) Debug(msg string) { s.forward("DEBUG", msg, nil) }
func (s *sharedTestLogger) Info(msg string)  { s.forward("INFO", msg, nil) }
func (s *sharedTestLogger) Warn(msg string)  { s.forward("WARN", msg, nil) }
func (s *sharedTestLogger) Error(msg string) { s.forward("ERROR", msg, nil) }
func (s *sharedTestLogger) Fatal(msg string) { s.forward("FATAL", msg, nil) }

func (s *sharedTestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	s.forward("DEBUG", msg, fields)
}

func (s *sharedTestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	s.forward("INFO", msg, fields)
}

func (s *sharedTestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	s.forward("WARN", msg, fields)
}

func (s *sharedTestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	s.forward("ERROR", msg, fields)
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
	return s.WithField("error", err)
}
