package app

import (
	"encoding/json"
	"io"
	"time"
)

// Logger writes one JSON event per line. A nil writer discards everything,
// which keeps call sites free of nil checks.
type Logger struct {
	out io.Writer
}

type logEvent struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func NewLogger(out io.Writer) *Logger {
	if out == nil {
		out = io.Discard
	}
	return &Logger{out: out}
}

func (l *Logger) Info(message string, fields map[string]any) {
	l.write("info", message, fields)
}

func (l *Logger) Error(message string, fields map[string]any) {
	l.write("error", message, fields)
}

func (l *Logger) write(level, message string, fields map[string]any) {
	evt := logEvent{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Message:   message,
		Fields:    fields,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}
	payload = append(payload, '\n')
	_, _ = l.out.Write(payload)
}
