// Package notify is the user-facing message sink the trade engine reports
// through. Messages are informational; nothing here drives control flow.
package notify

import "log"

type Sink interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// LogSink writes messages to a stdlib logger.
type LogSink struct {
	l *log.Logger
}

func NewLogSink(l *log.Logger) *LogSink {
	return &LogSink{l: l}
}

func (s *LogSink) Info(msg string)  { s.l.Printf("INFO %s", msg) }
func (s *LogSink) Warn(msg string)  { s.l.Printf("WARN %s", msg) }
func (s *LogSink) Error(msg string) { s.l.Printf("ERROR %s", msg) }

// Discard drops every message. Useful default for tests and embedders that
// surface state through their own UI.
type Discard struct{}

func (Discard) Info(string)  {}
func (Discard) Warn(string)  {}
func (Discard) Error(string) {}
