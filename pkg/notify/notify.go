// Package notify delivers fire-and-forget run summaries.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DefaultReason explains empty runs when the walker gave no reason.
const DefaultReason = "cannot model arrays inside arrays."

// Summary describes the outcome of one generation run.
type Summary struct {
	Count    int
	First    string
	Reason   string
	Strategy string
}

// Message renders the user facing summary line.
func (s Summary) Message() string {
	if s.Count > 0 && s.First != "" {
		return fmt.Sprintf("Completed - %s.swift", s.First)
	}
	reason := s.Reason
	if reason == "" {
		reason = DefaultReason
	}
	return "No files were generated, " + reason
}

// Sink receives run summaries. Implementations must not block the caller
// for long and cannot fail the run.
type Sink interface {
	Notify(ctx context.Context, summary Summary)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, summary Summary)

// Notify calls f.
func (f SinkFunc) Notify(ctx context.Context, summary Summary) {
	f(ctx, summary)
}

// Nop discards summaries.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, Summary) {}

// Logger writes summaries to a zap logger.
type Logger struct {
	logger *zap.Logger
}

// NewLogger returns a sink logging at info level.
func NewLogger(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger}
}

// Notify logs the summary.
func (l *Logger) Notify(_ context.Context, summary Summary) {
	l.logger.Info(summary.Message(),
		zap.Int("records", summary.Count),
		zap.String("first", summary.First),
		zap.String("strategy", summary.Strategy),
	)
}

// Multi fans a summary out to several sinks in order.
type Multi []Sink

// Notify forwards the summary to every non-nil sink.
func (m Multi) Notify(ctx context.Context, summary Summary) {
	for _, sink := range m {
		if sink != nil {
			sink.Notify(ctx, summary)
		}
	}
}
