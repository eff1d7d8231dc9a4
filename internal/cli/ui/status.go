// Package ui formats colored status lines for the modelgen CLI.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Status writes prefixed, colored status lines.
type Status struct {
	out     io.Writer
	success *color.Color
	info    *color.Color
	warn    *color.Color
	fail    *color.Color
}

// NewStatus returns a Status writing to out. noColor disables escapes
// regardless of the terminal.
func NewStatus(out io.Writer, noColor bool) *Status {
	s := &Status{
		out:     out,
		success: color.New(color.FgGreen, color.Bold),
		info:    color.New(color.FgCyan),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed, color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{s.success, s.info, s.warn, s.fail} {
			c.DisableColor()
		}
	}
	return s
}

// Success prints a check-marked line.
func (s *Status) Success(format string, args ...any) {
	s.success.Fprintf(s.out, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Info prints a plain informational line.
func (s *Status) Info(format string, args ...any) {
	s.info.Fprintf(s.out, "%s\n", fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func (s *Status) Warn(format string, args ...any) {
	s.warn.Fprintf(s.out, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// Error prints an error line.
func (s *Status) Error(err error) {
	if err == nil {
		return
	}
	s.fail.Fprintf(s.out, "Error: %v\n", err)
}
