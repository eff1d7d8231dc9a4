package ui

import (
	"bytes"
	"errors"
	"testing"
)

func TestStatus_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	status := NewStatus(&buf, true)

	status.Success("Completed - %s.swift", "Pet")
	status.Info("wrote %d files", 2)
	status.Warn("No files were generated")
	status.Error(errors.New("boom"))
	status.Error(nil)

	want := "✓ Completed - Pet.swift\nwrote 2 files\n⚠ No files were generated\nError: boom\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}
