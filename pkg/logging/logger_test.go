package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		enable slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"warn level", "warn", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"default info", "", slog.LevelInfo},
		{"unknown falls back to info", "verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level)
			if !logger.Enabled(context.Background(), tt.enable) {
				t.Errorf("expected level %v to be enabled for %q", tt.enable, tt.level)
			}
			if tt.enable > slog.LevelDebug && logger.Enabled(context.Background(), tt.enable-4) {
				t.Errorf("expected level %v to be disabled for %q", tt.enable-4, tt.level)
			}
		})
	}
}

func TestNewWithWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf)
	logger.Info("booking committed", "booking_id", "APPT-1")

	out := buf.String()
	if !strings.Contains(out, `"msg":"booking committed"`) {
		t.Fatalf("expected JSON message in output, got %s", out)
	}
	if !strings.Contains(out, `"booking_id":"APPT-1"`) {
		t.Fatalf("expected structured field in output, got %s", out)
	}
}

func TestDiscardStaysQuiet(t *testing.T) {
	logger := Discard()
	logger.Info("should not panic")
	logger.Error("should not panic either")
}
