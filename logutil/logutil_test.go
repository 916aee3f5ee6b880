package logutil

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Debug("versteckt")
	logger.Info("sichtbar", "model_type", "vae")

	out := buf.String()
	if strings.Contains(out, "versteckt") {
		t.Errorf("Debug-Meldung trotz Info-Level geloggt: %q", out)
	}
	if !strings.Contains(out, "model_type=vae") {
		t.Errorf("Attribut fehlt: %q", out)
	}
	if !strings.Contains(out, "source=logutil_test.go:") {
		t.Errorf("Quelle nicht gekuerzt: %q", out)
	}
}

func TestNewLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelTrace)

	logger.Log(t.Context(), LevelTrace, "tief")
	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("Trace-Level nicht umbenannt: %q", buf.String())
	}
}
