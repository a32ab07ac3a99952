package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestErrorWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("orders", "info", &buf)

	log.Error("order_create_failed", "could not create order", errors.New("boom"), map[string]interface{}{
		"restaurant_id": "r-1",
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	for key, want := range map[string]string{
		"service":       "orders",
		"action":        "order_create_failed",
		"msg":           "could not create order",
		"error":         "boom",
		"restaurant_id": "r-1",
		"level":         "ERROR",
	} {
		if entry[key] != want {
			t.Fatalf("expected %s=%q, got %v", key, want, entry[key])
		}
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("orders", "info", &buf)

	log.Debug("noise", "hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered, got %q", buf.String())
	}

	log.With("projection").Info("shown", "visible", nil)
	if !bytes.Contains(buf.Bytes(), []byte(`"service":"projection"`)) {
		t.Fatalf("expected sub-service name in output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q): expected %v, got %v", input, want, got)
		}
	}
}
