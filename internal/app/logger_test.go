package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/greenplate/foodsafe-backend/internal/config"
)

// bufLogger mirrors NewLogger's handler selection but writes to a buffer so
// tests can assert on output.
func bufLogger(buf *bytes.Buffer, cfg config.LogConfig) *slog.Logger {
	textMode := strings.EqualFold(cfg.Format, "text")
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: textMode,
	}
	if textMode {
		return slog.New(slog.NewTextHandler(buf, opts))
	}
	return slog.New(slog.NewJSONHandler(buf, opts))
}

func TestNewLogger_InstallsDefault(t *testing.T) {
	logger := NewLogger(config.LogConfig{Level: "info", Format: "json"})
	if logger == nil {
		t.Fatal("logger is nil")
	}
	if slog.Default().Handler() != logger.Handler() {
		t.Error("returned logger is not the slog default")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{" info ", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := bufLogger(&buf, config.LogConfig{Level: "warn", Format: "json"})

	logger.Log(context.Background(), slog.LevelInfo, "filtered")
	if buf.Len() != 0 {
		t.Errorf("info line leaked through warn level: %s", buf.String())
	}

	logger.Log(context.Background(), slog.LevelWarn, "kept")
	if buf.Len() == 0 {
		t.Error("warn line was suppressed")
	}
}

func TestLogger_FormatSelection(t *testing.T) {
	var textBuf, jsonBuf bytes.Buffer

	bufLogger(&textBuf, config.LogConfig{Level: "info", Format: "text"}).Info("hello")
	bufLogger(&jsonBuf, config.LogConfig{Level: "info", Format: "json"}).Info("hello")

	if !strings.Contains(textBuf.String(), "source=") {
		t.Error("text format is missing source info")
	}

	var entry map[string]any
	if err := json.Unmarshal(jsonBuf.Bytes(), &entry); err != nil {
		t.Fatalf("json format produced invalid JSON: %v", err)
	}
	if _, ok := entry["source"]; ok {
		t.Error("json format should not carry source info")
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v", entry["msg"])
	}
}
