package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/curiolist/curio/pkg/logging"
)

func TestLevel_Validate(t *testing.T) {
	for _, level := range []logging.Level{
		logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError,
	} {
		if err := level.Validate(); err != nil {
			t.Errorf("Validate(%q) error = %v, want nil", level, err)
		}
	}

	if err := logging.Level("verbose").Validate(); err == nil {
		t.Error("Validate(verbose) error = nil, want error")
	}
}

func TestFormat_Validate(t *testing.T) {
	for _, format := range []logging.Format{logging.FormatText, logging.FormatJSON} {
		if err := format.Validate(); err != nil {
			t.Errorf("Validate(%q) error = %v, want nil", format, err)
		}
	}

	if err := logging.Format("xml").Validate(); err == nil {
		t.Error("Validate(xml) error = nil, want error")
	}
}

func TestNewWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := &logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON}

	logger := logging.NewWithWriter(cfg, &buf)
	logger.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", entry["msg"])
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want value", entry["key"])
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cfg := &logging.Config{Level: logging.LevelWarn, Format: logging.FormatText}

	logger := logging.NewWithWriter(cfg, &buf)
	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("info record emitted below configured level")
	}
	if !strings.Contains(out, "emitted") {
		t.Error("warn record missing")
	}
}

func TestConfig_Finalize(t *testing.T) {
	cfg := &logging.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.Level != logging.LevelInfo {
		t.Errorf("Level = %q, want info default", cfg.Level)
	}
	if cfg.Format != logging.FormatText {
		t.Errorf("Format = %q, want text default", cfg.Format)
	}

	bad := &logging.Config{Level: "verbose"}
	if err := bad.Finalize(); err == nil {
		t.Error("Finalize() error = nil for invalid level, want error")
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := &logging.Config{Level: logging.LevelInfo, Format: logging.FormatText}
	cfg.Merge(&logging.Config{Level: logging.LevelDebug})

	if cfg.Level != logging.LevelDebug {
		t.Errorf("Level = %q, want debug", cfg.Level)
	}
	if cfg.Format != logging.FormatText {
		t.Errorf("Format = %q, want text preserved", cfg.Format)
	}
}
