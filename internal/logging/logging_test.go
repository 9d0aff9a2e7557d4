package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"info":  zerolog.InfoLevel,
		"off":   zerolog.Disabled,
		"debug": zerolog.DebugLevel,
		"WARN":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(&buf, "info", "json")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Debug().Msg("hidden")
	log.Info().Str("event", "init_start").Msg("")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("json: %v", err)
	}
	if m["event"] != "init_start" || m["service"] != "neuronexus" {
		t.Fatalf("unexpected fields: %v", m)
	}
}

func TestNewWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(&buf, "debug", "console")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Debug().Msg("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("missing message: %q", buf.String())
	}
}

func TestNewWriter_BadFormat(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
}
