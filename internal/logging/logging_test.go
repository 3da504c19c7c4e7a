package logging

import (
	"bytes"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	if err != nil || lvl != clog.WarnLevel {
		t.Fatalf("expected warn default, got %v %v", lvl, err)
	}
	lvl, err = ParseLevel(" DEBUG ")
	if err != nil || lvl != clog.DebugLevel {
		t.Fatalf("expected debug, got %v %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("drill loaded")
	logger.Warn("no eligible word", "line", 3)
	out := buf.String()
	if strings.Contains(out, "drill loaded") {
		t.Fatalf("info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "no eligible word") || !strings.Contains(out, "line=3") {
		t.Fatalf("expected warn entry with fields: %q", out)
	}
	if !strings.Contains(out, "recite") {
		t.Fatalf("expected prefix: %q", out)
	}
}
