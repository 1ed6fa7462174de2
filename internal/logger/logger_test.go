package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_VerboseGating(t *testing.T) {
	verbose := false
	var buf bytes.Buffer
	log := NewWithCallback("client", func() bool { return verbose })
	log.SetOutput(&buf)

	log.Debug("hidden")
	log.Info("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("Expected no output when not verbose, got %q", buf.String())
	}

	log.Warn("shown %d", 1)
	if !strings.Contains(buf.String(), "WARN [client] shown 1") {
		t.Errorf("Expected warn line, got %q", buf.String())
	}

	verbose = true
	buf.Reset()
	log.Debug("now visible")
	if !strings.Contains(buf.String(), "DEBUG [client] now visible") {
		t.Errorf("Expected debug line, got %q", buf.String())
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := New("server", nil).With(RequestID("abc"))
	log.SetOutput(&buf)

	log.WarnWithFields("slow request", []Field{Status(200), F("path", "/health")})

	line := buf.String()
	if !strings.Contains(line, "[request_id=abc status=200 path=/health]") {
		t.Errorf("Expected fields in order, got %q", line)
	}
}

func TestLogger_DerivedSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	parent := New("root", nil)
	child := parent.WithComponent("child")
	parent.SetOutput(&buf)

	child.Error("boom")
	if !strings.Contains(buf.String(), "ERROR [child] boom") {
		t.Errorf("Expected child to write to parent output, got %q", buf.String())
	}
}

func TestLogger_LiteralPercent(t *testing.T) {
	var buf bytes.Buffer
	log := New("", nil)
	log.SetOutput(&buf)

	log.Warn("100% done")
	if !strings.Contains(buf.String(), "WARN [main] 100% done") {
		t.Errorf("Expected message without formatting, got %q", buf.String())
	}
}
