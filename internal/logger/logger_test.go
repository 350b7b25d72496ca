package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestVerboseGating(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetVerbose(false)

	SetVerbose(false)
	Debug("hidden %s", "debug")
	Info("hidden %s", "info")
	if buf.Len() != 0 {
		t.Errorf("expected no output with verbose off, got %q", buf.String())
	}

	SetVerbose(true)
	Debug("shown %s", "debug")
	Info("shown %s", "info")
	out := buf.String()
	if !strings.Contains(out, "[DEBUG] shown debug") {
		t.Errorf("missing debug line in %q", out)
	}
	if !strings.Contains(out, "[INFO] shown info") {
		t.Errorf("missing info line in %q", out)
	}
}

func TestWarnAndErrorAlwaysPrint(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Warn("store unreachable: %s", "timeout")
	Error("ingest failed: %s", "boom")

	out := buf.String()
	if !strings.Contains(out, "[WARN] store unreachable: timeout") {
		t.Errorf("missing warn line in %q", out)
	}
	if !strings.Contains(out, "[ERROR] ingest failed: boom") {
		t.Errorf("missing error line in %q", out)
	}
}

func TestIsVerbose(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected IsVerbose true")
	}
	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected IsVerbose false")
	}
}
