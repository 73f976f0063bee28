package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/oggyb/swipe-match/internal/config"
)

// captureOutput redirects stdout to a buffer during f()
func captureOutput(t *testing.T, f func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	_ = r.Close()

	return buf.String()
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "debug", Format: FormatText, Component: "test", Output: &buf})
	Info("hello swipe", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello swipe") {
		t.Errorf("expected message, got: %s", out)
	}
	if !strings.Contains(out, "component=test") {
		t.Errorf("expected component field, got: %s", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("expected structured field, got: %s", out)
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "info", Format: FormatJSON, Component: "json_test", Output: &buf})
	Info("json log", "foo", "bar")

	out := buf.String()
	if !strings.Contains(out, `"msg":"json log"`) {
		t.Errorf("expected JSON message, got: %s", out)
	}
	if !strings.Contains(out, `"component":"json_test"`) {
		t.Errorf("expected component in JSON, got: %s", out)
	}
	if !strings.Contains(out, `"foo":"bar"`) {
		t.Errorf("expected structured field in JSON, got: %s", out)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "error", Format: FormatText, Output: &buf})
	Info("should not appear")
	Error("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("info log should not appear, got: %s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("error log should appear, got: %s", out)
	}
}

func TestLogger_WithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "debug", Format: FormatText, Output: &buf})
	With("req_id", "123").Info("processing request")

	if !strings.Contains(buf.String(), "req_id=123") {
		t.Errorf("expected req_id field, got: %s", buf.String())
	}
}

func TestLogger_InitFromConfigWritesStdout(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"
	cfg.Log.Component = "cfg_test"
	cfg.Log.Source = true

	out := captureOutput(t, func() {
		InitFromConfig(cfg)
		Debug("cfg-based log")
	})

	if !strings.Contains(out, `"msg":"cfg-based log"`) {
		t.Errorf("expected config-based JSON log, got: %s", out)
	}
	if !strings.Contains(out, `"component":"cfg_test"`) {
		t.Errorf("expected component from config, got: %s", out)
	}
}

func TestDurationMS(t *testing.T) {
	attr := DurationMS(time.Now().Add(-5 * time.Millisecond))
	if attr.Key != "duration_ms" || attr.Value.Float64() < 5 {
		t.Errorf("unexpected duration attr: %v", attr)
	}
}
