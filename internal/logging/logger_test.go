package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"songscan/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandlerPrefixesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	NewComponentLogger(logger, "worker").Info("job done", String("job_id", "j1"))

	line := buf.String()
	if !strings.Contains(line, "[worker]") {
		t.Fatalf("component missing from output: %q", line)
	}
	if !strings.Contains(line, "job_id=j1") {
		t.Fatalf("attr missing from output: %q", line)
	}
}

func TestJSONHandlerRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello")

	out := buf.String()
	for _, key := range []string{`"ts"`, `"level":"info"`, `"msg":"hello"`} {
		if !strings.Contains(out, key) {
			t.Fatalf("expected %s in output: %q", key, out)
		}
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := services.WithJobID(context.Background(), "j42")
	ctx = services.WithStage(ctx, "acquire")
	WithContext(ctx, logger).Info("stage started")

	line := buf.String()
	if !strings.Contains(line, "job_id=j42") || !strings.Contains(line, "stage=acquire") {
		t.Fatalf("context fields missing: %q", line)
	}
}
