package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func writeTestConfig(t *testing.T, redisAddr string) string {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
work_dir = %q
data_dir = %q
log_dir = %q

[queue]
redis_addr = %q

[acquisition]
mode = "fixed-fixture"
`, filepath.Join(base, "work"), filepath.Join(base, "data"), filepath.Join(base, "logs"), redisAddr)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output should name the target path, got %q", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read generated config: %v", err)
	}
	if !strings.Contains(string(data), "[queue]") {
		t.Fatal("generated config missing queue section")
	}

	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init without --overwrite should fail")
	}
	if _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init with --overwrite failed: %v", err)
	}
}

func TestSongsAndJobsCommands(t *testing.T) {
	srv := miniredis.RunT(t)
	configPath := writeTestConfig(t, srv.Addr())

	out, err := runCLI(t, "--config", configPath, "songs", "list")
	if err != nil {
		t.Fatalf("songs list failed: %v", err)
	}
	if !strings.Contains(out, "Catalog is empty") {
		t.Fatalf("expected empty catalog notice, got %q", out)
	}

	if _, err := runCLI(t, "--config", configPath, "songs", "add", "song1", "First Song", "--artist", "Artist One", "--language", "ko"); err != nil {
		t.Fatalf("songs add failed: %v", err)
	}

	out, err = runCLI(t, "--config", configPath, "songs", "list")
	if err != nil {
		t.Fatalf("songs list failed: %v", err)
	}
	if !strings.Contains(out, "First Song") {
		t.Fatalf("expected song in listing, got %q", out)
	}

	out, err = runCLI(t, "--config", configPath, "jobs")
	if err != nil {
		t.Fatalf("jobs failed: %v", err)
	}
	if !strings.Contains(out, "No jobs recorded") {
		t.Fatalf("expected empty jobs notice, got %q", out)
	}
}

func TestEnqueueCommand(t *testing.T) {
	srv := miniredis.RunT(t)
	configPath := writeTestConfig(t, srv.Addr())

	out, err := runCLI(t, "--config", configPath, "enqueue", "abc123", "--title", "Test Video")
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if !strings.Contains(out, "Enqueued job") {
		t.Fatalf("unexpected enqueue output: %q", out)
	}

	out, err = runCLI(t, "--config", configPath, "jobs")
	if err != nil {
		t.Fatalf("jobs failed: %v", err)
	}
	if !strings.Contains(out, "queued") {
		t.Fatalf("expected queued job in listing, got %q", out)
	}
}

func TestConfigShowCommand(t *testing.T) {
	srv := miniredis.RunT(t)
	configPath := writeTestConfig(t, srv.Addr())

	out, err := runCLI(t, "--config", configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, configPath) {
		t.Fatalf("output should name the resolved path, got %q", out)
	}
	if !strings.Contains(out, srv.Addr()) {
		t.Fatalf("output should include the configured redis addr, got %q", out)
	}
	if !strings.Contains(out, "fixed-fixture") {
		t.Fatalf("output should include the acquisition mode, got %q", out)
	}
}

func TestEnqueueRejectsBlankReference(t *testing.T) {
	srv := miniredis.RunT(t)
	configPath := writeTestConfig(t, srv.Addr())

	if _, err := runCLI(t, "--config", configPath, "enqueue", "   "); err == nil {
		t.Fatal("blank source reference should fail")
	}
}
