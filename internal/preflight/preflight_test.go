package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"songscan/internal/queue"
	"songscan/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("Work directory", dir)
	if !result.Passed {
		t.Fatalf("expected pass for %s, detail %q", dir, result.Detail)
	}

	missing := CheckDirectoryAccess("Work directory", filepath.Join(dir, "absent"))
	if missing.Passed {
		t.Fatal("expected failure for missing directory")
	}
	if !strings.Contains(missing.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", missing.Detail)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	notDir := CheckDirectoryAccess("Work directory", file)
	if notDir.Passed {
		t.Fatal("expected failure for non-directory")
	}
}

func TestCheckQueue(t *testing.T) {
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	q := queue.NewFromRedis(rdb, "songscan:test")

	result := CheckQueue(context.Background(), q)
	if !result.Passed {
		t.Fatalf("expected reachable queue, detail %q", result.Detail)
	}

	srv.Close()
	down := CheckQueue(context.Background(), q)
	if down.Passed {
		t.Fatal("expected failure against stopped queue")
	}
}

func TestCheckAnalyzer(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(healthy.Close)

	result := CheckAnalyzer(context.Background(), healthy.URL)
	if !result.Passed {
		t.Fatalf("expected pass, detail %q", result.Detail)
	}

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	unhealthy := CheckAnalyzer(context.Background(), broken.URL)
	if unhealthy.Passed {
		t.Fatal("expected failure for 500 response")
	}

	if CheckAnalyzer(context.Background(), "").Passed {
		t.Fatal("expected failure for empty endpoint")
	}
}

func TestRunAllCoversConfiguredChecks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg, nil)
	if len(results) != 2 {
		t.Fatalf("expected work and data directory checks, got %d results", len(results))
	}
	if !AllPassed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithAnalyzerEndpoint("http://127.0.0.1:1")) // nothing listens here
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	results = RunAll(context.Background(), cfg, nil)
	if len(results) != 3 {
		t.Fatalf("expected analyzer check to be included, got %d results", len(results))
	}
	if AllPassed(results) {
		t.Fatal("expected analyzer check to fail")
	}
}
