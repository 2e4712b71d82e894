package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func writeSettings(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stack.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

func TestRunValidate_Valid(t *testing.T) {
	path := writeSettings(t, `
config:
  compatibilityMode: true
extraArguments:
  apiBase: https://example.test
`)
	var out bytes.Buffer
	if err := runValidate(t.Context(), &out, path, false, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "calling convention: compatibility, extras: 1") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunValidate_RejectsUnknownKeys(t *testing.T) {
	path := writeSettings(t, "compatibilityMode: true\n")
	if err := runValidate(t.Context(), &bytes.Buffer{}, path, false, time.Second); err == nil {
		t.Fatal("expected error for a top-level compatibilityMode key")
	}
}

func TestRunValidate_RejectsUnknownLogLevel(t *testing.T) {
	path := writeSettings(t, "logLevel: loud\n")
	if err := runValidate(t.Context(), &bytes.Buffer{}, path, false, time.Second); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestRunValidate_PingsRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	path := writeSettings(t, "cache:\n  redis:\n    addr: "+mr.Addr()+"\n")

	var out bytes.Buffer
	if err := runValidate(t.Context(), &out, path, true, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "reachable") {
		t.Fatalf("unexpected output %q", out.String())
	}

	mr.Close()
	if err := runValidate(t.Context(), &bytes.Buffer{}, path, true, 200*time.Millisecond); err == nil {
		t.Fatal("expected ping failure once redis is gone")
	}
}
