package interceptors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLogging_Success(t *testing.T) {
	var buf bytes.Buffer
	handler := Logging(newBufferLogger(&buf))(okHandler)

	resp, err := handler(t.Context(), typed("todos/add"))
	if err != nil || resp != "ok" {
		t.Fatalf("got (%v, %v), want (ok, nil)", resp, err)
	}

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(lines))
	}
	l := lines[0]
	if l["level"] != "DEBUG" || l["msg"] != "dispatched" {
		t.Fatalf("unexpected record: %v", l)
	}
	if l["type"] != "todos/add" || l["kind"] != "action" {
		t.Fatalf("unexpected attributes: %v", l)
	}
}

func TestLogging_FailureWithDispatchID(t *testing.T) {
	var buf bytes.Buffer
	failing := func(_ context.Context, _ any) (any, error) {
		return nil, errors.New("reducer exploded")
	}
	handler := DispatchID()(Logging(newBufferLogger(&buf))(failing))

	_, err := handler(t.Context(), func() {})
	if err == nil {
		t.Fatal("expected error")
	}

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(lines))
	}
	l := lines[0]
	if l["level"] != "ERROR" || l["msg"] != "dispatch failed" {
		t.Fatalf("unexpected record: %v", l)
	}
	if l["kind"] != "thunk" {
		t.Fatalf("kind = %v, want thunk", l["kind"])
	}
	if l["error"] != "reducer exploded" {
		t.Fatalf("error = %v, want reducer exploded", l["error"])
	}
	if id, _ := l["dispatch_id"].(string); id == "" {
		t.Fatalf("expected dispatch_id, got %v", l)
	}
}

func TestLogging_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	handler := Logging(logger)(okHandler)

	_, _ = handler(t.Context(), typed("todos/add"))
	if buf.Len() != 0 {
		t.Fatalf("expected debug record to be filtered, got %q", buf.String())
	}
}
