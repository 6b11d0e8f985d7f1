package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithAttrsOverridesByKey(t *testing.T) {
	ctx := WithAttrs(context.Background(), slog.String("component", "a"), slog.Int("comment_id", 1))
	ctx = WithAttrs(ctx, slog.String("component", "b"))

	attrs := Attrs(ctx)
	if len(attrs) != 2 {
		t.Fatalf("Attrs() len = %d, want 2", len(attrs))
	}
	if attrs[0].Value.String() != "b" {
		t.Fatalf("component = %q, want b", attrs[0].Value.String())
	}
}

func TestLoggerFromContextWritesJobAttrs(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "debug", "text"))
	ctx = WithJob(ctx, "job-1", "acceptComments")

	Debug(ctx, "job started")

	out := buf.String()
	if !strings.Contains(out, "job_id=job-1") || !strings.Contains(out, "job=acceptComments") {
		t.Fatalf("log output = %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
