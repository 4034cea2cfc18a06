package common

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufferHandler(level slog.Level) (*ColorHandler, *bytes.Buffer) {
	var buf bytes.Buffer
	h := NewColorHandler(&buf, &slog.HandlerOptions{Level: level})
	return h, &buf
}

func TestColorHandlerLevelFiltering(t *testing.T) {
	h, _ := newBufferHandler(slog.LevelWarn)
	ctx := context.Background()

	if h.Enabled(ctx, slog.LevelDebug) || h.Enabled(ctx, slog.LevelInfo) {
		t.Fatalf("levels below warn must be filtered")
	}
	if !h.Enabled(ctx, slog.LevelWarn) || !h.Enabled(ctx, slog.LevelError) {
		t.Fatalf("warn and above must pass")
	}
}

func TestColorHandlerOutput(t *testing.T) {
	h, buf := newBufferHandler(slog.LevelDebug)
	logger := slog.New(h)

	logger.Info("server is ready", "attempts", int64(3), "url", "http://localhost:8080/health")

	out := buf.String()
	if !strings.Contains(out, "[INFO ]") {
		t.Fatalf("missing level tag: %q", out)
	}
	if !strings.Contains(out, "server is ready") {
		t.Fatalf("missing message: %q", out)
	}
	if !strings.Contains(out, "attempts=3") {
		t.Fatalf("missing int attribute: %q", out)
	}
	// Buffers are not terminals, so no escape codes should be emitted.
	if strings.Contains(out, "\033[") {
		t.Fatalf("unexpected ANSI codes to a non-terminal: %q", out)
	}
}

func TestColorHandlerForcedColor(t *testing.T) {
	h, buf := newBufferHandler(slog.LevelDebug)
	h.SetColorEnabled(true)
	logger := slog.New(h)

	logger.Error("request failed")

	if !strings.Contains(buf.String(), Red) {
		t.Fatalf("expected red error tag when color forced on: %q", buf.String())
	}
}

func TestColorHandlerMasksSecrets(t *testing.T) {
	h, buf := newBufferHandler(slog.LevelDebug)
	logger := slog.New(h)

	logger.Info("session token updated", "token", "eyJhbGciOiJIUzI1NiJ9.raw.sig")

	out := buf.String()
	if strings.Contains(out, "eyJhbGciOiJIUzI1NiJ9") {
		t.Fatalf("token leaked into log output: %q", out)
	}
	if !strings.Contains(out, "***MASKED***") {
		t.Fatalf("expected redaction marker: %q", out)
	}
}

func TestColorHandlerDisabledMasker(t *testing.T) {
	h, buf := newBufferHandler(slog.LevelDebug)
	masker := NewMasker()
	masker.SetEnabled(false)
	h.SetMasker(masker)
	logger := slog.New(h)

	logger.Info("auth ok", "token", "eyJhbGciOiJIUzI1NiJ9.raw.sig")

	out := buf.String()
	if !strings.Contains(out, "eyJhbGciOiJIUzI1NiJ9.raw.sig") {
		t.Fatalf("disabled masker must pass the token through: %q", out)
	}
	if strings.Contains(out, "***MASKED***") {
		t.Fatalf("unexpected redaction with masking off: %q", out)
	}
}

func TestColorHandlerWithAttrsAndGroup(t *testing.T) {
	h, buf := newBufferHandler(slog.LevelDebug)
	derived := h.WithAttrs([]slog.Attr{slog.String("component", "probe")}).WithGroup("runner")
	logger := slog.New(derived)

	logger.Info("stage complete")

	out := buf.String()
	if !strings.Contains(out, "[runner]") {
		t.Fatalf("missing group tag: %q", out)
	}
	if !strings.Contains(out, "component=") {
		t.Fatalf("missing inherited attribute: %q", out)
	}

	// The original handler must be unaffected.
	buf.Reset()
	slog.New(h).Info("plain")
	if strings.Contains(buf.String(), "[runner]") {
		t.Fatalf("WithGroup mutated the parent handler: %q", buf.String())
	}
}

func TestShouldUseColorNonFile(t *testing.T) {
	if ShouldUseColor(&bytes.Buffer{}) {
		t.Fatalf("buffers must not get color")
	}
}
