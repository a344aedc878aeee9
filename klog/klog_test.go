package klog

import (
	"strings"
	"testing"

	"github.com/justeres/eres-os/console"
)

func TestHandlerFormatsLine(t *testing.T) {
	out := console.NewMockWriter(5, 80)
	logger := Default(out, true)
	logger.Info("frame allocator ready", "free", 42)

	text := out.Text()
	if !strings.Contains(text, "INFO:") {
		t.Fatalf("expected level prefix, got %q", text)
	}
	if !strings.Contains(text, "frame allocator ready") {
		t.Fatalf("expected message, got %q", text)
	}
	if !strings.Contains(text, "free=42") {
		t.Fatalf("expected attr, got %q", text)
	}
}

func TestHandlerSuppressesDebugWhenNotDebug(t *testing.T) {
	out := console.NewMockWriter(5, 80)
	logger := Default(out, false)
	logger.Debug("should not appear")
	logger.Info("should appear")

	text := out.Text()
	if strings.Contains(text, "should not appear") {
		t.Fatalf("debug record leaked: %q", text)
	}
	if !strings.Contains(text, "should appear") {
		t.Fatalf("info record missing: %q", text)
	}
}
