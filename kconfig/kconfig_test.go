package kconfig

import (
	"fmt"
	"strings"
	"testing"
)

func TestParseConfigOverridesDefaults(t *testing.T) {
	input := `
# a comment

heap_bytes 524288
pit_hz 1000
`
	cfg, err := ParseConfig(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.HeapBytes != 524288 {
		t.Fatalf("HeapBytes = %d, want 524288", cfg.HeapBytes)
	}
	if cfg.PitHz != 1000 {
		t.Fatalf("PitHz = %d, want 1000", cfg.PitHz)
	}
	want := DefaultConfig()
	if cfg.CacheCapacity != want.CacheCapacity || cfg.AtaPollLimit != want.AtaPollLimit {
		t.Fatalf("unset fields changed: cfg = %+v, defaults = %+v", cfg, want)
	}
}

func TestParseConfigEmptyYieldsDefaults(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestParseConfigRejectsUnknownKey(t *testing.T) {
	if _, err := ParseConfig(strings.NewReader("bogus_key 1")); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestParseConfigRejectsMalformedLine(t *testing.T) {
	if _, err := ParseConfig(strings.NewReader("heap_bytes")); err == nil {
		t.Fatalf("expected error for missing value")
	}
}

func TestParseConfigRejectsBadValue(t *testing.T) {
	if _, err := ParseConfig(strings.NewReader("heap_bytes not-a-number")); err == nil {
		t.Fatalf("expected error for non-numeric value")
	}
}

// TestParseConfigRoundTripsDefaults formats DefaultConfig back out in the
// grammar ParseConfig reads and checks it parses back to the same values.
func TestParseConfigRoundTripsDefaults(t *testing.T) {
	want := DefaultConfig()
	formatted := fmt.Sprintf(
		"heap_bytes %d\ncache_capacity %d\nata_poll_limit %d\npit_hz %d\n",
		want.HeapBytes, want.CacheCapacity, want.AtaPollLimit, want.PitHz,
	)

	got, err := ParseConfig(strings.NewReader(formatted))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if got != want {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}
