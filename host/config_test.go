package host

import (
	"testing"

	"github.com/shaban/pluginhost/bundle"
	"github.com/shaban/pluginhost/format"
)

func TestResolveDefaults(t *testing.T) {
	c := Resolve()
	if c.BufferSize != defaultBufferSize {
		t.Fatalf("BufferSize = %d, want %d", c.BufferSize, defaultBufferSize)
	}
	if c.SampleRate != 48000 {
		t.Fatalf("SampleRate = %v, want 48000", c.SampleRate)
	}
	if c.RetentionPolicy != bundle.UnloadImmediately {
		t.Fatalf("RetentionPolicy = %v, want UnloadImmediately", c.RetentionPolicy)
	}
}

func TestWithLatencyHintLow(t *testing.T) {
	c := Resolve(WithLatencyHint(LatencyLow, 0))
	if c.BufferSize != 64 {
		t.Fatalf("BufferSize = %d, want 64", c.BufferSize)
	}
}

func TestWithLatencyHintCustomIgnoredWhenNonPositive(t *testing.T) {
	c := Resolve(WithLatencyHint(LatencyCustom, 0))
	if c.BufferSize != defaultBufferSize {
		t.Fatalf("BufferSize = %d, want unchanged default %d", c.BufferSize, defaultBufferSize)
	}
}

func TestWithSearchPathsAppends(t *testing.T) {
	c := Resolve(WithSearchPaths("VST3", "/a", "/b"), WithSearchPaths("VST3", "/c"))
	if got := c.SearchPaths["VST3"]; len(got) != 3 {
		t.Fatalf("expected 3 search paths, got %v", got)
	}
}

func TestUIThreadRequirementForUsesOverride(t *testing.T) {
	c := Resolve(WithUIThreadOverride("VST3", "plugin-x", 0))
	got := c.UIThreadRequirementFor("VST3", "plugin-x", format.RequiresUIThreadForInstantiation)
	if got != 0 {
		t.Fatalf("expected override to win, got %v", got)
	}
}

func TestUIThreadRequirementForFallsBackToDriverDefault(t *testing.T) {
	c := Resolve()
	got := c.UIThreadRequirementFor("VST3", "plugin-x", format.RequiresUIThreadForInstantiation)
	if got != format.RequiresUIThreadForInstantiation {
		t.Fatalf("expected driver default, got %v", got)
	}
}
