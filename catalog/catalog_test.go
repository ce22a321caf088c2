package catalog

import (
	"path/filepath"
	"testing"
)

func TestAddDuplicateFailsSilently(t *testing.T) {
	c := New()
	if !c.Add(Entry{Format: VST3, PluginID: "A", DisplayName: "Alpha"}) {
		t.Fatal("first Add should succeed")
	}
	if c.Add(Entry{Format: VST3, PluginID: "A", DisplayName: "Alpha Dup"}) {
		t.Fatal("duplicate Add should fail silently (return false)")
	}
	if len(c.GetPlugins()) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(c.GetPlugins()))
	}
}

func TestContains(t *testing.T) {
	c := New()
	c.Add(Entry{Format: AU, PluginID: "B", DisplayName: "Beta"})
	if !c.Contains(AU, "B") {
		t.Error("expected Contains(AU, B) == true")
	}
	if c.Contains(AU, "C") {
		t.Error("expected Contains(AU, C) == false")
	}
}

func TestMergeMovesOwnership(t *testing.T) {
	dst := New()
	src := New()
	src.Add(Entry{Format: LV2, PluginID: "X", DisplayName: "Ex"})
	dst.Merge(src)
	if len(dst.GetPlugins()) != 1 {
		t.Fatalf("expected 1 plugin in dst, got %d", len(dst.GetPlugins()))
	}
	if len(src.GetPlugins()) != 0 {
		t.Fatalf("expected src to be emptied after merge, got %d", len(src.GetPlugins()))
	}
}

// TestRoundTrip verifies the catalog round-trip law from spec §8:
// load(save(C)) == C, up to ordering within each list.
func TestRoundTrip(t *testing.T) {
	c := New()
	c.Add(Entry{Format: VST3, PluginID: "A", DisplayName: "Alpha"})
	c.Add(Entry{Format: AU, PluginID: "B", DisplayName: "Beta"})
	c.AddDenied(Entry{Format: CLAP, PluginID: "Z", DisplayName: "Zeta"})

	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := New()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(loaded.GetPlugins()) != 2 {
		t.Fatalf("expected 2 plugins after round-trip, got %d", len(loaded.GetPlugins()))
	}
	if !loaded.Contains(VST3, "A") || !loaded.Contains(AU, "B") {
		t.Error("round-tripped catalog missing expected entries")
	}
	if len(loaded.GetDenyList()) != 1 {
		t.Fatalf("expected 1 deny-listed entry, got %d", len(loaded.GetDenyList()))
	}
}

func TestLoadMissingFileIsNotError(t *testing.T) {
	c := New()
	err := c.Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("Load on missing file should not error, got %v", err)
	}
	if len(c.GetPlugins()) != 0 {
		t.Fatal("expected empty catalog after loading missing file")
	}
}

func TestStats(t *testing.T) {
	c := New()
	c.Add(Entry{Format: VST3, PluginID: "A"})
	c.AddDenied(Entry{Format: AU, PluginID: "B"})
	s := c.Stats()
	if s.Accepted != 1 || s.Denied != 1 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}
