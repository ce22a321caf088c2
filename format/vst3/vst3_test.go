package vst3

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shaban/pluginhost/catalog"
	"github.com/shaban/pluginhost/format"
	"github.com/shaban/pluginhost/status"
)

func TestScanAddsDiscoveredBundles(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "Reverb.vst3"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "Delay.vst3"), 0o755); err != nil {
		t.Fatal(err)
	}

	cat := catalog.New()
	s := Scanner{}
	if err := s.Scan(context.Background(), []string{dir}, nil, cat); err != nil {
		t.Fatal(err)
	}
	if len(cat.GetPlugins()) != 2 {
		t.Fatalf("expected 2 scanned plugins, got %d", len(cat.GetPlugins()))
	}
	if !cat.Contains(catalog.VST3, "Reverb") || !cat.Contains(catalog.VST3, "Delay") {
		t.Error("expected both Reverb and Delay to be present")
	}
}

func TestScanSkipsDenyListedBundles(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "Broken.vst3")
	if err := os.Mkdir(bad, 0o755); err != nil {
		t.Fatal(err)
	}

	cat := catalog.New()
	s := Scanner{}
	deny := []catalog.Entry{{Format: catalog.VST3, PluginID: "Broken", BundlePath: bad}}
	if err := s.Scan(context.Background(), []string{dir}, deny, cat); err != nil {
		t.Fatal(err)
	}
	if len(cat.GetPlugins()) != 0 {
		t.Fatalf("expected deny-listed bundle to be skipped, got %d plugins", len(cat.GetPlugins()))
	}
}

func TestDriverCreateInstanceWithoutPoolReportsNotImplemented(t *testing.T) {
	d := NewDriver(nil)
	done := make(chan format.CreateResult, 1)
	d.CreateInstance(context.Background(), catalog.Entry{BundlePath: "/x/y.vst3"}, format.CreateOptions{SampleRate: 48000, BlockSize: 512}, func(r format.CreateResult) {
		done <- r
	})
	r := <-done
	if !errors.Is(r.Err, status.NotImplemented) {
		t.Fatalf("expected NotImplemented without a configured pool, got %v", r.Err)
	}
}
