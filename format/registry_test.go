package format

import (
	"context"
	"testing"

	"github.com/shaban/pluginhost/catalog"
	"github.com/shaban/pluginhost/internal/testutil"
)

type stubScanner struct{}

func (stubScanner) Strategy() ScanningStrategy   { return ScanYes }
func (stubScanner) DefaultSearchPaths() []string { return nil }
func (stubScanner) Scan(context.Context, []string, []catalog.Entry, *catalog.Catalog) error {
	return nil
}

type stubDriver struct{ name catalog.Format }

func (d stubDriver) Name() catalog.Format                          { return d.name }
func (stubDriver) Scanner() Scanner                                 { return stubScanner{} }
func (stubDriver) RequiresUIThreadOn() UIThreadRequirement          { return 0 }
func (stubDriver) InstantiateRequiresSampleRate() bool              { return false }
func (stubDriver) CreateInstance(context.Context, catalog.Entry, CreateOptions, func(CreateResult)) {
}

func TestRegistryGetAndAll(t *testing.T) {
	r := NewRegistry(stubDriver{name: catalog.VST3}, stubDriver{name: catalog.CLAP})
	if _, ok := r.Get(catalog.VST3); !ok {
		t.Error("expected VST3 driver registered")
	}
	if _, ok := r.Get(catalog.AU); ok {
		t.Error("did not expect AU driver registered")
	}
	if len(r.All()) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(r.All()))
	}
}

func TestFakeDriverFromTestutilSatisfiesDriver(t *testing.T) {
	d := testutil.FakeDriver{
		FormatName: catalog.AU,
		Result:     CreateResult{Err: nil},
	}
	r := NewRegistry(d)
	got, ok := r.Get(catalog.AU)
	if !ok || got.Name() != catalog.AU {
		t.Fatalf("expected AU driver registered, got %v ok=%v", got, ok)
	}
}
