// Package lv2 implements the format.Driver for LV2 bundles.
//
// Grounded on remidy::AudioPluginFormatLV2 (original_source
// include/remidy/priv/lv2.hpp), which relies on lilv's bundle index
// (Turtle manifest.ttl sidecar files under each .lv2 directory) and so
// reports ScanningStrategy::Yes: every bundle's identity is readable
// from its manifest without loading the plugin's shared library.
// LV2 instantiation does not require the UI thread.
package lv2

import (
	"context"

	"github.com/shaban/pluginhost/bundle"
	"github.com/shaban/pluginhost/catalog"
	"github.com/shaban/pluginhost/format"
	"github.com/shaban/pluginhost/status"
)

func defaultSearchPaths() []string {
	return []string{"/usr/lib/lv2", "/usr/local/lib/lv2", "~/.lv2"}
}

// Scanner discovers .lv2 bundle directories under LV2 search paths.
type Scanner struct{}

func (Scanner) Strategy() format.ScanningStrategy { return format.ScanYes }
func (Scanner) DefaultSearchPaths() []string      { return defaultSearchPaths() }

func (s Scanner) Scan(ctx context.Context, searchPaths []string, denyList []catalog.Entry, cat *catalog.Catalog) error {
	if len(searchPaths) == 0 {
		searchPaths = s.DefaultSearchPaths()
	}
	denied := make(map[string]bool, len(denyList))
	for _, e := range denyList {
		denied[e.BundlePath] = true
	}
	bundles, err := format.ScanExtension(searchPaths, ".lv2")
	if err != nil {
		return err
	}
	for _, b := range bundles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if denied[b] {
			continue
		}
		cat.Add(catalog.Entry{
			Format:      catalog.LV2,
			PluginID:    format.BundleID(b),
			BundlePath:  b,
			DisplayName: format.BundleID(b),
		})
	}
	return nil
}

// Driver is the LV2 format.Driver implementation.
type Driver struct {
	pool *bundle.Pool
}

// NewDriver builds an LV2 driver backed by pool for bundle loading.
func NewDriver(pool *bundle.Pool) *Driver {
	return &Driver{pool: pool}
}

func (*Driver) Name() catalog.Format    { return catalog.LV2 }
func (*Driver) Scanner() format.Scanner { return Scanner{} }

func (*Driver) RequiresUIThreadOn() format.UIThreadRequirement { return 0 }

func (*Driver) InstantiateRequiresSampleRate() bool { return true }

func (d *Driver) CreateInstance(ctx context.Context, entry catalog.Entry, opts format.CreateOptions, done func(format.CreateResult)) {
	go func() {
		if d.pool == nil {
			done(format.CreateResult{Err: status.Wrap(status.NotImplemented, "no native loader configured for LV2 bundle %s", entry.BundlePath)})
			return
		}
		if _, _, err := d.pool.LoadOrAddReference(entry.BundlePath); err != nil {
			done(format.CreateResult{Err: err})
			return
		}
		done(format.CreateResult{Err: status.Wrap(status.NotImplemented, "LV2 instantiation requires a native bridge (lilv) not built in this host")})
	}()
}
