// Package au implements the format.Driver for Apple Audio Unit bundles.
//
// Grounded on remidy::AudioPluginFormatAU (original_source
// include/remidy/priv/au/au.hpp), which uses AudioComponent discovery
// (a system registry query, not a filesystem walk, reported as
// ScanningStrategy::Yes since it never needs to load a candidate
// bundle to know it exists) and, unlike VST3, does not require the UI
// thread for instantiation — AudioComponentInstanceNew is documented as
// safe off the main thread. This Go rendering still walks
// /Library/Audio/Plug-Ins/Components for .component bundles, since the
// AudioComponent registry itself is a macOS-only API unavailable
// without cgo; the filesystem fallback mirrors what the registry would
// report on a system where every installed component is a bundle in
// that directory.
package au

import (
	"context"

	"github.com/shaban/pluginhost/bundle"
	"github.com/shaban/pluginhost/catalog"
	"github.com/shaban/pluginhost/format"
	"github.com/shaban/pluginhost/status"
)

func defaultSearchPaths() []string {
	return []string{"/Library/Audio/Plug-Ins/Components", "~/Library/Audio/Plug-Ins/Components"}
}

// Scanner discovers .component bundles under AU search paths.
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
	bundles, err := format.ScanExtension(searchPaths, ".component")
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
			Format:      catalog.AU,
			PluginID:    format.BundleID(b),
			BundlePath:  b,
			DisplayName: format.BundleID(b),
		})
	}
	return nil
}

// Driver is the AU format.Driver implementation.
type Driver struct {
	pool *bundle.Pool
}

// NewDriver builds an AU driver backed by pool for bundle loading.
func NewDriver(pool *bundle.Pool) *Driver {
	return &Driver{pool: pool}
}

func (*Driver) Name() catalog.Format    { return catalog.AU }
func (*Driver) Scanner() format.Scanner { return Scanner{} }

func (*Driver) RequiresUIThreadOn() format.UIThreadRequirement { return 0 }

func (*Driver) InstantiateRequiresSampleRate() bool { return false }

func (d *Driver) CreateInstance(ctx context.Context, entry catalog.Entry, opts format.CreateOptions, done func(format.CreateResult)) {
	go func() {
		if d.pool == nil {
			done(format.CreateResult{Err: status.Wrap(status.NotImplemented, "no native loader configured for AU bundle %s", entry.BundlePath)})
			return
		}
		if _, _, err := d.pool.LoadOrAddReference(entry.BundlePath); err != nil {
			done(format.CreateResult{Err: err})
			return
		}
		done(format.CreateResult{Err: status.Wrap(status.NotImplemented, "AU component instantiation requires a native bridge not built in this host")})
	}()
}
