// Package testutil provides small test doubles shared across this
// module's package tests: a fake format.Driver, fake bundle
// loader/unloader functions, and environment-gating helpers for tests
// that need a real audio device or CI-unfriendly timing.
//
// Grounded on the teacher's (shaban/macaudio) environment-gating test
// helpers (an IsCI/SkipUnlessEnv idiom used to skip hardware-dependent
// tests in CI), rewritten here around this module's own domain types
// rather than carried over verbatim.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/shaban/pluginhost/catalog"
	"github.com/shaban/pluginhost/format"
)

// SkipUnlessEnv skips t unless the named environment variable is set to
// a non-empty value, for tests that need real hardware (an audio device,
// a PortMidi input) not available in CI.
func SkipUnlessEnv(t *testing.T, name string) {
	t.Helper()
	if os.Getenv(name) == "" {
		t.Skipf("skipping: set %s to run this test", name)
	}
}

// IsCI reports whether the test is running under a CI environment,
// following the common convention of a non-empty CI variable.
func IsCI() bool { return os.Getenv("CI") != "" }

// FakeScanner is a format.Scanner that returns a fixed set of entries
// without touching the filesystem.
type FakeScanner struct {
	Entries    []catalog.Entry
	Strat      format.ScanningStrategy
	SearchDirs []string
}

func (s FakeScanner) Strategy() format.ScanningStrategy { return s.Strat }
func (s FakeScanner) DefaultSearchPaths() []string      { return s.SearchDirs }

func (s FakeScanner) Scan(ctx context.Context, searchPaths []string, denyList []catalog.Entry, cat *catalog.Catalog) error {
	denied := make(map[string]bool, len(denyList))
	for _, e := range denyList {
		denied[e.BundlePath] = true
	}
	for _, e := range s.Entries {
		if denied[e.BundlePath] {
			continue
		}
		cat.Add(e)
	}
	return nil
}

// FakeDriver is a format.Driver whose CreateInstance always invokes done
// with a preconfigured result, for tests that exercise instancing
// without a real native bridge.
type FakeDriver struct {
	FormatName              catalog.Format
	ScannerImpl             format.Scanner
	UIThreadReq             format.UIThreadRequirement
	NeedsSampleRateAtCreate bool
	Result                  format.CreateResult
}

func (d FakeDriver) Name() catalog.Format                          { return d.FormatName }
func (d FakeDriver) Scanner() format.Scanner                        { return d.ScannerImpl }
func (d FakeDriver) RequiresUIThreadOn() format.UIThreadRequirement { return d.UIThreadReq }
func (d FakeDriver) InstantiateRequiresSampleRate() bool            { return d.NeedsSampleRateAtCreate }

func (d FakeDriver) CreateInstance(ctx context.Context, entry catalog.Entry, opts format.CreateOptions, done func(format.CreateResult)) {
	done(d.Result)
}

// FakeLoader returns a bundle.Loader that always succeeds, returning
// path itself as the opaque handle (sufficient identity for assertions
// in tests).
func FakeLoader() func(string) (any, error) {
	return func(path string) (any, error) { return path, nil }
}

// FakeUnloader returns a bundle.Unloader that always succeeds.
func FakeUnloader() func(string, any) error {
	return func(string, any) error { return nil }
}
