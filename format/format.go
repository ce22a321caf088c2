// Package format defines the plugin-format driver contract (spec §4.3,
// §4.4; C3/C4): one Driver per native API family (VST3, AU, LV2, CLAP),
// each owning bundle discovery (a Scanner) and asynchronous instance
// creation.
//
// Grounded on remidy::AudioPluginFormat / remidy::AudioPluginScanner
// (original_source/include/remidy/plugin-format.hpp), which separate
// "how do I find bundles on disk" (the scanner) from "how do I turn a
// bundle + descriptor into a running instance" (the format driver
// itself), and which expose a per-operation UI-thread requirement so a
// host can route calls onto the right thread without hard-coding
// per-platform knowledge.
package format

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shaban/pluginhost/catalog"
)

// ScanningStrategy tells a host how expensive/safe it is to scan a
// format's plugin directories. Grounded on remidy's scanning-strategy
// enum (PluginScanning::{No,Maybe,Yes} in plugin-format.hpp), used there
// to let VST3/CLAP report "Maybe" (scanning may require loading the
// bundle to read its metadata) versus a format with static sidecar
// metadata reporting "Yes" outright.
type ScanningStrategy int

const (
	// ScanNo means the format never needs scanning (statically known set).
	ScanNo ScanningStrategy = iota
	// ScanMaybe means scanning may require touching the bundle itself.
	ScanMaybe
	// ScanYes means scanning is always cheap and safe (sidecar metadata).
	ScanYes
)

func (s ScanningStrategy) String() string {
	switch s {
	case ScanNo:
		return "No"
	case ScanMaybe:
		return "Maybe"
	case ScanYes:
		return "Yes"
	default:
		return "Unknown"
	}
}

// UIThreadRequirement is a bitmask of operations that a format driver
// needs to run on the UI (main) thread. Hosts can override a format's
// default per (format, pluginID) via a host-level map (Open Question
// decision #1, DESIGN.md).
type UIThreadRequirement uint8

const (
	RequiresUIThreadForScanning UIThreadRequirement = 1 << iota
	RequiresUIThreadForInstantiation
	RequiresUIThreadForNonAudioOperations
)

// Has reports whether op is set in the requirement mask.
func (r UIThreadRequirement) Has(op UIThreadRequirement) bool { return r&op != 0 }

// Scanner discovers plugin bundles for one format and reports what it
// found into a catalog.
type Scanner interface {
	// Strategy reports how scanning should be scheduled by the host.
	Strategy() ScanningStrategy
	// DefaultSearchPaths returns the format's platform-conventional
	// plugin directories (e.g. "/Library/Audio/Plug-Ins/VST3" on macOS).
	DefaultSearchPaths() []string
	// Scan walks searchPaths (or DefaultSearchPaths if empty) and adds
	// discovered entries to cat, using denyList to skip known-bad
	// bundles without re-probing them.
	Scan(ctx context.Context, searchPaths []string, denyList []catalog.Entry, cat *catalog.Catalog) error
}

// CreateOptions carries the parameters needed to instantiate a plugin.
type CreateOptions struct {
	SampleRate float64
	BlockSize  int
}

// CreateResult is delivered asynchronously to CreateInstance's callback.
type CreateResult struct {
	Instance any // *instance.Instance; any to avoid an import cycle with package instance
	Err      error
}

// Driver is the per-format entry point: naming, scanning, UI-thread
// requirements, and asynchronous instantiation (spec §4.4).
type Driver interface {
	// Name is the stable format identifier, e.g. "VST3".
	Name() catalog.Format
	// Scanner returns this format's bundle scanner.
	Scanner() Scanner
	// RequiresUIThreadOn reports this format's default UI-thread
	// requirements. Host-level per-plugin overrides are applied by the
	// caller, not by the driver itself.
	RequiresUIThreadOn() UIThreadRequirement
	// InstantiateRequiresSampleRate reports whether this format must
	// know the sample rate at construction time rather than at
	// configure time; if true and the host later changes sample rate,
	// callers must recreate the instance (instancing.ErrRequiresRecreate)
	// rather than reconfigure it in place (Open Question decision #3).
	InstantiateRequiresSampleRate() bool
	// CreateInstance asynchronously instantiates the plugin described by
	// entry, invoking done exactly once with the result. The call may
	// hop to the UI thread internally depending on RequiresUIThreadOn.
	CreateInstance(ctx context.Context, entry catalog.Entry, opts CreateOptions, done func(CreateResult))
}

// Registry maps format names to drivers, letting a host iterate "every
// known format" without a compiled-in switch statement.
type Registry struct {
	drivers map[catalog.Format]Driver
}

// NewRegistry builds a registry from the given drivers, keyed by Name().
func NewRegistry(drivers ...Driver) *Registry {
	r := &Registry{drivers: make(map[catalog.Format]Driver, len(drivers))}
	for _, d := range drivers {
		r.drivers[d.Name()] = d
	}
	return r
}

// Get returns the driver registered for format, if any.
func (r *Registry) Get(f catalog.Format) (Driver, bool) {
	d, ok := r.drivers[f]
	return d, ok
}

// All returns every registered driver, in no particular order.
func (r *Registry) All() []Driver {
	out := make([]Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		out = append(out, d)
	}
	return out
}

// ScanExtension walks searchPaths (non-recursively per directory entry,
// matching how plugin bundles are installed as one level of files or
// directories under a well-known folder) and returns the full path of
// every entry whose base name ends with ext, case-insensitively. Shared
// by the per-format scanners, since VST3/CLAP/LV2/AU all discover
// bundles by extension under a handful of search roots (spec §4.3).
func ScanExtension(searchPaths []string, ext string) ([]string, error) {
	var found []string
	lowerExt := strings.ToLower(ext)
	for _, root := range searchPaths {
		entries, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, e := range entries {
			if strings.HasSuffix(strings.ToLower(e.Name()), lowerExt) {
				found = append(found, filepath.Join(root, e.Name()))
			}
		}
	}
	return found, nil
}

// BundleID derives a stable plugin identifier from a bundle path: the
// base name with its format extension stripped. Real metadata (vendor,
// display name, product URL) requires loading the bundle, which is
// beyond what a filesystem scan can determine; see DESIGN.md.
func BundleID(bundlePath string) string {
	base := filepath.Base(bundlePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
