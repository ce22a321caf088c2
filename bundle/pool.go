// Package bundle implements the reference-counted native-bundle loader
// (spec §4.2, C2): BundlePool tracks load/unload of the platform-specific
// code bundles backing VST3/AU/LV2/CLAP plugins.
//
// Grounded on remidy::PluginBundlePool (original_source/include/remidy/priv/plugin-catalog.hpp),
// which is constructed with injected load/unload std::function callbacks,
// keyed by normalized bundle path, and exposes loadOrAddReference /
// removeReference / setRetentionPolicy. The injected-loader shape mirrors
// the teacher's own ErrorHandler-as-interface convention (shaban/macaudio
// errors.go) of passing behavior in rather than hard-coding a platform API.
package bundle

import (
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/shaban/pluginhost/status"
)

// Handle is an opaque native module handle: an HMODULE, a CFBundleRef, or
// a dlopen()-ed library, depending on platform and format.
type Handle = any

// Loader opens a bundle's native code and returns an opaque handle.
type Loader func(bundlePath string) (Handle, error)

// Unloader releases a handle previously returned by a Loader.
type Unloader func(bundlePath string, handle Handle) error

// RetentionPolicy controls what happens when a bundle's reference count
// reaches zero.
type RetentionPolicy int

const (
	// UnloadImmediately unloads a bundle as soon as its refcount hits zero.
	UnloadImmediately RetentionPolicy = iota
	// Retain never unloads a bundle until the pool itself is destroyed.
	Retain
)

type record struct {
	handle   Handle
	refCount int
}

// Pool is a reference-counted cache of loaded native bundles. The
// internal map is not locked against the audio thread (spec §5: "not to
// be mutated from the audio thread") — a mutex here only serializes the
// UI-thread/background-thread callers that are expected to touch it.
type Pool struct {
	mu       sync.Mutex
	load     Loader
	unload   Unloader
	policy   RetentionPolicy
	entries  map[string]*record
	log      *zap.Logger
	hooks    Hooks
	onUIFunc func(func())
}

// Hooks lets callers observe pool activity (metrics, tracing) without
// coupling the pool to a specific backend.
type Hooks interface {
	OnLoad(bundlePath string, asNew bool)
	OnUnload(bundlePath string)
	OnLoadError(bundlePath string, err error)
}

// NopHooks implements Hooks with no-ops.
type NopHooks struct{}

func (NopHooks) OnLoad(string, bool)       {}
func (NopHooks) OnUnload(string)           {}
func (NopHooks) OnLoadError(string, error) {}

// New creates a bundle pool. onUIThread, when non-nil, is used to run the
// injected loader on the UI thread (spec §4.2: "invoke the injected
// platform loader on the UI thread because some platforms require it");
// when nil, the loader runs on the caller's goroutine directly, which is
// the right behavior for headless/test drivers and format scanners that
// never touch a GUI framework.
func New(load Loader, unload Unloader, onUIThread func(func()), log *zap.Logger, hooks Hooks) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Pool{
		load:     load,
		unload:   unload,
		entries:  make(map[string]*record),
		log:      log,
		hooks:    hooks,
		onUIFunc: onUIThread,
	}
}

// SetRetentionPolicy changes what happens at refCount == 0 going forward.
// It does not retroactively unload bundles already retained.
func (p *Pool) SetRetentionPolicy(policy RetentionPolicy) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.policy = policy
}

// RetentionPolicy returns the pool's current policy.
func (p *Pool) RetentionPolicy() RetentionPolicy {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.policy
}

func normalize(path string) string { return filepath.Clean(path) }

func (p *Pool) runOnUI(fn func()) {
	if p.onUIFunc != nil {
		p.onUIFunc(fn)
		return
	}
	fn()
}

// LoadOrAddReference returns the handle for bundlePath, loading it if
// necessary. loadedAsNew is true iff the handle this call loaded was
// stored in the pool (a cache miss). On a hit, the refcount is
// incremented and the existing handle is returned without touching the
// loader. If a concurrent caller stored a handle for the same path while
// this call's loader was running, this call's handle is unloaded, the
// stored one is returned, and loadedAsNew is false.
func (p *Pool) LoadOrAddReference(bundlePath string) (handle Handle, loadedAsNew bool, err error) {
	key := normalize(bundlePath)

	p.mu.Lock()
	if rec, ok := p.entries[key]; ok {
		rec.refCount++
		p.mu.Unlock()
		p.hooks.OnLoad(key, false)
		p.log.Debug("bundle reference added", zap.String("path", key), zap.Int("refCount", rec.refCount))
		return rec.handle, false, nil
	}
	p.mu.Unlock()

	if p.load == nil {
		return nil, false, status.Wrap(status.BundleNotFound, "no loader configured for %s", key)
	}

	var (
		h       Handle
		loadErr error
	)
	p.runOnUI(func() {
		h, loadErr = p.load(key)
	})
	if loadErr != nil {
		p.hooks.OnLoadError(key, loadErr)
		p.log.Warn("bundle load failed", zap.String("path", key), zap.Error(loadErr))
		return nil, false, status.Wrap(status.BundleNotFound, "loading %s: %v", key, loadErr)
	}

	p.mu.Lock()
	// Another caller may have raced us between the miss check and here;
	// prefer the first successfully-loaded handle and unload ours.
	if rec, ok := p.entries[key]; ok {
		rec.refCount++
		p.mu.Unlock()
		if p.unload != nil {
			_ = p.unload(key, h)
		}
		p.hooks.OnLoad(key, false)
		return rec.handle, false, nil
	}
	p.entries[key] = &record{handle: h, refCount: 1}
	p.mu.Unlock()

	p.hooks.OnLoad(key, true)
	p.log.Info("bundle loaded", zap.String("path", key))
	return h, true, nil
}

// RemoveReference decrements the refcount for bundlePath. At zero, if the
// policy is UnloadImmediately, the injected unloader runs and the entry
// is erased. Returns BundleNotFound if the path has no outstanding
// references.
func (p *Pool) RemoveReference(bundlePath string) error {
	key := normalize(bundlePath)

	p.mu.Lock()
	rec, ok := p.entries[key]
	if !ok || rec.refCount <= 0 {
		p.mu.Unlock()
		return status.Wrap(status.BundleNotFound, "no reference held for %s", key)
	}
	rec.refCount--
	remaining := rec.refCount
	policy := p.policy
	p.mu.Unlock()

	if remaining > 0 {
		return nil
	}

	if policy != UnloadImmediately {
		return nil
	}

	var unloadErr error
	if p.unload != nil {
		unloadErr = p.unload(key, rec.handle)
	}

	p.mu.Lock()
	delete(p.entries, key)
	p.mu.Unlock()

	p.hooks.OnUnload(key)
	if unloadErr != nil {
		p.log.Warn("bundle unload failed", zap.String("path", key), zap.Error(unloadErr))
		return unloadErr
	}
	p.log.Info("bundle unloaded", zap.String("path", key))
	return nil
}

// Stats summarizes pool occupancy for metrics reporting.
type Stats struct {
	Loaded    int
	TotalRefs int
}

// Stats reports how many distinct bundles are loaded and the sum of
// their refcounts.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Stats{Loaded: len(p.entries)}
	for _, rec := range p.entries {
		s.TotalRefs += rec.refCount
	}
	return s
}

// Close unloads every remaining bundle regardless of policy, matching
// spec §4.2: "destruction unloads every remaining bundle regardless of
// policy."
func (p *Pool) Close() error {
	p.mu.Lock()
	entries := p.entries
	p.entries = make(map[string]*record)
	p.mu.Unlock()

	var firstErr error
	for path, rec := range entries {
		if p.unload == nil {
			continue
		}
		if err := p.unload(path, rec.handle); err != nil {
			p.log.Warn("bundle unload on close failed", zap.String("path", path), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
		p.hooks.OnUnload(path)
	}
	return firstErr
}
