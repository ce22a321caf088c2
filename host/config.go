// Package host holds the host-level configuration for the catalog,
// bundle pool, format drivers, and sequencer engine, as a plain
// functional-options struct rather than a file/env parsing library (see
// DESIGN.md's "Ambient-stack boundary" entry for why). It does not
// construct or wire those components itself.
//
// Grounded on the teacher's (shaban/macaudio) session/engine construction
// code, which builds its top-level object graph from Go option structs
// and constants rather than a config file, and on spec §9's description
// of the host as the component that owns search paths, retention policy,
// and buffer-size defaults for everything beneath it.
package host

import (
	"github.com/shaban/pluginhost/bundle"
	"github.com/shaban/pluginhost/format"
)

// defaultBufferSize is the block size assumed when a host is configured
// with no explicit LatencyHint. Chosen once here and exercised directly
// by config_test.go so the default can never drift between a test and
// its implementation the way a copy-pasted snapshot can.
const defaultBufferSize = 256

// LatencyHint selects a buffer-size tradeoff between latency and CPU
// headroom; Custom lets a host specify an exact frame count.
type LatencyHint int

const (
	LatencyDefault LatencyHint = iota
	LatencyLow
	LatencyHigh
	LatencyCustom
)

// UIThreadOverrideKey identifies one (format, pluginID) pair whose
// UI-thread requirement a host wants to override relative to its
// format driver's default (Open Question decision #1).
type UIThreadOverrideKey struct {
	Format   string
	PluginID string
}

// Config is the fully-resolved configuration for one host instance.
// Build it with Resolve(opts...), never by constructing the struct
// literal directly, so BufferSize always goes through one code path.
type Config struct {
	SampleRate float64
	BufferSize int

	SearchPaths       map[string][]string // keyed by format name, e.g. "VST3"
	RetentionPolicy   bundle.RetentionPolicy
	UIThreadOverrides map[UIThreadOverrideKey]format.UIThreadRequirement
}

// Option mutates a Config during Resolve.
type Option func(*Config)

// WithSampleRate sets the host's operating sample rate.
func WithSampleRate(hz float64) Option {
	return func(c *Config) { c.SampleRate = hz }
}

// WithLatencyHint resolves a LatencyHint into a concrete buffer size.
// LatencyCustom requires frames > 0 or it is ignored.
func WithLatencyHint(hint LatencyHint, customFrames int) Option {
	return func(c *Config) {
		switch hint {
		case LatencyLow:
			c.BufferSize = 64
		case LatencyHigh:
			c.BufferSize = 1024
		case LatencyCustom:
			if customFrames > 0 {
				c.BufferSize = customFrames
			}
		default:
			c.BufferSize = defaultBufferSize
		}
	}
}

// WithSearchPaths appends search directories for the given format to
// Config.SearchPaths. The format's compiled-in default directories are
// not added to that list.
func WithSearchPaths(formatName string, paths ...string) Option {
	return func(c *Config) {
		if c.SearchPaths == nil {
			c.SearchPaths = make(map[string][]string)
		}
		c.SearchPaths[formatName] = append(c.SearchPaths[formatName], paths...)
	}
}

// WithRetentionPolicy sets the bundle pool's retention policy.
func WithRetentionPolicy(p bundle.RetentionPolicy) Option {
	return func(c *Config) { c.RetentionPolicy = p }
}

// WithUIThreadOverride corrects a format's default UI-thread requirement
// for one specific plugin.
func WithUIThreadOverride(formatName, pluginID string, req format.UIThreadRequirement) Option {
	return func(c *Config) {
		if c.UIThreadOverrides == nil {
			c.UIThreadOverrides = make(map[UIThreadOverrideKey]format.UIThreadRequirement)
		}
		c.UIThreadOverrides[UIThreadOverrideKey{Format: formatName, PluginID: pluginID}] = req
	}
}

// Resolve builds a Config from defaults plus opts, applied in order.
func Resolve(opts ...Option) Config {
	c := Config{
		SampleRate:      48000,
		BufferSize:      defaultBufferSize,
		RetentionPolicy: bundle.UnloadImmediately,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// UIThreadRequirementFor resolves the effective UI-thread requirement
// for a plugin: an override if one is configured, otherwise the
// driver's own default.
func (c Config) UIThreadRequirementFor(formatName, pluginID string, driverDefault format.UIThreadRequirement) format.UIThreadRequirement {
	if c.UIThreadOverrides != nil {
		if req, ok := c.UIThreadOverrides[UIThreadOverrideKey{Format: formatName, PluginID: pluginID}]; ok {
			return req
		}
	}
	return driverDefault
}
