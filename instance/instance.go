// Package instance defines the facet interfaces a running plugin
// instance exposes (spec §4.5, C5): a small Core plus optional
// capability facets, so a host can type-assert for exactly the
// functionality a given plugin/format actually supports instead of
// calling no-op stubs.
//
// Grounded on remidy::AudioPluginInstance (original_source
// include/remidy/plugin-instance.hpp), which exposes the same "core
// plus optional accessor" shape (hasAudioBuses()/audioBuses(),
// hasParameters()/parameters(), and so on returning nullable
// interfaces) — rendered here as Go type assertions on narrow
// interfaces rather than nullable-pointer accessors, matching how the
// teacher repo (shaban/macaudio) exposes optional plugin capabilities
// via interface type-switches in its chain/processing code rather than
// "has + get" accessor pairs.
package instance

import (
	"context"

	"github.com/shaban/pluginhost/audio"
	"github.com/shaban/pluginhost/status"
)

// Core is the mandatory facet every plugin instance implements:
// configuration and audio processing.
type Core interface {
	// Configure prepares the instance for processing at the given
	// sample rate and maximum block size. It may be called again later
	// to reconfigure, unless the driver's InstantiateRequiresSampleRate
	// is true, in which case callers must recreate the instance instead
	// (instancing.ErrRequiresRecreate).
	Configure(ctx context.Context, sampleRate float64, maxBlockSize int) status.Code
	// StartProcessing transitions the instance into a state where
	// Process may be called from the audio thread.
	StartProcessing() status.Code
	// StopProcessing halts processing; Process must not be called again
	// until StartProcessing succeeds.
	StopProcessing() status.Code
	// Process runs one audio block. Must only be called on the audio
	// thread, between a successful StartProcessing and the matching
	// StopProcessing.
	Process(ctx *audio.ProcessContext) status.Code
}

// AudioBuses describes an instance's input/output bus layout.
type AudioBuses interface {
	BusCount(isInput bool) int
	ChannelsInBus(isInput bool, bus int) int
	// SetBusLayout requests a channel count for a bus; returns
	// UnsupportedChannelLayoutRequested if the plugin cannot honor it.
	SetBusLayout(isInput bool, bus int, channels int) status.Code
}

// ParameterInfo describes one automatable parameter.
type ParameterInfo struct {
	ID           string
	DisplayName  string
	DefaultValue float64
	MinValue     float64
	MaxValue     float64
}

// Parameters exposes an instance's automatable parameters.
type Parameters interface {
	ParameterList() []ParameterInfo
	GetParameter(id string) (value float64, status status.Code)
	SetParameter(id string, value float64) status.Code
}

// State exposes plugin-defined opaque state (for session save/restore).
type State interface {
	SaveState() ([]byte, status.Code)
	LoadState(data []byte) status.Code
}

// Preset describes one stored factory or user preset.
type Preset struct {
	ID   string
	Name string
}

// Presets exposes a plugin's built-in preset bank, where supported.
type Presets interface {
	PresetList() []Preset
	LoadPreset(id string) status.Code
}

// UI exposes an instance's editor, where the plugin provides one.
type UI interface {
	HasEditor() bool
	// ShowEditor must be invoked on the UI thread; parentWindowHandle is
	// an opaque native window handle owned by the host.
	ShowEditor(parentWindowHandle any) status.Code
	HideEditor() status.Code
}

// Instance aggregates the mandatory Core facet plus whichever optional
// facets the concrete plugin/format implements; callers type-assert for
// AudioBuses/Parameters/State/Presets/UI as needed.
type Instance interface {
	Core
	// ID is the catalog identity this instance was created from.
	ID() string
}
