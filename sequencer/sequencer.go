// Package sequencer implements the sequencer engine (spec §4.10, C10): a
// track registry plus a master clock, driving graph.Track instances
// through one combined ProcessAudio call per block and summing their
// outputs into the device's output buffer.
//
// Grounded on the teacher's (shaban/macaudio) root dispatcher.go and
// session.go, which serialize mutating requests (add/remove/configure)
// through a single request channel consumed by one goroutine, so
// structural changes never race with the audio-thread-adjacent call that
// reads the current track list; here that serialization is a mutex
// guarding the track map and order slice, taken by
// AddEmptyTrack/AddPluginToTrack/RemoveTrack and by ProcessAudio's
// snapshot, rather than a dedicated goroutine. Track
// identity uses github.com/google/uuid, matching the ID scheme seen in
// the teacher's own examples/mic_monitor/go.mod dependency and in the
// streamspace-dev-streamspace example repo.
package sequencer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/shaban/pluginhost/audio"
	"github.com/shaban/pluginhost/catalog"
	"github.com/shaban/pluginhost/format"
	"github.com/shaban/pluginhost/graph"
	"github.com/shaban/pluginhost/instancing"
	"github.com/shaban/pluginhost/status"
)

// Clock tracks playback position in a sample-rate-independent way:
// samples advance once per processed block, position is exposed in
// seconds.
type Clock struct {
	SampleRate float64
	playhead   atomic.Int64 // absolute sample count
	playing    atomic.Bool
}

// PositionSeconds returns the current playhead position in seconds.
func (c *Clock) PositionSeconds() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(c.playhead.Load()) / c.SampleRate
}

// Advance moves the playhead forward by frameCount samples, only while
// playing.
func (c *Clock) Advance(frameCount int) {
	if c.playing.Load() {
		c.playhead.Add(int64(frameCount))
	}
}

// Metrics summarizes engine activity for observability.
type Metrics struct {
	TrackCount     int
	BlocksRendered int64
	OfflineMode    bool
}

// Engine is the sequencer: an ordered set of tracks plus a master clock.
// All structural mutation runs through a single mutex-guarded map;
// ProcessAudio takes a snapshot of the track list so structural changes
// never interleave with an in-flight block.
type Engine struct {
	mu      sync.Mutex
	tracks  map[string]*graph.Track
	order   []string
	clock   Clock
	offline atomic.Bool
	blocks  atomic.Int64
	pool    *format.Registry
}

// New creates an empty sequencer engine at the given sample rate, using
// registry to resolve format drivers for AddPluginToTrack.
func New(sampleRate float64, registry *format.Registry) *Engine {
	e := &Engine{
		tracks: make(map[string]*graph.Track),
		pool:   registry,
	}
	e.clock.SampleRate = sampleRate
	return e
}

// AddEmptyTrack creates a new, empty track and returns its ID.
func (e *Engine) AddEmptyTrack() string {
	id := uuid.NewString()
	e.mu.Lock()
	e.tracks[id] = graph.NewTrack()
	e.order = append(e.order, id)
	e.mu.Unlock()
	return id
}

// RemoveTrack deletes a track by ID.
func (e *Engine) RemoveTrack(id string) status.Code {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.tracks[id]; !ok {
		return status.InvalidParameterOperation
	}
	delete(e.tracks, id)
	for i, tid := range e.order {
		if tid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return status.OK
}

// AddPluginToTrack asynchronously instantiates entry via the format
// registry and, on success, appends it as a node on trackID. done
// receives the final status once instantiation completes (or fails).
func (e *Engine) AddPluginToTrack(ctx context.Context, trackID string, entry catalog.Entry, opts format.CreateOptions, done func(status.Code)) {
	e.mu.Lock()
	track, ok := e.tracks[trackID]
	e.mu.Unlock()
	if !ok {
		done(status.InvalidParameterOperation)
		return
	}

	driver, ok := e.pool.Get(entry.Format)
	if !ok {
		done(status.NotImplemented)
		return
	}

	in := instancing.New(entry, driver)
	in.MakeAlive(opts, func(st instancing.State, err error) {
		if st != instancing.Ready {
			done(status.FailedToInstantiate)
			return
		}
		done(track.AddNode(&graph.Node{ID: uuid.NewString(), Instance: in}))
	})
}

// ProcessAudio runs every track against its own process context shaped
// like deviceCtx, and sums each track's output into deviceCtx, then
// advances the master clock. This is the summing mixer step spec §4.10
// describes on top of C9's per-track processing.
func (e *Engine) ProcessAudio(deviceCtx *audio.ProcessContext) status.Code {
	e.mu.Lock()
	order := append([]string(nil), e.order...)
	tracks := make([]*graph.Track, 0, len(order))
	for _, id := range order {
		tracks = append(tracks, e.tracks[id])
	}
	e.mu.Unlock()

	deviceCtx.ClearAudioOutputs()
	worst := status.OK
	for _, tr := range tracks {
		code := tr.ProcessAudio(deviceCtx)
		if code != status.OK && worst == status.OK {
			worst = code
		}
	}

	e.clock.Advance(deviceCtx.FrameCount())
	e.blocks.Add(1)
	return worst
}

// PlaybackPosition returns the current playhead position in seconds.
func (e *Engine) PlaybackPosition() float64 { return e.clock.PositionSeconds() }

// PausePlayback stops the master clock from advancing.
func (e *Engine) PausePlayback() { e.clock.playing.Store(false) }

// ResumePlayback resumes advancing the master clock.
func (e *Engine) ResumePlayback() { e.clock.playing.Store(true) }

// OfflineRendering toggles whether the engine is currently driven by an
// offline renderer rather than a live audio device; render.Render sets
// this for the duration of a render pass.
func (e *Engine) OfflineRendering(offline bool) { e.offline.Store(offline) }

// Metrics reports current engine activity.
func (e *Engine) Metrics() Metrics {
	e.mu.Lock()
	n := len(e.tracks)
	e.mu.Unlock()
	return Metrics{
		TrackCount:     n,
		BlocksRendered: e.blocks.Load(),
		OfflineMode:    e.offline.Load(),
	}
}
