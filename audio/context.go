// Package audio implements the real-time audio process context (spec
// §4.7, C7): planar per-bus buffers sized once at configuration time, so
// that Process (called from the audio thread on every block) performs
// zero allocation.
//
// Grounded on remidy::AudioProcessContext / AudioBusBufferList /
// MidiSequence (original_source include/remidy/processing-context.hpp),
// which preallocates a contiguous buffer per bus and exposes
// advanceToNextNode() to hand audio-out/event-out of one node to
// audio-in/event-in of the next without copying through an intermediate
// mixer buffer. The planar-buffer-with-stride layout mirrors the
// teacher's (shaban/macaudio) engine/channel bus buffer shape, generalized
// here from a fixed stereo assumption to an arbitrary per-bus channel
// count.
package audio

import "github.com/shaban/pluginhost/event"

// Bus is one planar audio bus: Channels[c][frame] for c in [0,
// len(Channels)). All slices are allocated by AddAudioIn/AddAudioOut and
// never reallocated by Process.
type Bus struct {
	Channels [][]float32
}

// frameCount returns the configured buffer length.
func (b Bus) frameCount() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

func newBus(channels, frames int) Bus {
	b := Bus{Channels: make([][]float32, channels)}
	for i := range b.Channels {
		b.Channels[i] = make([]float32, frames)
	}
	return b
}

func (b Bus) clear() {
	for _, ch := range b.Channels {
		for i := range ch {
			ch[i] = 0
		}
	}
}

// ProcessContext is passed to Core.Process on every audio-thread call. It
// owns preallocated planar buffers for every configured bus and the
// event queues that carry UMP packets alongside audio.
type ProcessContext struct {
	frameCount int

	audioIn  []Bus
	audioOut []Bus

	eventIn  *event.Queue
	eventOut *event.Queue
}

// NewProcessContext allocates a context with no buses configured; call
// AddAudioIn/AddAudioOut to add buses before first use.
func NewProcessContext(frameCount int) *ProcessContext {
	return &ProcessContext{
		frameCount: frameCount,
		eventIn:    event.NewQueue(256),
		eventOut:   event.NewQueue(256),
	}
}

// FrameCount returns the number of audio frames this context is sized for.
func (c *ProcessContext) FrameCount() int { return c.frameCount }

// AddAudioIn appends a new input bus with the given channel count.
func (c *ProcessContext) AddAudioIn(channels int) int {
	c.audioIn = append(c.audioIn, newBus(channels, c.frameCount))
	return len(c.audioIn) - 1
}

// AddAudioOut appends a new output bus with the given channel count.
func (c *ProcessContext) AddAudioOut(channels int) int {
	c.audioOut = append(c.audioOut, newBus(channels, c.frameCount))
	return len(c.audioOut) - 1
}

// AudioIn returns the input bus at index bus.
func (c *ProcessContext) AudioIn(bus int) Bus { return c.audioIn[bus] }

// AudioOut returns the output bus at index bus.
func (c *ProcessContext) AudioOut(bus int) Bus { return c.audioOut[bus] }

// InputBusCount reports how many input buses are configured.
func (c *ProcessContext) InputBusCount() int { return len(c.audioIn) }

// OutputBusCount reports how many output buses are configured.
func (c *ProcessContext) OutputBusCount() int { return len(c.audioOut) }

// EventIn returns the incoming UMP event queue for this block.
func (c *ProcessContext) EventIn() *event.Queue { return c.eventIn }

// EventOut returns the outgoing UMP event queue a node populates.
func (c *ProcessContext) EventOut() *event.Queue { return c.eventOut }

// ClearAudioOutputs zeroes every output bus. Called once per block
// before the first node processes, per spec §4.7.
func (c *ProcessContext) ClearAudioOutputs() {
	for i := range c.audioOut {
		c.audioOut[i].clear()
	}
}

// AdvanceToNextNode copies this node's audio outputs into its own audio
// inputs (so the next node in a chain reads what this node just wrote)
// and moves pending eventOut packets into eventIn, clearing eventOut.
// This is the hand-off primitive a graph/track uses between chained
// plugin nodes (spec §4.7, §4.9) instead of allocating an intermediate
// buffer per node.
func (c *ProcessContext) AdvanceToNextNode() {
	n := len(c.audioOut)
	if len(c.audioIn) < n {
		n = len(c.audioIn)
	}
	for i := 0; i < n; i++ {
		src := c.audioOut[i].Channels
		dst := c.audioIn[i].Channels
		m := len(src)
		if len(dst) < m {
			m = len(dst)
		}
		for ch := 0; ch < m; ch++ {
			copy(dst[ch], src[ch])
		}
	}
	c.eventIn.Clear()
	c.eventOut.DrainInto(c.eventIn)
}
