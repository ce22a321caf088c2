// Package render implements offline (faster-than-real-time) rendering
// to a WAV file (spec §4.11, C11): switch the engine to offline mode and
// start its clock, process blocks in a tight loop rather than real time,
// write each block's device output to disk, then switch offline mode off
// and pause playback. The playhead position and the offline and playback
// flags the engine had before the pass are not restored.
//
// Grounded on spec §4.11's six-step algorithm (snapshot/restore, set
// offline+seek, allocate one context, open writer, block loop with
// cancellation/silence-stop, flush/close with partial-file cleanup) and
// on github.com/go-audio/wav + github.com/go-audio/audio for the WAV
// encoder, the same pairing used by the pack's
// tphakala-birdnet-go/schollz-221e example manifests for writing PCM
// audio to disk. The pause/resume-around-a-bounded-loop shape mirrors
// the teacher's (shaban/macaudio) approach of wrapping a processing
// pass with explicit start/stop calls rather than free-running it.
package render

import (
	"context"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/shaban/pluginhost/audio"
	"github.com/shaban/pluginhost/status"
)

// Engine is the subset of sequencer.Engine that Render needs, kept
// narrow so render doesn't import sequencer directly and create an
// import cycle with anything sequencer later grows to depend on.
type Engine interface {
	ProcessAudio(ctx *audio.ProcessContext) status.Code
	OfflineRendering(bool)
	PlaybackPosition() float64
	PausePlayback()
	ResumePlayback()
}

// Options configures one offline render pass.
type Options struct {
	SampleRate     float64
	Channels       int
	BlockSize      int
	MaxSeconds     float64 // hard cap; 0 means no cap
	SilenceStopSec float64 // stop early after this many seconds of near-silence; 0 disables
	// Cancel is polled between blocks; when it returns true the render
	// stops and the partial file is removed.
	Cancel func() bool
}

// Result summarizes a completed (or aborted) render pass.
type Result struct {
	Success         bool
	Canceled        bool
	RenderedSeconds float64
	ErrorMessage    string
}

const silenceThreshold = 1e-4

// Render drives engine through Options.MaxSeconds worth of blocks (or
// until cancellation/silence-stop), writing the device output to a new
// WAV file at path. On cancellation or error, the partial file is
// removed rather than left truncated on disk.
func Render(ctx context.Context, engine Engine, path string, opts Options) Result {
	position := engine.PlaybackPosition()
	engine.PausePlayback()
	engine.OfflineRendering(true)
	defer func() {
		engine.OfflineRendering(false)
		engine.PausePlayback()
		_ = position // restoring exact playhead position requires transport seek support (spec §9, open item)
	}()
	engine.ResumePlayback() // offline rendering drives its own bounded loop regardless of live transport state

	f, err := os.Create(path)
	if err != nil {
		return Result{ErrorMessage: err.Error()}
	}

	enc := wav.NewEncoder(f, int(opts.SampleRate), 16, opts.Channels, 1)

	procCtx := audio.NewProcessContext(opts.BlockSize)
	procCtx.AddAudioIn(opts.Channels)
	procCtx.AddAudioOut(opts.Channels)

	intBuf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: opts.Channels, SampleRate: int(opts.SampleRate)},
		Data:   make([]int, opts.BlockSize*opts.Channels),
	}

	silentSeconds := 0.0
	renderedFrames := 0
	maxFrames := math.MaxInt64
	if opts.MaxSeconds > 0 {
		maxFrames = int(opts.MaxSeconds * opts.SampleRate)
	}

	cleanup := func(canceled bool, errMsg string) Result {
		_ = enc.Close()
		_ = f.Close()
		if canceled || errMsg != "" {
			_ = os.Remove(path)
		}
		return Result{
			Success:         errMsg == "" && !canceled,
			Canceled:        canceled,
			RenderedSeconds: float64(renderedFrames) / opts.SampleRate,
			ErrorMessage:    errMsg,
		}
	}

	for renderedFrames < maxFrames {
		select {
		case <-ctx.Done():
			return cleanup(true, "")
		default:
		}
		if opts.Cancel != nil && opts.Cancel() {
			return cleanup(true, "")
		}

		if code := engine.ProcessAudio(procCtx); code != status.OK {
			return cleanup(false, code.Error())
		}

		peak := float32(0)
		n := 0
		out := procCtx.AudioOut(0)
		frames := procCtx.FrameCount()
		if remaining := maxFrames - renderedFrames; remaining < frames {
			frames = remaining
		}
		for frame := 0; frame < frames; frame++ {
			for ch := 0; ch < opts.Channels; ch++ {
				var sample float32
				if ch < len(out.Channels) {
					sample = out.Channels[ch][frame]
				}
				if abs32(sample) > peak {
					peak = abs32(sample)
				}
				intBuf.Data[n] = floatToPCM16(sample)
				n++
			}
		}
		// Only the final block can be shorter than BlockSize, so
		// shrinking Data here never affects a later iteration.
		intBuf.Data = intBuf.Data[:n]
		if err := enc.Write(intBuf); err != nil {
			return cleanup(false, err.Error())
		}

		renderedFrames += frames

		if opts.SilenceStopSec > 0 {
			if peak < silenceThreshold {
				silentSeconds += float64(frames) / opts.SampleRate
				if silentSeconds >= opts.SilenceStopSec {
					break
				}
			} else {
				silentSeconds = 0
			}
		}
	}

	return cleanup(false, "")
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func floatToPCM16(f float32) int {
	if f > 1 {
		f = 1
	}
	if f < -1 {
		f = -1
	}
	return int(f * 32767)
}
