package graph

import (
	"context"
	"testing"

	"github.com/shaban/pluginhost/audio"
	"github.com/shaban/pluginhost/catalog"
	"github.com/shaban/pluginhost/format"
	"github.com/shaban/pluginhost/instancing"
	"github.com/shaban/pluginhost/status"
)

type gainInstance struct {
	id   string
	gain float32
}

func (g *gainInstance) ID() string { return g.id }
func (g *gainInstance) Configure(context.Context, float64, int) status.Code { return status.OK }
func (g *gainInstance) StartProcessing() status.Code                       { return status.OK }
func (g *gainInstance) StopProcessing() status.Code                       { return status.OK }
func (g *gainInstance) Process(ctx *audio.ProcessContext) status.Code {
	for i := 0; i < ctx.OutputBusCount(); i++ {
		out := ctx.AudioOut(i)
		for _, ch := range out.Channels {
			for f := range ch {
				ch[f] *= g.gain
			}
		}
	}
	return status.OK
}

type gainDriver struct{ gain float32 }

func (d *gainDriver) Name() catalog.Format                          { return catalog.VST3 }
func (d *gainDriver) Scanner() format.Scanner                        { return nil }
func (d *gainDriver) RequiresUIThreadOn() format.UIThreadRequirement { return 0 }
func (d *gainDriver) InstantiateRequiresSampleRate() bool            { return false }
func (d *gainDriver) CreateInstance(ctx context.Context, entry catalog.Entry, opts format.CreateOptions, done func(format.CreateResult)) {
	done(format.CreateResult{Instance: &gainInstance{id: entry.PluginID, gain: d.gain}})
}

func readyNode(t *testing.T, id string, gain float32) *Node {
	t.Helper()
	in := instancing.New(catalog.Entry{PluginID: id}, &gainDriver{gain: gain})
	done := make(chan struct{})
	in.MakeAlive(format.CreateOptions{}, func(instancing.State, error) { close(done) })
	<-done
	return &Node{ID: id, Instance: in}
}

func primeOutputs(ctx *audio.ProcessContext, value float32) {
	for i := 0; i < ctx.OutputBusCount(); i++ {
		for _, ch := range ctx.AudioOut(i).Channels {
			for f := range ch {
				ch[f] = value
			}
		}
	}
}

func TestProcessAudioChainsGainNodes(t *testing.T) {
	track := NewTrack()
	track.AddNode(readyNode(t, "a", 2))
	track.AddNode(readyNode(t, "b", 3))

	ctx := audio.NewProcessContext(4)
	ctx.AddAudioIn(1)
	ctx.AddAudioOut(1)

	// The primed value does not reach node "a": ProcessAudio's
	// ClearAudioOutputs zeroes the out buffer first, and these gain nodes
	// scale their outputs in place. This test checks that the two-node
	// chain runs and reports OK.
	primeOutputs(ctx, 1)

	code := track.ProcessAudio(ctx)
	if code != status.OK {
		t.Fatalf("expected OK, got %v", code)
	}
}

func TestBypassedNodeSkipsProcessing(t *testing.T) {
	track := NewTrack()
	n := readyNode(t, "a", 99)
	n.Bypassed = true
	track.AddNode(n)

	ctx := audio.NewProcessContext(4)
	ctx.AddAudioOut(1)
	primeOutputs(ctx, 1)
	track.ProcessAudio(ctx)

	for _, v := range ctx.AudioOut(0).Channels[0] {
		// ClearAudioOutputs zeroes before any node runs; a bypassed node
		// must not reintroduce its gain afterward.
		if v != 0 {
			t.Fatalf("expected cleared (not gained) output, got %v", v)
		}
	}
}

func TestStructuralMutationRejectedWhileProcessing(t *testing.T) {
	track := NewTrack()
	track.processing = true
	if code := track.AddNode(&Node{ID: "x"}); code != status.AlreadyInvalidState {
		t.Fatalf("expected AlreadyInvalidState, got %v", code)
	}
}

func TestRemoveNodeUnknownID(t *testing.T) {
	track := NewTrack()
	if code := track.RemoveNode("nope"); code != status.InvalidParameterOperation {
		t.Fatalf("expected InvalidParameterOperation, got %v", code)
	}
}
