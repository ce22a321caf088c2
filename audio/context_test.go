package audio

import (
	"testing"

	"github.com/shaban/pluginhost/event"
)

func TestClearAudioOutputsZeroesBuffers(t *testing.T) {
	c := NewProcessContext(4)
	out := c.AddAudioOut(2)
	for i := range c.AudioOut(out).Channels[0] {
		c.AudioOut(out).Channels[0][i] = 1
	}
	c.ClearAudioOutputs()
	for _, v := range c.AudioOut(out).Channels[0] {
		if v != 0 {
			t.Fatalf("expected zeroed output, got %v", v)
		}
	}
}

func TestAdvanceToNextNodeCopiesAudioOutToAudioIn(t *testing.T) {
	c := NewProcessContext(4)
	in := c.AddAudioIn(1)
	out := c.AddAudioOut(1)
	for i := range c.AudioOut(out).Channels[0] {
		c.AudioOut(out).Channels[0][i] = float32(i + 1)
	}
	c.AdvanceToNextNode()
	for i, v := range c.AudioIn(in).Channels[0] {
		if v != float32(i+1) {
			t.Fatalf("frame %d: got %v, want %v", i, v, i+1)
		}
	}
}

func TestAdvanceToNextNodeMovesEventOutToEventIn(t *testing.T) {
	c := NewProcessContext(4)
	c.EventOut().ScheduleEvents(event.Packet{Timestamp: 7})
	c.AdvanceToNextNode()
	if c.EventOut().Len() != 0 {
		t.Fatal("expected eventOut drained")
	}
	p, ok := c.EventIn().Pop()
	if !ok || p.Timestamp != 7 {
		t.Fatalf("expected moved packet with timestamp 7, got %+v ok=%v", p, ok)
	}
}

func TestProcessContextDoesNotAllocateNewBuffersAfterConfigure(t *testing.T) {
	c := NewProcessContext(8)
	c.AddAudioOut(2)
	before := c.AudioOut(0).Channels[0]
	c.ClearAudioOutputs()
	after := c.AudioOut(0).Channels[0]
	if &before[0] != &after[0] {
		t.Fatal("expected ClearAudioOutputs to reuse the same backing array")
	}
}
