package midibridge

import (
	"testing"

	"github.com/rakyll/portmidi"
)

func TestDecodeNoteOnProducesMIDI2ChannelVoicePacket(t *testing.T) {
	e := portmidi.Event{Timestamp: 42, Status: int64(0x90 | 0x05), Data1: 60, Data2: 100}
	p, ok := decode(e, 3)
	if !ok {
		t.Fatal("expected note-on to decode")
	}
	if p.WordCount != 2 {
		t.Fatalf("expected 2-word MIDI2 channel-voice packet, got %d", p.WordCount)
	}
	if p.Timestamp != 42 {
		t.Fatalf("expected timestamp preserved, got %d", p.Timestamp)
	}
	group := uint8(p.Words[0] >> 24 & 0xF)
	channel := uint8(p.Words[0] >> 16 & 0xF)
	note := uint8(p.Words[0] >> 8 & 0xFF)
	if group != 3 || channel != 5 || note != 60 {
		t.Fatalf("unexpected header fields: group=%d channel=%d note=%d", group, channel, note)
	}
	velocity16 := uint16(p.Words[1] >> 16)
	if velocity16 == 0 {
		t.Fatal("expected non-zero upscaled velocity for a non-zero MIDI1 velocity")
	}
}

func TestDecodeUnsupportedStatusIsRejected(t *testing.T) {
	e := portmidi.Event{Status: int64(0xF0)} // system exclusive, not handled here
	if _, ok := decode(e, 0); ok {
		t.Fatal("expected unsupported status to be rejected")
	}
}

func TestUpscale7to16PreservesFullScaleEndpoints(t *testing.T) {
	if v := upscale7to16(0); v != 0 {
		t.Fatalf("expected 0 to upscale to 0, got %d", v)
	}
	if v := upscale7to16(127); v != 0xFFFF {
		t.Fatalf("expected 127 to upscale to 0xFFFF, got %#x", v)
	}
}
