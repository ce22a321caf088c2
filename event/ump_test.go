package event

import "testing"

func midi2Word(status, group, channel, index uint8, w1 uint32) (uint32, uint32) {
	w0 := uint32(TypeMIDI2ChannelVoice)<<28 | uint32(group)<<24 | uint32(status)<<20 | uint32(channel)<<16 | uint32(index)<<8
	return w0, w1
}

func TestWordCountForType(t *testing.T) {
	cases := map[MessageType]int{
		TypeUtility:           1,
		TypeSystemRealTime:    1,
		TypeMIDI1ChannelVoice: 1,
		TypeDataSysEx7:        2,
		TypeMIDI2ChannelVoice: 2,
		TypeDataSysEx8OrMixed: 4,
		TypeFlexData:          4,
		TypeUMPStream:         4,
		MessageType(0x6):      1, // unassigned type defaults to one word
	}
	for typ, want := range cases {
		if got := WordCountForType(typ); got != want {
			t.Errorf("WordCountForType(%#x) = %d, want %d", typ, got, want)
		}
	}
}

func TestDecodeCompleteStream(t *testing.T) {
	w0, w1 := midi2Word(statusNoteOn, 0, 1, 60, 0x80000000)
	words := []uint32{w0, w1}
	packets, complete := Decode(words)
	if !complete {
		t.Fatal("expected complete decode")
	}
	if len(packets) != 1 || packets[0].WordCount != 2 {
		t.Fatalf("unexpected packets: %+v", packets)
	}
}

func TestDecodeTruncatedStreamIsNotAnError(t *testing.T) {
	w0, _ := midi2Word(statusNoteOn, 0, 1, 60, 0)
	// Only the first of two words is present.
	packets, complete := Decode([]uint32{w0})
	if complete {
		t.Fatal("expected incomplete decode for a truncated 2-word message")
	}
	if len(packets) != 0 {
		t.Fatalf("expected no decoded packets from a truncated stream, got %d", len(packets))
	}
}

func TestDispatcherRoutesNoteOnAndNoteOff(t *testing.T) {
	var gotOn, gotOff ChannelVoiceEvent
	d := &Dispatcher{
		OnNoteOn:  func(ts uint64, e ChannelVoiceEvent) { gotOn = e },
		OnNoteOff: func(ts uint64, e ChannelVoiceEvent) { gotOff = e },
	}
	q := NewQueue(4)
	w0on, w1on := midi2Word(statusNoteOn, 2, 9, 60, 0xFFFF0000)
	w0off, w1off := midi2Word(statusNoteOff, 2, 9, 60, 0)
	q.ScheduleEvents(Packet{Timestamp: 10, WordCount: 2, Words: [4]uint32{w0on, w1on}})
	q.ScheduleEvents(Packet{Timestamp: 20, WordCount: 2, Words: [4]uint32{w0off, w1off}})

	d.Process(0, q)

	if gotOn.Channel != 9 || gotOn.Note != 60 || gotOn.Group != 2 {
		t.Fatalf("unexpected note-on event: %+v", gotOn)
	}
	if gotOff.Channel != 9 || gotOff.Note != 60 {
		t.Fatalf("unexpected note-off event: %+v", gotOff)
	}
}

func TestDispatcherIgnoresNonMIDI2Packets(t *testing.T) {
	called := false
	d := &Dispatcher{OnNoteOn: func(uint64, ChannelVoiceEvent) { called = true }}
	q := NewQueue(4)
	w0 := uint32(TypeUtility) << 28
	q.ScheduleEvents(Packet{WordCount: 1, Words: [4]uint32{w0}})
	d.Process(0, q)
	if called {
		t.Fatal("expected utility-type packet to be ignored by channel-voice callbacks")
	}
}
