// Package midibridge feeds live PortMidi input into an event.Queue as
// UMP MIDI 2.0 channel-voice packets, upscaling the incoming MIDI 1.0
// 7-bit values to UMP's wider fields.
//
// Grounded on github.com/rakyll/portmidi (one of the teacher's
// (shaban/macaudio) own direct dependencies) for device enumeration and
// input streaming; gitlab.com/gomidi/midi/v2 parses the raw MIDI 1.0
// bytes PortMidi hands back (its Message.GetX accessors replace hand
// bit-masking of the status byte), and on spec §4.8/§6 for the UMP MIDI2
// channel-voice word layout this package encodes the parsed fields into
// — gomidi/midi/v2 itself has no UMP/MIDI2 support, so that encoding
// stays this package's own domain logic.
package midibridge

import (
	"fmt"
	"time"

	"github.com/rakyll/portmidi"
	"gitlab.com/gomidi/midi/v2"

	"github.com/shaban/pluginhost/event"
)

// MIDI 1.0 status nibbles, used only for UMP message-type tagging once
// gomidi/midi/v2 has already told us which kind of message this is.
const (
	status1NoteOff       = 0x8
	status1NoteOn        = 0x9
	status1PolyPressure  = 0xA
	status1ControlChange = 0xB
	status1ProgramChange = 0xC
	status1ChannelPress  = 0xD
	status1PitchBend     = 0xE
)

// Bridge polls one PortMidi input device and pushes decoded events into
// a target event.Queue until Close is called.
type Bridge struct {
	stream *portmidi.Stream
	stop   chan struct{}
	group  uint8
}

// Open initializes PortMidi (idempotent at the process level) and opens
// deviceID for input, buffering up to bufferSize raw events internally.
// group tags every UMP packet produced with the given UMP group number.
func Open(deviceID portmidi.DeviceID, bufferSize int64, group uint8) (*Bridge, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, fmt.Errorf("midibridge: initializing portmidi: %w", err)
	}
	stream, err := portmidi.NewInputStream(deviceID, bufferSize)
	if err != nil {
		return nil, fmt.Errorf("midibridge: opening device %d: %w", deviceID, err)
	}
	return &Bridge{stream: stream, stop: make(chan struct{}), group: group}, nil
}

// Run polls the device at the given interval, pushing decoded packets
// into dst, until Close is called. Intended to run in its own goroutine.
func (b *Bridge) Run(dst *event.Queue, pollInterval time.Duration) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			events, err := b.stream.Read(64)
			if err != nil {
				continue
			}
			for _, e := range events {
				if p, ok := decode(e, b.group); ok {
					dst.ScheduleEvents(p)
				}
			}
		}
	}
}

// Close stops polling and releases the underlying PortMidi stream.
func (b *Bridge) Close() error {
	close(b.stop)
	return b.stream.Close()
}

// decode parses one raw PortMidi event via gomidi/midi/v2's Message
// accessors, then re-encodes the parsed fields as a MIDI 2.0 UMP
// channel-voice packet (a layout gomidi/midi/v2 itself does not model).
func decode(e portmidi.Event, group uint8) (event.Packet, bool) {
	msg := midi.Message([]byte{byte(e.Status), byte(e.Data1), byte(e.Data2)})

	var ch, key, vel, pressure, controller, value, program uint8
	var relBend int16
	var absBend uint16

	var w0, w1 uint32
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		w0 = ump2Header(status1NoteOn, group, ch, key, 0)
		w1 = uint32(upscale7to16(vel)) << 16
	case msg.GetNoteOff(&ch, &key, &vel):
		w0 = ump2Header(status1NoteOff, group, ch, key, 0)
		w1 = uint32(upscale7to16(vel)) << 16
	case msg.GetPolyAfterTouch(&ch, &key, &pressure):
		w0 = ump2Header(status1PolyPressure, group, ch, key, 0)
		w1 = upscale7to32(pressure)
	case msg.GetControlChange(&ch, &controller, &value):
		w0 = ump2Header(status1ControlChange, group, ch, controller, 0)
		w1 = upscale7to32(value)
	case msg.GetProgramChange(&ch, &program):
		w0 = ump2Header(status1ProgramChange, group, ch, 0, 0)
		w1 = uint32(program) << 24
	case msg.GetAfterTouch(&ch, &pressure):
		w0 = ump2Header(status1ChannelPress, group, ch, 0, 0)
		w1 = upscale7to32(pressure)
	case msg.GetPitchBend(&ch, &relBend, &absBend):
		w0 = ump2Header(status1PitchBend, group, ch, 0, 0)
		w1 = uint32(absBend) << 16
	default:
		return event.Packet{}, false
	}

	return event.Packet{
		Timestamp: uint64(e.Timestamp),
		WordCount: 2,
		Words:     [4]uint32{w0, w1},
	}, true
}

func ump2Header(status, group, channel, index, attribute uint8) uint32 {
	return uint32(0x4)<<28 | uint32(group)<<24 | uint32(status)<<20 | uint32(channel)<<16 | uint32(index)<<8 | uint32(attribute)
}

func upscale7to16(v uint8) uint16 {
	return uint16(v)<<9 | uint16(v)<<2 | uint16(v)>>5
}

func upscale7to32(v uint8) uint32 {
	u16 := upscale7to16(v)
	return uint32(u16)<<16 | uint32(u16)
}
