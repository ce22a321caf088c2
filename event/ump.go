package event

// MessageType is the top 4 bits of a UMP's first word, selecting both
// its word count and its semantic family (spec §6).
type MessageType uint8

const (
	TypeUtility           MessageType = 0x0
	TypeSystemRealTime    MessageType = 0x1
	TypeMIDI1ChannelVoice MessageType = 0x2
	TypeDataSysEx7        MessageType = 0x3
	TypeMIDI2ChannelVoice MessageType = 0x4
	TypeDataSysEx8OrMixed MessageType = 0x5
	TypeFlexData          MessageType = 0xD
	TypeUMPStream         MessageType = 0xF
)

// WordCountForType returns how many 32-bit words a UMP message of the
// given type occupies, per spec §6's binary layout: types 0-2 are one
// word, 3-4 are two words, 5/D/F are four words, anything else defaults
// to one word (a forward-compatibility fallback for message types not
// yet assigned meaning).
func WordCountForType(t MessageType) int {
	switch t {
	case TypeUtility, TypeSystemRealTime, TypeMIDI1ChannelVoice:
		return 1
	case TypeDataSysEx7, TypeMIDI2ChannelVoice:
		return 2
	case TypeDataSysEx8OrMixed, TypeFlexData, TypeUMPStream:
		return 4
	default:
		return 1
	}
}

func messageType(word0 uint32) MessageType {
	return MessageType(word0 >> 28 & 0xF)
}

// Decode splits a raw word stream into packets, following the
// type-determined word count for each message in turn. complete is
// false if the stream ends mid-packet (not enough remaining words for
// the type just read); per Open Question decision #2, this is never
// treated as an error — a truncated tail is expected steady state for a
// streaming producer and the caller should simply wait for more words.
func Decode(words []uint32) (packets []Packet, complete bool) {
	i := 0
	for i < len(words) {
		t := messageType(words[i])
		n := WordCountForType(t)
		if i+n > len(words) {
			return packets, false
		}
		var p Packet
		p.WordCount = n
		copy(p.Words[:n], words[i:i+n])
		packets = append(packets, p)
		i += n
	}
	return packets, true
}

// MIDI 2.0 channel-voice status nibbles (word0 bits 23:20), matching
// gitlab.com/gomidi/midi/v2's status-byte naming for the MIDI 1.0
// subset, extended with the MIDI 2.0-only statuses.
const (
	statusNoteOff           = 0x8
	statusNoteOn            = 0x9
	statusPolyPressure      = 0xA
	statusControlChange     = 0xB
	statusProgramChange     = 0xC
	statusChannelPressure   = 0xD
	statusPitchBend         = 0xE
	statusPerNoteManagement = 0xF
	statusRegisteredControl = 0x2 // RPN-equivalent (RC) — MIDI2 only
	statusAssignableControl = 0x3 // NRPN-equivalent (AC) — MIDI2 only
	statusPerNoteRegCtrl    = 0x0
	statusPerNoteAssignCtrl = 0x1
)

// ChannelVoiceEvent is a decoded MIDI 2.0 channel-voice message.
type ChannelVoiceEvent struct {
	Group        uint8
	Channel      uint8
	Note         uint8
	Index        uint8 // controller/RPN/NRPN index, depending on status
	Bank         uint8
	Data32       uint32 // 32-bit value payload (velocity/pressure/CC/pitch bend are normalized into this)
	Attribute    uint16
	ProgramBank  uint16
	BankValid    bool
}

// Dispatcher decodes UMP packets pulled from a Queue and invokes typed
// callbacks for MIDI 2.0 channel-voice messages. Any callback left nil
// is simply skipped — a host only pays for the message types it cares
// about.
type Dispatcher struct {
	OnNoteOn            func(ts uint64, e ChannelVoiceEvent)
	OnNoteOff           func(ts uint64, e ChannelVoiceEvent)
	OnPolyPressure      func(ts uint64, e ChannelVoiceEvent)
	OnControlChange     func(ts uint64, e ChannelVoiceEvent)
	OnProgramChange     func(ts uint64, e ChannelVoiceEvent)
	OnChannelPressure   func(ts uint64, e ChannelVoiceEvent)
	OnPitchBend         func(ts uint64, e ChannelVoiceEvent)
	OnPerNoteManagement func(ts uint64, e ChannelVoiceEvent)
	OnRegisteredControl func(ts uint64, e ChannelVoiceEvent)
	OnAssignableControl func(ts uint64, e ChannelVoiceEvent)
	OnPerNoteRegControl func(ts uint64, e ChannelVoiceEvent)
	OnPerNoteAssignCtrl func(ts uint64, e ChannelVoiceEvent)
	OnProcessStart      func(ts uint64)
	OnProcessEnd        func(ts uint64)
}

// Process pulls every currently-queued packet from q and dispatches it.
// Called once per audio block from ProcessContext's event-in queue.
func (d *Dispatcher) Process(ts uint64, q *Queue) {
	if d.OnProcessStart != nil {
		d.OnProcessStart(ts)
	}
	for {
		p, ok := q.Pop()
		if !ok {
			break
		}
		d.dispatchOne(p)
	}
	if d.OnProcessEnd != nil {
		d.OnProcessEnd(ts)
	}
}

func (d *Dispatcher) dispatchOne(p Packet) {
	t := messageType(p.Words[0])
	if t != TypeMIDI2ChannelVoice {
		return
	}
	w0 := p.Words[0]
	w1 := p.Words[1]

	group := uint8(w0 >> 24 & 0x0F)
	status := uint8(w0 >> 20 & 0x0F)
	channel := uint8(w0 >> 16 & 0x0F)
	index := uint8(w0 >> 8 & 0xFF)
	attribute := uint16(w0 & 0xFF)

	e := ChannelVoiceEvent{
		Group:     group,
		Channel:   channel,
		Note:      index,
		Index:     index,
		Data32:    w1,
		Attribute: attribute,
	}

	switch status {
	case statusNoteOn:
		if d.OnNoteOn != nil {
			d.OnNoteOn(p.Timestamp, e)
		}
	case statusNoteOff:
		if d.OnNoteOff != nil {
			d.OnNoteOff(p.Timestamp, e)
		}
	case statusPolyPressure:
		if d.OnPolyPressure != nil {
			d.OnPolyPressure(p.Timestamp, e)
		}
	case statusControlChange:
		if d.OnControlChange != nil {
			d.OnControlChange(p.Timestamp, e)
		}
	case statusProgramChange:
		e.BankValid = w1&0x1 != 0
		e.ProgramBank = uint16(w1 >> 8 & 0xFFFF)
		if d.OnProgramChange != nil {
			d.OnProgramChange(p.Timestamp, e)
		}
	case statusChannelPressure:
		if d.OnChannelPressure != nil {
			d.OnChannelPressure(p.Timestamp, e)
		}
	case statusPitchBend:
		if d.OnPitchBend != nil {
			d.OnPitchBend(p.Timestamp, e)
		}
	case statusPerNoteManagement:
		if d.OnPerNoteManagement != nil {
			d.OnPerNoteManagement(p.Timestamp, e)
		}
	case statusRegisteredControl:
		if d.OnRegisteredControl != nil {
			d.OnRegisteredControl(p.Timestamp, e)
		}
	case statusAssignableControl:
		if d.OnAssignableControl != nil {
			d.OnAssignableControl(p.Timestamp, e)
		}
	case statusPerNoteRegCtrl:
		if d.OnPerNoteRegControl != nil {
			d.OnPerNoteRegControl(p.Timestamp, e)
		}
	case statusPerNoteAssignCtrl:
		if d.OnPerNoteAssignCtrl != nil {
			d.OnPerNoteAssignCtrl(p.Timestamp, e)
		}
	}
}
