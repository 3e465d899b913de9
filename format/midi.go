package format

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gomidi/midi"
	"github.com/gomidi/midi/midimessage/channel"
	"github.com/gomidi/midi/midiwriter"

	"github.com/dhamidi/jianpu/notation"
	"github.com/dhamidi/jianpu/pitch"
)

// MiddleC is the MIDI key of the home-octave C.
const MiddleC = 60

// MIDIKey maps an absolute pitch to a MIDI key number.
func MIDIKey(p pitch.Pitch) uint8 {
	return uint8(int(p) - 1 - pitch.HomeOctave*pitch.Octave + MiddleC)
}

// MIDIEncoder writes every note of a document as a NoteOn/NoteOff pair on
// a single channel, without running status.
type MIDIEncoder struct {
	w        io.Writer
	ch       channel.Channel
	velocity uint8
	doc      *notation.Document
}

func NewMIDIEncoder(w io.Writer) *MIDIEncoder {
	return &MIDIEncoder{w: w, ch: channel.Channel0, velocity: 90}
}

// SetChannel selects the MIDI channel, 0-15.
func (e *MIDIEncoder) SetChannel(ch uint8) error {
	if ch > 15 {
		return fmt.Errorf("midi channel %d out of range", ch)
	}
	e.ch = channel.Channel(ch)
	return nil
}

// SetVelocity sets the NoteOn velocity, 1-127.
func (e *MIDIEncoder) SetVelocity(v uint8) error {
	if v == 0 || v > 127 {
		return fmt.Errorf("midi velocity %d out of range", v)
	}
	e.velocity = v
	return nil
}

func (e *MIDIEncoder) Encode(doc *notation.Document) error {
	e.doc = doc
	data, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}

func (e *MIDIEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	wr := midiwriter.New(&buf, midiwriter.NoRunningStatus())
	for _, n := range e.doc.Notes() {
		key := MIDIKey(n.Pitch)
		if err := e.write(wr, e.ch.NoteOn(key, e.velocity)); err != nil {
			return nil, err
		}
		if err := e.write(wr, e.ch.NoteOffVelocity(key, 0)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (e *MIDIEncoder) write(wr midi.Writer, msg midi.Message) error {
	if err := wr.Write(msg); err != nil {
		return fmt.Errorf("can't write %s: %w", msg, err)
	}
	return nil
}
