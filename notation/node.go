package notation

import (
	"fmt"

	"github.com/dhamidi/jianpu/pitch"
)

// Position is a location in the score. Lines count from the title line.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is either a *Note or a *LineEnd.
type Node interface {
	Position() Position
	node()
}

// Note is a resolved degree.
type Note struct {
	Pitch pitch.Pitch
	// Base is the register of Pitch relative to the target key, fixed when
	// the note is parsed.
	Base int
	// Key, when set, is the key the note is spelled in instead of the
	// document target. Base is then relative to Key.
	Key pitch.Pitch
	// Text holds the characters between the previous token and this one.
	Text   string
	Symbol string
	Pos    Position
}

// LineEnd terminates a body line. Text holds trailing characters or a whole
// comment line.
type LineEnd struct {
	Text      string
	Pos       Position
	NoNewline bool
}

func (n *Note) Position() Position    { return n.Pos }
func (n *LineEnd) Position() Position { return n.Pos }

func (*Note) node()    {}
func (*LineEnd) node() {}

// Document is a parsed score, ready to be rendered in its target key.
type Document struct {
	Title string
	// Origin is the key in effect at the start of the body.
	Origin pitch.Pitch
	Target pitch.Pitch
	Nodes  []Node
}

// Notes returns the note nodes in reading order.
func (d *Document) Notes() []*Note {
	var notes []*Note
	for _, n := range d.Nodes {
		if note, ok := n.(*Note); ok {
			notes = append(notes, note)
		}
	}
	return notes
}

// Lines returns the number of body lines.
func (d *Document) Lines() int {
	count := 0
	for _, n := range d.Nodes {
		if _, ok := n.(*LineEnd); ok {
			count++
		}
	}
	return count
}

// KeySignature returns the "1=<key>" line for target.
func KeySignature(target pitch.Pitch) string {
	return keyPrefix + pitch.KeyName(target)
}
