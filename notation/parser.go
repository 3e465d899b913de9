package notation

import (
	"fmt"
	"strings"

	"github.com/dhamidi/jianpu/pitch"
)

const (
	keyPrefix     = "1="
	commentPrefix = "//"
)

// parser holds the state of one Translate call.
type parser struct {
	file     string
	preserve bool
	// inPlace spells notes in the key they were read in and keeps key
	// signature lines as written.
	inPlace bool

	target        pitch.Pitch
	origin        pitch.Pitch
	defaultKey    string
	defaultOrigin pitch.Pitch
	initial       pitch.Pitch

	// overridden is set while an explicit origin still replaces the
	// leading key signature.
	overridden bool

	depth    int
	groupPos Position

	line  int
	buf   strings.Builder
	nodes []Node
}

func isDegree(c byte) bool {
	return c >= '1' && c <= '7'
}

func (p *parser) pos(col int) Position {
	return Position{Filename: p.file, Line: p.line, Column: col}
}

func (p *parser) parse(body string) error {
	for len(body) > 0 {
		var (
			line    string
			newline bool
		)
		line, body, newline = strings.Cut(body, "\n")
		p.line++
		if err := p.parseLine(line, newline); err != nil {
			return err
		}
	}
	if p.depth != 0 {
		return &Error{Pos: p.groupPos, Err: ErrUnterminatedDecoration}
	}
	return nil
}

func (p *parser) parseLine(line string, newline bool) error {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, keyPrefix):
		return p.keySignature(line, trimmed, newline)
	case strings.HasPrefix(trimmed, commentPrefix):
		p.nodes = append(p.nodes, &LineEnd{Text: line, Pos: p.pos(1), NoNewline: !newline})
		return nil
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case isDegree(c):
			if err := p.note(line[i:i+1], i+1); err != nil {
				return err
			}
		case (c == '#' || c == 'b') && i+1 < len(line) && isDegree(line[i+1]):
			if err := p.note(line[i:i+2], i+1); err != nil {
				return err
			}
			i++
		case c == '(' || c == ']':
			p.shift(-1, i+1)
		case c == ')' || c == '[':
			p.shift(1, i+1)
		default:
			p.buf.WriteByte(c)
		}
	}

	p.nodes = append(p.nodes, &LineEnd{Text: p.buf.String(), Pos: p.pos(len(line) + 1), NoNewline: !newline})
	p.buf.Reset()
	return nil
}

func (p *parser) shift(delta, col int) {
	if p.depth == 0 {
		p.groupPos = p.pos(col)
	}
	p.depth += delta
}

func (p *parser) keySignature(line, trimmed string, newline bool) error {
	key := strings.TrimSpace(strings.TrimPrefix(trimmed, keyPrefix))
	col := strings.Index(line, keyPrefix) + 1

	if p.overridden {
		log.Debugf("line %d: key signature %q replaced by %s", p.line, key, p.origin)
		p.overridden = false
	} else {
		origin, err := pitch.ParseTone(key)
		if err != nil {
			return &Error{Pos: p.pos(col), Token: trimmed, Err: err}
		}
		log.Debugf("line %d: key signature %s", p.line, origin)
		p.origin = origin
		if !p.initial.IsSet() {
			p.initial = origin
		}
	}

	switch {
	case p.inPlace:
		p.nodes = append(p.nodes, &LineEnd{Text: line, Pos: p.pos(col), NoNewline: !newline})
	case p.preserve:
		p.nodes = append(p.nodes, &LineEnd{Text: commentPrefix + " " + trimmed, Pos: p.pos(col), NoNewline: !newline})
	}
	return nil
}

func (p *parser) note(symbol string, col int) error {
	pos := p.pos(col)
	if !p.origin.IsSet() {
		if !p.defaultOrigin.IsSet() {
			return &Error{Pos: pos, Token: symbol, Err: ErrMissingKeySignature}
		}
		log.Debugf("line %d: no key signature, using default %s", p.line, p.defaultOrigin)
		p.origin = p.defaultOrigin
		p.initial = p.defaultOrigin
	}
	// Any note ends the leading header; a later signature is a modulation.
	p.overridden = false

	degree, depth := symbol, p.depth
	switch symbol {
	case "#3":
		degree = "4"
	case "#7":
		degree = "1"
		depth++
	}

	pt, err := pitch.DegreeToPitch(p.origin, depth, degree, pitch.Default)
	if err != nil {
		return &Error{Pos: pos, Token: symbol, Err: err}
	}
	if !pt.InRange() {
		return &Error{Pos: pos, Token: symbol, Err: fmt.Errorf("%w: %d", pitch.ErrOutOfRange, int(pt))}
	}

	n := &Note{
		Pitch:  pt,
		Base:   pitch.Register(pt, p.target),
		Text:   p.buf.String(),
		Symbol: symbol,
		Pos:    pos,
	}
	if p.inPlace {
		n.Key = p.origin
		n.Base = pitch.Register(pt, p.origin)
	}
	p.nodes = append(p.nodes, n)
	p.buf.Reset()
	return nil
}
