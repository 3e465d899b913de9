package notation

import (
	"fmt"
	"strings"

	"github.com/dhamidi/jianpu/pitch"
)

// bracket tags an open octave group on the render stack.
type bracket byte

const (
	lower bracket = '('
	upper bracket = '['
)

func (b bracket) closer() (byte, error) {
	switch b {
	case lower:
		return ')', nil
	case upper:
		return ']', nil
	}
	return 0, fmt.Errorf("%w: stack contains %q", ErrCorruptBracketState, byte(b))
}

// renderer writes the body. depth always equals the signed height of stack
// since the start of the current output line.
type renderer struct {
	target pitch.Pitch
	table  *pitch.Table
	depth  int
	stack  []bracket
	out    strings.Builder
}

func (r *renderer) top() (bracket, bool) {
	if len(r.stack) == 0 {
		return 0, false
	}
	return r.stack[len(r.stack)-1], true
}

func (r *renderer) pop() bracket {
	b := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	return b
}

func (r *renderer) note(n *Note) error {
	key := r.target
	if n.Key.IsSet() {
		key = n.Key
	}
	symbol, err := pitch.PitchToDegree(n.Pitch, key, 0, r.table)
	if err != nil {
		return &Error{Pos: n.Pos, Token: n.Symbol, Err: err}
	}
	// A wrapped spelling is written one register away from the note.
	base := n.Base + r.table.Wrap(int(n.Pitch-key))

	var prefix, suffix strings.Builder
	for base < r.depth {
		r.depth--
		top, ok := r.top()
		switch {
		case !ok || top == lower:
			r.stack = append(r.stack, lower)
			suffix.WriteByte('(')
		case top == upper:
			r.pop()
			prefix.WriteByte(']')
		default:
			return fmt.Errorf("%w: stack contains %q", ErrCorruptBracketState, byte(top))
		}
	}
	for base > r.depth {
		r.depth++
		top, ok := r.top()
		switch {
		case !ok || top == upper:
			r.stack = append(r.stack, upper)
			suffix.WriteByte('[')
		case top == lower:
			r.pop()
			prefix.WriteByte(')')
		default:
			return fmt.Errorf("%w: stack contains %q", ErrCorruptBracketState, byte(top))
		}
	}

	r.out.WriteString(prefix.String())
	r.out.WriteString(n.Text)
	r.out.WriteString(suffix.String())
	r.out.WriteString(symbol)
	return nil
}

// closeAll closes every open group of the current line.
func (r *renderer) closeAll() error {
	for len(r.stack) > 0 {
		b := r.pop()
		c, err := b.closer()
		if err != nil {
			return err
		}
		if b == lower {
			r.depth++
		} else {
			r.depth--
		}
		r.out.WriteByte(c)
	}
	if r.depth != 0 {
		return fmt.Errorf("%w: depth %d with empty stack", ErrCorruptBracketState, r.depth)
	}
	return nil
}

func (r *renderer) lineEnd(n *LineEnd) error {
	if err := r.closeAll(); err != nil {
		return err
	}
	r.out.WriteString(n.Text)
	if !n.NoNewline {
		r.out.WriteByte('\n')
	}
	return nil
}

func (r *renderer) render(nodes []Node) error {
	for _, node := range nodes {
		var err error
		switch n := node.(type) {
		case *Note:
			err = r.note(n)
		case *LineEnd:
			err = r.lineEnd(n)
		default:
			err = fmt.Errorf("%w: unknown node %T", ErrCorruptBracketState, node)
		}
		if err != nil {
			return err
		}
	}
	return r.closeAll()
}
