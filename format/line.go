package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jianpu/notation"
	"github.com/dhamidi/jianpu/pitch"
)

// LineEncoder writes one tab-separated record per node:
//
//	note	<line:col>	<symbol>	<degree>	<pitch>	<key>	<base>
//	end	<line:col>
//
// base is the register the degree is written in.
type LineEncoder struct {
	w     io.Writer
	table *pitch.Table
	doc   *notation.Document
}

func NewLineEncoder(w io.Writer, table *pitch.Table) *LineEncoder {
	if table == nil {
		table = pitch.Default
	}
	return &LineEncoder{w: w, table: table}
}

func (e *LineEncoder) Encode(doc *notation.Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	d := e.doc

	fmt.Fprintf(&sb, "document\t%s\t%s\t%s\n", d.Title, e.keyStr(d.Origin), e.keyStr(d.Target))

	for _, node := range d.Nodes {
		switch n := node.(type) {
		case *notation.Note:
			degree, err := pitch.PitchToDegree(n.Pitch, d.Target, 0, e.table)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&sb, "note\t%d:%d\t%s\t%s\t%d\t%s\t%s\n",
				n.Pos.Line, n.Pos.Column,
				n.Symbol,
				degree,
				n.Pitch,
				pitch.KeyName(n.Pitch),
				e.baseStr(n.Base+e.table.Wrap(int(n.Pitch-d.Target))),
			)
		case *notation.LineEnd:
			fmt.Fprintf(&sb, "end\t%d:%d\n", n.Pos.Line, n.Pos.Column)
		}
	}

	return []byte(sb.String()), nil
}

func (e *LineEncoder) keyStr(p pitch.Pitch) string {
	if !p.IsSet() {
		return "-"
	}
	return pitch.KeyName(p)
}

func (e *LineEncoder) baseStr(base int) string {
	switch {
	case base < 0:
		return strings.Repeat("(", -base)
	case base > 0:
		return strings.Repeat("[", base)
	default:
		return "."
	}
}
