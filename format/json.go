package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/jianpu/notation"
	"github.com/dhamidi/jianpu/pitch"
)

type JSONEncoder struct {
	w     io.Writer
	table *pitch.Table
	doc   *notation.Document
}

// NewJSONEncoder spells the degree of every note with table. A nil table
// means pitch.Default.
func NewJSONEncoder(w io.Writer, table *pitch.Table) *JSONEncoder {
	if table == nil {
		table = pitch.Default
	}
	return &JSONEncoder{w: w, table: table}
}

func (e *JSONEncoder) Encode(doc *notation.Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data, err := e.buildDocumentData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

type jsonDocument struct {
	Title  string     `json:"title"`
	Origin *jsonKey   `json:"origin,omitempty"`
	Target jsonKey    `json:"target"`
	Nodes  []jsonNode `json:"nodes"`
}

type jsonKey struct {
	Name  string `json:"name"`
	Pitch int    `json:"pitch"`
}

type jsonNode struct {
	Kind      string `json:"kind"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Text      string `json:"text,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
	Pitch     int    `json:"pitch,omitempty"`
	Base      int    `json:"base,omitempty"`
	Degree    string `json:"degree,omitempty"`
	NoNewline bool   `json:"noNewline,omitempty"`
}

func newJSONKey(p pitch.Pitch) jsonKey {
	return jsonKey{Name: pitch.KeyName(p), Pitch: int(p)}
}

func (e *JSONEncoder) buildDocumentData() (jsonDocument, error) {
	d := e.doc
	data := jsonDocument{
		Title:  d.Title,
		Target: newJSONKey(d.Target),
		Nodes:  make([]jsonNode, 0, len(d.Nodes)),
	}
	if d.Origin.IsSet() {
		origin := newJSONKey(d.Origin)
		data.Origin = &origin
	}

	for _, node := range d.Nodes {
		pos := node.Position()
		switch n := node.(type) {
		case *notation.Note:
			degree, err := pitch.PitchToDegree(n.Pitch, d.Target, 0, e.table)
			if err != nil {
				return data, err
			}
			data.Nodes = append(data.Nodes, jsonNode{
				Kind:   "note",
				Line:   pos.Line,
				Column: pos.Column,
				Text:   n.Text,
				Symbol: n.Symbol,
				Pitch:  int(n.Pitch),
				Base:   n.Base + e.table.Wrap(int(n.Pitch-d.Target)),
				Degree: degree,
			})
		case *notation.LineEnd:
			data.Nodes = append(data.Nodes, jsonNode{
				Kind:      "lineEnd",
				Line:      pos.Line,
				Column:    pos.Column,
				Text:      n.Text,
				NoNewline: n.NoNewline,
			})
		}
	}
	return data, nil
}
