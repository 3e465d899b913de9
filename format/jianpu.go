package format

import (
	"io"

	"github.com/dhamidi/jianpu/notation"
	"github.com/dhamidi/jianpu/pitch"
)

// JianpuEncoder writes the document as jianpu text in its target key.
type JianpuEncoder struct {
	w     io.Writer
	table *pitch.Table
	doc   *notation.Document
}

func NewJianpuEncoder(w io.Writer, table *pitch.Table) *JianpuEncoder {
	return &JianpuEncoder{w: w, table: table}
}

func (e *JianpuEncoder) Encode(doc *notation.Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JianpuEncoder) MarshalText() ([]byte, error) {
	return notation.Render(e.doc, e.table)
}
