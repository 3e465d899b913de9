// Package format encodes translated jianpu documents.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/jianpu/notation"
	"github.com/dhamidi/jianpu/pitch"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(doc *notation.Document) error
}

// NewEncoder returns the encoder called name: "jianpu", "json", "lines" or
// "midi".
func NewEncoder(name string, w io.Writer, table *pitch.Table) (Encoder, error) {
	switch name {
	case "jianpu", "text":
		return NewJianpuEncoder(w, table), nil
	case "json":
		return NewJSONEncoder(w, table), nil
	case "lines":
		return NewLineEncoder(w, table), nil
	case "midi":
		return NewMIDIEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}
