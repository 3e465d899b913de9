// Package notation translates jianpu scores between written keys.
//
// A score is a title line followed by a body of key signatures ("1=C"),
// comment lines ("// ...") and notation lines made of the degrees 1-7, the
// accidentals "#" and "b", and octave brackets: "(1)" is one octave lower
// and "[1]" one octave higher than "1". Everything else is kept verbatim.
//
// Translation keeps the sounding pitch and changes only the spelling:
//
//	┌──────────┐     ┌──────────┐     ┌──────────┐
//	│  Input   │────▶│  Parser  │────▶│ Renderer │
//	│  (text)  │     │ (Nodes)  │     │  (text)  │
//	└──────────┘     └──────────┘     └──────────┘
//
// The parser resolves each degree to an absolute pitch and records the
// characters around it. The renderer spells each pitch relative to the target
// key and synthesizes the smallest bracket nesting that expresses its octave.
// Brackets are balanced per output line even when the input spans a group
// over several lines.
//
// # Usage
//
//	doc, err := notation.Translate("", "D", text)
//	if err != nil {
//	    return err
//	}
//	out, err := notation.Render(doc, pitch.Flat)
//
// A Document is not modified by Render, so the same Document can be rendered
// with several symbol tables.
package notation
