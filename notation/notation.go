package notation

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jianpu/pitch"
)

var log = commonlog.GetLogger("jianpu.notation")

// ReferenceKey is a target for callers that only need pitches or errors from
// Translate. Parsing does not depend on the target key.
const ReferenceKey = "C"

type Option func(*parser)

// WithFile sets the file name reported in error positions.
func WithFile(name string) Option {
	return func(p *parser) {
		p.file = name
	}
}

// WithDefaultOrigin sets the key used when the score reaches its first note
// without any key signature.
func WithDefaultOrigin(key string) Option {
	return func(p *parser) {
		p.defaultKey = key
	}
}

// WithPreserveSignature keeps every key signature of the body as a comment
// line in the output.
func WithPreserveSignature() Option {
	return func(p *parser) {
		p.preserve = true
	}
}

func newParser(opts []Option) (*parser, error) {
	p := &parser{line: 1}
	for _, opt := range opts {
		opt(p)
	}
	if p.defaultKey != "" {
		var err error
		if p.defaultOrigin, err = pitch.ParseTone(p.defaultKey); err != nil {
			return nil, fmt.Errorf("default key: %w", err)
		}
	}
	return p, nil
}

// Translate parses text and prepares it for rendering in the target key.
// A non-empty origin replaces the leading key signature of the score; later
// key signatures still change the key.
func Translate(origin, target string, text []byte, opts ...Option) (*Document, error) {
	p, err := newParser(opts)
	if err != nil {
		return nil, err
	}

	tp, err := pitch.ParseTone(target)
	if err != nil {
		return nil, fmt.Errorf("target key: %w", err)
	}
	p.target = tp

	if origin != "" {
		op, err := pitch.ParseTone(origin)
		if err != nil {
			return nil, fmt.Errorf("origin key: %w", err)
		}
		p.origin = op
		p.initial = op
		p.overridden = true
	}

	title, body, _ := strings.Cut(string(text), "\n")
	if err := p.parse(body); err != nil {
		return nil, err
	}

	doc := &Document{
		Title:  title,
		Origin: p.initial,
		Target: tp,
		Nodes:  p.nodes,
	}
	log.Debugf("parsed %d nodes on %d lines, %s -> %s", len(doc.Nodes), doc.Lines(), doc.Origin, doc.Target)
	return doc, nil
}

// Render writes doc spelled with table. A nil table means pitch.Default.
// The key signature is always written directly below the title; blank or
// comment lines that preceded the original signature follow it.
func Render(doc *Document, table *pitch.Table) ([]byte, error) {
	if table == nil {
		table = pitch.Default
	}
	if !doc.Target.IsSet() {
		return nil, pitch.ErrUnsetTarget
	}

	r := &renderer{target: doc.Target, table: table}
	r.out.WriteString(doc.Title)
	r.out.WriteByte('\n')
	r.out.WriteString(KeySignature(doc.Target))
	r.out.WriteByte('\n')
	if err := r.render(doc.Nodes); err != nil {
		return nil, err
	}
	return []byte(r.out.String()), nil
}

// Normalize rebalances the octave brackets of text without changing its key.
// Every note is spelled in the key of the signature it follows, and every
// key signature line stays where it was written. With no signature before
// the first note the default origin is used, and none is added.
func Normalize(text []byte, opts ...Option) ([]byte, error) {
	p, err := newParser(opts)
	if err != nil {
		return nil, err
	}
	p.inPlace = true

	title, body, ok := strings.Cut(string(text), "\n")
	if err := p.parse(body); err != nil {
		return nil, err
	}

	r := &renderer{table: pitch.Default}
	r.out.WriteString(title)
	if ok {
		r.out.WriteByte('\n')
	}
	if err := r.render(p.nodes); err != nil {
		return nil, err
	}
	log.Debugf("normalized %d nodes", len(p.nodes))
	return []byte(r.out.String()), nil
}
