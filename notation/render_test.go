package notation

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/jianpu/pitch"
)

func mustRender(t *testing.T, doc *Document, table *pitch.Table) string {
	t.Helper()
	out, err := Render(doc, table)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	return string(out)
}

func TestRenderScenarios(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		target string
		table  *pitch.Table
		opts   []Option
		input  string
		want   string
	}{
		{
			name:   "identity",
			target: "C",
			input:  "Song\n1=C\n\n1 2 3 | 5 - 6 5 |\n(5 6) 1 [1]\n",
			want:   "Song\n1=C\n\n1 2 3 | 5 - 6 5 |\n(5 6) 1 [1]\n",
		},
		{
			name:   "up a whole tone",
			target: "D",
			input:  "T\n1=C\n1 2 3\n",
			want:   "T\n1=D\n(#6) 1 2\n",
		},
		{
			name:   "up a whole tone with flats",
			target: "D",
			table:  pitch.Flat,
			input:  "T\n1=C\n1 2 3\n",
			want:   "T\n1=D\n(b7) 1 2\n",
		},
		{
			name:   "sharps injected",
			target: "C",
			input:  "T\n1=C#\n1 2 3\n",
			want:   "T\n1=C\n#1 #2 4\n",
		},
		{
			name:   "sharp table raises the third",
			target: "C",
			table:  pitch.Sharp,
			input:  "T\n1=C#\n1 2 3\n",
			want:   "T\n1=C\n#1 #2 #3\n",
		},
		{
			name:   "sharp table writes the tonic from below",
			target: "C",
			table:  pitch.Sharp,
			input:  "T\n1=C\n1 2 [1]\n",
			want:   "T\n1=C\n(#7) 2 #7\n",
		},
		{
			name:   "flat table writes the seventh from above",
			target: "C",
			table:  pitch.Flat,
			input:  "T\n1=C\n7 1\n",
			want:   "T\n1=C\n[b1] 1\n",
		},
		{
			name:   "signature moves below the title",
			target: "C",
			input:  "T\n\n1=C\n1\n",
			want:   "T\n1=C\n\n1\n",
		},
		{
			name:   "brackets kept when minimal",
			target: "C",
			input:  "T\n1=C\n(1 2) 3\n",
			want:   "T\n1=C\n(1 2) 3\n",
		},
		{
			name:   "double brackets",
			target: "C",
			input:  "T\n1=C\n((1)) [[7]]\n",
			want:   "T\n1=C\n((1)) [[7]]\n",
		},
		{
			name:   "higher group closed before lower group",
			target: "C",
			input:  "T\n1=C\n[1] (1)\n",
			want:   "T\n1=C\n[1] (1)\n",
		},
		{
			name:   "down to G",
			target: "G",
			input:  "T\n1=C\n1 5 [1]\n",
			want:   "T\n1=G\n(4) 1 4\n",
		},
		{
			name:   "octave decorated target",
			target: "(C)",
			input:  "T\n1=C\n1 2\n",
			want:   "T\n1=C\n[1 2]\n",
		},
		{
			name:   "redundant brackets merged",
			target: "C",
			input:  "T\n1=C\n(1)(2) 3\n",
			want:   "T\n1=C\n(12) 3\n",
		},
		{
			name:   "group spanning lines is closed per line",
			target: "C",
			input:  "T\n1=C\n(1 2\n3 4)\n",
			want:   "T\n1=C\n(1 2)\n(3 4)\n",
		},
		{
			name:   "sharp seven",
			target: "C",
			input:  "T\n1=C\n#7 1\n",
			want:   "T\n1=C\n[1] 1\n",
		},
		{
			name:   "sharp three",
			target: "C",
			input:  "T\n1=C\n#3 4\n",
			want:   "T\n1=C\n4 4\n",
		},
		{
			name:   "flat one",
			target: "C",
			input:  "T\n1=C\nb1 1\n",
			want:   "T\n1=C\n(7) 1\n",
		},
		{
			name:   "modulation",
			target: "C",
			input:  "T\n1=C\n1\n1=D\n1\n",
			want:   "T\n1=C\n1\n2\n",
		},
		{
			name:   "preserved signatures",
			target: "C",
			opts:   []Option{WithPreserveSignature()},
			input:  "T\n1=C\n\n1\n1=D\n1\n",
			want:   "T\n1=C\n// 1=C\n\n1\n// 1=D\n2\n",
		},
		{
			name:   "origin override",
			origin: "D",
			target: "C",
			input:  "T\n1=C\n1 2\n",
			want:   "T\n1=C\n2 3\n",
		},
		{
			name:   "comments and trailing text",
			target: "C",
			input:  "T\n1=C\n// verse 1 (\n1 2 |  \n",
			want:   "T\n1=C\n// verse 1 (\n1 2 |  \n",
		},
		{
			name:   "missing final newline",
			target: "C",
			input:  "T\n1=C\n1 (2)",
			want:   "T\n1=C\n1 (2)",
		},
		{
			name:   "closing bracket before trailing text",
			target: "C",
			input:  "T\n1=C\n(1 2) |\n",
			want:   "T\n1=C\n(1 2) |\n",
		},
		{
			name:   "carriage returns pass through",
			target: "C",
			input:  "T\r\n1=C\r\n1 2\r\n",
			want:   "T\r\n1=C\n1 2\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustTranslate(t, tt.origin, tt.target, tt.input, tt.opts...)
			got := mustRender(t, doc, tt.table)
			if got != tt.want {
				t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestRenderRoundTrip(t *testing.T) {
	tests := []struct {
		key   string
		input string
	}{
		{"C", "Song\n1=C\n\n1 2 3 4 | 5 - - - |\n"},
		{"G", "Song\n1=G\n\n(5 6) 1 2 | 3 [1] 7 6 |\n// chorus\n[1 2 3] 2 | 1 - (7) - |\n"},
		{"A#", "Song\n1=A#\n\n#1 #2 #4 #5 #6\n"},
		{"(E)", "Song\n1=(E)\n\n((6) 6) 6 [6 [6]]\n"},
		{"F", "Song\n1=F\n\n1-2-3 / 4,5,6 ~ 7\n  \n"},
		{"D", "Song\n1=D\n\n1 2 3"},
	}

	for _, tt := range tests {
		doc := mustTranslate(t, "", tt.key, tt.input)
		got := mustRender(t, doc, pitch.Default)

		// Only the regenerated signature line may differ.
		_, body, _ := strings.Cut(tt.input, "1="+tt.key+"\n")
		want := "Song\n" + KeySignature(doc.Target) + "\n" + body
		if got != want {
			t.Errorf("round trip mismatch\ngot:\n%s\nwant:\n%s", got, want)
		}
	}
}

func TestRenderOctaveSymmetry(t *testing.T) {
	const target pitch.Pitch = 25
	for base := -2; base <= 2; base++ {
		for offset := 0; offset < pitch.Octave; offset++ {
			note := &Note{Pitch: target + pitch.Pitch(pitch.Octave*base+offset), Base: base}
			doc := &Document{
				Title:  "T",
				Target: target,
				Nodes:  []Node{note, &LineEnd{}},
			}
			got := mustRender(t, doc, pitch.Default)

			open, closer := "", ""
			switch {
			case base < 0:
				open, closer = strings.Repeat("(", -base), strings.Repeat(")", -base)
			case base > 0:
				open, closer = strings.Repeat("[", base), strings.Repeat("]", base)
			}
			want := "T\n1=C\n" + open + pitch.Default.Symbol(offset) + closer + "\n"
			if got != want {
				t.Errorf("base %d offset %d: got %q, want %q", base, offset, got, want)
			}
		}
	}
}

func TestRenderPerLineBalance(t *testing.T) {
	inputs := []string{
		"T\n1=C\n(1 2\n3 [4\n5]) 6\n",
		"T\n1=G\n[[1 (2)]] ((3 [4]))\n#7 (#7) [#7]\n",
		"T\n1=E\n1 2 3\n// ((\n((1))\n",
	}
	targets := []string{"C", "D", "(G)", "[F#]", "A#"}

	for _, input := range inputs {
		for _, target := range targets {
			doc := mustTranslate(t, "", target, input)
			for _, table := range []*pitch.Table{pitch.Default, pitch.Flat, pitch.Sharp} {
				out := mustRender(t, doc, table)
				for i, line := range strings.Split(out, "\n") {
					if strings.HasPrefix(line, "//") {
						continue
					}
					if strings.Count(line, "(") != strings.Count(line, ")") {
						t.Errorf("target %s line %d unbalanced (): %q", target, i+1, line)
					}
					if strings.Count(line, "[") != strings.Count(line, "]") {
						t.Errorf("target %s line %d unbalanced []: %q", target, i+1, line)
					}
				}
			}
		}
	}
}

func TestRenderKeepsPitch(t *testing.T) {
	input := "T\n1=E\n(5 6) 1 #4 b7 | [1 2] #7\n"
	for _, table := range []*pitch.Table{pitch.Default, pitch.Flat, pitch.Sharp} {
		for _, target := range []string{"C", "D", "(G)", "A#"} {
			doc := mustTranslate(t, "", target, input)
			out := mustRender(t, doc, table)

			back := mustTranslate(t, target, "E", string(out))
			got, want := back.Notes(), doc.Notes()
			if len(got) != len(want) {
				t.Fatalf("%s target %s: %d notes, want %d", table, target, len(got), len(want))
			}
			for i := range want {
				if got[i].Pitch != want[i].Pitch {
					t.Errorf("%s target %s note %d: pitch %d, want %d", table, target, i, got[i].Pitch, want[i].Pitch)
				}
			}
		}
	}
}

type strayNode struct{}

func (strayNode) Position() Position { return Position{} }
func (strayNode) node()              {}

func TestRenderCorruptState(t *testing.T) {
	doc := &Document{Title: "T", Target: 25, Nodes: []Node{strayNode{}}}
	if _, err := Render(doc, nil); !errors.Is(err, ErrCorruptBracketState) {
		t.Errorf("unknown node error = %v, want ErrCorruptBracketState", err)
	}

	r := &renderer{target: 25, table: pitch.Default, depth: 1, stack: []bracket{'x'}}
	if err := r.note(&Note{Pitch: 25}); !errors.Is(err, ErrCorruptBracketState) {
		t.Errorf("stray bracket error = %v, want ErrCorruptBracketState", err)
	}
}

func TestRenderUnsetTarget(t *testing.T) {
	if _, err := Render(&Document{Title: "T"}, nil); !errors.Is(err, pitch.ErrUnsetTarget) {
		t.Errorf("error = %v, want ErrUnsetTarget", err)
	}
}

func TestRenderClosesUnterminatedDocument(t *testing.T) {
	doc := &Document{
		Title:  "T",
		Target: 25,
		Nodes:  []Node{&Note{Pitch: 13, Base: -1}},
	}
	if got, want := mustRender(t, doc, nil), "T\n1=C\n(1)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		input string
		want  string
	}{
		{
			name:  "groups rebalanced",
			input: "T\n1=(G)\n\n(1\n2) (3)(4)\n",
			want:  "T\n1=(G)\n\n(1)\n(2 34)\n",
		},
		{
			name:  "default origin adds no signature",
			opts:  []Option{WithDefaultOrigin("D")},
			input: "T\n1 (2)(3)\n",
			want:  "T\n1 (23)\n",
		},
		{
			name:  "modulation kept",
			input: "T\n1=C\n1\n1=D\n1 2\n",
			want:  "T\n1=C\n1\n1=D\n1 2\n",
		},
		{
			name:  "modulation spelled in its own key",
			input: "T\n1=C\n(1)(2)\n  1=[D]\n(5)(6) 1\n",
			want:  "T\n1=C\n(12)\n  1=[D]\n(56) 1\n",
		},
		{
			name:  "signature stays below blank line",
			input: "T\n\n1=C\n(1)(2)\n",
			want:  "T\n\n1=C\n(12)\n",
		},
		{
			name:  "title only",
			input: "T",
			want:  "T",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Normalize([]byte(tt.input), tt.opts...)
			if err != nil {
				t.Fatalf("Normalize error: %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("Normalize = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestNormalizeErrors(t *testing.T) {
	if _, err := Normalize([]byte("T\n1 2\n")); !errors.Is(err, ErrMissingKeySignature) {
		t.Errorf("error = %v, want ErrMissingKeySignature", err)
	}
	if _, err := Normalize([]byte("T\n1=C\n1\n1=(((B)))\n1\n")); !errors.Is(err, pitch.ErrOutOfRange) {
		t.Errorf("error = %v, want ErrOutOfRange", err)
	}
	if _, err := Normalize([]byte("T\n1\n"), WithDefaultOrigin("H")); !errors.Is(err, pitch.ErrInvalidKey) {
		t.Errorf("error = %v, want ErrInvalidKey", err)
	}
}
