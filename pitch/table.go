package pitch

import (
	"fmt"
	"strings"
)

// Table spells the twelve chromatic offsets from the tonic. An entry may be
// spelled from a neighbouring octave: wrap is -1 when the symbol is read one
// octave below the note and +1 when it is read one octave above.
type Table struct {
	Name    string
	symbols [Octave]string
	wrap    [Octave]int
}

var (
	Default = &Table{
		Name:    "default",
		symbols: [Octave]string{"1", "#1", "2", "#2", "3", "4", "#4", "5", "#5", "6", "#6", "7"},
	}

	// Flat writes the leading tone as the flattened tonic of the next octave.
	Flat = &Table{
		Name:    "flat",
		symbols: [Octave]string{"1", "b2", "2", "b3", "3", "4", "b5", "5", "b6", "6", "b7", "b1"},
		wrap:    [Octave]int{11: 1},
	}

	// Sharp raises the 3rd and 7th into the 4th and the tonic of the next
	// octave.
	Sharp = &Table{
		Name:    "sharp",
		symbols: [Octave]string{"#7", "#1", "2", "#2", "3", "#3", "#4", "5", "#5", "6", "#6", "7"},
		wrap:    [Octave]int{0: -1},
	}
)

var tables = []*Table{Default, Flat, Sharp}

// TableByName returns the table called name ("default", "flat" or "sharp").
func TableByName(name string) (*Table, error) {
	for _, t := range tables {
		if t.Name == strings.ToLower(name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unknown symbol table %q", name)
}

// TableNames lists the names accepted by TableByName.
func TableNames() []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}

// Symbol returns the spelling of a chromatic offset, taken modulo an octave.
func (t *Table) Symbol(offset int) string {
	return t.symbols[mod(offset, Octave)]
}

// Wrap returns the register shift the spelling of offset is written at.
func (t *Table) Wrap(offset int) int {
	return t.wrap[mod(offset, Octave)]
}

// Index returns the chromatic offset symbol reaches when read at depth 0.
// A wrapped spelling leaves [0, 12).
func (t *Table) Index(symbol string) (int, bool) {
	for i, s := range t.symbols {
		if s == symbol {
			return i - Octave*t.wrap[i], true
		}
	}
	return 0, false
}

func (t *Table) String() string {
	return t.Name
}
