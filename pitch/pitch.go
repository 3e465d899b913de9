// Package pitch maps between key names, jianpu scale-degree symbols and the
// absolute chromatic pitch used for all arithmetic.
//
// An absolute pitch is an integer in [1, 60]: five octaves of twelve
// semitones. Octave 2 is the home octave of an undecorated key letter, so
// "C" is 25 and "(C)" is 13.
package pitch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidKey  = errors.New("invalid key")
	ErrInvalidTone = errors.New("invalid tone")
	ErrInvalidNote = errors.New("invalid note")
	ErrUnsetOrigin = errors.New("origin pitch is unset")
	ErrUnsetTarget = errors.New("target pitch is unset")
	ErrOutOfRange  = errors.New("pitch out of range")
)

const (
	Octave     = 12
	Octaves    = 5
	HomeOctave = 2

	Min Pitch = 1
	Max Pitch = Octave * Octaves
)

// Pitch is an absolute chromatic position. The zero value means unset.
type Pitch int

var keys = [Octave]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Keys returns the canonical key letters in chromatic order.
func Keys() []string {
	return append([]string(nil), keys[:]...)
}

func keyIndex(key string) (int, error) {
	for i, k := range keys {
		if k == key {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidKey, key)
}

func (p Pitch) IsSet() bool {
	return p != 0
}

func (p Pitch) InRange() bool {
	return p >= Min && p <= Max
}

func (p Pitch) String() string {
	if !p.IsSet() {
		return "unset"
	}
	return fmt.Sprintf("%s/%d", KeyName(p), p)
}

// KeyToPitch returns the pitch of key letter shifted by octaveDelta octaves
// from the home octave. The result must lie in [Min, Max].
func KeyToPitch(key string, octaveDelta int) (Pitch, error) {
	idx, err := keyIndex(key)
	if err != nil {
		return 0, err
	}
	p := Pitch(Octave*(HomeOctave+octaveDelta) + idx + 1)
	if !p.InRange() {
		return 0, fmt.Errorf("%w: key %s at octave %+d is %d", ErrOutOfRange, key, octaveDelta, int(p))
	}
	return p, nil
}

// ParseTone resolves a key letter wrapped in balanced octave brackets, such
// as "G", "(G)" or "[[A#]]". Each "(" lowers and each "[" raises by one
// octave; closing brackets must match the innermost open one.
func ParseTone(tone string) (Pitch, error) {
	var (
		delta int
		open  []rune
		key   strings.Builder
	)
	for _, c := range strings.TrimSpace(tone) {
		switch c {
		case '(':
			delta--
			open = append(open, c)
		case '[':
			delta++
			open = append(open, c)
		case ')', ']':
			want := '('
			if c == ']' {
				want = '['
			}
			if len(open) == 0 || open[len(open)-1] != want {
				return 0, fmt.Errorf("%w %q", ErrInvalidTone, tone)
			}
			open = open[:len(open)-1]
		default:
			key.WriteRune(c)
		}
	}
	if len(open) != 0 {
		return 0, fmt.Errorf("%w %q", ErrInvalidTone, tone)
	}
	return KeyToPitch(key.String(), delta)
}

// KeyName returns the canonical key letter of p, ignoring its octave.
func KeyName(p Pitch) string {
	return keys[mod(int(p)-1, Octave)]
}

// DegreeToPitch resolves a degree symbol read at the given octave depth
// relative to origin. A "b" prefix is the unprefixed degree one semitone
// lower.
func DegreeToPitch(origin Pitch, depth int, symbol string, table *Table) (Pitch, error) {
	if !origin.IsSet() {
		return 0, ErrUnsetOrigin
	}
	var (
		idx int
		ok  bool
	)
	if rest, flat := strings.CutPrefix(symbol, "b"); flat {
		idx, ok = table.Index(rest)
		idx--
	} else {
		idx, ok = table.Index(symbol)
	}
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrInvalidNote, symbol)
	}
	return origin + Pitch(Octave*depth+idx), nil
}

// PitchToDegree spells p relative to target using table.
func PitchToDegree(p, target Pitch, depth int, table *Table) (string, error) {
	if !target.IsSet() {
		return "", ErrUnsetTarget
	}
	if !p.InRange() {
		return "", fmt.Errorf("%w: %d", ErrOutOfRange, int(p))
	}
	return table.Symbol(int(p-target) + Octave*depth), nil
}

// Register returns how many octaves p lies above (positive) or below
// (negative) the octave starting at target.
func Register(p, target Pitch) int {
	offset := int(p - target)
	base := 0
	for offset < 0 {
		offset += Octave
		base--
	}
	for offset >= Octave {
		offset -= Octave
		base++
	}
	return base
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
