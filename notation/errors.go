package notation

import (
	"errors"
	"fmt"
)

var (
	ErrUnterminatedDecoration = errors.New("unterminated octave decoration")
	ErrMissingKeySignature    = errors.New("missing key signature")
	ErrCorruptBracketState    = errors.New("corrupt bracket state")
)

// Error is a failure tied to a location in the score. It unwraps to one of
// the Err* values of this package or of package pitch.
type Error struct {
	Pos   Position
	Token string
	Err   error
}

func (e *Error) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s: %v (near %q)", e.Pos, e.Err, e.Token)
	}
	return fmt.Sprintf("%s: %v", e.Pos, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
