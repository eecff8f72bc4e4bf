package synth

import "errors"

// ErrNoValidNotes is returned when a composition yields no renderable notes.
var ErrNoValidNotes = errors.New("composition contains no valid notes")
