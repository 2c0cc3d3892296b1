package engine

import "errors"

// Contract violations. An illegal move is never an error: move functions
// report it with a false ok value. These sentinels describe bugs in the
// calling layer and are raised through panics inside the engine, or returned
// from boundary checks such as Layout.Check.
var (
	ErrInvalidCard      = errors.New("invalid card")
	ErrInvalidLocation  = errors.New("invalid location")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrWrongState       = errors.New("state belongs to a different game")
	ErrUnknownGame      = errors.New("unknown game")
	ErrDuplicateGame    = errors.New("game already registered")
)
