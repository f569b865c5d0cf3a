package engine

import "errors"

// ErrorKind classifies a rejected action.
type ErrorKind uint8

const (
	MalformedCommand ErrorKind = iota + 1
	OutOfRangeSlot
	InvalidHintTarget
	AmbiguousToken
	DiscardForbidden
	GameFinished
)

var (
	ErrMalformedCommand  = errors.New("malformed command")
	ErrOutOfRangeSlot    = errors.New("slot out of range")
	ErrInvalidHintTarget = errors.New("invalid hint target")
	ErrAmbiguousToken    = errors.New("ambiguous hint token")
	ErrDiscardForbidden  = errors.New("discard not allowed")
	ErrGameOver          = errors.New("game is already over")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case MalformedCommand:
		return ErrMalformedCommand
	case OutOfRangeSlot:
		return ErrOutOfRangeSlot
	case InvalidHintTarget:
		return ErrInvalidHintTarget
	case AmbiguousToken:
		return ErrAmbiguousToken
	case DiscardForbidden:
		return ErrDiscardForbidden
	case GameFinished:
		return ErrGameOver
	}
	return nil
}

func (k ErrorKind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return "unknown error"
}

// ActionError is returned for every rejected action. No state is modified
// when an ActionError is returned.
type ActionError struct {
	Kind ErrorKind
	Msg  string
}

func newActionError(kind ErrorKind, msg string) *ActionError {
	return &ActionError{Kind: kind, Msg: msg}
}

func (e *ActionError) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is matches the sentinel for the error's kind, so callers can use errors.Is.
func (e *ActionError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}
