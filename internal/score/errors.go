package score

import (
	"errors"
	"fmt"
)

var (
	// ErrImageLoad reports an empty, zero-area or undecodable input image.
	ErrImageLoad = errors.New("image load error")

	// ErrNoStaffDetected reports that no staff band survived filtering.
	// Callers may retry with a lower MinStaffArea.
	ErrNoStaffDetected = errors.New("no staff detected")

	// ErrConfigValidation reports a configuration value outside its range.
	ErrConfigValidation = errors.New("config validation error")
)

// Error wraps one of the sentinel kinds above with detail.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
