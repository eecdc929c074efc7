package timeline

import (
	"errors"
	"fmt"
	"log"
)

var (
	// ErrUnregisteredParent is reported when Child names a track that was
	// never registered as a parent.
	ErrUnregisteredParent = errors.New("invalid parent track: track must be registered as parent")

	// ErrParentIsChild is reported when a track that follows a parent is
	// offered as a parent itself.
	ErrParentIsChild = errors.New("track with child relationship cannot be a parent")
)

// DuplicateError describes a segment dropped at compile time because an
// earlier segment had the same position and type.
type DuplicateError struct {
	Position float64
	Type     SegmentType
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s at position %g - ignoring duplicate", e.Type, e.Position)
}

// LabelError is reported when WhenLabel cannot resolve its label.
type LabelError struct {
	Label string
	Err   error
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("invalid callback position %q: %v", e.Label, e.Err)
}

func (e *LabelError) Unwrap() error {
	return e.Err
}

// CallbackError wraps a panic recovered from a user callback.
type CallbackError struct {
	Source    string
	Recovered interface{}
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("%s callback error: %v", e.Source, e.Recovered)
}

func (e *CallbackError) Unwrap() error {
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}

// Reporter receives non-fatal diagnostics. Nothing in this package returns
// these errors to the caller; they are reported and execution continues.
type Reporter func(err error)

// LogReporter writes diagnostics to the standard logger.
func LogReporter(err error) {
	log.Printf("timeline: %v", err)
}

// invoke runs cb and turns a panic into a reported CallbackError.
func invoke(report Reporter, source string, cb Callback) {
	defer func() {
		if r := recover(); r != nil {
			report(&CallbackError{Source: source, Recovered: r})
		}
	}()
	cb()
}
