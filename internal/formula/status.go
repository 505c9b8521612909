package formula

import (
	"errors"
	"fmt"
)

// Status is the evaluation state attached to a formula cell.
type Status uint8

const (
	StatusNormal Status = iota
	StatusSyntaxError
	StatusCircularReference
	StatusInvalidValue
	StatusInvalidReference
	StatusNameNotFound
	StatusMismatchedParameter
	StatusUnspecifiedError
)

var statusNames = map[Status]string{
	StatusNormal:              "normal",
	StatusSyntaxError:         "syntax error",
	StatusCircularReference:   "circular reference",
	StatusInvalidValue:        "invalid value",
	StatusInvalidReference:    "invalid reference",
	StatusNameNotFound:        "name not found",
	StatusMismatchedParameter: "mismatched parameter",
	StatusUnspecifiedError:    "unspecified error",
}

func (s Status) String() string {
	return statusNames[s]
}

// Fault is the error returned when a formula cannot be evaluated.
type Fault struct {
	Status  Status
	Message string
}

func (f *Fault) Error() string {
	if f.Message == "" {
		return f.Status.String()
	}
	return fmt.Sprintf("%s: %s", f.Status, f.Message)
}

// Is matches any fault carrying the same status, so that the sentinels below
// work with errors.Is.
func (f *Fault) Is(target error) bool {
	t, ok := target.(*Fault)
	return ok && t.Status == f.Status
}

var (
	ErrCircularReference   = &Fault{Status: StatusCircularReference}
	ErrInvalidValue        = &Fault{Status: StatusInvalidValue}
	ErrInvalidReference    = &Fault{Status: StatusInvalidReference}
	ErrNameNotFound        = &Fault{Status: StatusNameNotFound}
	ErrMismatchedParameter = &Fault{Status: StatusMismatchedParameter}
	ErrUnspecified         = &Fault{Status: StatusUnspecifiedError}
)

func newFault(status Status, format string, args ...interface{}) error {
	return &Fault{Status: status, Message: fmt.Sprintf(format, args...)}
}

// SyntaxError is the type of error returned by the parser.
type SyntaxError struct {
	// Byte offset in the formula text where the error occurred.
	Position int
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at column %d: %s", e.Position, e.Message)
}

// StatusOf maps err onto the status a cell should carry. A nil error is Normal.
func StatusOf(err error) Status {
	if err == nil {
		return StatusNormal
	}

	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return StatusSyntaxError
	}

	var fault *Fault
	if errors.As(err, &fault) {
		return fault.Status
	}

	return StatusUnspecifiedError
}

// statusFault returns the error carried by a referenced cell in status s.
func statusFault(p CellPosition, s Status) error {
	return newFault(s, "cell %s is in error", p)
}
