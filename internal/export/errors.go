package export

import (
	"errors"
	"fmt"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format.
var ErrUnknownFormat = errors.New("unknown format: use csv, xlsx or json")

// Error reports a failed export. No file exists at Path when it is returned.
type Error struct {
	// Path is the destination that was not written.
	Path string

	// Cause is the underlying failure.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("export to %s failed, no file was produced: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying failure.
func (e *Error) Unwrap() error {
	return e.Cause
}
