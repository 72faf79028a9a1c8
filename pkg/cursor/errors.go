package cursor

import "errors"

// Cursor and registry errors are a separate taxonomy from
// pkg/kerberr's Kerberos errors; they never map onto a wire error
// code.
var (
	// ErrUnsupported is returned by Last and AfterLast, which this
	// one-level children cursor does not implement.
	ErrUnsupported = errors.New("cursor: operation unsupported")

	// ErrClosed is returned by any method called after Close.
	ErrClosed = errors.New("cursor: closed")

	// ErrNotAvailable is returned by Get when no prior Next/Previous
	// call returned true since the last reset.
	ErrNotAvailable = errors.New("cursor: no current entry available")
)
