package fts

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the stream.
// Callers distinguish them with errors.Is:
//
//	if errors.Is(err, fts.ErrNameTooLong) {
//	    // the hierarchy is deeper than the stream can represent
//	}
var (
	// ErrInvalidArgument indicates an unknown flag, instruction or a nil argument.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNameTooLong indicates the path buffer or level limit was exceeded.
	ErrNameTooLong = errors.New("file name too long")

	// ErrClosed indicates the stream was already closed.
	ErrClosed = errors.New("stream closed")
)

// OpError records a backend operation that stopped the stream.
type OpError struct {
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("fts: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
