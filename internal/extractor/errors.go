package extractor

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindMalformedContainer ErrorKind = "malformed_container"
	KindUnsupportedFormat  ErrorKind = "unsupported_format"
	KindDecode             ErrorKind = "decode"
	KindExternalTool       ErrorKind = "external_tool"
	KindIO                 ErrorKind = "io"
)

// ExtractionError records which class of failure stopped an extractor.
type ExtractionError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// NewError wraps err with a failure kind and the operation that produced it.
func NewError(kind ErrorKind, op string, err error) *ExtractionError {
	return &ExtractionError{Kind: kind, Op: op, Err: err}
}

func malformed(op string, err error) *ExtractionError {
	return NewError(KindMalformedContainer, op, err)
}

// KindOf returns the kind carried by err, or malformed_container for errors
// that were not classified by an extractor.
func KindOf(err error) ErrorKind {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return KindMalformedContainer
}

// UnsupportedFormatError is returned by the dispatcher for extensions outside the table.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return "Unsupported file type: " + e.Ext
}
