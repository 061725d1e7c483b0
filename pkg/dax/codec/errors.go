package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDocument is returned by the decoder when the input contains
	// no adag element.
	ErrNoDocument = errors.New("document contains no adag element")

	// ErrUnrecognizedElement is returned when the decoder encounters an
	// element name that is not part of the DAX dialect.
	ErrUnrecognizedElement = errors.New("unrecognized element")

	// ErrUnsupportedContext is returned when a known element appears
	// under a parent that cannot hold it, for example a pfn outside a
	// catalog entry.
	ErrUnsupportedContext = errors.New("element not allowed in this context")

	// ErrUnknownReference is returned when a child or parent element
	// references a node identifier that has not been defined, or a
	// name resolves to an entity of the wrong kind.
	ErrUnknownReference = errors.New("unresolved reference")

	// ErrMalformedArgument is returned when the text of an argument
	// element cannot be split into shell-style tokens, for example on
	// an unterminated quote.
	ErrMalformedArgument = errors.New("malformed argument text")
)

// DecodeError reports a structural error in a DAX document. It wraps
// the underlying cause, either one of this package's sentinel errors
// or a validation error from the dax entity constructors, and records
// the element and byte offset where decoding stopped.
type DecodeError struct {
	Element string
	Offset  int64
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("dax: element %q at offset %d: %v", e.Element, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
