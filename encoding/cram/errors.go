package cram

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// The four error kinds named in §7 map onto grailbio/base/errors Kind
// values already in wide use across the corpus: a StructuralError is
// malformed data (errors.Invalid), a PolicyError is a caller violating
// a precondition this package documents (errors.Precondition), a
// StateError is an internal invariant this package itself broke
// (errors.Internal), and an IOError is passed through unchanged from
// the underlying reader/writer (errors.IO).

// StructuralError reports malformed CRAM data: a value out of its
// legal range, a truncated field, a content type that doesn't match
// what was expected.
func StructuralError(msg string, args ...interface{}) error {
	return errors.E(errors.Invalid, errorf(msg, args...))
}

// PolicyError reports a caller violating a documented precondition,
// such as staging records out of coordinate order when the pipeline
// was configured for coordinate-sorted input.
func PolicyError(msg string, args ...interface{}) error {
	return errors.E(errors.Precondition, errorf(msg, args...))
}

// StateError reports this package's own internal bookkeeping breaking
// an invariant it is supposed to maintain. A StateError should never
// be reachable by any sequence of valid calls; it always indicates a
// bug in this package.
func StateError(msg string, args ...interface{}) error {
	return errors.E(errors.Internal, errorf(msg, args...))
}

// IOError wraps an error from an underlying reader, writer, or other
// external collaborator without reinterpreting it.
func IOError(err error, msg string, args ...interface{}) error {
	return errors.E(errors.IO, err, errorf(msg, args...))
}

func errorf(msg string, args ...interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
