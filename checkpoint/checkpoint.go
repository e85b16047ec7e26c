// Package checkpoint decorates errors with the file and line of the place they
// passed through, which results in something similar to a stacktrace for the
// stages of an extraction.
// Both the decorating error and the wrapped cause can be checked by errors.Is
// and retrieved by errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// From wraps err by a new checkpoint which only adds caller information.
// It returns nil if err == nil.
func From(err error) error {
	if err == nil || isPassThrough(err) {
		return err
	}

	return newCheckpoint(err, nil)
}

// Wrap adds a checkpoint for prev which is further described by err.
// This allows to use predefined sentinel errors as stage markers:
//  var ErrLoadFAT = errors.New("could not load the FAT")
//
//  func load() error {
//  	err := readSectors()
//  	return checkpoint.Wrap(err, ErrLoadFAT)
//  }
// errors.Is matches ErrLoadFAT as well as the error returned by readSectors.
// Wrap returns nil if prev == nil.
func Wrap(prev, err error) error {
	if prev == nil || isPassThrough(prev) {
		return prev
	}

	return newCheckpoint(prev, err)
}

// io.EOF must be returned as is.
// https://github.com/golang/go/issues/39155
func isPassThrough(err error) bool {
	return err == io.EOF
}

func newCheckpoint(prev, err error) *checkpoint {
	// Skip newCheckpoint and From/Wrap.
	_, file, line, ok := runtime.Caller(2)

	return &checkpoint{
		err:  err,
		prev: prev,

		callerOk: ok,
		file:     filepath.Base(file),
		line:     line,
	}
}

type checkpoint struct {
	err  error
	prev error

	callerOk bool
	file     string
	line     int
}

func (e *checkpoint) location() string {
	if !e.callerOk {
		return "unknown"
	}

	return fmt.Sprintf("%s:%d", e.file, e.line)
}

func (e *checkpoint) Error() string {
	prevErrString := e.prev.Error()
	if _, ok := e.prev.(*checkpoint); !ok {
		prevErrString = "at unknown\n\t" + strings.ReplaceAll(prevErrString, "\n", "\n\t")
	}

	if e.err == nil {
		return fmt.Sprintf("at %s\n%v", e.location(), prevErrString)
	}

	return fmt.Sprintf("at %s\n\t%v\n%v", e.location(), e.err, prevErrString)
}

func (e *checkpoint) Unwrap() error {
	return e.prev
}

func (e *checkpoint) Is(target error) bool {
	return e.err != nil && errors.Is(e.err, target)
}

func (e *checkpoint) As(target interface{}) bool {
	return e.err != nil && errors.As(e.err, target)
}
