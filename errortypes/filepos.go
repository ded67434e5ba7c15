// Package errortypes defines the positional error interface shared by the
// lexer, the parser and their hosts.
package errortypes

import (
	"fmt"

	"github.com/juju/errors"
)

// ErrFilePos extends the error interface with the source position where the
// error occurred. File is empty for interactive input.
type ErrFilePos interface {
	error
	File() string
	Line() int
	Col() int
}

// NewErrFilePosf creates an error conforming to the ErrFilePos interface.
func NewErrFilePosf(file string, line, col int, format string, args ...interface{}) error {
	return &errFilePos{
		error: fmt.Errorf(format, args...),
		file:  file,
		line:  line,
		col:   col,
	}
}

// ToErrFilePos returns the root cause of err as an ErrFilePos, or nil if the
// cause carries no position. Wrapped errors are unwrapped via errors.Cause.
func ToErrFilePos(err error) ErrFilePos {
	if err == nil {
		return nil
	}
	if out, ok := errors.Cause(err).(ErrFilePos); ok {
		return out
	}
	return nil
}

// IsErrFilePos reports whether the root cause of err is an ErrFilePos.
func IsErrFilePos(err error) bool {
	return ToErrFilePos(err) != nil
}

var _ ErrFilePos = &errFilePos{}

type errFilePos struct {
	error
	file string
	line int
	col  int
}

func (e *errFilePos) File() string {
	return e.file
}

func (e *errFilePos) Line() int {
	return e.line
}

func (e *errFilePos) Col() int {
	return e.col
}
