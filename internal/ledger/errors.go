package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// Store error kinds. Match them with errors.Is.
var (
	ErrNotFound     = errors.New("no transactions found")
	ErrParseFailure = errors.New("malformed transaction data")
	ErrIOFailure    = errors.New("transaction store I/O failure")
)

// StoreError describes a failed store operation.
type StoreError struct {
	Op   string // load, append, export, import, decode
	Path string
	Line int // 1-based line of the offending record, 0 if not applicable
	Kind error
	Err  error
}

func (e *StoreError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == e.Kind
}

func NotFound(op, path string) error {
	return &StoreError{Op: op, Path: path, Kind: ErrNotFound}
}

func ParseFailure(op, path string, line int, err error) error {
	return &StoreError{Op: op, Path: path, Line: line, Kind: ErrParseFailure, Err: err}
}

func IOFailure(op, path string, err error) error {
	return &StoreError{Op: op, Path: path, Kind: ErrIOFailure, Err: err}
}

// Annotate fills in the operation and path of a StoreError produced deeper down.
func Annotate(err error, op, path string) error {
	var serr *StoreError
	if errors.As(err, &serr) {
		serr.Op = op
		if serr.Path == "" {
			serr.Path = path
		}
	}
	return err
}
