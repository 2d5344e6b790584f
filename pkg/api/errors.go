package api

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the origin of an Error.
type Kind int

const (
	KindIO Kind = iota + 1
	KindRender
	KindParse
	KindTemplateCompile
	KindArgument
	KindMissing
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindRender:
		return "render"
	case KindParse:
		return "parse"
	case KindTemplateCompile:
		return "template"
	case KindArgument:
		return "argument"
	case KindMissing:
		return "missing"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error wraps a failure with its kind. Its message is the wrapped error's
// message, unchanged.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap tags err with kind. A nil err stays nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

func IOError(err error) error       { return Wrap(KindIO, err) }
func RenderError(err error) error   { return Wrap(KindRender, err) }
func ParseError(err error) error    { return Wrap(KindParse, err) }
func TemplateError(err error) error { return Wrap(KindTemplateCompile, err) }
func ArgumentError(err error) error { return Wrap(KindArgument, err) }

// KindOf returns the kind of the outermost Error in err's chain. A bare
// *MissingError reports KindMissing.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	var m *MissingError
	if errors.As(err, &m) {
		return KindMissing, true
	}
	return 0, false
}

// MissingError lists every required input that was not found.
type MissingError struct {
	Files []string
}

func (m *MissingError) Error() string {
	var b strings.Builder
	for _, f := range m.Files {
		fmt.Fprintf(&b, "missing file: %s\n", f)
	}
	return b.String()
}
