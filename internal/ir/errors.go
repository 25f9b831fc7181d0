package ir

import (
	"errors"
	"fmt"
	"strings"

	"cbind/internal/clang"
	"cbind/internal/diag"
)

// ParseErrorKind is the three-way ingestion failure signal.
type ParseErrorKind uint8

const (
	// ParseFatal aborts construction of the current type. The caller must
	// not retry it.
	ParseFatal ParseErrorKind = iota + 1
	// ParseRecurse asks the caller to resolve the type's declaration
	// instead of the bare type.
	ParseRecurse
	// ParseContinue marks an unsupported type: skip it and carry on with
	// its siblings.
	ParseContinue
)

func (k ParseErrorKind) String() string {
	switch k {
	case ParseFatal:
		return "fatal"
	case ParseRecurse:
		return "recurse"
	case ParseContinue:
		return "continue"
	default:
		return fmt.Sprintf("ParseErrorKind(%d)", k)
	}
}

// ParseError reports why a foreign type produced no IR node.
//
// Kind always describes the outermost failure: a pointer whose pointee was
// unsupported is fatal even though the pointee alone was skippable. For
// that reason Cause is informational and not exposed through Unwrap.
type ParseError struct {
	Kind ParseErrorKind
	// Type is the foreign type being ingested; for ParseRecurse it is the
	// type whose declaration should be resolved.
	Type clang.Type
	// Code is the diagnostic the driver reports for this failure.
	Code   diag.Code
	Detail string
	Cause  error
}

var (
	ErrFatal    = &ParseError{Kind: ParseFatal}
	ErrRecurse  = &ParseError{Kind: ParseRecurse}
	ErrContinue = &ParseError{Kind: ParseContinue}
)

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(e.Kind.String())
	b.WriteByte(']')
	if e.Detail != "" {
		b.WriteByte(' ')
		b.WriteString(e.Detail)
	}
	if e.Type != nil {
		fmt.Fprintf(&b, " `%s` (%s)", e.Type.Spelling(), e.Type.Kind())
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Is matches on kind, so errors.Is(err, ErrContinue) works for any
// skip-recoverable error.
func (e *ParseError) Is(target error) bool {
	var t *ParseError
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Recoverable reports whether the caller can keep going past this error.
func (e *ParseError) Recoverable() bool {
	return e != nil && (e.Kind == ParseRecurse || e.Kind == ParseContinue)
}

// KindOf extracts the parse error kind from err; errors that are not parse
// errors count as fatal.
func KindOf(err error) ParseErrorKind {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ParseFatal
}

// DiagCode returns the diagnostic code for err, defaulting by kind.
func DiagCode(err error) diag.Code {
	var perr *ParseError
	if !errors.As(err, &perr) {
		return diag.IngestInvalidType
	}
	if perr.Code != diag.UnknownCode {
		return perr.Code
	}
	switch perr.Kind {
	case ParseContinue:
		return diag.IngestUnsupportedType
	case ParseRecurse:
		return diag.IngestUnsupportedDecl
	default:
		return diag.IngestInvalidType
	}
}
