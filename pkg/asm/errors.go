package asm

import "fmt"

// ErrorKind classifies an assembly failure.
type ErrorKind int

const (
	UnexpectedCharacter ErrorKind = iota
	MalformedLabel
	UnknownDestination
	UnknownComputation
	UnknownJump
	EmptyComputation
	AddressOutOfRange
	DuplicateLabel
	ProgramTooLarge
	VariableSpaceExhausted
)

var errorKindNames = map[ErrorKind]string{
	UnexpectedCharacter:    "unexpected character",
	MalformedLabel:         "malformed label",
	UnknownDestination:     "unknown destination",
	UnknownComputation:     "unknown computation",
	UnknownJump:            "unknown jump",
	EmptyComputation:       "empty computation",
	AddressOutOfRange:      "address out of range",
	DuplicateLabel:         "duplicate label",
	ProgramTooLarge:        "program too large",
	VariableSpaceExhausted: "variable space exhausted",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error reports the first fault of an assembly run. Line and Column are
// 1-based and point at the start of the offending token.
type Error struct {
	Kind   ErrorKind
	Token  string
	Line   int
	Column int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s on line %d, column %d: %q", e.Kind, e.Line, e.Column, e.Token)
}

func newError(kind ErrorKind, token string, pos position) *Error {
	return &Error{Kind: kind, Token: token, Line: pos.line, Column: pos.column}
}
