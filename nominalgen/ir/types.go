// Package ir defines the declaration graph a front end hands to the
// registration emitter: the classes, interfaces and enums of one program,
// the references between them, and the designated entry point.
package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Documentation holds documentation comments attached to a declaration.
type Documentation struct {
	// Summary is the first sentence or paragraph.
	Summary string

	// Body is the complete documentation text, including the summary.
	Body string
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Summary == "" && d.Body == ""
}

// Source represents source code location information.
type Source struct {
	File   string
	Line   int
	Column int
}

// IsZero returns true if the source location is empty.
func (s Source) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}

// String formats the location as file:line:column, omitting unknown parts.
func (s Source) String() string {
	if s.IsZero() {
		return ""
	}
	switch {
	case s.Line == 0:
		return s.File
	case s.Column == 0:
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	}
}

// Warning represents a non-fatal issue encountered while building a program.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// Source is the location that triggered the warning, if applicable.
	Source *Source

	// TypeName is the type that triggered the warning, if applicable.
	TypeName string
}

// SplitName splits a qualified name into its namespace and simple name.
// "A.B.C" yields ("A.B", "C"); a name without dots has an empty namespace.
func SplitName(qualified string) (namespace, name string) {
	i := strings.LastIndexByte(qualified, '.')
	if i < 0 {
		return "", qualified
	}
	return qualified[:i], qualified[i+1:]
}

// GenericName returns the registered name of a declaration with the given
// number of type parameters: the qualified name itself for non-generic
// types, and name`arity otherwise.
func GenericName(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return name + "`" + strconv.Itoa(arity)
}
