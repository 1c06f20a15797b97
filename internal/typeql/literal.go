// Package typeql builds the TypeQL statements this gateway issues against the
// graph store, one pure builder per logical operation.
//
// Every caller-supplied value passes through the Fragment constructors in
// this file, which escape or reject it. Nothing else in the package
// concatenates raw input into query text, so the escaping invariant is
// enforced by construction rather than by convention.
package typeql

import (
	"fmt"
	"strconv"
	"strings"
)

// EncodingError reports a value that cannot be represented as a TypeQL
// literal. Builders abort on the first EncodingError and never emit a
// partially substituted statement.
type EncodingError struct {
	// Attr is the attribute the value was destined for.
	Attr string

	// Rune is the offending character.
	Rune rune
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("typeql: value for %q contains unescapable character %U", e.Attr, e.Rune)
}

// Fragment is an already-escaped piece of query text. Fragments are only
// produced by the typed constructors below; holding one means the escaping
// invariant holds for its contents.
type Fragment struct {
	text string
}

// String returns the raw query text of the fragment.
func (f Fragment) String() string { return f.text }

// StringLiteral renders a quoted TypeQL string literal. Backslashes and
// double quotes are escaped; the remaining control characters (U+0000 to U+001F
// and U+007F) have no escape sequence in the store grammar and are rejected
// with an EncodingError. attr is only used for error reporting.
func StringLiteral(attr, s string) (Fragment, error) {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '\\' || r == '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			return Fragment{}, &EncodingError{Attr: attr, Rune: r}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return Fragment{text: b.String()}, nil
}

// BoolLiteral renders a bare boolean literal.
func BoolLiteral(v bool) Fragment {
	return Fragment{text: strconv.FormatBool(v)}
}

// IntLiteral renders a bare integer literal.
func IntLiteral(v int64) Fragment {
	return Fragment{text: strconv.FormatInt(v, 10)}
}

// insertBuilder accumulates the `has` clauses of a single insert statement.
// The first encoding failure sticks; build returns it and no query text.
type insertBuilder struct {
	b   strings.Builder
	err error
}

func newInsert(entityType string) *insertBuilder {
	ib := &insertBuilder{}
	ib.b.WriteString("insert $_ isa ")
	ib.b.WriteString(entityType)
	return ib
}

// has appends a required string attribute.
func (ib *insertBuilder) has(attr, value string) *insertBuilder {
	if ib.err != nil {
		return ib
	}
	lit, err := StringLiteral(attr, value)
	if err != nil {
		ib.err = err
		return ib
	}
	ib.writeClause(attr, lit)
	return ib
}

// hasOptional appends a string attribute only when the value is present.
// Empty string means absent: the clause is omitted entirely.
func (ib *insertBuilder) hasOptional(attr, value string) *insertBuilder {
	if value == "" {
		return ib
	}
	return ib.has(attr, value)
}

// hasEach appends one clause per element, repeating the attribute name.
func (ib *insertBuilder) hasEach(attr string, values []string) *insertBuilder {
	for _, v := range values {
		ib.has(attr, v)
	}
	return ib
}

// hasBool appends a boolean attribute in bare literal form.
func (ib *insertBuilder) hasBool(attr string, v bool) *insertBuilder {
	if ib.err != nil {
		return ib
	}
	ib.writeClause(attr, BoolLiteral(v))
	return ib
}

func (ib *insertBuilder) writeClause(attr string, lit Fragment) {
	ib.b.WriteString(", has ")
	ib.b.WriteString(attr)
	ib.b.WriteByte(' ')
	ib.b.WriteString(lit.String())
}

func (ib *insertBuilder) build() (string, error) {
	if ib.err != nil {
		return "", ib.err
	}
	return ib.b.String() + ";", nil
}
