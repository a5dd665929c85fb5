// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package queryengine

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// GrammarVersion identifies the filter grammar this package's parser and
// evaluator implement. Bump it whenever the surface grammar changes in a
// way that could make a previously-compiled FilterProgram's serialized
// form ambiguous.
const GrammarVersion = 1

// filterLexer tokenizes the filter language. Order matters: longer
// operator patterns must precede shorter ones that share a prefix
// (">=" before ">", "==" before nothing shorter exists, etc.), and Float
// must precede Int since both match at the start of "3.14".
var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"[A-Za-z0-9_\- ]*"`},
	{Name: "Float", Pattern: `-?[0-9]+\.[0-9]+`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "OpGe", Pattern: `>=`},
	{Name: "OpLe", Pattern: `<=`},
	{Name: "OpEq", Pattern: `==`},
	{Name: "OpNe", Pattern: `!=`},
	{Name: "OpGt", Pattern: `>`},
	{Name: "OpLt", Pattern: `<`},
	{Name: "Pipe", Pattern: `\|`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Ident", Pattern: `[A-Za-z0-9_][A-Za-z0-9_-]*`},
	{Name: "Punct", Pattern: `[{}\[\](),:]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// CompareOp is one of the six comparison operators a select() predicate
// accepts.
type CompareOp string

// CompareOp constants mirror §3.3 of the specification.
const (
	OpEq  CompareOp = "=="
	OpNeq CompareOp = "!="
	OpGt  CompareOp = ">"
	OpLt  CompareOp = "<"
	OpGte CompareOp = ">="
	OpLte CompareOp = "<="
)

// Literal is the scalar value a select() predicate compares the path
// result against. Exactly one field is non-nil.
//
// Grammar: literal := 'true' | 'false' | 'null' | string | float | integer
type Literal struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Bool  *bool          `parser:"  @('true' | 'false')" json:"bool,omitempty"`
	Null  *string        `parser:"| @'null'"             json:"-"`
	Str   *string        `parser:"| @String"             json:"str,omitempty"`
	Float *float64       `parser:"| @Float"              json:"float,omitempty"`
	Int   *int64         `parser:"| @Int"                json:"int,omitempty"`
}

// IsNull reports whether this literal is the null literal.
func (l *Literal) IsNull() bool { return l.Null != nil }

// String renders the literal in the surface syntax it was parsed from.
func (l *Literal) String() string {
	switch {
	case l.Bool != nil:
		return strconv.FormatBool(*l.Bool)
	case l.IsNull():
		return "null"
	case l.Str != nil:
		return `"` + *l.Str + `"`
	case l.Float != nil:
		s := strconv.FormatFloat(*l.Float, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			// Keep a fractional part so the text lexes as Float, not Int.
			s += ".0"
		}
		return s
	case l.Int != nil:
		return strconv.FormatInt(*l.Int, 10)
	default:
		return "<empty literal>"
	}
}

// FilterProgram is an ordered, non-empty sequence of Filter operators
// applied left to right, each filter's multi-valued output feeding the
// next.
//
// Grammar: query := filter ('|' filter)*
type FilterProgram struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Filters []*Filter      `parser:"@@ (Pipe @@)*" json:"filters"`
}

// String renders the program back to surface syntax — the pretty-printer
// the parser/evaluator round-trip property (P2) requires.
func (p *FilterProgram) String() string {
	parts := make([]string, len(p.Filters))
	for i, f := range p.Filters {
		parts[i] = f.String()
	}
	return strings.Join(parts, " | ")
}

// Filter is a single filter operator. Exactly one field is non-nil,
// representing the matched alternative. The alternatives are tried in the
// precedence order §4.1 of the specification requires: iterator before
// index before field before object before bare identity; select is
// anchored on its own keyword and so never conflicts with the others.
type Filter struct {
	Pos      lexer.Position  `parser:"" json:"-"`
	Select   *SelectFilter   `parser:"  @@" json:"select,omitempty"`
	Iterator *IteratorFilter `parser:"| @@" json:"iterator,omitempty"`
	Index    *IndexFilter    `parser:"| @@" json:"index,omitempty"`
	Field    *FieldFilter    `parser:"| @@" json:"field,omitempty"`
	Object   *ObjectFilter   `parser:"| @@" json:"object,omitempty"`
	Identity *IdentityFilter `parser:"| @@" json:"identity,omitempty"`
}

// String renders a single filter back to surface syntax.
func (f *Filter) String() string {
	switch {
	case f.Select != nil:
		return f.Select.String()
	case f.Iterator != nil:
		return ".[]"
	case f.Index != nil:
		return f.Index.String()
	case f.Field != nil:
		return "." + f.Field.Name
	case f.Object != nil:
		return f.Object.String()
	case f.Identity != nil:
		return "."
	default:
		return "<empty filter>"
	}
}

// IdentityFilter matches a bare ".".
//
// Grammar: identity := '.'
type IdentityFilter struct {
	Dot string `parser:"@Dot" json:"-"`
}

// FieldFilter matches ".name".
//
// Grammar: field := '.' word
type FieldFilter struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Dot  string         `parser:"@Dot" json:"-"`
	Name string         `parser:"@Ident" json:"name"`
}

// IndexFilter matches ".[N]" or ".[-N]".
//
// Grammar: index := '.' '[' ('-')? digits ']'
//
// Raw holds the lexed integer text; I holds the resolved signed 32-bit
// value, filled in by resolveIndices after a successful parse (overflow
// there surfaces as a ParseError, matching §4.1's "Integer semantics").
type IndexFilter struct {
	Pos lexer.Position `parser:"" json:"-"`
	Dot string         `parser:"@Dot '['" json:"-"`
	Raw string         `parser:"@Int ']'" json:"-"`
	I   int32          `parser:"" json:"i"`
}

// String renders the index filter back to surface syntax.
func (idx *IndexFilter) String() string {
	return ".[" + strconv.FormatInt(int64(idx.I), 10) + "]"
}

// IteratorFilter matches ".[]".
//
// Grammar: iterator := '.' '[' ']'
type IteratorFilter struct {
	Pos lexer.Position `parser:"" json:"-"`
	Dot string         `parser:"@Dot '[' ']'" json:"-"`
}

// ObjectFilter constructs a new object from the cartesian product of its
// pairs' sub-programs.
//
// Grammar: object := '{' WS? pair (WS? ',' WS? pair)* WS? '}'
type ObjectFilter struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Open  string         `parser:"@'{'" json:"-"`
	Pairs []*ObjectPair  `parser:"@@ (',' @@)*" json:"pairs"`
	Close string         `parser:"'}'" json:"-"`
}

// String renders the object filter back to surface syntax.
func (o *ObjectFilter) String() string {
	parts := make([]string, len(o.Pairs))
	for i, p := range o.Pairs {
		parts[i] = p.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ObjectPair is a single "name: subprogram" entry in an object filter.
// Duplicate names across a pair list are permitted by the parser — the
// evaluator's Set on construction makes the later entry win, per the
// resolved "duplicate keys" open question in SPEC_FULL.md.
//
// Grammar: pair := word WS? ':' WS? query
type ObjectPair struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident ':'" json:"name"`
	Value *FilterProgram `parser:"@@" json:"value"`
}

// String renders a single pair back to surface syntax.
func (p *ObjectPair) String() string {
	return p.Name + ": " + p.Value.String()
}

// SelectFilter keeps v unchanged when the predicate over path(v) holds,
// and drops it otherwise.
//
// Grammar: select := 'select(' WS? query WS? cmp_op WS? literal WS? ')'
type SelectFilter struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Keyword    string         `parser:"@'select' '('" json:"-"`
	Path       *FilterProgram `parser:"@@" json:"path"`
	Comparator CompareOp      `parser:"@(OpEq | OpNe | OpGe | OpLe | OpGt | OpLt)" json:"comparator"`
	Literal    *Literal       `parser:"@@ ')'" json:"literal"`
}

// String renders the select filter back to surface syntax.
func (s *SelectFilter) String() string {
	return "select(" + s.Path.String() + " " + string(s.Comparator) + " " + s.Literal.String() + ")"
}
