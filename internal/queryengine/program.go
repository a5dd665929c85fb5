// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package queryengine

// Program is a compiled, immutable filter program: the host-facing artifact
// Compile returns. It is value-typed enough to share freely across
// concurrent evaluations — a Program holds no mutable state and Run/First
// never write to it.
type Program struct {
	ast   *FilterProgram
	query string
}

// Compile parses query into a Program, ready to Run against any number of
// input values. It is the host API's entry point; internally it delegates
// to Parse and wraps any failure as a *ParseError.
func Compile(query string) (*Program, error) {
	ast, err := Parse(query)
	if err != nil {
		return nil, &ParseError{Query: query, err: err}
	}
	return &Program{ast: ast, query: query}, nil
}

// Query returns the source text the program was compiled from.
func (p *Program) Query() string { return p.query }

// AST returns the program's compiled syntax tree, for callers that need to
// serialize it — schema validation, caching a compiled program to storage —
// rather than evaluate it directly.
func (p *Program) AST() *FilterProgram { return p.ast }

// String renders the compiled program back to surface syntax.
func (p *Program) String() string { return p.ast.String() }

// Run evaluates the program against input, returning 0, 1, or many values
// in the order the evaluation semantics define. Run never errors.
func (p *Program) Run(input Value) []Value {
	return Evaluate(input, p.ast)
}

// First evaluates the program against input and returns its first result,
// or (zero Value, false) if the result stream is empty.
//
// This runs the full pipeline rather than stopping at the first match —
// the stream-rewriting evaluator has no hook to interrupt a later stage
// early once an earlier stage has already produced multiple values feeding
// it, and taking only the first result is still well defined without one.
func (p *Program) First(input Value) (Value, bool) {
	results := p.Run(input)
	if len(results) == 0 {
		return Value{}, false
	}
	return results[0], true
}

// Present collapses a result stream into a single Value per the
// presentation convention: empty becomes null, a singleton becomes that
// value, and anything else becomes an array. Hosts that want an iterator
// in every case should use Run directly instead.
func Present(values []Value) Value {
	switch len(values) {
	case 0:
		return Null
	case 1:
		return values[0]
	default:
		return Array(values)
	}
}
