// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package queryengine

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/samber/oops"
)

// MaxNestingDepth is the maximum allowed nesting depth for a filter program:
// select() and object pairs both nest sub-programs, and a pathological input
// could otherwise recurse the validator and evaluator arbitrarily deep.
const MaxNestingDepth = 1024

// parser is the singleton participle parser instance for the filter grammar.
var parser *participle.Parser[FilterProgram]

func init() {
	var err error
	parser, err = NewParser()
	if err != nil {
		panic(fmt.Sprintf("failed to build filter parser: %v", err))
	}
}

// NewParser constructs a participle parser for the FilterProgram grammar.
// MaxLookahead enables full backtracking: the iterator, the index form, a
// bare field and identity all start with the same '.' token and can only be
// told apart a few tokens in. Filter programs are short, so this is not a
// performance concern.
func NewParser() (*participle.Parser[FilterProgram], error) {
	return participle.Build[FilterProgram](
		participle.Lexer(filterLexer),
		participle.Unquote("String"),
		participle.UseLookahead(participle.MaxLookahead),
	)
}

// Parse compiles a filter query string into a FilterProgram. participle
// requires full consumption of the input during ParseString, so trailing,
// non-whitespace garbage already surfaces as a parse error; Parse adds
// resolution of index literals and a nesting-depth check on top.
func Parse(query string) (*FilterProgram, error) {
	program, err := parser.ParseString("", query)
	if err != nil {
		return nil, oops.With("query", query).Wrapf(err, "parsing filter query")
	}

	if err := resolveIndices(program); err != nil {
		return nil, oops.With("query", query).Wrapf(err, "parsing filter query")
	}

	if depth := programDepth(program); depth > MaxNestingDepth {
		return nil, oops.With("query", query).
			With("depth", depth).
			With("max_depth", MaxNestingDepth).
			Errorf("nesting depth exceeds maximum of %d", MaxNestingDepth)
	}

	return program, nil
}

// resolveIndices walks the program resolving every IndexFilter's lexed Raw
// text into its signed 32-bit I field, surfacing overflow as an error rather
// than silently wrapping.
func resolveIndices(p *FilterProgram) error {
	for _, f := range p.Filters {
		if err := resolveFilterIndices(f); err != nil {
			return err
		}
	}
	return nil
}

func resolveFilterIndices(f *Filter) error {
	switch {
	case f.Index != nil:
		n, err := strconv.ParseInt(f.Index.Raw, 10, 32)
		if err != nil {
			return fmt.Errorf("index %q out of range for a 32-bit integer", f.Index.Raw)
		}
		f.Index.I = int32(n)
		return nil
	case f.Select != nil:
		return resolveIndices(f.Select.Path)
	case f.Object != nil:
		for _, pair := range f.Object.Pairs {
			if err := resolveIndices(pair.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// programDepth reports the maximum nesting depth across every select() path
// and object pair value reachable from p. A program with no nested
// sub-programs has depth 1.
func programDepth(p *FilterProgram) int {
	depth := 1
	for _, f := range p.Filters {
		if d := filterDepth(f) + 1; d > depth {
			depth = d
		}
	}
	return depth
}

func filterDepth(f *Filter) int {
	switch {
	case f.Select != nil:
		return programDepth(f.Select.Path)
	case f.Object != nil:
		max := 0
		for _, pair := range f.Object.Pairs {
			if d := programDepth(pair.Value); d > max {
				max = d
			}
		}
		return max
	default:
		return 0
	}
}
