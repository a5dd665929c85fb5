// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package queryengine

// handleKind distinguishes the two states an intermediate value in the
// working set can be in.
type handleKind int

const (
	// handleBorrowed marks a value reached purely by selecting into the
	// input (Identity, Field, Index, Iterator) or re-emitted unchanged by
	// Select. No allocation beyond copying the Value header occurs.
	handleBorrowed handleKind = iota
	// handleOwned marks a value the evaluator fabricated itself (Object
	// construction).
	handleOwned
)

// handle is the working set's element type: an either-borrowed-or-owned
// value, per the allocation discipline the evaluator is expected to keep.
// The distinction carries no semantic weight — Evaluate's output is the
// same regardless — it only documents which operators allocate.
type handle struct {
	kind handleKind
	val  Value
}

func borrowed(v Value) handle { return handle{kind: handleBorrowed, val: v} }
func owned(v Value) handle    { return handle{kind: handleOwned, val: v} }

// Evaluate runs program against input and returns the resulting stream of
// values. It seeds the working set with input and, for each filter in
// program order, replaces the working set with the concatenation of
// applying that filter to every element currently in it.
//
// Evaluate never panics and never returns an error: every shape mismatch
// an operator can encounter is defined to silently produce zero outputs.
func Evaluate(input Value, program *FilterProgram) []Value {
	working := []handle{borrowed(input)}

	for _, f := range program.Filters {
		if len(working) == 0 {
			break
		}
		next := make([]handle, 0, len(working))
		for _, h := range working {
			next = append(next, applyFilter(f, h)...)
		}
		working = next
	}

	out := make([]Value, len(working))
	for i, h := range working {
		out[i] = h.val
	}
	return out
}

// evaluateProgram runs a nested sub-program through Evaluate, used
// internally so that select() paths and object pair sub-programs run
// against the same v the outer evaluation is currently looking at.
func evaluateProgram(v Value, program *FilterProgram) []Value {
	return Evaluate(v, program)
}

// applyFilter dispatches a single filter operator to its per-operator
// evaluator. Exactly one field of f is populated; the Filter type's
// precedence note documents why the parse-time alternatives were ordered
// the way they are, which is irrelevant here — by evaluation time the
// ambiguity is already resolved.
func applyFilter(f *Filter, h handle) []handle {
	switch {
	case f.Identity != nil:
		return []handle{h}
	case f.Field != nil:
		return applyField(f.Field, h)
	case f.Index != nil:
		return applyIndex(f.Index, h)
	case f.Iterator != nil:
		return applyIterator(h)
	case f.Object != nil:
		return applyObject(f.Object, h)
	case f.Select != nil:
		return applySelect(f.Select, h)
	default:
		return nil
	}
}

// applyField implements Field(k): [v[k]] if v is an Object holding k, else
// empty — including when v is not an Object at all.
func applyField(ff *FieldFilter, h handle) []handle {
	obj, ok := h.val.AsObject()
	if !ok {
		return nil
	}
	v, ok := obj.Get(ff.Name)
	if !ok {
		return nil
	}
	return []handle{borrowed(v)}
}

// applyIndex implements Index(i): negative indices wrap from the end of the
// array (j := i<0 ? n+i : i), out-of-range j yields empty.
func applyIndex(idx *IndexFilter, h handle) []handle {
	arr, ok := h.val.AsArray()
	if !ok {
		return nil
	}
	n := len(arr)
	j := int(idx.I)
	if j < 0 {
		j += n
	}
	if j < 0 || j >= n {
		return nil
	}
	return []handle{borrowed(arr[j])}
}

// applyIterator implements Iterator: every element of an array, in order;
// empty for anything else.
func applyIterator(h handle) []handle {
	arr, ok := h.val.AsArray()
	if !ok {
		return nil
	}
	out := make([]handle, len(arr))
	for i, v := range arr {
		out[i] = borrowed(v)
	}
	return out
}

// applyObject implements Object construction: the cartesian product across
// pairs' sub-program results, built incrementally left to right. Seeding
// with a single empty partial and folding each pair's results in turn
// produces the required "rightmost pair varies fastest" enumeration order,
// since later pairs form the inner loop of the fold.
//
// If any pair's sub-program yields no results for v, the whole product is
// empty for v — an empty factor annihilates the product.
func applyObject(of *ObjectFilter, h handle) []handle {
	partials := []*Object{NewObject()}

	for _, pair := range of.Pairs {
		results := evaluateProgram(h.val, pair.Value)
		if len(results) == 0 {
			return nil
		}

		next := make([]*Object, 0, len(partials)*len(results))
		for _, partial := range partials {
			for _, r := range results {
				clone := cloneObject(partial)
				clone.Set(pair.Name, r)
				next = append(next, clone)
			}
		}
		partials = next
	}

	out := make([]handle, len(partials))
	for i, p := range partials {
		out[i] = owned(Obj(p))
	}
	return out
}

// cloneObject returns a shallow copy of o, preserving key order. Used so
// that branching the cartesian product fold never mutates a partial object
// shared with a sibling branch.
func cloneObject(o *Object) *Object {
	clone := NewObject()
	for pair := o.Oldest(); pair != nil; pair = pair.Next() {
		clone.Set(pair.Key, pair.Value)
	}
	return clone
}

// applySelect implements Select(path, op, lit): evaluates path against v,
// takes the first result (discarding the rest), and compares it against
// lit. On a true predicate the original handle is re-emitted unchanged —
// not a copy of v's substructure — preserving whatever borrow state it
// already carried.
func applySelect(sf *SelectFilter, h handle) []handle {
	results := evaluateProgram(h.val, sf.Path)
	if len(results) == 0 {
		return nil
	}
	if !compareValueLiteral(results[0], sf.Comparator, sf.Literal) {
		return nil
	}
	return []handle{h}
}
