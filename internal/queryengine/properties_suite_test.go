// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package queryengine_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/rjq-project/rjq/internal/queryengine"
)

func TestQueryEngineProperties(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Query Engine Properties Suite")
}

func decode(text string) queryengine.Value {
	v, err := queryengine.FromJSONText(text)
	Expect(err).NotTo(HaveOccurred())
	return v
}

var _ = Describe("Parser properties", func() {
	// P1 — total on grammar: every query matching the surface grammar
	// parses with nothing left over.
	Describe("P1: total on grammar", func() {
		DescribeTable("parses successfully",
			func(query string) {
				program, err := queryengine.Parse(query)
				Expect(err).NotTo(HaveOccurred())
				Expect(program.Filters).NotTo(BeEmpty())
			},
			Entry("identity", "."),
			Entry("field", ".a"),
			Entry("iterator", ".[]"),
			Entry("index", ".[3]"),
			Entry("negative index", ".[-3]"),
			Entry("pipe chain", ".a | .b | .c"),
			Entry("object", "{k: .a, v: .b}"),
			Entry("select", "select(.a == 1)"),
			Entry("nested select", ".users[] | select(.age >= 18) | .name"),
		)
	})

	// P2 — identity roundtrip: parse(pp(p)) == p, compared via re-printing.
	Describe("P2: identity roundtrip", func() {
		DescribeTable("pretty-printing and reparsing is idempotent",
			func(query string) {
				program, err := queryengine.Parse(query)
				Expect(err).NotTo(HaveOccurred())

				rendered := program.String()
				reparsed, err := queryengine.Parse(rendered)
				Expect(err).NotTo(HaveOccurred())
				Expect(reparsed.String()).To(Equal(rendered))
			},
			Entry("identity", "."),
			Entry("field chain", ".a | .b"),
			Entry("object", "{k: .a, v: .b}"),
			Entry("select", "select(.age >= 18)"),
		)
	})

	// P3 — extra input is visible: unconsumed input is never silently
	// dropped, it surfaces as a parse failure naming the leftover text.
	Describe("P3: extra input is visible", func() {
		It("rejects unconsumed trailing input", func() {
			_, err := queryengine.Parse(".a $$$")
			Expect(err).To(HaveOccurred())
		})

		It("rejects filters glued together without a pipe", func() {
			_, err := queryengine.Parse(".a .b")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("Evaluator properties", func() {
	// E1 — identity.
	It("E1: evaluate(v, [Identity]) = [v] for all v", func() {
		for _, text := range []string{"null", "true", "1", `"s"`, "[1,2]", `{"a":1}`} {
			v := decode(text)
			program, err := queryengine.Parse(".")
			Expect(err).NotTo(HaveOccurred())

			out := queryengine.Evaluate(v, program)
			Expect(out).To(HaveLen(1))
			Expect(out[0].Equal(v)).To(BeTrue())
		}
	})

	// E2 — silent empty.
	It("E2: shape mismatches produce no entries", func() {
		program, err := queryengine.Parse(".a")
		Expect(err).NotTo(HaveOccurred())

		out := queryengine.Evaluate(decode("[1,2,3]"), program)
		Expect(out).To(BeEmpty())
	})

	// E3 — iterator distributivity.
	It("E3: evaluate(v, [Iterator]++P) concatenates per-element results", func() {
		program, err := queryengine.Parse(".[] | .a")
		Expect(err).NotTo(HaveOccurred())

		out := queryengine.Evaluate(decode(`[{"a":1},{"a":2}]`), program)
		Expect(out).To(HaveLen(2))
	})

	// E4 — index round-trip.
	It("E4: v[i] and v[i-n] address the same element", func() {
		v := decode(`["a","b","c"]`)
		posProgram, err := queryengine.Parse(".[1]")
		Expect(err).NotTo(HaveOccurred())
		negProgram, err := queryengine.Parse(".[-2]")
		Expect(err).NotTo(HaveOccurred())

		pos := queryengine.Evaluate(v, posProgram)
		neg := queryengine.Evaluate(v, negProgram)
		Expect(pos).To(HaveLen(1))
		Expect(neg).To(HaveLen(1))
		Expect(pos[0].Equal(neg[0])).To(BeTrue())
	})

	// E5 — object cartesian: rightmost pair varies fastest.
	It("E5: object construction is the cartesian product in declared order", func() {
		program, err := queryengine.Parse("{a: .a[], b: .b}")
		Expect(err).NotTo(HaveOccurred())

		out := queryengine.Evaluate(decode(`{"a":[1,2],"b":3}`), program)
		Expect(out).To(HaveLen(2))
		Expect(out[0].Equal(decode(`{"a":1,"b":3}`))).To(BeTrue())
		Expect(out[1].Equal(decode(`{"a":2,"b":3}`))).To(BeTrue())
	})

	// E6 — empty annihilates product.
	It("E6: an empty pair factor annihilates the whole product", func() {
		program, err := queryengine.Parse("{a: .a[], b: .b}")
		Expect(err).NotTo(HaveOccurred())

		out := queryengine.Evaluate(decode(`{"a":[],"b":3}`), program)
		Expect(out).To(BeEmpty())
	})

	// E7 — select preserves input.
	It("E7: select re-emits the matched value itself", func() {
		v := decode(`{"age":20}`)
		program, err := queryengine.Parse("select(.age >= 18)")
		Expect(err).NotTo(HaveOccurred())

		out := queryengine.Evaluate(v, program)
		Expect(out).To(HaveLen(1))
		Expect(out[0].Equal(v)).To(BeTrue())
	})
})
