package extraction

import (
	"github.com/shopspring/decimal"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseDecimal", func() {
	DescribeTable("recovers the exact value",
		func(raw, expected string) {
			d, err := ParseDecimal(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Equal(decimal.RequireFromString(expected))).To(BeTrue(), "got %s", d)
		},
		Entry("no grouping", "1234,56", "1234.56"),
		Entry("no-break space grouping", "1\u00a0234,56", "1234.56"),
		Entry("space grouping", "1 234,56", "1234.56"),
		Entry("several groups", "12\u00a0345\u00a0678,90", "12345678.90"),
		Entry("integer", "42", "42"),
		Entry("cents", "0,01", "0.01"),
		Entry("negative", "-15,50", "-15.50"),
		Entry("surrounding whitespace", " 230,00 ", "230"),
	)

	DescribeTable("rejects malformed numbers",
		func(raw string) {
			_, err := ParseDecimal(raw)
			Expect(err).To(MatchError(ErrNumericFormat))
		},
		Entry("two decimal separators", "1,234,56"),
		Entry("dot separator", "1234.56"),
		Entry("letters", "12a,00"),
		Entry("empty", ""),
		Entry("dangling separator", "12,"),
	)
})

var _ = Describe("ParseQuantity", func() {
	When("the quantity is whole", func() {
		It("should return the integer", func() {
			q, err := ParseQuantity("3,00")
			Expect(err).NotTo(HaveOccurred())
			Expect(q).To(Equal(3))
		})
	})

	When("the quantity has a fractional part", func() {
		It("should drop it", func() {
			q, err := ParseQuantity("2,75")
			Expect(err).NotTo(HaveOccurred())
			Expect(q).To(Equal(2))
		})
	})

	When("the quantity is malformed", func() {
		It("returns the error", func() {
			_, err := ParseQuantity("x")
			Expect(err).To(MatchError(ErrNumericFormat))
		})
	})

	When("the quantity does not fit an integer", func() {
		It("returns a numeric format error", func() {
			_, err := ParseQuantity("99999999999999999999,00")
			Expect(err).To(MatchError(ErrNumericFormat))
		})
	})
})
