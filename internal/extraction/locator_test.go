package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Locate", func() {
	var (
		lines    []string
		sections Sections
	)

	JustBeforeEach(func() {
		sections = Locate(lines, DefaultGrammar())
	})

	When("every marker is present", func() {
		BeforeEach(func() {
			lines = invoiceLines()
		})

		It("should find the single line sections", func() {
			Expect(sections.Title).To(Equal(0))
			Expect(sections.SettlementDate).To(Equal(1))
			Expect(sections.PositionsHeader).To(Equal(15))
			Expect(sections.Summary).To(Equal(23))
		})

		It("should start the seller block after its marker", func() {
			Expect(sections.SellerStart).To(Equal(3))
			Expect(sections.SellerEnd(len(lines))).To(Equal(8))
		})

		It("should start the buyer block after the first blank line", func() {
			Expect(sections.BuyerStart).To(Equal(9))
		})

		It("should end the buyer block at the second blank line", func() {
			Expect(sections.SectionEnd).To(Equal(14))
			Expect(sections.BuyerEnd(len(lines))).To(Equal(14))
		})
	})

	When("there are no lines", func() {
		BeforeEach(func() {
			lines = nil
		})

		It("should locate nothing", func() {
			Expect(sections).To(Equal(Sections{
				Title:           NotLocated,
				SettlementDate:  NotLocated,
				Summary:         NotLocated,
				PositionsHeader: NotLocated,
				SellerStart:     NotLocated,
				BuyerStart:      NotLocated,
				SectionEnd:      NotLocated,
			}))
		})
	})

	When("blank lines precede the seller marker", func() {
		BeforeEach(func() {
			lines = []string{"", "Sprzedawca", "A", "B", "", "C", "\u00a0\u00a0", "D"}
		})

		It("should only count blank lines after the marker", func() {
			Expect(sections.SellerStart).To(Equal(2))
			Expect(sections.BuyerStart).To(Equal(5))
			Expect(sections.SectionEnd).To(Equal(6))
		})
	})

	When("the seller block is never closed", func() {
		BeforeEach(func() {
			lines = []string{"Sprzedawca", "A", "B"}
		})

		It("should leave the buyer unlocated", func() {
			Expect(sections.BuyerStart).To(Equal(NotLocated))
			Expect(sections.SellerEnd(len(lines))).To(Equal(3))
		})
	})

	When("a marker appears twice", func() {
		BeforeEach(func() {
			lines = []string{"Faktura: A", "Faktura: B"}
		})

		It("should keep the first occurrence", func() {
			Expect(sections.Title).To(Equal(0))
		})
	})
})
