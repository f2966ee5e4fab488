package extraction

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractTitle", func() {
	It("should return the text after the marker verbatim", func() {
		r := ExtractTitle([]string{"Oryginał  Faktura:  FV 1/2020 "}, 0, DefaultGrammar())
		v, ok := r.Get()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(" FV 1/2020 "))
	})

	It("should report an unlocated title as not found", func() {
		r := ExtractTitle([]string{"Faktura: A"}, NotLocated, DefaultGrammar())
		Expect(r.State).To(Equal(NotFound))
		Expect(r.Value).To(BeEmpty())
	})
})

var _ = Describe("ExtractSettlementDate", func() {
	var (
		line   string
		result Result[time.Time]
	)

	JustBeforeEach(func() {
		result = ExtractSettlementDate([]string{line}, 0, DefaultGrammar())
	})

	When("the line holds a dotted date", func() {
		BeforeEach(func() {
			line = "Data wystawienia: 13.12.2020"
		})

		It("should build the date from day, month and year", func() {
			v, ok := result.Get()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(time.Date(2020, 12, 13, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the date uses another delimiter and trailing text", func() {
		BeforeEach(func() {
			line = "Data wystawienia: 1-2-2021 Warszawa"
		})

		It("should still read the date", func() {
			v, ok := result.Get()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("a no-break space follows the marker", func() {
		BeforeEach(func() {
			line = "Data wystawienia:\u00a013.12.2020"
		})

		It("should read the date", func() {
			v, ok := result.Get()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(time.Date(2020, 12, 13, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the line does not match the grammar", func() {
		BeforeEach(func() {
			line = "Data wystawienia: wkrótce"
		})

		It("should report not found", func() {
			Expect(result.State).To(Equal(NotFound))
			Expect(result.Err).NotTo(HaveOccurred())
		})
	})

	When("the day is out of range", func() {
		BeforeEach(func() {
			line = "Data wystawienia: 32.12.2020"
		})

		It("should be malformed with an invalid date error", func() {
			Expect(result.State).To(Equal(Malformed))
			Expect(result.Err).To(MatchError(ErrInvalidDate))
		})

		It("should carry the raw line", func() {
			var fieldErr *FieldError
			Expect(result.Err).To(BeAssignableToTypeOf(fieldErr))
			Expect(result.Err.(*FieldError).Raw).To(Equal(line))
		})
	})
})

var _ = Describe("ExtractAmounts", func() {
	var (
		line   string
		result Result[Amounts]
	)

	JustBeforeEach(func() {
		result = ExtractAmounts([]string{line}, 0, DefaultGrammar())
	})

	When("amounts are grouped with spaces", func() {
		BeforeEach(func() {
			line = "Razem: 1 000,00 200,00 1 200,00"
		})

		It("should read netto, vat and brutto in order", func() {
			v, ok := result.Get()
			Expect(ok).To(BeTrue())
			Expect(v.Netto.StringFixed(2)).To(Equal("1000.00"))
			Expect(v.VAT.StringFixed(2)).To(Equal("200.00"))
			Expect(v.Brutto.StringFixed(2)).To(Equal("1200.00"))
		})
	})

	When("amounts are grouped with no-break spaces", func() {
		BeforeEach(func() {
			line = "Razem: 12\u00a0345,67 2\u00a0839,50 15\u00a0185,17"
		})

		It("should read every amount", func() {
			v, ok := result.Get()
			Expect(ok).To(BeTrue())
			Expect(v.Netto.StringFixed(2)).To(Equal("12345.67"))
			Expect(v.VAT.StringFixed(2)).To(Equal("2839.50"))
			Expect(v.Brutto.StringFixed(2)).To(Equal("15185.17"))
		})
	})

	When("a no-break space follows the marker", func() {
		BeforeEach(func() {
			line = "Razem:\u00a01 000,00 200,00 1 200,00\u00a0"
		})

		It("should read every amount", func() {
			v, ok := result.Get()
			Expect(ok).To(BeTrue())
			Expect(v.Netto.StringFixed(2)).To(Equal("1000.00"))
			Expect(v.VAT.StringFixed(2)).To(Equal("200.00"))
			Expect(v.Brutto.StringFixed(2)).To(Equal("1200.00"))
		})
	})

	When("only two amounts are present", func() {
		BeforeEach(func() {
			line = "Razem: 1000,00 230,00"
		})

		It("should leave all amounts unset", func() {
			Expect(result.State).To(Equal(NotFound))
			Expect(result.Value).To(Equal(Amounts{}))
		})
	})
})
