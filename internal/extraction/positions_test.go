package extraction

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pluszkiewicz/przecompany/internal/invoice"
)

var _ = Describe("ExtractPositions", func() {
	var (
		lines  []string
		header int
		result Result[[]invoice.Position]
	)

	table := func(rows ...string) []string {
		out := []string{"Lp Nazwa", "h1", "h2", "h3", "h4"}
		return append(out, rows...)
	}

	BeforeEach(func() {
		header = 0
	})

	JustBeforeEach(func() {
		result = ExtractPositions(lines, header, DefaultGrammar())
	})

	When("the table holds well formed rows", func() {
		BeforeEach(func() {
			lines = table(
				"1 Usługa programistyczna 1,00 szt. 1000,00 23 % 1000,00 230,00 1230,00",
				"2 Licencja roczna 2,00 szt. 500,00 23 % GTU_12 1000,00 230,00 1230,00",
				"3 Dostawa 1,00 kg 10,00 8 % 10,00 0,80 10,80",
				"",
				"Razem: 2 010,00 460,80 2 470,80",
			)
		})

		It("should return one position per row in source order", func() {
			Expect(result.State).To(Equal(Found))
			Expect(result.Value).To(HaveLen(3))
			Expect(result.Value[0].Name).To(Equal("Usługa programistyczna"))
			Expect(result.Value[1].Name).To(Equal("Licencja roczna"))
			Expect(result.Value[2].Name).To(Equal("Dostawa"))
		})

		It("should read every column of a row", func() {
			p := result.Value[1]
			Expect(p.Amount).To(Equal(2))
			Expect(p.UnitType).To(Equal("szt."))
			Expect(p.UnitPriceNetto.StringFixed(2)).To(Equal("500.00"))
			Expect(p.VATPercent).To(Equal(23))
			Expect(*p.GTUCode).To(Equal("GTU_12"))
			Expect(p.TotalAmountNetto.StringFixed(2)).To(Equal("1000.00"))
			Expect(p.TotalVAT.StringFixed(2)).To(Equal("230.00"))
			Expect(p.TotalAmountBrutto.StringFixed(2)).To(Equal("1230.00"))
		})

		It("should leave the GTU code unset when the column is empty", func() {
			Expect(result.Value[0].GTUCode).To(BeNil())
		})

		It("should accept units without a trailing dot", func() {
			Expect(result.Value[2].UnitType).To(Equal("kg"))
			Expect(result.Value[2].VATPercent).To(Equal(8))
		})
	})

	When("cells are padded with no-break spaces", func() {
		BeforeEach(func() {
			lines = table("1 Serwer\u00a0 1,00 szt. 12500,00 23 % 12\u00a0500,00 2\u00a0875,00 15\u00a0375,00")
		})

		It("should strip the padding before matching", func() {
			Expect(result.State).To(Equal(Found))
			Expect(result.Value[0].Name).To(Equal("Serwer"))
			Expect(result.Value[0].TotalAmountBrutto.StringFixed(2)).To(Equal("15375.00"))
		})
	})

	When("totals are grouped with plain spaces", func() {
		BeforeEach(func() {
			lines = table("1 Serwer 1,00 szt. 12500,00 23 % 12 500,00 2 875,00 15 375,00")
		})

		It("should not mistake a thousands group for a GTU code", func() {
			p := result.Value[0]
			Expect(p.GTUCode).To(BeNil())
			Expect(p.TotalAmountNetto.StringFixed(2)).To(Equal("12500.00"))
			Expect(p.TotalVAT.StringFixed(2)).To(Equal("2875.00"))
		})
	})

	When("a quantity is fractional", func() {
		BeforeEach(func() {
			lines = table("1 Kabel 2,50 m 4,00 23 % 10,00 2,30 12,30")
		})

		It("should truncate it", func() {
			Expect(result.Value[0].Amount).To(Equal(2))
		})
	})

	When("the table has n rows", func() {
		const n = 12

		BeforeEach(func() {
			rows := make([]string, 0, n+1)
			for i := 1; i <= n; i++ {
				rows = append(rows, fmt.Sprintf("%d Pozycja %c 1,00 szt. %d,00 23 %% %d,00 0,00 %d,00", i, 'a'+rune(i-1), i, i, i))
			}
			lines = table(append(rows, "")...)
		})

		It("should return exactly n positions in order", func() {
			Expect(result.Value).To(HaveLen(n))
			for i, p := range result.Value {
				Expect(p.UnitPriceNetto.IntPart()).To(Equal(int64(i + 1)))
			}
		})
	})

	When("a malformed row sits between well formed rows", func() {
		BeforeEach(func() {
			lines = table(
				"1 Usługa programistyczna 1,00 szt. 1000,00 23 % 1000,00 230,00 1230,00",
				"2 Licencja roczna dwie sztuki",
				"3 Dostawa 1,00 kg 10,00 8 % 10,00 0,80 10,80",
				"",
			)
		})

		It("returns a row error instead of dropping the row", func() {
			Expect(result.State).To(Equal(Malformed))
			Expect(result.Err).To(MatchError(ErrMalformedRow))
			Expect(result.Err).To(MatchError(ErrGrammarMismatch))
		})

		It("should name the row and carry its text", func() {
			fieldErr, ok := result.Err.(*FieldError)
			Expect(ok).To(BeTrue())
			Expect(fieldErr.Field).To(Equal("positions[1]"))
			Expect(fieldErr.Raw).To(Equal("2 Licencja roczna dwie sztuki"))
		})
	})

	When("the table runs to the end of the document", func() {
		BeforeEach(func() {
			lines = table("1 Kabel 1,00 m 4,00 23 % 4,00 0,92 4,92")
		})

		It("should stop at the last line", func() {
			Expect(result.Value).To(HaveLen(1))
		})
	})

	When("the header has no rows below it", func() {
		BeforeEach(func() {
			lines = []string{"Lp Nazwa", "h1"}
		})

		It("returns a section error", func() {
			Expect(result.Err).To(MatchError(ErrSectionNotFound))
		})
	})

	When("the table header was not located", func() {
		BeforeEach(func() {
			lines = table()
			header = NotLocated
		})

		It("should report not found", func() {
			Expect(result.State).To(Equal(NotFound))
		})
	})
})
