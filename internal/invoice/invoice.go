package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a parsed invoice document. Pointer fields are nil when the
// source document did not contain them.
type Invoice struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	SettlementDate *time.Time       `json:"settlement_date,omitempty"`
	AmountNetto    *decimal.Decimal `json:"amount_netto,omitempty"`
	AmountBrutto   *decimal.Decimal `json:"amount_brutto,omitempty"`
	VAT            *decimal.Decimal `json:"vat,omitempty"`
	Seller         *Company         `json:"seller,omitempty"`
	Buyer          *Company         `json:"buyer,omitempty"`
	Positions      []Position       `json:"positions"` // In source table order
	Filename       string           `json:"filename,omitempty"`     // Stored source document
	ContentType    string           `json:"content_type,omitempty"` // Of the stored source document
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Company is the seller or buyer of an invoice
type Company struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
	Country string  `json:"country"`
	NIP     *int64  `json:"nip,omitempty"` // Tax identification number
}

// Address of a company
type Address struct {
	Street          *string `json:"street,omitempty"`
	HouseNumber     *string `json:"house_number,omitempty"`
	ApartmentNumber *string `json:"apartment_number,omitempty"`
	ZipCode         string  `json:"zip_code"`
	City            string  `json:"city"`
}

// Position is one row of the invoice positions table
type Position struct {
	Name              string          `json:"name"`
	Amount            int             `json:"amount"` // Quantity, fractional part dropped
	UnitType          string          `json:"unit_type"`
	UnitPriceNetto    decimal.Decimal `json:"unit_price_netto"`
	TotalAmountNetto  decimal.Decimal `json:"total_amount_netto"`
	TotalAmountBrutto decimal.Decimal `json:"total_amount_brutto"`
	TotalVAT          decimal.Decimal `json:"total_vat"`
	VATPercent        int             `json:"vat_percent"`
	GTUCode           *string         `json:"gtu_code,omitempty"`
}
