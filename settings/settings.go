// Package settings holds the company-wide configuration that documents are
// issued under: company identity, currency, default tax rate and the
// number prefix of each document type.
package settings

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/document"
)

// Settings is the single configuration record. It is read at the start of
// each operation that needs it and passed along explicitly.
type Settings struct {
	CompanyName      string          `json:"company_name" yaml:"company_name" mapstructure:"company_name"`
	CompanyEmail     string          `json:"company_email" yaml:"company_email" mapstructure:"company_email"`
	CompanyPhone     string          `json:"company_phone,omitempty" yaml:"company_phone" mapstructure:"company_phone"`
	CompanyAddress   string          `json:"company_address,omitempty" yaml:"company_address" mapstructure:"company_address"`
	TaxNumber        string          `json:"tax_number,omitempty" yaml:"tax_number" mapstructure:"tax_number"`
	Logo             string          `json:"logo,omitempty" yaml:"logo" mapstructure:"logo"`
	DefaultCurrency  string          `json:"default_currency" yaml:"default_currency" mapstructure:"default_currency"`
	DefaultTaxRate   decimal.Decimal `json:"default_tax_rate" yaml:"default_tax_rate" mapstructure:"default_tax_rate"`
	InvoicePrefix    string          `json:"invoice_prefix" yaml:"invoice_prefix" mapstructure:"invoice_prefix"`
	ReceiptPrefix    string          `json:"receipt_prefix" yaml:"receipt_prefix" mapstructure:"receipt_prefix"`
	CreditNotePrefix string          `json:"credit_note_prefix" yaml:"credit_note_prefix" mapstructure:"credit_note_prefix"`
}

// Default returns the settings used before any have been saved.
func Default() Settings {
	return Settings{
		CompanyName:      "My Company",
		CompanyEmail:     "hello@mycompany.com",
		DefaultCurrency:  "USD",
		DefaultTaxRate:   decimal.NewFromInt(20),
		InvoicePrefix:    "INV-",
		ReceiptPrefix:    "REC-",
		CreditNotePrefix: "CN-",
	}
}

// PrefixFor returns the number prefix configured for t.
func (s Settings) PrefixFor(t document.Type) string {
	switch t {
	case document.TypeInvoice:
		return s.InvoicePrefix
	case document.TypeReceipt:
		return s.ReceiptPrefix
	case document.TypeCreditNote:
		return s.CreditNotePrefix
	}
	return ""
}

// Normalize trims text fields and upper-cases the currency code.
func (s *Settings) Normalize() {
	s.CompanyName = strings.TrimSpace(s.CompanyName)
	s.CompanyEmail = strings.TrimSpace(s.CompanyEmail)
	s.CompanyPhone = strings.TrimSpace(s.CompanyPhone)
	s.CompanyAddress = strings.TrimSpace(s.CompanyAddress)
	s.TaxNumber = strings.TrimSpace(s.TaxNumber)
	s.DefaultCurrency = strings.ToUpper(strings.TrimSpace(s.DefaultCurrency))
}

// Store persists the settings record.
type Store interface {
	// Get returns the saved settings, or Default() when none were saved.
	Get(ctx context.Context) (*Settings, error)
	// Save overwrites the saved settings wholesale.
	Save(ctx context.Context, s *Settings) error
}
