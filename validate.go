package folio

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/settings"
)

func validateClient(c *client.Client) error {
	var errs MultiError
	if c.Name == "" {
		errs.Invalid("name", "is required")
	}
	switch {
	case c.Email == "":
		errs.Invalid("email", "is required")
	case !validEmail(c.Email):
		errs.Invalid("email", "is not a valid address")
	}
	if c.VATRate != nil && c.VATRate.IsNegative() {
		errs.Invalid("vat_rate", "must not be negative")
	}
	return errs.Err()
}

func validEmail(s string) bool {
	local, domain, ok := strings.Cut(s, "@")
	return ok && local != "" && domain != "" && !strings.ContainsFunc(s, unicode.IsSpace)
}

// validateDocument checks the caller-controlled fields of a document.
func validateDocument(d *document.Document, errs *MultiError) {
	if !d.Type.Valid() {
		errs.Invalid("type", fmt.Sprintf("unknown document type %q", d.Type))
	}
	if d.EntityID.IsNil() {
		errs.Invalid("entity_id", "is required")
	}
	if !d.Status.Valid() {
		errs.Invalid("status", fmt.Sprintf("unknown status %q", d.Status))
	}
	if d.IssueDate.IsZero() {
		errs.Invalid("issue_date", "is required")
	}
	if d.DueDate != nil && d.Type != document.TypeInvoice {
		errs.Invalid("due_date", "only invoices have a due date")
	}
}

func validateLineItems(items []document.LineItemInput, errs *MultiError) {
	for i, li := range items {
		field := func(name string) string { return fmt.Sprintf("line_items[%d].%s", i, name) }
		if strings.TrimSpace(li.Description) == "" {
			errs.Invalid(field("description"), "is required")
		}
		if !li.Quantity.IsPositive() {
			errs.Invalid(field("quantity"), "must be greater than zero")
		}
		if li.UnitPrice.IsNegative() {
			errs.Invalid(field("unit_price"), "must not be negative")
		}
		if li.TaxRate != nil && li.TaxRate.IsNegative() {
			errs.Invalid(field("tax_rate"), "must not be negative")
		}
	}
}

func validateSettings(s *settings.Settings) error {
	var errs MultiError
	if s.CompanyName == "" {
		errs.Invalid("company_name", "is required")
	}
	if s.CompanyEmail != "" && !validEmail(s.CompanyEmail) {
		errs.Invalid("company_email", "is not a valid address")
	}
	if len(s.DefaultCurrency) != 3 || strings.IndexFunc(s.DefaultCurrency, func(r rune) bool {
		return r < 'A' || r > 'Z'
	}) >= 0 {
		errs.Invalid("default_currency", "must be a three-letter ISO 4217 code")
	}
	if s.DefaultTaxRate.IsNegative() {
		errs.Invalid("default_tax_rate", "must not be negative")
	}
	for _, t := range document.Types {
		if s.PrefixFor(t) == "" {
			errs.Invalid(prefixField(t), "is required")
		}
	}
	return errs.Err()
}

func prefixField(t document.Type) string {
	return string(t) + "_prefix"
}

// taxRateFor resolves the rate of a submitted line item: its own rate,
// else the client's VAT rate, else the default rate from settings.
func taxRateFor(li document.LineItemInput, c *client.Client, cfg *settings.Settings) decimal.Decimal {
	switch {
	case li.TaxRate != nil:
		return *li.TaxRate
	case c != nil && c.VATRate != nil:
		return *c.VATRate
	default:
		return cfg.DefaultTaxRate
	}
}
