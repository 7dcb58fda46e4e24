// Package client defines the billed party that documents are issued against.
package client

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/id"
	"github.com/xraph/folio/types"
)

// Client is a business or person documents are issued to.
// Optional fields are omitted from JSON when unset so that a client
// round-trips with exactly the fields it was created with.
type Client struct {
	types.Entity
	ID        id.ClientID      `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone,omitempty"`
	Address   string           `json:"address,omitempty"`
	TaxNumber string           `json:"tax_number,omitempty"`
	VATRate   *decimal.Decimal `json:"vat_rate,omitempty"` // percentage, e.g. 20 for 20%
	Version   int64            `json:"version"`
}

// Input carries the fields accepted when creating a client.
type Input struct {
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone,omitempty"`
	Address   string           `json:"address,omitempty"`
	TaxNumber string           `json:"tax_number,omitempty"`
	VATRate   *decimal.Decimal `json:"vat_rate,omitempty"`
}

// Normalize trims surrounding whitespace from every text field.
func (in *Input) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.TaxNumber = strings.TrimSpace(in.TaxNumber)
}

// Update is a partial change to a client. Nil fields are left untouched;
// a pointer to an empty string clears an optional text field.
type Update struct {
	Name         *string          `json:"name,omitempty"`
	Email        *string          `json:"email,omitempty"`
	Phone        *string          `json:"phone,omitempty"`
	Address      *string          `json:"address,omitempty"`
	TaxNumber    *string          `json:"tax_number,omitempty"`
	VATRate      *decimal.Decimal `json:"vat_rate,omitempty"`
	ClearVATRate bool             `json:"clear_vat_rate,omitempty"`

	// ExpectedVersion, when non-zero, must match the stored version.
	ExpectedVersion int64 `json:"expected_version,omitempty"`
}

// Apply merges u into c. It reports whether anything was set.
func (u Update) Apply(c *Client) bool {
	changed := false
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			changed = true
		}
	}
	set(&c.Name, u.Name)
	set(&c.Email, u.Email)
	set(&c.Phone, u.Phone)
	set(&c.Address, u.Address)
	set(&c.TaxNumber, u.TaxNumber)

	switch {
	case u.ClearVATRate:
		c.VATRate = nil
		changed = true
	case u.VATRate != nil:
		rate := *u.VATRate
		c.VATRate = &rate
		changed = true
	}
	return changed
}

// Matches reports whether the client's name or email contains term,
// ignoring case. An empty term matches every client.
func (c *Client) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), term) ||
		strings.Contains(strings.ToLower(c.Email), term)
}
