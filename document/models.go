// Package document defines invoices, receipts and credit notes together
// with the arithmetic that derives their amounts and totals.
package document

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/id"
	"github.com/xraph/folio/types"
)

// Type is the kind of financial document.
type Type string

const (
	TypeInvoice    Type = "invoice"
	TypeReceipt    Type = "receipt"
	TypeCreditNote Type = "credit_note"
)

// Types lists every document type in display order.
var Types = []Type{TypeInvoice, TypeReceipt, TypeCreditNote}

// Valid reports whether t is a known document type.
func (t Type) Valid() bool {
	switch t {
	case TypeInvoice, TypeReceipt, TypeCreditNote:
		return true
	}
	return false
}

// Label returns the human readable name of the type.
func (t Type) Label() string {
	switch t {
	case TypeInvoice:
		return "Invoice"
	case TypeReceipt:
		return "Receipt"
	case TypeCreditNote:
		return "Credit Note"
	}
	return string(t)
}

// IsDebit reports whether documents of this type increase what the
// client owes. Only invoices do; receipts and credit notes reduce it.
func (t Type) IsDebit() bool { return t == TypeInvoice }

// DefaultStatus is the status a new document of this type starts in.
func (t Type) DefaultStatus() Status {
	if t == TypeInvoice {
		return StatusDraft
	}
	return StatusPaid
}

// Status is the lifecycle state of a document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
	StatusOverdue   Status = "overdue"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusCancelled, StatusOverdue:
		return true
	}
	return false
}

// Document is an invoice, receipt or credit note issued to a client.
// Subtotal, TaxAmount and Total are derived from LineItems and stored
// alongside them; Recalculate keeps them in step.
type Document struct {
	types.Entity
	ID        id.DocumentID   `json:"id"`
	Type      Type            `json:"type"`
	Number    string          `json:"number"`
	EntityID  id.ClientID     `json:"entity_id"`
	Status    Status          `json:"status"`
	IssueDate time.Time       `json:"issue_date"`
	DueDate   *time.Time      `json:"due_date,omitempty"`
	LineItems []LineItem      `json:"line_items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
	Notes     string          `json:"notes,omitempty"`
	Version   int64           `json:"version"`
}

// LineItem is one priced, taxed row of a document. Amount is tax-inclusive.
type LineItem struct {
	ID          id.LineItemID   `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"` // percentage
	Amount      decimal.Decimal `json:"amount"`
}

// Recompute refreshes Amount from Quantity, UnitPrice and TaxRate.
func (li *LineItem) Recompute() {
	li.Amount = ComputeAmount(li.Quantity, li.UnitPrice, li.TaxRate)
}

// Recalculate recomputes every line item amount and the document totals.
func (d *Document) Recalculate() {
	for i := range d.LineItems {
		d.LineItems[i].Recompute()
	}
	t := ComputeTotals(d.LineItems)
	d.Subtotal, d.TaxAmount, d.Total = t.Subtotal, t.TaxAmount, t.Total
}

// Matches reports whether term occurs in the document number or notes,
// ignoring case. An empty term matches every document.
func (d *Document) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Number), term) ||
		strings.Contains(strings.ToLower(d.Notes), term)
}

// IsOverdue reports whether an unpaid invoice is past its due date at now.
func (d *Document) IsOverdue(now time.Time) bool {
	if d.Type != TypeInvoice || d.DueDate == nil {
		return false
	}
	if d.Status == StatusPaid || d.Status == StatusCancelled {
		return false
	}
	return d.DueDate.Before(now)
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	cp := *d
	if d.DueDate != nil {
		due := *d.DueDate
		cp.DueDate = &due
	}
	if d.LineItems != nil {
		cp.LineItems = make([]LineItem, len(d.LineItems))
		copy(cp.LineItems, d.LineItems)
	}
	return &cp
}

// ──────────────────────────────────────────────────
// Inputs
// ──────────────────────────────────────────────────

// Input carries the fields accepted when creating a document. The number,
// amounts and totals are always derived and never taken from the caller.
type Input struct {
	Type      Type            `json:"type"`
	EntityID  id.ClientID     `json:"entity_id"`
	Status    Status          `json:"status,omitempty"` // defaults per type
	IssueDate time.Time       `json:"issue_date"`
	DueDate   *time.Time      `json:"due_date,omitempty"`
	LineItems []LineItemInput `json:"line_items"`
	Notes     string          `json:"notes,omitempty"`
}

// LineItemInput is a line item as submitted by a caller. A nil TaxRate
// falls back to the client's VAT rate, then to the default tax rate.
type LineItemInput struct {
	ID          id.LineItemID    `json:"id,omitempty"`
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty"`
}

// Update is a partial change to a document. Type and number are fixed at
// creation and cannot be changed. A non-nil LineItems replaces the whole
// sequence.
type Update struct {
	EntityID     *id.ClientID     `json:"entity_id,omitempty"`
	Status       *Status          `json:"status,omitempty"`
	IssueDate    *time.Time       `json:"issue_date,omitempty"`
	DueDate      *time.Time       `json:"due_date,omitempty"`
	ClearDueDate bool             `json:"clear_due_date,omitempty"`
	LineItems    *[]LineItemInput `json:"line_items,omitempty"`
	Notes        *string          `json:"notes,omitempty"`

	// ExpectedVersion, when non-zero, must match the stored version.
	ExpectedVersion int64 `json:"expected_version,omitempty"`
}
