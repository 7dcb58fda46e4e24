package folio

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/document"
)

// recentLimit is how many documents Summary lists as recent activity.
const recentLimit = 5

// Summary is the dashboard overview of invoicing activity.
type Summary struct {
	Currency        string               `json:"currency"`
	TotalInvoices   int                  `json:"total_invoices"`
	PaidInvoices    int                  `json:"paid_invoices"`
	UnpaidInvoices  int                  `json:"unpaid_invoices"`  // draft or sent
	OverdueInvoices int                  `json:"overdue_invoices"` // unpaid and past due
	Revenue         decimal.Decimal      `json:"revenue"`          // total of paid invoices
	Outstanding     decimal.Decimal      `json:"outstanding"`      // total of draft, sent and overdue invoices
	Recent          []*document.Document `json:"recent"`
}

// Summary computes the dashboard figures.
func (f *Folio) Summary(ctx context.Context) (*Summary, error) {
	cfg, err := f.store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("folio: load settings: %w", err)
	}
	docs, err := f.store.ListDocuments(ctx, document.ListOpts{})
	if err != nil {
		return nil, fmt.Errorf("folio: list documents: %w", err)
	}

	now := f.now()
	sum := &Summary{
		Currency:    cfg.DefaultCurrency,
		Revenue:     decimal.Zero,
		Outstanding: decimal.Zero,
	}
	for _, d := range docs {
		if d.Type != document.TypeInvoice {
			continue
		}
		sum.TotalInvoices++
		switch d.Status {
		case document.StatusPaid:
			sum.PaidInvoices++
			sum.Revenue = sum.Revenue.Add(d.Total)
		case document.StatusDraft, document.StatusSent:
			sum.UnpaidInvoices++
			sum.Outstanding = sum.Outstanding.Add(d.Total)
		case document.StatusOverdue:
			sum.Outstanding = sum.Outstanding.Add(d.Total)
		}
		// Cancelled invoices are never overdue, whatever their due date.
		if d.Status == document.StatusOverdue || d.IsOverdue(now) {
			sum.OverdueInvoices++
		}
	}

	// Newest first; documents stamped with the same instant keep reverse
	// creation order.
	recent := make([]*document.Document, 0, len(docs))
	for i := len(docs) - 1; i >= 0; i-- {
		recent = append(recent, docs[i])
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	sum.Recent = recent

	return sum, nil
}
