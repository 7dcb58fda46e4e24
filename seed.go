package folio

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
)

// Seed loads a small demonstration data set: three clients and two
// invoices. It does nothing and reports false when any client or document
// already exists. Concurrent calls are serialised, so at most one of them
// loads data.
func (f *Folio) Seed(ctx context.Context) (bool, error) {
	f.seedMu.Lock()
	defer f.seedMu.Unlock()

	clients, err := f.store.ListClients(ctx, client.ListOpts{Limit: 1})
	if err != nil {
		return false, fmt.Errorf("folio: seed: %w", err)
	}
	docs, err := f.store.CountDocuments(ctx, document.ListOpts{})
	if err != nil {
		return false, fmt.Errorf("folio: seed: %w", err)
	}
	if len(clients) > 0 || docs > 0 {
		return false, nil
	}

	rate := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}
	sample := []client.Input{
		{
			Name:      "Acme Corporation",
			Email:     "billing@acme.com",
			Phone:     "+1 (555) 123-4567",
			Address:   "123 Business St, Suite 100\nNew York, NY 10001",
			TaxNumber: "TAX-123456",
			VATRate:   rate(20),
		},
		{
			Name:      "Tech Solutions LLC",
			Email:     "accounts@techsolutions.com",
			Phone:     "+1 (555) 987-6543",
			Address:   "456 Innovation Drive\nSan Francisco, CA 94102",
			TaxNumber: "TAX-789012",
			VATRate:   rate(18),
		},
		{
			Name:      "Global Enterprises",
			Email:     "finance@globalent.com",
			Phone:     "+1 (555) 246-8135",
			Address:   "789 Corporate Plaza\nChicago, IL 60601",
			TaxNumber: "TAX-345678",
			VATRate:   rate(20),
		},
	}

	created := make([]*client.Client, 0, len(sample))
	for _, in := range sample {
		c, err := f.CreateClient(ctx, in)
		if err != nil {
			return false, fmt.Errorf("folio: seed client %q: %w", in.Name, err)
		}
		created = append(created, c)
	}

	day := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC) }
	due := func(m time.Month, d int) *time.Time { t := day(m, d); return &t }
	qty := decimal.NewFromInt

	invoices := []document.Input{
		{
			Type:      document.TypeInvoice,
			EntityID:  created[0].ID,
			Status:    document.StatusPaid,
			IssueDate: day(time.January, 15),
			DueDate:   due(time.February, 15),
			LineItems: []document.LineItemInput{
				{Description: "Website Development Services", Quantity: qty(40), UnitPrice: qty(150)},
				{Description: "UI/UX Design", Quantity: qty(20), UnitPrice: qty(100)},
			},
			Notes: "Thank you for your business!",
		},
		{
			Type:      document.TypeInvoice,
			EntityID:  created[1].ID,
			Status:    document.StatusSent,
			IssueDate: day(time.January, 16),
			DueDate:   due(time.February, 16),
			LineItems: []document.LineItemInput{
				{Description: "Consulting Services", Quantity: qty(10), UnitPrice: qty(200)},
			},
			Notes: "Payment due within 30 days",
		},
	}
	for _, in := range invoices {
		if _, err := f.CreateDocument(ctx, in); err != nil {
			return false, fmt.Errorf("folio: seed document: %w", err)
		}
	}

	f.logger.Info("sample data loaded", "clients", len(created), "documents", len(invoices))
	return true, nil
}
