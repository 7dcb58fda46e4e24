package folio_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/folio"
	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/store/memory"
)

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock(start time.Time) *stepClock { return &stepClock{t: start} }

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newEngine(t *testing.T, opts ...folio.Option) *folio.Folio {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	base := []folio.Option{
		folio.WithLogger(logger),
		folio.WithClock(newStepClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)).Now),
	}
	f := folio.New(memory.New(), append(base, opts...)...)
	require.NoError(t, f.Start(context.Background()))
	t.Cleanup(func() { _ = f.Stop() })
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func day(m time.Month, d int) time.Time { return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC) }

func mustClient(t *testing.T, f *folio.Folio, name string, vat *decimal.Decimal) *client.Client {
	t.Helper()
	c, err := f.CreateClient(context.Background(), client.Input{
		Name:    name,
		Email:   "billing@" + name + ".test",
		VATRate: vat,
	})
	require.NoError(t, err)
	return c
}

func item(desc, qty, price string, rate *decimal.Decimal) document.LineItemInput {
	return document.LineItemInput{Description: desc, Quantity: dec(qty), UnitPrice: dec(price), TaxRate: rate}
}

func mustDocument(t *testing.T, f *folio.Folio, typ document.Type, c *client.Client, issued time.Time, items ...document.LineItemInput) *document.Document {
	t.Helper()
	d, err := f.CreateDocument(context.Background(), document.Input{
		Type:      typ,
		EntityID:  c.ID,
		IssueDate: issued,
		LineItems: items,
	})
	require.NoError(t, err)
	return d
}

type recorder struct {
	mu         sync.Mutex
	created    []string
	updated    []string
	deleted    []string
	collisions []string
	clients    int
}

func (r *recorder) Name() string { return "recorder" }

func (r *recorder) OnClientCreated(_ context.Context, _ *client.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients++
	return nil
}

func (r *recorder) OnDocumentCreated(_ context.Context, d *document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, d.Number)
	return nil
}

func (r *recorder) OnDocumentUpdated(_ context.Context, _, d *document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, d.Number)
	return nil
}

func (r *recorder) OnDocumentDeleted(_ context.Context, d *document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, d.Number)
	return errors.New("hook failures are logged, not returned")
}

func (r *recorder) OnNumberCollision(_ context.Context, _ document.Type, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collisions = append(r.collisions, number)
	return nil
}

// ──────────────────────────────────────────────────
// Totals and statements
// ──────────────────────────────────────────────────

func TestCreateDocumentComputesTotals(t *testing.T) {
	f := newEngine(t)
	c := mustClient(t, f, "acme", nil)

	d := mustDocument(t, f, document.TypeInvoice, c, day(1, 15),
		item("Website Development Services", "40", "150", ptr(dec("20"))),
		item("UI/UX Design", "20", "100", ptr(dec("20"))),
	)

	require.Len(t, d.LineItems, 2)
	assert.True(t, d.LineItems[0].Amount.Equal(dec("7200")), "first amount %s", d.LineItems[0].Amount)
	assert.True(t, d.LineItems[1].Amount.Equal(dec("2400")), "second amount %s", d.LineItems[1].Amount)
	assert.True(t, d.Subtotal.Equal(dec("8000")), "subtotal %s", d.Subtotal)
	assert.True(t, d.TaxAmount.Equal(dec("1600")), "tax %s", d.TaxAmount)
	assert.True(t, d.Total.Equal(dec("9600")), "total %s", d.Total)
	assert.Equal(t, "Website Development Services", d.LineItems[0].Description)
	assert.False(t, d.LineItems[0].ID.IsNil())

	stored, err := f.GetDocument(context.Background(), d.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(dec("9600")))
	assert.Equal(t, d.Number, stored.Number)
}

func TestEmptyDocumentHasZeroTotals(t *testing.T) {
	f := newEngine(t)
	c := mustClient(t, f, "acme", nil)

	d := mustDocument(t, f, document.TypeCreditNote, c, day(1, 1))
	assert.True(t, d.Subtotal.IsZero())
	assert.True(t, d.TaxAmount.IsZero())
	assert.True(t, d.Total.IsZero())
}

func TestStatementRunningBalance(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	c := mustClient(t, f, "acme", nil)
	other := mustClient(t, f, "other", nil)

	receipt := mustDocument(t, f, document.TypeReceipt, c, day(1, 20), item("Payment", "1", "4000", ptr(dec("0"))))
	invoice := mustDocument(t, f, document.TypeInvoice, c, day(1, 15),
		item("Website Development Services", "40", "150", ptr(dec("20"))),
		item("UI/UX Design", "20", "100", ptr(dec("20"))),
	)
	mustDocument(t, f, document.TypeInvoice, other, day(1, 10), item("Unrelated", "1", "999", nil))

	st, err := f.Statement(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, st.Rows, 2)

	assert.Equal(t, invoice.ID, st.Rows[0].DocumentID)
	assert.True(t, st.Rows[0].Debit.Equal(dec("9600")))
	assert.True(t, st.Rows[0].Credit.IsZero())
	assert.True(t, st.Rows[0].Balance.Equal(dec("9600")))

	assert.Equal(t, receipt.ID, st.Rows[1].DocumentID)
	assert.True(t, st.Rows[1].Debit.IsZero())
	assert.True(t, st.Rows[1].Credit.Equal(dec("4000")))
	assert.True(t, st.Rows[1].Balance.Equal(dec("5600")))
	assert.True(t, st.Balance.Equal(dec("5600")))

	empty, err := f.Statement(ctx, id.Nil)
	require.NoError(t, err)
	assert.True(t, empty.Empty())
}

// ──────────────────────────────────────────────────
// Numbering
// ──────────────────────────────────────────────────

func TestCountPolicyReissuesNumberAfterDeletion(t *testing.T) {
	rec := &recorder{}
	f := newEngine(t, folio.WithNumberingPolicy(numbering.PolicyCount), folio.WithPlugin(rec))
	ctx := context.Background()
	c := mustClient(t, f, "acme", nil)

	var docs []*document.Document
	for i := 0; i < 3; i++ {
		docs = append(docs, mustDocument(t, f, document.TypeInvoice, c, day(1, 1+i), item("Work", "1", "100", nil)))
	}
	assert.Equal(t, "INV-0001", docs[0].Number)
	assert.Equal(t, "INV-0002", docs[1].Number)
	assert.Equal(t, "INV-0003", docs[2].Number)

	require.NoError(t, f.DeleteDocument(ctx, docs[0].ID))

	// Known gap of count-based numbering: the next number repeats INV-0003.
	again := mustDocument(t, f, document.TypeInvoice, c, day(1, 10), item("Work", "1", "100", nil))
	assert.Equal(t, "INV-0003", again.Number)
	assert.Equal(t, []string{"INV-0003"}, rec.collisions)

	conflicts, err := f.NumberingConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "INV-0003", conflicts[0].Number)
	assert.ElementsMatch(t, []string{docs[2].ID.String(), again.ID.String()}, conflicts[0].DocumentIDs)
}

func TestMonotonicPolicyNeverReusesNumbers(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	c := mustClient(t, f, "acme", nil)

	var docs []*document.Document
	for i := 0; i < 3; i++ {
		docs = append(docs, mustDocument(t, f, document.TypeInvoice, c, day(1, 1+i), item("Work", "1", "100", nil)))
	}
	require.NoError(t, f.DeleteDocument(ctx, docs[2].ID))
	require.NoError(t, f.DeleteDocument(ctx, docs[0].ID))

	next := mustDocument(t, f, document.TypeInvoice, c, day(1, 10), item("Work", "1", "100", nil))
	assert.Equal(t, "INV-0004", next.Number)

	conflicts, err := f.NumberingConflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestNextNumberIsIdempotent(t *testing.T) {
	for _, policy := range []numbering.Policy{numbering.PolicyMonotonic, numbering.PolicyCount} {
		t.Run(string(policy), func(t *testing.T) {
			f := newEngine(t, folio.WithNumberingPolicy(policy))
			ctx := context.Background()
			c := mustClient(t, f, "acme", nil)
			mustDocument(t, f, document.TypeInvoice, c, day(1, 1), item("Work", "1", "100", nil))

			first, err := f.NextNumber(ctx, document.TypeInvoice)
			require.NoError(t, err)
			second, err := f.NextNumber(ctx, document.TypeInvoice)
			require.NoError(t, err)
			assert.Equal(t, "INV-0002", first)
			assert.Equal(t, first, second)

			created := mustDocument(t, f, document.TypeInvoice, c, day(1, 2), item("Work", "1", "100", nil))
			assert.Equal(t, first, created.Number)
		})
	}
}

func TestNumbersArePerTypeAndUsePrefixes(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	c := mustClient(t, f, "acme", nil)

	inv := mustDocument(t, f, document.TypeInvoice, c, day(1, 1), item("Work", "1", "100", nil))
	rec := mustDocument(t, f, document.TypeReceipt, c, day(1, 2), item("Payment", "1", "100", nil))
	cn := mustDocument(t, f, document.TypeCreditNote, c, day(1, 3), item("Refund", "1", "10", nil))
	assert.Equal(t, "INV-0001", inv.Number)
	assert.Equal(t, "REC-0001", rec.Number)
	assert.Equal(t, "CN-0001", cn.Number)

	cfg, err := f.Settings(ctx)
	require.NoError(t, err)
	cfg.InvoicePrefix = "BILL/"
	_, err = f.SaveSettings(ctx, *cfg)
	require.NoError(t, err)

	next := mustDocument(t, f, document.TypeInvoice, c, day(1, 4), item("Work", "1", "100", nil))
	assert.Equal(t, "BILL/0002", next.Number)

	_, err = f.NextNumber(ctx, document.Type("quote"))
	assert.True(t, folio.IsValidation(err))
}

// ──────────────────────────────────────────────────
// Defaults and validation
// ──────────────────────────────────────────────────

func TestStatusDefaultsPerType(t *testing.T) {
	f := newEngine(t)
	c := mustClient(t, f, "acme", nil)

	tests := []struct {
		typ  document.Type
		want document.Status
	}{
		{document.TypeInvoice, document.StatusDraft},
		{document.TypeReceipt, document.StatusPaid},
		{document.TypeCreditNote, document.StatusPaid},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			d := mustDocument(t, f, tt.typ, c, day(2, 1), item("x", "1", "1", nil))
			assert.Equal(t, tt.want, d.Status)
		})
	}
}

func TestTaxRateFallbacks(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	withVAT := mustClient(t, f, "tech", ptr(dec("18")))
	withoutVAT := mustClient(t, f, "global", nil)

	d := mustDocument(t, f, document.TypeInvoice, withVAT, day(1, 16), item("Consulting Services", "10", "200", nil))
	assert.True(t, d.LineItems[0].TaxRate.Equal(dec("18")))
	assert.True(t, d.Total.Equal(dec("2360")), "total %s", d.Total)

	d = mustDocument(t, f, document.TypeInvoice, withoutVAT, day(1, 16), item("Consulting Services", "10", "200", nil))
	assert.True(t, d.LineItems[0].TaxRate.Equal(dec("20")), "settings default applies")

	d = mustDocument(t, f, document.TypeInvoice, withVAT, day(1, 16), item("Exempt", "10", "200", ptr(decimal.Zero)))
	assert.True(t, d.TaxAmount.IsZero(), "explicit zero rate wins over client VAT")

	cfg, err := f.Settings(ctx)
	require.NoError(t, err)
	cfg.DefaultTaxRate = dec("7.5")
	_, err = f.SaveSettings(ctx, *cfg)
	require.NoError(t, err)

	d = mustDocument(t, f, document.TypeInvoice, withoutVAT, day(1, 17), item("Support", "1", "100", nil))
	assert.True(t, d.Total.Equal(dec("107.5")), "total %s", d.Total)
}

func TestCreateClientValidation(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		in     client.Input
		fields []string
	}{
		{"missing everything", client.Input{}, []string{"name", "email"}},
		{"blank name", client.Input{Name: "   ", Email: "a@b.c"}, []string{"name"}},
		{"bad email", client.Input{Name: "Acme", Email: "acme.com"}, []string{"email"}},
		{"negative vat", client.Input{Name: "Acme", Email: "a@b.c", VATRate: ptr(dec("-1"))}, []string{"vat_rate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.CreateClient(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, folio.IsValidation(err))
			assert.ElementsMatch(t, tt.fields, invalidFields(err))
		})
	}

	clients, err := f.ListClients(ctx, client.ListOpts{})
	require.NoError(t, err)
	assert.Empty(t, clients, "rejected input must not be stored")
}

func TestCreateDocumentValidation(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	c := mustClient(t, f, "acme", nil)
	due := day(2, 1)

	tests := []struct {
		name   string
		in     document.Input
		fields []string
	}{
		{"missing client and date", document.Input{Type: document.TypeInvoice}, []string{"entity_id", "issue_date"}},
		{"unknown type", document.Input{Type: "quote", EntityID: c.ID, IssueDate: day(1, 1)}, []string{"type"}},
		{"bad status", document.Input{Type: document.TypeInvoice, Status: "lost", EntityID: c.ID, IssueDate: day(1, 1)}, []string{"status"}},
		{"due date on receipt", document.Input{Type: document.TypeReceipt, EntityID: c.ID, IssueDate: day(1, 1), DueDate: &due}, []string{"due_date"}},
		{"bad line items", document.Input{
			Type: document.TypeInvoice, EntityID: c.ID, IssueDate: day(1, 1),
			LineItems: []document.LineItemInput{
				{Description: "", Quantity: dec("0"), UnitPrice: dec("-1"), TaxRate: ptr(dec("-5"))},
			},
		}, []string{"line_items[0].description", "line_items[0].quantity", "line_items[0].unit_price", "line_items[0].tax_rate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.CreateDocument(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, folio.IsValidation(err))
			assert.ElementsMatch(t, tt.fields, invalidFields(err))
		})
	}

	t.Run("unknown client", func(t *testing.T) {
		_, err := f.CreateDocument(ctx, document.Input{
			Type: document.TypeInvoice, EntityID: id.NewClientID(), IssueDate: day(1, 1),
		})
		assert.ErrorIs(t, err, folio.ErrUnknownClient)
	})

	docs, err := f.ListDocuments(ctx, document.ListOpts{})
	require.NoError(t, err)
	assert.Empty(t, docs, "rejected input must not be stored")

	next, err := f.NextNumber(ctx, document.TypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", next, "rejected input must not consume a number")
}

func invalidFields(err error) []string {
	var multi folio.MultiError
	if !errors.As(err, &multi) {
		return nil
	}
	var fields []string
	for _, e := range multi.Errors {
		var ve folio.ValidationError
		if errors.As(e, &ve) {
			fields = append(fields, ve.Field)
		}
	}
	return fields
}

// ──────────────────────────────────────────────────
// Updates and deletes
// ──────────────────────────────────────────────────

func TestUpdateDocument(t *testing.T) {
	rec := &recorder{}
	f := newEngine(t, folio.WithPlugin(rec))
	ctx := context.Background()
	c := mustClient(t, f, "acme", ptr(dec("20")))
	other := mustClient(t, f, "tech", ptr(dec("18")))

	d := mustDocument(t, f, document.TypeInvoice, c, day(1, 15), item("Work", "1", "100", nil))
	assert.Equal(t, int64(1), d.Version)

	sent := document.StatusSent
	items := []document.LineItemInput{item("Consulting Services", "10", "200", nil)}
	updated, err := f.UpdateDocument(ctx, d.ID, document.Update{
		EntityID:  &other.ID,
		Status:    &sent,
		LineItems: &items,
		Notes:     ptr("  Payment due within 30 days "),
	})
	require.NoError(t, err)

	assert.Equal(t, d.Number, updated.Number)
	assert.Equal(t, d.Type, updated.Type)
	assert.Equal(t, other.ID, updated.EntityID)
	assert.Equal(t, document.StatusSent, updated.Status)
	assert.Equal(t, "Payment due within 30 days", updated.Notes)
	assert.True(t, updated.Total.Equal(dec("2360")), "totals recomputed with the new client's VAT: %s", updated.Total)
	assert.True(t, updated.CreatedAt.Equal(d.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(d.UpdatedAt))
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, []string{d.Number}, rec.updated)

	_, err = f.UpdateDocument(ctx, d.ID, document.Update{Notes: ptr("stale"), ExpectedVersion: 1})
	assert.ErrorIs(t, err, folio.ErrVersionConflict)
	assert.True(t, folio.IsConflict(err))

	_, err = f.UpdateDocument(ctx, d.ID, document.Update{EntityID: ptr(id.NewClientID())})
	assert.ErrorIs(t, err, folio.ErrUnknownClient)

	_, err = f.UpdateDocument(ctx, id.NewDocumentID(), document.Update{})
	assert.True(t, folio.IsNotFound(err))
}

func TestUpdateClient(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	c, err := f.CreateClient(ctx, client.Input{
		Name:    "Acme Corporation",
		Email:   "billing@acme.com",
		Phone:   "+1 (555) 123-4567",
		VATRate: ptr(dec("20")),
	})
	require.NoError(t, err)

	updated, err := f.UpdateClient(ctx, c.ID, client.Update{
		Email:        ptr("accounts@acme.com"),
		Phone:        ptr(""),
		ClearVATRate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corporation", updated.Name)
	assert.Equal(t, "accounts@acme.com", updated.Email)
	assert.Empty(t, updated.Phone)
	assert.Nil(t, updated.VATRate)
	assert.True(t, updated.CreatedAt.Equal(c.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(c.UpdatedAt))

	_, err = f.UpdateClient(ctx, c.ID, client.Update{Email: ptr("not-an-email")})
	assert.True(t, folio.IsValidation(err))

	stored, err := f.GetClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "accounts@acme.com", stored.Email, "failed update must not be stored")
}

func TestDeleteClientWhileReferenced(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked by default", func(t *testing.T) {
		f := newEngine(t)
		c := mustClient(t, f, "acme", nil)
		d := mustDocument(t, f, document.TypeInvoice, c, day(1, 1), item("Work", "1", "100", nil))

		err := f.DeleteClient(ctx, c.ID)
		assert.ErrorIs(t, err, folio.ErrClientInUse)

		require.NoError(t, f.DeleteDocument(ctx, d.ID))
		require.NoError(t, f.DeleteClient(ctx, c.ID))

		_, err = f.GetClient(ctx, c.ID)
		assert.ErrorIs(t, err, folio.ErrClientNotFound)
	})

	t.Run("orphans allowed", func(t *testing.T) {
		f := newEngine(t, folio.WithOrphanedReferences(true))
		c := mustClient(t, f, "acme", nil)
		mustDocument(t, f, document.TypeInvoice, c, day(1, 1), item("Work", "1", "100", ptr(decimal.Zero)))

		require.NoError(t, f.DeleteClient(ctx, c.ID))

		st, err := f.Statement(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, st.Rows, 1)
		assert.True(t, st.Balance.Equal(dec("100")))
	})
}

// ──────────────────────────────────────────────────
// Settings, summary, seed and plugins
// ──────────────────────────────────────────────────

func TestSettings(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()

	cfg, err := f.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "My Company", cfg.CompanyName)
	assert.Equal(t, "INV-", cfg.InvoicePrefix)

	cfg.DefaultCurrency = "try"
	cfg.CompanyName = "Folio Ltd"
	saved, err := f.SaveSettings(ctx, *cfg)
	require.NoError(t, err)
	assert.Equal(t, "TRY", saved.DefaultCurrency)

	reloaded, err := f.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Folio Ltd", reloaded.CompanyName)

	bad := *reloaded
	bad.ReceiptPrefix = ""
	bad.DefaultCurrency = "dollars"
	_, err = f.SaveSettings(ctx, bad)
	assert.True(t, folio.IsValidation(err))
	assert.ElementsMatch(t, []string{"receipt_prefix", "default_currency"}, invalidFields(err))
}

func TestSeedAndSummary(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()

	loaded, err := f.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, loaded)

	loaded, err = f.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, loaded, "seeding twice must not duplicate data")

	clients, err := f.ListClients(ctx, client.ListOpts{})
	require.NoError(t, err)
	require.Len(t, clients, 3)
	assert.Equal(t, "Acme Corporation", clients[0].Name)

	found, err := f.ListClients(ctx, client.ListOpts{Search: "TECH"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Tech Solutions LLC", found[0].Name)

	sum, err := f.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalInvoices)
	assert.Equal(t, 1, sum.PaidInvoices)
	assert.Equal(t, 1, sum.UnpaidInvoices)
	assert.Equal(t, 1, sum.OverdueInvoices, "INV-0002 was due 2026-02-16")
	assert.True(t, sum.Revenue.Equal(dec("9600")), "revenue %s", sum.Revenue)
	assert.True(t, sum.Outstanding.Equal(dec("2360")), "outstanding %s", sum.Outstanding)
	require.Len(t, sum.Recent, 2)
	assert.Equal(t, "INV-0002", sum.Recent[0].Number)
	assert.Equal(t, "INV-0001", sum.Recent[1].Number)
}

func TestSeedConcurrentCallsLoadOnce(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()

	const callers = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		loads  int
		failed []error
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loaded, err := f.Seed(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, err)
			}
			if loaded {
				loads++
			}
		}()
	}
	wg.Wait()

	require.Empty(t, failed)
	assert.Equal(t, 1, loads)
	clients, err := f.ListClients(ctx, client.ListOpts{})
	require.NoError(t, err)
	assert.Len(t, clients, 3)
	docs, err := f.ListDocuments(ctx, document.ListOpts{})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestSummaryIgnoresCancelledInvoicesPastDue(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	zero := decimal.Zero
	c := mustClient(t, f, "acme", &zero)

	due := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, status := range []document.Status{document.StatusSent, document.StatusCancelled} {
		_, err := f.CreateDocument(ctx, document.Input{
			Type:      document.TypeInvoice,
			EntityID:  c.ID,
			Status:    status,
			IssueDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			DueDate:   &due,
			LineItems: []document.LineItemInput{item("Retainer", "1", "100", &zero)},
		})
		require.NoError(t, err)
	}

	sum, err := f.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalInvoices)
	assert.Equal(t, 1, sum.UnpaidInvoices)
	assert.Equal(t, 1, sum.OverdueInvoices, "a cancelled invoice is never overdue")
	assert.True(t, sum.Outstanding.Equal(dec("100")), "outstanding %s", sum.Outstanding)
}

type rejectDrafts struct{}

func (rejectDrafts) Name() string { return "reject-drafts" }

func (rejectDrafts) ValidateDocument(_ context.Context, d *document.Document) error {
	if d.Status == document.StatusDraft && d.Total.GreaterThan(decimal.NewFromInt(1000)) {
		return errors.New("large drafts need approval")
	}
	return nil
}

func TestPlugins(t *testing.T) {
	rec := &recorder{}
	f := newEngine(t, folio.WithPlugin(rec), folio.WithPlugin(rejectDrafts{}))
	ctx := context.Background()
	assert.Equal(t, 2, f.Plugins().Count())

	c := mustClient(t, f, "acme", nil)
	d := mustDocument(t, f, document.TypeInvoice, c, day(1, 1), item("Work", "1", "100", nil))
	require.NoError(t, f.DeleteDocument(ctx, d.ID))

	assert.Equal(t, 1, rec.clients)
	assert.Equal(t, []string{"INV-0001"}, rec.created)
	assert.Equal(t, []string{"INV-0001"}, rec.deleted)

	_, err := f.CreateDocument(ctx, document.Input{
		Type:      document.TypeInvoice,
		EntityID:  c.ID,
		IssueDate: day(1, 2),
		LineItems: []document.LineItemInput{item("Big job", "10", "500", nil)},
	})
	assert.True(t, folio.IsValidation(err))
	assert.Contains(t, err.Error(), "large drafts need approval")
}
