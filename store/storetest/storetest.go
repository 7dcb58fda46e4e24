// Package storetest is a conformance suite every store.Store backend runs
// from its own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/folio"
	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/store"
	"github.com/xraph/folio/types"
)

// Factory returns a fresh, migrated, empty store for one test.
type Factory func(t *testing.T) store.Store

// Run executes the whole suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("ClientRoundTrip", func(t *testing.T) { testClientRoundTrip(t, newStore(t)) })
	t.Run("ClientList", func(t *testing.T) { testClientList(t, newStore(t)) })
	t.Run("ClientUpdateDelete", func(t *testing.T) { testClientUpdateDelete(t, newStore(t)) })
	t.Run("DocumentRoundTrip", func(t *testing.T) { testDocumentRoundTrip(t, newStore(t)) })
	t.Run("DocumentList", func(t *testing.T) { testDocumentList(t, newStore(t)) })
	t.Run("DocumentUpdateDelete", func(t *testing.T) { testDocumentUpdateDelete(t, newStore(t)) })
	t.Run("Settings", func(t *testing.T) { testSettings(t, newStore(t)) })
	t.Run("Sequences", func(t *testing.T) { testSequences(t, newStore(t)) })
	t.Run("Ping", func(t *testing.T) { require.NoError(t, newStore(t).Ping(context.Background())) })
}

var base = time.Date(2026, 1, 15, 10, 30, 0, 123456000, time.UTC)

func at(offset time.Duration) time.Time { return base.Add(offset) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func minimalClient(name string, created time.Time) *client.Client {
	return &client.Client{
		Entity:  types.NewEntityAt(created),
		ID:      id.NewClientID(),
		Name:    name,
		Email:   name + "@example.com",
		Version: 1,
	}
}

func fullClient() *client.Client {
	vat := dec("18.5")
	c := minimalClient("Tech Solutions LLC", at(0))
	c.Phone = "+1 (555) 987-6543"
	c.Address = "456 Innovation Drive\nSan Francisco, CA 94102"
	c.TaxNumber = "TAX-789012"
	c.VATRate = &vat
	return c
}

func minimalDocument(t document.Type, number string, entity id.ClientID, issued time.Time) *document.Document {
	return &document.Document{
		Entity:    types.NewEntityAt(issued),
		ID:        id.NewDocumentID(),
		Type:      t,
		Number:    number,
		EntityID:  entity,
		Status:    t.DefaultStatus(),
		IssueDate: issued,
		LineItems: []document.LineItem{},
		Subtotal:  decimal.Zero,
		TaxAmount: decimal.Zero,
		Total:     decimal.Zero,
		Version:   1,
	}
}

func fullDocument(entity id.ClientID) *document.Document {
	due := at(31 * 24 * time.Hour)
	d := minimalDocument(document.TypeInvoice, "INV-0001", entity, at(0))
	d.Status = document.StatusSent
	d.DueDate = &due
	d.Notes = "Thank you for your business!"
	d.LineItems = []document.LineItem{
		{ID: id.NewLineItemID(), Description: "Website Development Services", Quantity: dec("40"), UnitPrice: dec("150"), TaxRate: dec("20")},
		{ID: id.NewLineItemID(), Description: "Hosting", Quantity: dec("2.5"), UnitPrice: dec("19.99"), TaxRate: dec("7.5")},
	}
	d.Recalculate()
	return d
}

// ──────────────────────────────────────────────────
// Clients
// ──────────────────────────────────────────────────

func testClientRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()

	for name, c := range map[string]*client.Client{
		"optional fields absent":  minimalClient("acme", at(0)),
		"optional fields present": fullClient(),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.CreateClient(ctx, c))
			got, err := s.GetClient(ctx, c.ID)
			require.NoError(t, err)
			AssertClientEqual(t, c, got)
		})
	}

	_, err := s.GetClient(ctx, id.NewClientID())
	assert.ErrorIs(t, err, folio.ErrClientNotFound)
}

func testClientList(t *testing.T, s store.Store) {
	ctx := context.Background()
	names := []string{"Acme Corporation", "Tech Solutions LLC", "Global Enterprises"}
	for i, n := range names {
		c := minimalClient(n, at(time.Duration(i)*time.Minute))
		c.Email = []string{"billing@acme.com", "accounts@techsolutions.com", "finance@globalent.com"}[i]
		require.NoError(t, s.CreateClient(ctx, c))
	}

	all, err := s.ListClients(ctx, client.ListOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, n := range names {
		assert.Equal(t, n, all[i].Name, "creation order")
	}

	found, err := s.ListClients(ctx, client.ListOpts{Search: "GLOBAL"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Global Enterprises", found[0].Name)

	byEmail, err := s.ListClients(ctx, client.ListOpts{Search: "techsolutions"})
	require.NoError(t, err)
	require.Len(t, byEmail, 1)

	paged, err := s.ListClients(ctx, client.ListOpts{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "Tech Solutions LLC", paged[0].Name)
}

func testClientUpdateDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := fullClient()
	require.NoError(t, s.CreateClient(ctx, c))

	stale := *c
	c.Name = "Tech Solutions Inc"
	c.VATRate = nil
	c.Phone = ""
	c.UpdatedAt = at(time.Hour)
	require.NoError(t, s.UpdateClient(ctx, c))
	assert.Equal(t, int64(2), c.Version)

	got, err := s.GetClient(ctx, c.ID)
	require.NoError(t, err)
	AssertClientEqual(t, c, got)

	stale.Name = "lost update"
	assert.ErrorIs(t, s.UpdateClient(ctx, &stale), folio.ErrVersionConflict)

	missing := minimalClient("ghost", at(0))
	assert.ErrorIs(t, s.UpdateClient(ctx, missing), folio.ErrClientNotFound)

	require.NoError(t, s.DeleteClient(ctx, c.ID))
	_, err = s.GetClient(ctx, c.ID)
	assert.ErrorIs(t, err, folio.ErrClientNotFound)
	assert.ErrorIs(t, s.DeleteClient(ctx, c.ID), folio.ErrClientNotFound)
}

// ──────────────────────────────────────────────────
// Documents
// ──────────────────────────────────────────────────

func testDocumentRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	entity := id.NewClientID()

	for name, d := range map[string]*document.Document{
		"optional fields absent":  minimalDocument(document.TypeReceipt, "REC-0001", entity, at(0)),
		"optional fields present": fullDocument(entity),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.CreateDocument(ctx, d))
			got, err := s.GetDocument(ctx, d.ID)
			require.NoError(t, err)
			AssertDocumentEqual(t, d, got)
		})
	}

	_, err := s.GetDocument(ctx, id.NewDocumentID())
	assert.ErrorIs(t, err, folio.ErrDocumentNotFound)
}

func testDocumentList(t *testing.T, s store.Store) {
	ctx := context.Background()
	acme, tech := id.NewClientID(), id.NewClientID()

	docs := []*document.Document{
		minimalDocument(document.TypeInvoice, "INV-0001", acme, at(0)),
		minimalDocument(document.TypeInvoice, "INV-0002", tech, at(time.Minute)),
		minimalDocument(document.TypeReceipt, "REC-0001", acme, at(2*time.Minute)),
		minimalDocument(document.TypeCreditNote, "CN-0001", acme, at(3*time.Minute)),
	}
	docs[1].Status = document.StatusSent
	docs[1].Notes = "Payment due within 30 days"
	for _, d := range docs {
		require.NoError(t, s.CreateDocument(ctx, d))
	}

	numbers := func(list []*document.Document) []string {
		out := make([]string, len(list))
		for i, d := range list {
			out[i] = d.Number
		}
		return out
	}

	tests := []struct {
		name string
		opts document.ListOpts
		want []string
	}{
		{"all in creation order", document.ListOpts{}, []string{"INV-0001", "INV-0002", "REC-0001", "CN-0001"}},
		{"by type", document.ListOpts{Type: document.TypeInvoice}, []string{"INV-0001", "INV-0002"}},
		{"by status", document.ListOpts{Status: document.StatusPaid}, []string{"REC-0001", "CN-0001"}},
		{"by client", document.ListOpts{EntityID: acme}, []string{"INV-0001", "REC-0001", "CN-0001"}},
		{"by client and type", document.ListOpts{EntityID: acme, Type: document.TypeInvoice}, []string{"INV-0001"}},
		{"search number", document.ListOpts{Search: "rec-"}, []string{"REC-0001"}},
		{"search notes", document.ListOpts{Search: "DUE WITHIN"}, []string{"INV-0002"}},
		{"paged", document.ListOpts{Limit: 2, Offset: 1}, []string{"INV-0002", "REC-0001"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListDocuments(ctx, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, numbers(got))

			n, err := s.CountDocuments(ctx, document.ListOpts{
				Type: tt.opts.Type, Status: tt.opts.Status, EntityID: tt.opts.EntityID, Search: tt.opts.Search,
			})
			require.NoError(t, err)
			if tt.opts.Limit == 0 {
				assert.Equal(t, int64(len(tt.want)), n)
			}
		})
	}
}

func testDocumentUpdateDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	d := fullDocument(id.NewClientID())
	require.NoError(t, s.CreateDocument(ctx, d))

	stale := d.Clone()
	d.Status = document.StatusPaid
	d.DueDate = nil
	d.Notes = ""
	d.LineItems = d.LineItems[:1]
	d.Recalculate()
	d.UpdatedAt = at(time.Hour)
	require.NoError(t, s.UpdateDocument(ctx, d))
	assert.Equal(t, int64(2), d.Version)

	got, err := s.GetDocument(ctx, d.ID)
	require.NoError(t, err)
	AssertDocumentEqual(t, d, got)

	stale.Notes = "lost update"
	assert.ErrorIs(t, s.UpdateDocument(ctx, stale), folio.ErrVersionConflict)

	missing := minimalDocument(document.TypeInvoice, "INV-0404", id.NewClientID(), at(0))
	assert.ErrorIs(t, s.UpdateDocument(ctx, missing), folio.ErrDocumentNotFound)

	require.NoError(t, s.DeleteDocument(ctx, d.ID))
	_, err = s.GetDocument(ctx, d.ID)
	assert.ErrorIs(t, err, folio.ErrDocumentNotFound)
	assert.ErrorIs(t, s.DeleteDocument(ctx, d.ID), folio.ErrDocumentNotFound)
}

// ──────────────────────────────────────────────────
// Settings and sequences
// ──────────────────────────────────────────────────

func testSettings(t *testing.T, s store.Store) {
	ctx := context.Background()

	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assertSettingsEqual(t, settings.Default(), *got)

	custom := settings.Default()
	custom.CompanyName = "Folio Ltd"
	custom.CompanyPhone = "+90 212 000 00 00"
	custom.DefaultCurrency = "TRY"
	custom.DefaultTaxRate = dec("18")
	custom.InvoicePrefix = "FTR-"
	require.NoError(t, s.SaveSettings(ctx, &custom))

	got, err = s.GetSettings(ctx)
	require.NoError(t, err)
	assertSettingsEqual(t, custom, *got)

	custom.CompanyPhone = ""
	custom.DefaultTaxRate = dec("20.25")
	require.NoError(t, s.SaveSettings(ctx, &custom))

	got, err = s.GetSettings(ctx)
	require.NoError(t, err)
	assertSettingsEqual(t, custom, *got)
}

func testSequences(t *testing.T, s store.Store) {
	ctx := context.Background()

	cur, err := s.CurrentSequence(ctx, document.TypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cur)

	steps := []struct {
		floor int64
		want  int64
	}{
		{0, 1},
		{0, 2},
		{5, 6},
		{2, 7},
	}
	for _, st := range steps {
		got, err := s.AdvanceSequence(ctx, document.TypeInvoice, st.floor)
		require.NoError(t, err)
		assert.Equal(t, st.want, got, "advance with floor %d", st.floor)
	}

	cur, err = s.CurrentSequence(ctx, document.TypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cur)

	other, err := s.AdvanceSequence(ctx, document.TypeReceipt, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), other, "sequences are per type")
}

// ──────────────────────────────────────────────────
// Assertions
// ──────────────────────────────────────────────────

// AssertClientEqual fails unless got equals want field for field.
func AssertClientEqual(t *testing.T, want, got *client.Client) {
	t.Helper()
	assert.Equal(t, want.ID.String(), got.ID.String(), "id")
	assert.Equal(t, want.Name, got.Name, "name")
	assert.Equal(t, want.Email, got.Email, "email")
	assert.Equal(t, want.Phone, got.Phone, "phone")
	assert.Equal(t, want.Address, got.Address, "address")
	assert.Equal(t, want.TaxNumber, got.TaxNumber, "tax_number")
	assertDecimalPtr(t, want.VATRate, got.VATRate, "vat_rate")
	assert.Equal(t, want.Version, got.Version, "version")
	assertTime(t, want.CreatedAt, got.CreatedAt, "created_at")
	assertTime(t, want.UpdatedAt, got.UpdatedAt, "updated_at")
}

// AssertDocumentEqual fails unless got equals want field for field.
func AssertDocumentEqual(t *testing.T, want, got *document.Document) {
	t.Helper()
	assert.Equal(t, want.ID.String(), got.ID.String(), "id")
	assert.Equal(t, want.Type, got.Type, "type")
	assert.Equal(t, want.Number, got.Number, "number")
	assert.Equal(t, want.EntityID.String(), got.EntityID.String(), "entity_id")
	assert.Equal(t, want.Status, got.Status, "status")
	assertTime(t, want.IssueDate, got.IssueDate, "issue_date")
	if want.DueDate == nil {
		assert.Nil(t, got.DueDate, "due_date")
	} else if assert.NotNil(t, got.DueDate, "due_date") {
		assertTime(t, *want.DueDate, *got.DueDate, "due_date")
	}
	assert.Equal(t, want.Notes, got.Notes, "notes")
	assertDecimal(t, want.Subtotal, got.Subtotal, "subtotal")
	assertDecimal(t, want.TaxAmount, got.TaxAmount, "tax_amount")
	assertDecimal(t, want.Total, got.Total, "total")
	assert.Equal(t, want.Version, got.Version, "version")
	assertTime(t, want.CreatedAt, got.CreatedAt, "created_at")
	assertTime(t, want.UpdatedAt, got.UpdatedAt, "updated_at")

	if assert.Len(t, got.LineItems, len(want.LineItems), "line_items") {
		for i := range want.LineItems {
			w, g := want.LineItems[i], got.LineItems[i]
			assert.Equal(t, w.ID.String(), g.ID.String(), "line_items[%d].id", i)
			assert.Equal(t, w.Description, g.Description, "line_items[%d].description", i)
			assertDecimal(t, w.Quantity, g.Quantity, "line_items.quantity")
			assertDecimal(t, w.UnitPrice, g.UnitPrice, "line_items.unit_price")
			assertDecimal(t, w.TaxRate, g.TaxRate, "line_items.tax_rate")
			assertDecimal(t, w.Amount, g.Amount, "line_items.amount")
		}
	}
}

func assertSettingsEqual(t *testing.T, want, got settings.Settings) {
	t.Helper()
	assertDecimal(t, want.DefaultTaxRate, got.DefaultTaxRate, "default_tax_rate")
	want.DefaultTaxRate, got.DefaultTaxRate = decimal.Zero, decimal.Zero
	assert.Equal(t, want, got)
}

func assertDecimal(t *testing.T, want, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, want.Equal(got), "%s: want %s, got %s", field, want, got)
}

func assertDecimalPtr(t *testing.T, want, got *decimal.Decimal, field string) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got, field)
		return
	}
	if assert.NotNil(t, got, field) {
		assertDecimal(t, *want, *got, field)
	}
}

func assertTime(t *testing.T, want, got time.Time, field string) {
	t.Helper()
	assert.True(t, want.Equal(got), "%s: want %s, got %s", field, want, got)
}
