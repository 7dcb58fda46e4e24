package statement

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mk(client id.ClientID, t document.Type, number string, issued time.Time, total int64) *document.Document {
	return &document.Document{
		ID:        id.NewDocumentID(),
		Type:      t,
		Number:    number,
		EntityID:  client,
		IssueDate: issued,
		Total:     decimal.NewFromInt(total),
	}
}

func TestProjectInvoiceThenReceipt(t *testing.T) {
	c := id.NewClientID()
	docs := []*document.Document{
		mk(c, document.TypeReceipt, "REC-0001", day(2026, 1, 20), 4000),
		mk(c, document.TypeInvoice, "INV-0001", day(2026, 1, 15), 9600),
	}

	st := Project(docs, c)
	if len(st.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(st.Rows))
	}

	want := []struct {
		number        string
		debit, credit int64
		balance       int64
		description   string
	}{
		{"INV-0001", 9600, 0, 9600, "Invoice INV-0001"},
		{"REC-0001", 0, 4000, 5600, "Receipt REC-0001"},
	}
	for i, w := range want {
		r := st.Rows[i]
		if r.Number != w.number {
			t.Errorf("row %d: number %q, want %q", i, r.Number, w.number)
		}
		if !r.Debit.Equal(decimal.NewFromInt(w.debit)) || !r.Credit.Equal(decimal.NewFromInt(w.credit)) {
			t.Errorf("row %d: debit/credit %s/%s, want %d/%d", i, r.Debit, r.Credit, w.debit, w.credit)
		}
		if !r.Balance.Equal(decimal.NewFromInt(w.balance)) {
			t.Errorf("row %d: balance %s, want %d", i, r.Balance, w.balance)
		}
		if r.Description != w.description {
			t.Errorf("row %d: description %q, want %q", i, r.Description, w.description)
		}
	}
	if !st.Balance.Equal(decimal.NewFromInt(5600)) {
		t.Errorf("closing balance %s, want 5600", st.Balance)
	}
}

func TestProjectFiltersOtherClients(t *testing.T) {
	c, other := id.NewClientID(), id.NewClientID()
	docs := []*document.Document{
		mk(other, document.TypeInvoice, "INV-0001", day(2026, 1, 1), 500),
		mk(c, document.TypeInvoice, "INV-0002", day(2026, 1, 2), 100),
		mk(other, document.TypeCreditNote, "CN-0001", day(2026, 1, 3), 50),
	}

	st := Project(docs, c)
	if len(st.Rows) != 1 || st.Rows[0].Number != "INV-0002" {
		t.Fatalf("unexpected rows %+v", st.Rows)
	}
	if !st.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance %s, want 100", st.Balance)
	}
}

func TestProjectStableForSameDate(t *testing.T) {
	c := id.NewClientID()
	same := day(2026, 2, 1)
	docs := []*document.Document{
		mk(c, document.TypeInvoice, "INV-0002", same, 300),
		mk(c, document.TypeCreditNote, "CN-0001", same, 100),
		mk(c, document.TypeInvoice, "INV-0001", day(2026, 1, 1), 200),
		mk(c, document.TypeReceipt, "REC-0001", same, 50),
	}

	st := Project(docs, c)
	got := make([]string, len(st.Rows))
	for i, r := range st.Rows {
		got[i] = r.Number
	}
	want := []string{"INV-0001", "INV-0002", "CN-0001", "REC-0001"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
}

func TestProjectBalanceEqualsDebitsMinusCredits(t *testing.T) {
	c := id.NewClientID()
	var docs []*document.Document
	invoices, others := decimal.Zero, decimal.Zero
	for i := 0; i < 30; i++ {
		typ := document.Types[i%len(document.Types)]
		total := decimal.NewFromInt(int64(100 + i*37)).Div(decimal.NewFromInt(4))
		d := mk(c, typ, "X", day(2026, time.Month(1+(i*7)%12), 1+(i*11)%28), 0)
		d.Total = total
		docs = append(docs, d)
		if typ == document.TypeInvoice {
			invoices = invoices.Add(total)
		} else {
			others = others.Add(total)
		}
	}

	first := Project(docs, c)
	second := Project(docs, c)

	want := invoices.Sub(others)
	if !first.Balance.Equal(want) {
		t.Errorf("balance %s, want %s", first.Balance, want)
	}
	if !first.Rows[len(first.Rows)-1].Balance.Equal(want) {
		t.Errorf("last row balance %s, want %s", first.Rows[len(first.Rows)-1].Balance, want)
	}
	if !first.TotalDebit.Sub(first.TotalCredit).Equal(want) {
		t.Errorf("debit-credit %s, want %s", first.TotalDebit.Sub(first.TotalCredit), want)
	}
	for i := range first.Rows {
		if first.Rows[i].DocumentID != second.Rows[i].DocumentID || !first.Rows[i].Balance.Equal(second.Rows[i].Balance) {
			t.Fatalf("projection not deterministic at row %d", i)
		}
		if i > 0 && first.Rows[i].Date.Before(first.Rows[i-1].Date) {
			t.Fatalf("rows out of order at %d", i)
		}
	}
}

func TestProjectNoClient(t *testing.T) {
	c := id.NewClientID()
	st := Project([]*document.Document{mk(c, document.TypeInvoice, "INV-0001", day(2026, 1, 1), 10)}, id.Nil)
	if !st.Empty() {
		t.Errorf("expected empty statement, got %d rows", len(st.Rows))
	}
	if !st.Balance.IsZero() {
		t.Errorf("expected zero balance, got %s", st.Balance)
	}
}
