package document

import (
	"testing"
	"time"

	"github.com/xraph/folio/id"
)

func TestTypeDefaults(t *testing.T) {
	tests := []struct {
		typ    Type
		valid  bool
		debit  bool
		status Status
		label  string
	}{
		{TypeInvoice, true, true, StatusDraft, "Invoice"},
		{TypeReceipt, true, false, StatusPaid, "Receipt"},
		{TypeCreditNote, true, false, StatusPaid, "Credit Note"},
		{Type("quote"), false, false, StatusPaid, "quote"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.Valid(); got != tt.valid {
				t.Errorf("Valid: got %v, want %v", got, tt.valid)
			}
			if got := tt.typ.IsDebit(); got != tt.debit {
				t.Errorf("IsDebit: got %v, want %v", got, tt.debit)
			}
			if got := tt.typ.DefaultStatus(); got != tt.status {
				t.Errorf("DefaultStatus: got %v, want %v", got, tt.status)
			}
			if got := tt.typ.Label(); got != tt.label {
				t.Errorf("Label: got %v, want %v", got, tt.label)
			}
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusSent, StatusPaid, StatusCancelled, StatusOverdue} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("void").Valid() {
		t.Error("void should not be valid")
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	tests := []struct {
		name string
		doc  Document
		want bool
	}{
		{"sent past due", Document{Type: TypeInvoice, Status: StatusSent, DueDate: &past}, true},
		{"draft past due", Document{Type: TypeInvoice, Status: StatusDraft, DueDate: &past}, true},
		{"paid past due", Document{Type: TypeInvoice, Status: StatusPaid, DueDate: &past}, false},
		{"cancelled past due", Document{Type: TypeInvoice, Status: StatusCancelled, DueDate: &past}, false},
		{"not yet due", Document{Type: TypeInvoice, Status: StatusSent, DueDate: &future}, false},
		{"no due date", Document{Type: TypeInvoice, Status: StatusSent}, false},
		{"receipt", Document{Type: TypeReceipt, Status: StatusSent, DueDate: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListOptsMatch(t *testing.T) {
	clientA := id.NewClientID()
	clientB := id.NewClientID()
	doc := &Document{
		Type:     TypeInvoice,
		Status:   StatusSent,
		Number:   "INV-0007",
		EntityID: clientA,
		Notes:    "Thank you for your business!",
	}

	tests := []struct {
		name string
		opts ListOpts
		want bool
	}{
		{"no filters", ListOpts{}, true},
		{"type match", ListOpts{Type: TypeInvoice}, true},
		{"type mismatch", ListOpts{Type: TypeReceipt}, false},
		{"status mismatch", ListOpts{Status: StatusPaid}, false},
		{"client match", ListOpts{EntityID: clientA}, true},
		{"client mismatch", ListOpts{EntityID: clientB}, false},
		{"number search", ListOpts{Search: "inv-00"}, true},
		{"notes search", ListOpts{Search: "BUSINESS"}, true},
		{"search miss", ListOpts{Search: "REC-"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Match(doc); got != tt.want {
				t.Errorf("Match: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClone(t *testing.T) {
	due := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	orig := &Document{DueDate: &due, LineItems: []LineItem{item("1", "2", "3")}}

	cp := orig.Clone()
	*cp.DueDate = due.AddDate(1, 0, 0)
	cp.LineItems[0].Description = "changed"

	if !orig.DueDate.Equal(due) {
		t.Error("clone shares DueDate with original")
	}
	if orig.LineItems[0].Description != "" {
		t.Error("clone shares line items with original")
	}
}
