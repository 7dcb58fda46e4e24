package numbering

import (
	"testing"

	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
)

func doc(t document.Type, number string) *document.Document {
	return &document.Document{ID: id.NewDocumentID(), Type: t, Number: number}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		prefix string
		seq    int64
		want   string
	}{
		{"INV-", 1, "INV-0001"},
		{"REC-", 42, "REC-0042"},
		{"CN-", 9999, "CN-9999"},
		{"INV-", 10000, "INV-10000"},
		{"", 7, "0007"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Format(tt.prefix, tt.seq); got != tt.want {
				t.Errorf("Format(%q, %d) = %q, want %q", tt.prefix, tt.seq, got, tt.want)
			}
		})
	}
}

func TestNextCountsPerType(t *testing.T) {
	docs := []*document.Document{
		doc(document.TypeInvoice, "INV-0001"),
		doc(document.TypeReceipt, "REC-0001"),
		doc(document.TypeInvoice, "INV-0002"),
	}

	if got := Next(document.TypeInvoice, docs, "INV-"); got != "INV-0003" {
		t.Errorf("invoice: got %q, want INV-0003", got)
	}
	if got := Next(document.TypeReceipt, docs, "REC-"); got != "REC-0002" {
		t.Errorf("receipt: got %q, want REC-0002", got)
	}
	if got := Next(document.TypeCreditNote, docs, "CN-"); got != "CN-0001" {
		t.Errorf("credit note: got %q, want CN-0001", got)
	}
	if got := Next(document.TypeInvoice, nil, "INV-"); got != "INV-0001" {
		t.Errorf("empty: got %q, want INV-0001", got)
	}
}

func TestNextIsIdempotent(t *testing.T) {
	docs := []*document.Document{doc(document.TypeInvoice, "INV-0001")}
	first := Next(document.TypeInvoice, docs, "INV-")
	second := Next(document.TypeInvoice, docs, "INV-")
	if first != second {
		t.Errorf("Next changed between calls: %q then %q", first, second)
	}
}

// Count-based numbering reissues numbers after a deletion.
func TestNextReusesAfterDeletion(t *testing.T) {
	docs := []*document.Document{
		doc(document.TypeInvoice, "INV-0001"),
		doc(document.TypeInvoice, "INV-0002"),
		doc(document.TypeInvoice, "INV-0003"),
	}
	remaining := docs[1:]

	next := Next(document.TypeInvoice, remaining, "INV-")
	if next != "INV-0003" {
		t.Fatalf("got %q, want INV-0003", next)
	}
	if !Taken(document.TypeInvoice, next, remaining) {
		t.Error("expected the reissued number to be reported as taken")
	}
}

func TestSequence(t *testing.T) {
	tests := []struct {
		number, prefix string
		want           int64
		ok             bool
	}{
		{"INV-0001", "INV-", 1, true},
		{"INV-10000", "INV-", 10000, true},
		{"REC-0001", "INV-", 0, false},
		{"INV-", "INV-", 0, false},
		{"INV-00A1", "INV-", 0, false},
		{"INV--001", "INV-", 0, false},
		{"INV-0000", "INV-", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			got, ok := Sequence(tt.number, tt.prefix)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Sequence(%q, %q) = %d, %v; want %d, %v", tt.number, tt.prefix, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFloor(t *testing.T) {
	docs := []*document.Document{
		doc(document.TypeInvoice, "INV-0002"),
		doc(document.TypeInvoice, "INV-0009"),
		doc(document.TypeInvoice, "LEGACY-77"),
		doc(document.TypeReceipt, "INV-0050"),
	}

	if got := Highest(document.TypeInvoice, docs, "INV-"); got != 9 {
		t.Errorf("Highest: got %d, want 9", got)
	}
	if got := Floor(document.TypeInvoice, docs, "INV-"); got != 9 {
		t.Errorf("Floor: got %d, want 9", got)
	}
	if got := Floor(document.TypeInvoice, docs, "BILL-"); got != 3 {
		t.Errorf("Floor with unused prefix: got %d, want count 3", got)
	}
}

func TestDuplicates(t *testing.T) {
	a := doc(document.TypeInvoice, "INV-0003")
	b := doc(document.TypeInvoice, "INV-0003")
	c := doc(document.TypeReceipt, "INV-0003") // different type, not a collision
	d := doc(document.TypeInvoice, "INV-0001")

	got := Duplicates([]*document.Document{d, a, c, b})
	if len(got) != 1 {
		t.Fatalf("expected 1 collision, got %d: %+v", len(got), got)
	}
	col := got[0]
	if col.Type != document.TypeInvoice || col.Number != "INV-0003" {
		t.Errorf("unexpected collision %+v", col)
	}
	if len(col.DocumentIDs) != 2 || col.DocumentIDs[0] != a.ID.String() || col.DocumentIDs[1] != b.ID.String() {
		t.Errorf("unexpected ids %v", col.DocumentIDs)
	}

	if dups := Duplicates([]*document.Document{a, d}); len(dups) != 0 {
		t.Errorf("expected no collisions, got %+v", dups)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyMonotonic, false},
		{"monotonic", PolicyMonotonic, false},
		{" COUNT ", PolicyCount, false},
		{"max", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
