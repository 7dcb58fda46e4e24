// Package statement projects a client's documents into an account
// statement: a chronological ledger with a running balance.
package statement

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
)

// Row is one line of a statement. Exactly one of Debit and Credit is
// non-zero unless the document total is zero.
type Row struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	DocumentID  id.DocumentID   `json:"document_id"`
	Number      string          `json:"number"`
	Type        document.Type   `json:"type"`
	Status      document.Status `json:"status"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// Statement is the projected ledger of one client.
type Statement struct {
	EntityID    id.ClientID     `json:"entity_id"`
	Rows        []Row           `json:"rows"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// Empty reports whether the statement has no rows.
func (s *Statement) Empty() bool { return len(s.Rows) == 0 }

// Project builds the statement of entityID from docs. Documents of other
// clients are ignored. Rows are ordered by issue date; documents issued on
// the same instant keep their order in docs. Invoices are debits, every
// other type is a credit, and Balance accumulates debit minus credit.
//
// A nil entityID yields an empty statement.
func Project(docs []*document.Document, entityID id.ClientID) *Statement {
	st := &Statement{
		EntityID:    entityID,
		Rows:        []Row{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		Balance:     decimal.Zero,
	}
	if entityID.IsNil() {
		return st
	}

	owned := make([]*document.Document, 0, len(docs))
	for _, d := range docs {
		if d.EntityID.String() == entityID.String() {
			owned = append(owned, d)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].IssueDate.Before(owned[j].IssueDate)
	})

	balance := decimal.Zero
	for _, d := range owned {
		row := Row{
			Date:        d.IssueDate,
			Description: d.Type.Label() + " " + d.Number,
			DocumentID:  d.ID,
			Number:      d.Number,
			Type:        d.Type,
			Status:      d.Status,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if d.Type.IsDebit() {
			row.Debit = d.Total
			st.TotalDebit = st.TotalDebit.Add(d.Total)
		} else {
			row.Credit = d.Total
			st.TotalCredit = st.TotalCredit.Add(d.Total)
		}
		balance = balance.Add(row.Debit).Sub(row.Credit)
		row.Balance = balance
		st.Rows = append(st.Rows, row)
	}
	st.Balance = balance
	return st
}
