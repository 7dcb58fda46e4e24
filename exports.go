package folio

import (
	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/types"
)

// Re-export common types for convenience so users don't have to import
// every sub-package.

// Entity is re-exported from types package.
type Entity = types.Entity

// Money is re-exported from types package.
type Money = types.Money

// Client is re-exported from client package.
type Client = client.Client

// Document is re-exported from document package.
type Document = document.Document

// LineItem is re-exported from document package.
type LineItem = document.LineItem

// Re-export document types and numbering policies
const (
	Invoice    = document.TypeInvoice
	Receipt    = document.TypeReceipt
	CreditNote = document.TypeCreditNote

	NumberingMonotonic = numbering.PolicyMonotonic
	NumberingCount     = numbering.PolicyCount
)

// Re-export calculators
var (
	ComputeAmount = document.ComputeAmount
	ComputeTotals = document.ComputeTotals
	NewEntity     = types.NewEntity
)
