// Package folio is a document and ledger engine for small-business
// invoicing, written as a library you embed in your own application.
//
// It records invoices, receipts and credit notes against clients and keeps
// the arithmetic honest:
//
//   - Line item amounts are tax-inclusive and always recomputed on save
//   - Document totals satisfy subtotal + tax = total exactly (decimal math)
//   - Each document type has its own prefixed, zero-padded number sequence
//   - Account statements give a chronological running balance per client
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/folio"
//	    "github.com/xraph/folio/store/memory"
//	)
//
//	f := folio.New(memory.New(), folio.WithLogger(logger))
//	if err := f.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Stop()
//
//	acme, err := f.CreateClient(ctx, client.Input{
//	    Name:  "Acme Corporation",
//	    Email: "billing@acme.com",
//	})
//
//	inv, err := f.CreateDocument(ctx, document.Input{
//	    Type:      document.TypeInvoice,
//	    EntityID:  acme.ID,
//	    IssueDate: time.Now(),
//	    LineItems: []document.LineItemInput{
//	        {Description: "Consulting", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(200)},
//	    },
//	})
//	// inv.Number == "INV-0001"
//
//	st, err := f.Statement(ctx, acme.ID)
//
// # Numbering
//
// By default numbers come from a persisted counter per document type that
// never goes backwards, so deleting INV-0002 does not make the next invoice
// INV-0002 again. WithNumberingPolicy(numbering.PolicyCount) switches to
// count-based numbering, where the next number is count(type)+1; reissued
// numbers are logged, reported to OnNumberCollision plugins, and listed by
// NumberingConflicts.
//
// # References
//
// Documents must reference an existing client. A client that documents
// still reference cannot be deleted (ErrClientInUse) unless the engine is
// built WithOrphanedReferences(true).
//
// # Stores
//
// Storage is pluggable through store.Store: an in-memory store, Grove
// backed SQLite, PostgreSQL and MongoDB stores, and a GORM store.
//
// # TypeID
//
// All records use TypeID for globally unique, type-safe identifiers:
//
//	cli_01h2xcejqtf2nbrexx3vqjhp41  // Client ID
//	doc_01h455vb4pex5vsknk084sn02q  // Document ID
//	li_01h455vb4pex5vsknk084sn02q   // Line item ID
package folio
