package folio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/types"
)

// ──────────────────────────────────────────────────
// Document Management
// ──────────────────────────────────────────────────

// CreateDocument validates in, resolves line item tax rates, computes the
// totals, assigns the next number for the document type and stores the
// result. Nothing is written when validation fails.
func (f *Folio) CreateDocument(ctx context.Context, in document.Input) (*document.Document, error) {
	d := &document.Document{
		ID:        id.NewDocumentID(),
		Type:      in.Type,
		EntityID:  in.EntityID,
		Status:    in.Status,
		IssueDate: normalizeTime(in.IssueDate),
		Notes:     strings.TrimSpace(in.Notes),
		Version:   1,
	}
	if d.Status == "" {
		d.Status = d.Type.DefaultStatus()
	}
	if in.DueDate != nil {
		due := normalizeTime(*in.DueDate)
		d.DueDate = &due
	}

	var errs MultiError
	validateDocument(d, &errs)
	validateLineItems(in.LineItems, &errs)
	if errs.HasErrors() {
		return nil, errs
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, err := f.store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("folio: load settings: %w", err)
	}
	c, err := f.lookupClient(ctx, d.EntityID)
	if err != nil {
		return nil, err
	}

	d.LineItems = buildLineItems(in.LineItems, c, cfg)
	d.Recalculate()
	if err := f.plugins.ValidateDocument(ctx, d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	number, err := f.assignNumber(ctx, d.Type, cfg)
	if err != nil {
		return nil, err
	}
	d.Number = number
	d.Entity = types.NewEntityAt(f.now())

	if err := f.store.CreateDocument(ctx, d); err != nil {
		return nil, fmt.Errorf("folio: create document: %w", err)
	}

	f.logger.Debug("document created",
		"document_id", d.ID.String(),
		"type", string(d.Type),
		"number", d.Number,
		"total", d.Total.String(),
	)
	f.plugins.EmitDocumentCreated(ctx, d)

	return d, nil
}

// GetDocument returns a document by ID.
func (f *Folio) GetDocument(ctx context.Context, docID id.DocumentID) (*document.Document, error) {
	return f.store.GetDocument(ctx, docID)
}

// ListDocuments returns documents in creation order.
func (f *Folio) ListDocuments(ctx context.Context, opts document.ListOpts) ([]*document.Document, error) {
	return f.store.ListDocuments(ctx, opts)
}

// UpdateDocument merges u into the stored document, recomputes amounts and
// totals, and refreshes UpdatedAt. Type and number are never changed.
func (f *Folio) UpdateDocument(ctx context.Context, docID id.DocumentID, u document.Update) (*document.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, err := f.store.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if u.ExpectedVersion != 0 && u.ExpectedVersion != existing.Version {
		return nil, fmt.Errorf("%w: document %s is at version %d, not %d",
			ErrVersionConflict, docID, existing.Version, u.ExpectedVersion)
	}

	updated := existing.Clone()
	if u.EntityID != nil {
		updated.EntityID = *u.EntityID
	}
	if u.Status != nil {
		updated.Status = *u.Status
	}
	if u.IssueDate != nil {
		updated.IssueDate = normalizeTime(*u.IssueDate)
	}
	switch {
	case u.ClearDueDate:
		updated.DueDate = nil
	case u.DueDate != nil:
		due := normalizeTime(*u.DueDate)
		updated.DueDate = &due
	}
	if u.Notes != nil {
		updated.Notes = strings.TrimSpace(*u.Notes)
	}

	var errs MultiError
	validateDocument(updated, &errs)
	if u.LineItems != nil {
		validateLineItems(*u.LineItems, &errs)
	}
	if errs.HasErrors() {
		return nil, errs
	}

	var c *client.Client
	if u.EntityID != nil {
		if c, err = f.lookupClient(ctx, updated.EntityID); err != nil {
			return nil, err
		}
	}

	if u.LineItems != nil {
		cfg, err := f.store.GetSettings(ctx)
		if err != nil {
			return nil, fmt.Errorf("folio: load settings: %w", err)
		}
		if c == nil {
			// The current client may have been deleted when orphans are
			// allowed; rates then fall back to the settings default.
			c, err = f.store.GetClient(ctx, updated.EntityID)
			if err != nil && !errors.Is(err, ErrClientNotFound) {
				return nil, err
			}
		}
		updated.LineItems = buildLineItems(*u.LineItems, c, cfg)
	}

	updated.Recalculate()
	if err := f.plugins.ValidateDocument(ctx, updated); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	updated.TouchAt(f.now())
	if err := f.store.UpdateDocument(ctx, updated); err != nil {
		return nil, fmt.Errorf("folio: update document: %w", err)
	}

	f.plugins.EmitDocumentUpdated(ctx, existing, updated)

	return updated, nil
}

// DeleteDocument removes a document. Its number is not reissued under the
// monotonic policy.
func (f *Folio) DeleteDocument(ctx context.Context, docID id.DocumentID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, err := f.store.GetDocument(ctx, docID)
	if err != nil {
		return err
	}
	if err := f.store.DeleteDocument(ctx, docID); err != nil {
		return fmt.Errorf("folio: delete document: %w", err)
	}

	f.logger.Debug("document deleted", "document_id", docID.String(), "number", existing.Number)
	f.plugins.EmitDocumentDeleted(ctx, existing)

	return nil
}

// ──────────────────────────────────────────────────
// Numbering
// ──────────────────────────────────────────────────

// NextNumber previews the number the next document of type t would get.
// It changes nothing, so repeated calls agree until a document is created.
func (f *Folio) NextNumber(ctx context.Context, t document.Type) (string, error) {
	if !t.Valid() {
		return "", ValidationError{Field: "type", Message: fmt.Sprintf("unknown document type %q", t)}
	}

	cfg, err := f.store.GetSettings(ctx)
	if err != nil {
		return "", fmt.Errorf("folio: load settings: %w", err)
	}
	prefix := cfg.PrefixFor(t)
	existing, err := f.store.ListDocuments(ctx, document.ListOpts{Type: t})
	if err != nil {
		return "", fmt.Errorf("folio: list documents: %w", err)
	}

	if f.policy == numbering.PolicyCount {
		return numbering.Next(t, existing, prefix), nil
	}

	current, err := f.store.CurrentSequence(ctx, t)
	if err != nil {
		return "", fmt.Errorf("folio: read sequence: %w", err)
	}
	seq := max(current, numbering.Floor(t, existing, prefix)) + 1
	for numbering.Taken(t, numbering.Format(prefix, seq), existing) {
		seq++
	}
	return numbering.Format(prefix, seq), nil
}

// NumberingConflicts reports every number carried by more than one
// document of the same type. Only the count policy can produce them.
func (f *Folio) NumberingConflicts(ctx context.Context) ([]numbering.Collision, error) {
	docs, err := f.store.ListDocuments(ctx, document.ListOpts{})
	if err != nil {
		return nil, fmt.Errorf("folio: list documents: %w", err)
	}
	return numbering.Duplicates(docs), nil
}

// assignNumber issues the number for a new document of type t. The caller
// holds f.mu.
func (f *Folio) assignNumber(ctx context.Context, t document.Type, cfg *settings.Settings) (string, error) {
	prefix := cfg.PrefixFor(t)
	existing, err := f.store.ListDocuments(ctx, document.ListOpts{Type: t})
	if err != nil {
		return "", fmt.Errorf("folio: list documents: %w", err)
	}

	if f.policy == numbering.PolicyCount {
		number := numbering.Next(t, existing, prefix)
		if numbering.Taken(t, number, existing) {
			f.logger.Warn("document number reissued",
				"type", string(t),
				"number", number,
				"error", ErrNumberCollision,
			)
			f.plugins.EmitNumberCollision(ctx, t, number)
		}
		return number, nil
	}

	floor := numbering.Floor(t, existing, prefix)
	for {
		seq, err := f.store.AdvanceSequence(ctx, t, floor)
		if err != nil {
			return "", fmt.Errorf("folio: advance sequence: %w", err)
		}
		number := numbering.Format(prefix, seq)
		if !numbering.Taken(t, number, existing) {
			return number, nil
		}
		floor = seq
	}
}

func buildLineItems(in []document.LineItemInput, c *client.Client, cfg *settings.Settings) []document.LineItem {
	items := make([]document.LineItem, len(in))
	for i, li := range in {
		itemID := li.ID
		if itemID.IsNil() {
			itemID = id.NewLineItemID()
		}
		items[i] = document.LineItem{
			ID:          itemID,
			Description: strings.TrimSpace(li.Description),
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			TaxRate:     taxRateFor(li, c, cfg),
		}
	}
	return items
}
