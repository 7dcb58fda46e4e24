package folio

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/types"
)

// ──────────────────────────────────────────────────
// Client Management
// ──────────────────────────────────────────────────

// CreateClient validates in and stores a new client.
func (f *Folio) CreateClient(ctx context.Context, in client.Input) (*client.Client, error) {
	in.Normalize()

	c := &client.Client{
		ID:        id.NewClientID(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		TaxNumber: in.TaxNumber,
		VATRate:   in.VATRate,
		Version:   1,
	}
	if err := validateClient(c); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	c.Entity = types.NewEntityAt(f.now())
	if err := f.store.CreateClient(ctx, c); err != nil {
		return nil, fmt.Errorf("folio: create client: %w", err)
	}

	f.logger.Debug("client created", "client_id", c.ID.String(), "name", c.Name)
	f.plugins.EmitClientCreated(ctx, c)

	return c, nil
}

// GetClient returns a client by ID.
func (f *Folio) GetClient(ctx context.Context, clientID id.ClientID) (*client.Client, error) {
	return f.store.GetClient(ctx, clientID)
}

// ListClients returns clients in creation order.
func (f *Folio) ListClients(ctx context.Context, opts client.ListOpts) ([]*client.Client, error) {
	return f.store.ListClients(ctx, opts)
}

// UpdateClient merges u into the stored client and refreshes UpdatedAt.
// CreatedAt never changes.
func (f *Folio) UpdateClient(ctx context.Context, clientID id.ClientID, u client.Update) (*client.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, err := f.store.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if u.ExpectedVersion != 0 && u.ExpectedVersion != existing.Version {
		return nil, fmt.Errorf("%w: client %s is at version %d, not %d",
			ErrVersionConflict, clientID, existing.Version, u.ExpectedVersion)
	}

	updated := *existing
	if !u.Apply(&updated) {
		return existing, nil
	}
	if err := validateClient(&updated); err != nil {
		return nil, err
	}

	updated.TouchAt(f.now())
	if err := f.store.UpdateClient(ctx, &updated); err != nil {
		return nil, fmt.Errorf("folio: update client: %w", err)
	}

	f.plugins.EmitClientUpdated(ctx, existing, &updated)

	return &updated, nil
}

// DeleteClient removes a client. While documents still reference the
// client the deletion fails with ErrClientInUse, unless the engine was
// built WithOrphanedReferences(true).
func (f *Folio) DeleteClient(ctx context.Context, clientID id.ClientID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.store.GetClient(ctx, clientID); err != nil {
		return err
	}

	if !f.allowOrphans {
		n, err := f.store.CountDocuments(ctx, document.ListOpts{EntityID: clientID})
		if err != nil {
			return fmt.Errorf("folio: count client documents: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%w: %d document(s) reference client %s", ErrClientInUse, n, clientID)
		}
	}

	if err := f.store.DeleteClient(ctx, clientID); err != nil {
		return fmt.Errorf("folio: delete client: %w", err)
	}

	f.logger.Debug("client deleted", "client_id", clientID.String())
	f.plugins.EmitClientDeleted(ctx, clientID)

	return nil
}

// lookupClient loads the client a document refers to. A missing client is
// reported as ErrUnknownClient.
func (f *Folio) lookupClient(ctx context.Context, clientID id.ClientID) (*client.Client, error) {
	c, err := f.store.GetClient(ctx, clientID)
	if errors.Is(err, ErrClientNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClient, clientID)
	}
	return c, err
}
