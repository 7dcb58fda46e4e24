// Package store defines the persistence boundary of folio.
package store

import (
	"context"

	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/settings"
)

// Store is the unified storage interface for all folio records.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
//
// Every write is keyed: records are inserted, replaced or removed one at a
// time. UpdateClient and UpdateDocument compare the stored Version with the
// one carried by the argument and fail with folio.ErrVersionConflict on a
// mismatch; on success they bump the argument's Version. Lists come back in
// creation order. Reads return copies the caller may mutate freely.
type Store interface {
	// Client methods
	CreateClient(ctx context.Context, c *client.Client) error
	GetClient(ctx context.Context, clientID id.ClientID) (*client.Client, error)
	ListClients(ctx context.Context, opts client.ListOpts) ([]*client.Client, error)
	UpdateClient(ctx context.Context, c *client.Client) error
	DeleteClient(ctx context.Context, clientID id.ClientID) error

	// Document methods
	CreateDocument(ctx context.Context, d *document.Document) error
	GetDocument(ctx context.Context, docID id.DocumentID) (*document.Document, error)
	ListDocuments(ctx context.Context, opts document.ListOpts) ([]*document.Document, error)
	CountDocuments(ctx context.Context, opts document.ListOpts) (int64, error)
	UpdateDocument(ctx context.Context, d *document.Document) error
	DeleteDocument(ctx context.Context, docID id.DocumentID) error

	// Settings methods
	GetSettings(ctx context.Context) (*settings.Settings, error)
	SaveSettings(ctx context.Context, s *settings.Settings) error

	// Numbering methods
	CurrentSequence(ctx context.Context, t document.Type) (int64, error)
	AdvanceSequence(ctx context.Context, t document.Type, floor int64) (int64, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
