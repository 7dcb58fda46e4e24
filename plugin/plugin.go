// Package plugin provides an extensible plugin system for folio.
// Plugins can hook into lifecycle events to extend functionality.
package plugin

import (
	"context"

	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/settings"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the engine starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine any) error
}

// OnShutdown is called when the engine stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Client lifecycle hooks
// ──────────────────────────────────────────────────

// OnClientCreated is called after a client is stored.
type OnClientCreated interface {
	Plugin
	OnClientCreated(ctx context.Context, c *client.Client) error
}

// OnClientUpdated is called after a client update is stored.
type OnClientUpdated interface {
	Plugin
	OnClientUpdated(ctx context.Context, oldClient, newClient *client.Client) error
}

// OnClientDeleted is called after a client is removed.
type OnClientDeleted interface {
	Plugin
	OnClientDeleted(ctx context.Context, clientID id.ClientID) error
}

// ──────────────────────────────────────────────────
// Document lifecycle hooks
// ──────────────────────────────────────────────────

// OnDocumentCreated is called after a document is numbered and stored.
type OnDocumentCreated interface {
	Plugin
	OnDocumentCreated(ctx context.Context, d *document.Document) error
}

// OnDocumentUpdated is called after a document update is stored.
type OnDocumentUpdated interface {
	Plugin
	OnDocumentUpdated(ctx context.Context, oldDoc, newDoc *document.Document) error
}

// OnDocumentDeleted is called after a document is removed.
type OnDocumentDeleted interface {
	Plugin
	OnDocumentDeleted(ctx context.Context, d *document.Document) error
}

// OnNumberCollision is called when a document is issued a number that
// another document of the same type already carries.
type OnNumberCollision interface {
	Plugin
	OnNumberCollision(ctx context.Context, t document.Type, number string) error
}

// ──────────────────────────────────────────────────
// Settings hooks
// ──────────────────────────────────────────────────

// OnSettingsSaved is called after settings are overwritten.
type OnSettingsSaved interface {
	Plugin
	OnSettingsSaved(ctx context.Context, s *settings.Settings) error
}

// ──────────────────────────────────────────────────
// Extension points
// ──────────────────────────────────────────────────

// DocumentValidator adds custom checks before a document is written.
// A non-nil error aborts the create or update.
type DocumentValidator interface {
	Plugin
	ValidateDocument(ctx context.Context, d *document.Document) error
}
