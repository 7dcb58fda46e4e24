// Package memory implements store.Store with in-process maps. It is meant
// for tests, demos and embedding; nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/xraph/folio"
	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	// Client storage, keyed by id; clientOrder keeps insertion order.
	clients     map[string]*client.Client
	clientOrder []string

	// Document storage, keyed by id; docOrder keeps insertion order.
	documents map[string]*document.Document
	docOrder  []string

	settings *settings.Settings
	counters map[document.Type]int64
	closed   bool
}

func New() *Store {
	return &Store{
		clients:   make(map[string]*client.Client),
		documents: make(map[string]*document.Document),
		counters:  make(map[document.Type]int64),
	}
}

// ──────────────────────────────────────────────────
// Client Store implementation
// ──────────────────────────────────────────────────

func (s *Store) CreateClient(_ context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return folio.ErrStoreClosed
	}
	key := c.ID.String()
	if _, exists := s.clients[key]; exists {
		return folio.ErrAlreadyExists
	}
	s.clients[key] = cloneClient(c)
	s.clientOrder = append(s.clientOrder, key)
	return nil
}

func (s *Store) GetClient(_ context.Context, clientID id.ClientID) (*client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.clients[clientID.String()]; ok {
		return cloneClient(c), nil
	}
	return nil, folio.ErrClientNotFound
}

func (s *Store) ListClients(_ context.Context, opts client.ListOpts) ([]*client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*client.Client, 0)
	for _, key := range s.clientOrder {
		c := s.clients[key]
		if c.Matches(opts.Search) {
			result = append(result, cloneClient(c))
		}
	}
	return page(result, opts.Limit, opts.Offset), nil
}

func (s *Store) UpdateClient(_ context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := c.ID.String()
	existing, ok := s.clients[key]
	if !ok {
		return folio.ErrClientNotFound
	}
	if existing.Version != c.Version {
		return folio.ErrVersionConflict
	}
	c.Version++
	s.clients[key] = cloneClient(c)
	return nil
}

func (s *Store) DeleteClient(_ context.Context, clientID id.ClientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := clientID.String()
	if _, ok := s.clients[key]; !ok {
		return folio.ErrClientNotFound
	}
	delete(s.clients, key)
	s.clientOrder = without(s.clientOrder, key)
	return nil
}

// ──────────────────────────────────────────────────
// Document Store implementation
// ──────────────────────────────────────────────────

func (s *Store) CreateDocument(_ context.Context, d *document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return folio.ErrStoreClosed
	}
	key := d.ID.String()
	if _, exists := s.documents[key]; exists {
		return folio.ErrAlreadyExists
	}
	s.documents[key] = d.Clone()
	s.docOrder = append(s.docOrder, key)
	return nil
}

func (s *Store) GetDocument(_ context.Context, docID id.DocumentID) (*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if d, ok := s.documents[docID.String()]; ok {
		return d.Clone(), nil
	}
	return nil, folio.ErrDocumentNotFound
}

func (s *Store) ListDocuments(_ context.Context, opts document.ListOpts) ([]*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*document.Document, 0)
	for _, key := range s.docOrder {
		d := s.documents[key]
		if opts.Match(d) {
			result = append(result, d.Clone())
		}
	}
	return page(result, opts.Limit, opts.Offset), nil
}

func (s *Store) CountDocuments(_ context.Context, opts document.ListOpts) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, d := range s.documents {
		if opts.Match(d) {
			n++
		}
	}
	return n, nil
}

func (s *Store) UpdateDocument(_ context.Context, d *document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := d.ID.String()
	existing, ok := s.documents[key]
	if !ok {
		return folio.ErrDocumentNotFound
	}
	if existing.Version != d.Version {
		return folio.ErrVersionConflict
	}
	d.Version++
	s.documents[key] = d.Clone()
	return nil
}

func (s *Store) DeleteDocument(_ context.Context, docID id.DocumentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := docID.String()
	if _, ok := s.documents[key]; !ok {
		return folio.ErrDocumentNotFound
	}
	delete(s.documents, key)
	s.docOrder = without(s.docOrder, key)
	return nil
}

// ──────────────────────────────────────────────────
// Settings and numbering
// ──────────────────────────────────────────────────

func (s *Store) GetSettings(_ context.Context) (*settings.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		def := settings.Default()
		return &def, nil
	}
	cp := *s.settings
	return &cp, nil
}

func (s *Store) SaveSettings(_ context.Context, st *settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *st
	s.settings = &cp
	return nil
}

func (s *Store) CurrentSequence(_ context.Context, t document.Type) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.counters[t], nil
}

func (s *Store) AdvanceSequence(_ context.Context, t document.Type, floor int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := max(s.counters[t], floor) + 1
	s.counters[t] = next
	return next, nil
}

// ──────────────────────────────────────────────────
// Core methods
// ──────────────────────────────────────────────────

func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return folio.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Helper functions

func cloneClient(c *client.Client) *client.Client {
	cp := *c
	if c.VATRate != nil {
		rate := *c.VATRate
		cp.VATRate = &rate
	}
	return &cp
}

func page[T any](items []T, limit, offset int) []T {
	start := max(offset, 0)
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func without(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
