package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/folio"
	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/settings"
	foliostore "github.com/xraph/folio/store"
)

// Collection name constants.
const (
	colClients   = "folio_clients"
	colDocuments = "folio_documents"
	colSettings  = "folio_settings"
	colCounters  = "folio_counters"
)

// settingsDocID is the _id of the single settings document.
const settingsDocID = "settings"

// compile-time interface check
var _ foliostore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all folio collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("%w: mongo: %s indexes: %w", folio.ErrMigrationFailed, col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Client Store ====================

func (s *Store) CreateClient(ctx context.Context, c *client.Client) error {
	_, err := s.mdb.NewInsert(toClientModel(c)).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return folio.ErrAlreadyExists
		}
		return fmt.Errorf("folio/mongo: create client: %w", err)
	}
	return nil
}

func (s *Store) GetClient(ctx context.Context, clientID id.ClientID) (*client.Client, error) {
	var m clientModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": clientID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, folio.ErrClientNotFound
		}
		return nil, fmt.Errorf("folio/mongo: get client: %w", err)
	}
	return fromClientModel(&m)
}

func (s *Store) ListClients(ctx context.Context, opts client.ListOpts) ([]*client.Client, error) {
	var models []clientModel

	filter := bson.M{}
	if re := searchRegex(opts.Search); re != nil {
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"email": re},
		}
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(creationOrder)

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("folio/mongo: list clients: %w", err)
	}

	result := make([]*client.Client, len(models))
	for i := range models {
		c, err := fromClientModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

func (s *Store) UpdateClient(ctx context.Context, c *client.Client) error {
	m := toClientModel(c)
	m.Version = c.Version + 1

	if err := s.replaceVersioned(ctx, colClients, m.ID, c.Version, m, folio.ErrClientNotFound); err != nil {
		return fmt.Errorf("folio/mongo: update client: %w", err)
	}
	c.Version++
	return nil
}

func (s *Store) DeleteClient(ctx context.Context, clientID id.ClientID) error {
	res, err := s.mdb.NewDelete((*clientModel)(nil)).
		Filter(bson.M{"_id": clientID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/mongo: delete client: %w", err)
	}
	if res.DeletedCount() == 0 {
		return folio.ErrClientNotFound
	}
	return nil
}

// ==================== Document Store ====================

func (s *Store) CreateDocument(ctx context.Context, d *document.Document) error {
	_, err := s.mdb.NewInsert(toDocumentModel(d)).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return folio.ErrAlreadyExists
		}
		return fmt.Errorf("folio/mongo: create document: %w", err)
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, docID id.DocumentID) (*document.Document, error) {
	var m documentModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": docID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, folio.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("folio/mongo: get document: %w", err)
	}
	return fromDocumentModel(&m)
}

func (s *Store) ListDocuments(ctx context.Context, opts document.ListOpts) ([]*document.Document, error) {
	var models []documentModel

	q := s.mdb.NewFind(&models).
		Filter(documentFilter(opts)).
		Sort(creationOrder)

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("folio/mongo: list documents: %w", err)
	}

	result := make([]*document.Document, len(models))
	for i := range models {
		d, err := fromDocumentModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = d
	}
	return result, nil
}

func (s *Store) CountDocuments(ctx context.Context, opts document.ListOpts) (int64, error) {
	n, err := s.mdb.Collection(colDocuments).CountDocuments(ctx, documentFilter(opts))
	if err != nil {
		return 0, fmt.Errorf("folio/mongo: count documents: %w", err)
	}
	return n, nil
}

func (s *Store) UpdateDocument(ctx context.Context, d *document.Document) error {
	m := toDocumentModel(d)
	m.Version = d.Version + 1

	if err := s.replaceVersioned(ctx, colDocuments, m.ID, d.Version, m, folio.ErrDocumentNotFound); err != nil {
		return fmt.Errorf("folio/mongo: update document: %w", err)
	}
	d.Version++
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, docID id.DocumentID) error {
	res, err := s.mdb.NewDelete((*documentModel)(nil)).
		Filter(bson.M{"_id": docID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/mongo: delete document: %w", err)
	}
	if res.DeletedCount() == 0 {
		return folio.ErrDocumentNotFound
	}
	return nil
}

// ==================== Settings Store ====================

func (s *Store) GetSettings(ctx context.Context) (*settings.Settings, error) {
	var m settingsModel
	err := s.mdb.Collection(colSettings).
		FindOne(ctx, bson.M{"_id": settingsDocID}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			def := settings.Default()
			return &def, nil
		}
		return nil, fmt.Errorf("folio/mongo: get settings: %w", err)
	}
	return fromSettingsModel(&m)
}

func (s *Store) SaveSettings(ctx context.Context, st *settings.Settings) error {
	_, err := s.mdb.Collection(colSettings).ReplaceOne(ctx,
		bson.M{"_id": settingsDocID},
		toSettingsModel(st),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("folio/mongo: save settings: %w", err)
	}
	return nil
}

// ==================== Numbering Store ====================

func (s *Store) CurrentSequence(ctx context.Context, t document.Type) (int64, error) {
	var m counterModel
	err := s.mdb.Collection(colCounters).
		FindOne(ctx, bson.M{"_id": string(t)}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("folio/mongo: current sequence: %w", err)
	}
	return m.Value, nil
}

func (s *Store) AdvanceSequence(ctx context.Context, t document.Type, floor int64) (int64, error) {
	// value = max(value, floor) + 1, as one atomic pipeline update.
	update := bson.A{
		bson.M{"$set": bson.M{
			"value": bson.M{"$add": bson.A{
				bson.M{"$max": bson.A{bson.M{"$ifNull": bson.A{"$value", int64(0)}}, floor}},
				int64(1),
			}},
		}},
	}

	var m counterModel
	err := s.mdb.Collection(colCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": string(t)},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		return 0, fmt.Errorf("folio/mongo: advance sequence: %w", err)
	}
	return m.Value, nil
}

// ==================== Helpers ====================

var creationOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

// replaceVersioned swaps in doc only when the stored version is expected.
func (s *Store) replaceVersioned(ctx context.Context, col, docID string, expected int64, doc any, notFound error) error {
	res, err := s.mdb.Collection(col).ReplaceOne(ctx, bson.M{"_id": docID, "version": expected}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := s.mdb.Collection(col).CountDocuments(ctx, bson.M{"_id": docID})
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return folio.ErrVersionConflict
}

func documentFilter(opts document.ListOpts) bson.M {
	filter := bson.M{}
	if opts.Type != "" {
		filter["type"] = string(opts.Type)
	}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if !opts.EntityID.IsNil() {
		filter["entity_id"] = opts.EntityID.String()
	}
	if re := searchRegex(opts.Search); re != nil {
		filter["$or"] = bson.A{
			bson.M{"number": re},
			bson.M{"notes": re},
		}
	}
	return filter
}

// searchRegex builds a case-insensitive substring match for term, or nil
// when term is blank.
func searchRegex(term string) bson.M {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all folio collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colClients: {
			{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
		},
		colDocuments: {
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "number", Value: 1}}},
			{Keys: bson.D{{Key: "entity_id", Value: 1}, {Key: "issue_date", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
		},
	}
}
