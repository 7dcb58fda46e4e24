package document

import (
	"context"

	"github.com/xraph/folio/id"
)

// Store persists documents. Update is a compare-and-swap on Version: it
// succeeds only when the stored version equals d.Version, and on success
// increments d.Version.
type Store interface {
	Create(ctx context.Context, d *Document) error
	Get(ctx context.Context, docID id.DocumentID) (*Document, error)
	List(ctx context.Context, opts ListOpts) ([]*Document, error)
	Count(ctx context.Context, opts ListOpts) (int64, error)
	Update(ctx context.Context, d *Document) error
	Delete(ctx context.Context, docID id.DocumentID) error
}

// ListOpts filters and pages a document listing. Zero-valued fields do not
// filter. Results are returned in creation order. Count ignores Limit and
// Offset.
type ListOpts struct {
	Type     Type
	Status   Status
	EntityID id.ClientID
	Search   string // case-insensitive match on number or notes
	Limit    int
	Offset   int
}

// Match reports whether d passes every filter in opts.
func (o ListOpts) Match(d *Document) bool {
	if o.Type != "" && d.Type != o.Type {
		return false
	}
	if o.Status != "" && d.Status != o.Status {
		return false
	}
	if !o.EntityID.IsNil() && d.EntityID.String() != o.EntityID.String() {
		return false
	}
	return d.Matches(o.Search)
}
