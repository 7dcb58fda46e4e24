package numbering

import (
	"context"

	"github.com/xraph/folio/document"
)

// Store persists one monotonic counter per document type.
type Store interface {
	// Current returns the last sequence issued for t, or zero.
	Current(ctx context.Context, t document.Type) (int64, error)
	// Advance atomically sets the counter to max(current, floor)+1 and
	// returns the new value.
	Advance(ctx context.Context, t document.Type, floor int64) (int64, error)
}
