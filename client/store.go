package client

import (
	"context"

	"github.com/xraph/folio/id"
)

// Store persists clients. Update is a compare-and-swap on Version: it
// succeeds only when the stored version equals c.Version, and on success
// increments c.Version.
type Store interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, clientID id.ClientID) (*Client, error)
	List(ctx context.Context, opts ListOpts) ([]*Client, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, clientID id.ClientID) error
}

// ListOpts filters and pages a client listing. Results are returned in
// creation order.
type ListOpts struct {
	Search string // case-insensitive match on name or email
	Limit  int
	Offset int
}
