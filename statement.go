package folio

import (
	"context"
	"fmt"

	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/statement"
)

// Statement returns the account statement of a client. A nil clientID
// yields an empty statement. Documents whose client has since been deleted
// still project; only their client details are gone.
func (f *Folio) Statement(ctx context.Context, clientID id.ClientID) (*statement.Statement, error) {
	if clientID.IsNil() {
		return statement.Project(nil, clientID), nil
	}

	docs, err := f.store.ListDocuments(ctx, document.ListOpts{EntityID: clientID})
	if err != nil {
		return nil, fmt.Errorf("folio: list client documents: %w", err)
	}
	return statement.Project(docs, clientID), nil
}
