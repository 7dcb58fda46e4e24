package mongo_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/folio/store"
	"github.com/xraph/folio/store/mongo"
	"github.com/xraph/folio/store/storetest"
)

// openDatabase connects to FOLIO_TEST_MONGO_URI, drops its database and
// returns a store with fresh indexes.
func openDatabase(t *testing.T) *mongo.Store {
	t.Helper()
	uri := os.Getenv("FOLIO_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FOLIO_TEST_MONGO_URI not set")
	}
	ctx := context.Background()

	drv := mongodriver.New()
	require.NoError(t, drv.Open(ctx, uri))
	require.NoError(t, drv.Database().Drop(ctx))
	db, err := grove.Open(drv)
	require.NoError(t, err)

	s := mongo.New(db)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return openDatabase(t)
	})
}
