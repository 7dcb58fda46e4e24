package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/folio"
	"github.com/xraph/folio/client"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/store"
	"github.com/xraph/folio/store/memory"
	"github.com/xraph/folio/store/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return memory.New()
	})
}

func TestReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	c := &client.Client{ID: id.NewClientID(), Name: "Acme", Email: "a@acme.com", Version: 1}
	require.NoError(t, s.CreateClient(ctx, c))
	c.Name = "mutated after create"

	got, err := s.GetClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)

	got.Name = "mutated after read"
	again, err := s.GetClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.Name)
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Ping(ctx), folio.ErrStoreClosed)
	err := s.CreateClient(ctx, &client.Client{ID: id.NewClientID()})
	assert.ErrorIs(t, err, folio.ErrStoreClosed)
}
