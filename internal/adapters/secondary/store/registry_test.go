package store_test

import (
	"context"
	"testing"

	"github.com/arthurdotwork/board/internal/adapters/secondary/store"
	"github.com/arthurdotwork/board/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("it should register and look up a connection", func(t *testing.T) {
		registry := store.NewRegistry()
		member := domain.Member{ID: uuid.New(), UserID: "user-1"}

		require.NoError(t, registry.Register(ctx, member))

		found, err := registry.Lookup(ctx, member.ID)
		require.NoError(t, err)
		require.Equal(t, member, found)
	})

	t.Run("it should not overwrite an already registered connection", func(t *testing.T) {
		registry := store.NewRegistry()
		member := domain.Member{ID: uuid.New(), UserID: "user-1"}

		require.NoError(t, registry.Register(ctx, member))
		require.NoError(t, registry.Bind(ctx, member.ID, "ABC123"))
		require.NoError(t, registry.Register(ctx, member))

		found, err := registry.Lookup(ctx, member.ID)
		require.NoError(t, err)
		require.Equal(t, "ABC123", found.Room)
	})

	t.Run("it should return ErrUnknownConnection for an unknown id", func(t *testing.T) {
		registry := store.NewRegistry()

		_, err := registry.Lookup(ctx, uuid.New())
		require.ErrorIs(t, err, domain.ErrUnknownConnection)
	})

	t.Run("it should deregister idempotently", func(t *testing.T) {
		registry := store.NewRegistry()
		member := domain.Member{ID: uuid.New(), UserID: "user-1"}

		require.NoError(t, registry.Register(ctx, member))

		removed, err := registry.Deregister(ctx, member.ID)
		require.NoError(t, err)
		require.Equal(t, member, removed)

		removed, err = registry.Deregister(ctx, member.ID)
		require.NoError(t, err)
		require.Empty(t, removed.UserID)

		_, err = registry.Lookup(ctx, member.ID)
		require.ErrorIs(t, err, domain.ErrUnknownConnection)
	})

	t.Run("it should record the joined room on bind", func(t *testing.T) {
		registry := store.NewRegistry()
		member := domain.Member{ID: uuid.New(), UserID: "user-1"}

		require.NoError(t, registry.Register(ctx, member))
		require.NoError(t, registry.Bind(ctx, member.ID, "ABC123"))

		found, err := registry.Lookup(ctx, member.ID)
		require.NoError(t, err)
		require.Equal(t, "ABC123", found.Room)
	})

	t.Run("it should refuse to bind an unknown connection", func(t *testing.T) {
		registry := store.NewRegistry()

		err := registry.Bind(ctx, uuid.New(), "ABC123")
		require.ErrorIs(t, err, domain.ErrUnknownConnection)
	})

	t.Run("it should list every registered connection", func(t *testing.T) {
		registry := store.NewRegistry()

		first := domain.Member{ID: uuid.New(), UserID: "user-1"}
		second := domain.Member{ID: uuid.New(), UserID: "user-2"}
		require.NoError(t, registry.Register(ctx, first))
		require.NoError(t, registry.Register(ctx, second))

		members, err := registry.Members(ctx)
		require.NoError(t, err)
		require.ElementsMatch(t, []domain.Member{first, second}, members)
	})
}
