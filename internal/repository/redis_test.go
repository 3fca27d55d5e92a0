package repository

import (
	"context"
	"testing"
	"time"

	"fixly/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisViewRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	repo := NewRedisViewRepository(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetView", func(t *testing.T) {
		state := &models.ViewState{
			SessionKey: "alice",
			City:       "Patiala",
			ActiveView: "my-bookings",
		}

		err := repo.SetView(ctx, state)
		require.NoError(t, err)

		got, err := repo.GetView(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, state.City, got.City)
		assert.Equal(t, state.ActiveView, got.ActiveView)
	})

	t.Run("GetMissingView", func(t *testing.T) {
		got, err := repo.GetView(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearView", func(t *testing.T) {
		state := &models.ViewState{SessionKey: "bob", City: "Ludhiana"}
		require.NoError(t, repo.SetView(ctx, state))

		err := repo.ClearView(ctx, "bob")
		require.NoError(t, err)

		got, _ := repo.GetView(ctx, "bob")
		assert.Nil(t, got)
	})

	t.Run("ViewExpires", func(t *testing.T) {
		short := NewRedisViewRepository(client, time.Second)
		state := &models.ViewState{SessionKey: "carol", RedirectAfterLogin: "/my-bookings"}
		require.NoError(t, short.SetView(ctx, state))

		s.FastForward(2 * time.Second)

		got, err := short.GetView(ctx, "carol")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRedisViewRepositoryNilClient(t *testing.T) {
	repo := NewRedisViewRepository(nil, time.Hour)
	ctx := context.Background()

	_, err := repo.GetView(ctx, "x")
	assert.Error(t, err)
	assert.Error(t, repo.SetView(ctx, &models.ViewState{SessionKey: "x"}))
	assert.Error(t, repo.ClearView(ctx, "x"))
}
