package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	s := Session{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		Token:     "tok",
		CreatedAt: time.Now(),
	}

	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, s.UserID, got.UserID)
	require.Equal(t, s.Token, got.Token)

	require.NoError(t, store.Delete(ctx, s.ID))

	_, err = store.Get(ctx, s.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Millisecond)

	s := Session{ID: uuid.NewString(), UserID: "u1", CreatedAt: time.Now().Add(-time.Second)}
	require.NoError(t, store.Save(ctx, s))

	_, err := store.Get(ctx, s.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()

	_, ok := FromContext(ctx)
	require.False(t, ok)

	s := Session{ID: "sid", UserID: "u1", Token: "tok"}
	got, ok := FromContext(WithSession(ctx, s))
	require.True(t, ok)
	require.Equal(t, s, got)
}
