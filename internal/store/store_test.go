package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/recite/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "recite.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestAddAndListPassages(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	id1, err := st.AddPassage(ctx, model.Passage{Title: "Fox", Body: "  The quick brown fox.  ", TimeLimit: 30 * time.Second, CreatedAt: created})
	require.NoError(t, err)
	id2, err := st.AddPassage(ctx, model.Passage{Body: "one two three four five six seven"})
	require.NoError(t, err)
	require.Greater(t, id2, id1)

	passages, err := st.ListPassages(ctx)
	require.NoError(t, err)
	require.Len(t, passages, 2)

	require.Equal(t, id1, passages[0].ID)
	require.Equal(t, "Fox", passages[0].Title)
	require.Equal(t, "The quick brown fox.", passages[0].Body)
	require.Equal(t, 30*time.Second, passages[0].TimeLimit)
	require.True(t, created.Equal(passages[0].CreatedAt))

	require.Equal(t, "one two three four five…", passages[1].Title)
	require.Zero(t, passages[1].TimeLimit)
	require.False(t, passages[1].CreatedAt.IsZero())
}

func TestAddPassageRejectsEmptyBody(t *testing.T) {
	st := openTestStore(t)
	_, err := st.AddPassage(context.Background(), model.Passage{Title: "blank", Body: "   "})
	require.Error(t, err)
}

func TestAddPassageClampsNegativeLimit(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	_, err := st.AddPassage(ctx, model.Passage{Body: "short", TimeLimit: -10 * time.Second})
	require.NoError(t, err)

	passages, err := st.ListPassages(ctx)
	require.NoError(t, err)
	require.Zero(t, passages[0].TimeLimit)
}

func TestDeletePassage(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id, err := st.AddPassage(ctx, model.Passage{Body: "to delete"})
	require.NoError(t, err)

	require.NoError(t, st.DeletePassage(ctx, id))
	passages, err := st.ListPassages(ctx)
	require.NoError(t, err)
	require.Empty(t, passages)

	err = st.DeletePassage(ctx, id)
	require.True(t, errors.Is(err, ErrPassageNotFound))
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recite.db")
	st, err := Open(path)
	require.NoError(t, err)
	_, err = st.AddPassage(context.Background(), model.Passage{Body: "kept"})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
	passages, err := st.ListPassages(context.Background())
	require.NoError(t, err)
	require.Len(t, passages, 1)
}
