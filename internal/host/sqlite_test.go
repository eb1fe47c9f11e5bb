package host

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()

	store, err := Open(ctx, filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.AddItem(ctx, Item{ID: 7, Type: "post"}))
	require.NoError(t, store.AddItem(ctx, Item{
		ID:       11,
		Type:     "attachment",
		MimeType: "image/jpeg",
		File:     "2024/photo.jpg",
	}))
	require.NoError(t, store.SetThumbnail(ctx, 7, 11))

	return store
}

func TestLookupItem(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	item, err := store.LookupItem(ctx, 11)
	require.NoError(t, err)
	require.Equal(t, int64(11), item.ID)
	require.Equal(t, "attachment", item.Type)
	require.Equal(t, "image/jpeg", item.MimeType)
	require.Equal(t, "2024/photo.jpg", item.File)
	require.True(t, item.IsImage())

	post, err := store.LookupItem(ctx, 7)
	require.NoError(t, err)
	require.False(t, post.IsImage())

	_, err = store.LookupItem(ctx, 999999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestThumbnailID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	thumbID, err := store.ThumbnailID(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, int64(11), thumbID)

	// no association reads as zero, not an error
	thumbID, err = store.ThumbnailID(ctx, 11)
	require.NoError(t, err)
	require.Zero(t, thumbID)
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "content.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.AddItem(ctx, Item{ID: 1, Type: "post"}))
	require.NoError(t, store.Close())

	// reopening an initialized database must not fail on the schema
	store, err = Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	item, err := store.LookupItem(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "post", item.Type)
}
