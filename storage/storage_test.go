package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewStorage(Config{Type: TypeLocal, LocalPath: t.TempDir()})
	require.NoError(t, err)

	ctx := context.Background()
	id := uuid.MustParse("3f2b6d1e-8c4a-4e1b-9a7d-2c5e8f0b1a23")

	path, err := store.Upload(ctx, id, "Term Sheet.md", strings.NewReader("# Terms"))
	require.NoError(t, err)
	assert.Equal(t, "documents/3f/3f2b6d1e-8c4a-4e1b-9a7d-2c5e8f0b1a23_Term_Sheet.md", path)

	r, err := store.Download(ctx, path)
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	r.Close()
	require.NoError(t, err)
	assert.Equal(t, "# Terms", string(b))

	require.NoError(t, store.Delete(ctx, path))
	require.NoError(t, store.Delete(ctx, path))

	_, err = store.Download(ctx, path)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageStaysInBase(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(store.resolve("../../etc/passwd"), base))
}

func TestDocumentPathSanitizes(t *testing.T) {
	id := uuid.MustParse("aa000000-0000-0000-0000-000000000000")
	assert.Equal(t, "documents/aa/aa000000-0000-0000-0000-000000000000_my_notes.txt", documentPath(id, "dir/my notes.TXT"))
}

func TestNewStorageUnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/markdown; charset=utf-8", ContentType("a.MD"))
	assert.Equal(t, "application/pdf", ContentType("a.pdf"))
	assert.Equal(t, "application/octet-stream", ContentType("a"))
}
