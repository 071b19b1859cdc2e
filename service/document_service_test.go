package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"redline-backend/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocumentService(t *testing.T, opts ...DocumentServiceOption) (*DocumentService, *memDocumentStore) {
	t.Helper()
	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	docs := newMemDocumentStore()
	base := []DocumentServiceOption{DocumentWithStore(docs), DocumentWithStorage(st)}
	return NewDocumentService(append(base, opts...)...), docs
}

func TestUploadMarkdown(t *testing.T) {
	svc, docs := newTestDocumentService(t)
	ctx := context.Background()

	res, err := svc.Upload(ctx, UploadRequest{
		Filename: "prd.md",
		Data:     strings.NewReader("# Goals\n\nShip **fast**.\n"),
	})
	require.NoError(t, err)

	doc := res.Document
	assert.Equal(t, "Goals\n\nShip fast.", doc.Text)
	assert.Equal(t, "text/markdown; charset=utf-8", doc.MimeType)
	assert.Equal(t, int64(24), doc.Size)
	assert.Contains(t, doc.StoragePath, doc.ID.String())
	assert.Len(t, docs.documents, 1)

	download, err := svc.Download(ctx, GetDocumentRequest{ID: doc.ID})
	require.NoError(t, err)
	defer download.Body.Close()
	raw, err := io.ReadAll(download.Body)
	require.NoError(t, err)
	assert.Equal(t, "# Goals\n\nShip **fast**.\n", string(raw))
}

func TestUploadRejects(t *testing.T) {
	svc, docs := newTestDocumentService(t, DocumentWithMaxFileSize(8))
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadRequest{Filename: "big.txt", Data: strings.NewReader("123456789")})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.Upload(ctx, UploadRequest{Filename: "a.pdf", Data: strings.NewReader("%PDF")})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = svc.Upload(ctx, UploadRequest{Filename: "a.txt", Data: strings.NewReader("\xff\xfe")})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.Empty(t, docs.documents)
	assert.Equal(t, int64(8), svc.MaxFileSize())
}

func TestUploadDatabaseFailureIsReported(t *testing.T) {
	svc, docs := newTestDocumentService(t)
	docs.createErr = errors.New("database is down")

	_, err := svc.Upload(context.Background(), UploadRequest{Filename: "a.txt", Data: strings.NewReader("hello")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is down")
}

func TestGetDocumentNotFound(t *testing.T) {
	svc, _ := newTestDocumentService(t)

	_, err := svc.GetDocument(context.Background(), GetDocumentRequest{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	_, err = svc.Download(context.Background(), GetDocumentRequest{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDeleteDocument(t *testing.T) {
	svc, docs := newTestDocumentService(t)
	ctx := context.Background()

	res, err := svc.Upload(ctx, UploadRequest{Filename: "a.txt", Data: strings.NewReader("hello")})
	require.NoError(t, err)
	id := res.Document.ID

	require.NoError(t, svc.Delete(ctx, GetDocumentRequest{ID: id}))
	assert.Empty(t, docs.documents)

	_, err = svc.Download(ctx, GetDocumentRequest{ID: id})
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	err = svc.Delete(ctx, GetDocumentRequest{ID: id})
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
