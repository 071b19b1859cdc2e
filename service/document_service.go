package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"redline-backend/extract"
	"redline-backend/logger"
	"redline-backend/models"
	"redline-backend/repository"
	"redline-backend/storage"

	"github.com/google/uuid"
)

// DocumentStore persists document metadata and extracted text.
// Satisfied by repository.DocumentRepository.
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DefaultMaxFileSize is used when no upload limit is configured
const DefaultMaxFileSize = 10 * 1024 * 1024

// DocumentService handles uploaded documents
type DocumentService struct {
	documents   DocumentStore
	storage     storage.Storage
	maxFileSize int64
}

// DocumentServiceOption is a functional option for DocumentService
type DocumentServiceOption func(*DocumentService)

// DocumentWithStore sets the document store
func DocumentWithStore(store DocumentStore) DocumentServiceOption {
	return func(s *DocumentService) {
		s.documents = store
	}
}

// DocumentWithStorage sets the file storage backend
func DocumentWithStorage(st storage.Storage) DocumentServiceOption {
	return func(s *DocumentService) {
		s.storage = st
	}
}

// DocumentWithMaxFileSize sets the upload limit in bytes
func DocumentWithMaxFileSize(n int64) DocumentServiceOption {
	return func(s *DocumentService) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// NewDocumentService creates a new document service
func NewDocumentService(opts ...DocumentServiceOption) *DocumentService {
	s := &DocumentService{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrFileTooLarge      = errors.New("file exceeds maximum size")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrUploadFailed      = errors.New("failed to store document")
)

// MaxFileSize is the upload limit in bytes
func (s *DocumentService) MaxFileSize() int64 {
	return s.maxFileSize
}

// UploadRequest represents a request to upload a document
type UploadRequest struct {
	Filename string
	MimeType string
	Data     io.Reader
}

// UploadResult represents the result of an upload
type UploadResult struct {
	Document *models.Document
}

// Upload extracts the text of a document, stores the original bytes and
// records both
func (s *DocumentService) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if s.documents == nil {
		return nil, errors.New("document store not set")
	}
	if s.storage == nil {
		return nil, errors.New("storage not set")
	}

	// read one byte past the limit to detect oversized bodies
	data, err := io.ReadAll(io.LimitReader(req.Data, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, ErrFileTooLarge
	}

	text, err := extract.Text(req.Filename, req.MimeType, data)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedFormat) || errors.Is(err, extract.ErrInvalidEncoding) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, err
	}

	mimeType := req.MimeType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = storage.ContentType(req.Filename)
	}

	doc := &models.Document{
		ID:       uuid.New(),
		Filename: req.Filename,
		MimeType: mimeType,
		Size:     int64(len(data)),
		Text:     text,
	}

	doc.StoragePath, err = s.storage.Upload(ctx, doc.ID, req.Filename, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		if delErr := s.storage.Delete(ctx, doc.StoragePath); delErr != nil {
			logger.Warn("Failed to clean up %s after database error: %v", doc.StoragePath, delErr)
		}
		return nil, fmt.Errorf("failed to save document record: %w", err)
	}

	logger.Info("Stored document %s (%s, %d bytes)", doc.ID, doc.Filename, doc.Size)
	return &UploadResult{Document: doc}, nil
}

// GetDocumentRequest represents a request to get a document
type GetDocumentRequest struct {
	ID uuid.UUID
}

// GetDocumentResult represents the result of getting a document
type GetDocumentResult struct {
	Document *models.Document
}

// GetDocument retrieves document metadata and text
func (s *DocumentService) GetDocument(ctx context.Context, req GetDocumentRequest) (*GetDocumentResult, error) {
	if s.documents == nil {
		return nil, errors.New("document store not set")
	}
	doc, err := s.documents.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return &GetDocumentResult{Document: doc}, nil
}

// DownloadResult carries the original bytes of a document. The caller closes Body.
type DownloadResult struct {
	Document *models.Document
	Body     io.ReadCloser
}

// Download opens the original bytes of a document
func (s *DocumentService) Download(ctx context.Context, req GetDocumentRequest) (*DownloadResult, error) {
	got, err := s.GetDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, errors.New("storage not set")
	}

	body, err := s.storage.Download(ctx, got.Document.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to download document: %w", err)
	}
	return &DownloadResult{Document: got.Document, Body: body}, nil
}

// Delete removes a document record and its stored bytes. Analyses of the
// document are kept and lose their document reference.
func (s *DocumentService) Delete(ctx context.Context, req GetDocumentRequest) error {
	got, err := s.GetDocument(ctx, req)
	if err != nil {
		return err
	}

	if err := s.documents.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if s.storage != nil {
		if err := s.storage.Delete(ctx, got.Document.StoragePath); err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to delete stored bytes of %s: %v", req.ID, err)
		}
	}
	return nil
}
