// Package storage keeps the original bytes of uploaded documents.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage stores uploaded documents by id
type Storage interface {
	// Upload stores a document and returns its storage path
	Upload(ctx context.Context, documentID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download opens a stored document
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes a stored document
	Delete(ctx context.Context, storagePath string) error
}

// ErrNotFound is returned when a storage path does not exist
var ErrNotFound = errors.New("document not found in storage")

// Type is the storage backend
type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
)

// Config selects and configures a backend
type Config struct {
	Type         Type
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates the configured backend
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case TypeLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	case TypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

var pathReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "..", "_")

// documentPath shards by the first two characters of the id and keeps a
// sanitized copy of the original name for humans browsing the bucket
func documentPath(documentID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := pathReplacer.Replace(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	id := documentID.String()
	return fmt.Sprintf("documents/%s/%s_%s%s", id[:2], id, base, ext)
}

// ContentType guesses the MIME type of a document from its name
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".text":
		return "text/plain; charset=utf-8"
	case ".md", ".markdown":
		return "text/markdown; charset=utf-8"
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
