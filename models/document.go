package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded source file together with its extracted text
type Document struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storage_path"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}
