package handlers

import (
	"fmt"
	"net/http"

	"redline-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler handles HTTP requests for uploaded documents
type DocumentHandler struct {
	documentService *service.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// UploadFile handles POST /api/files/upload
func (h *DocumentHandler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}

	maxFileSize := h.documentService.MaxFileSize()
	if fileHeader.Size > maxFileSize {
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds maximum of %d bytes", maxFileSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return
	}
	defer file.Close()

	result, err := h.documentService.Upload(c.Request.Context(), service.UploadRequest{
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Data:     file,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	doc := result.Document
	respondOK(c, http.StatusCreated, gin.H{
		"id":         doc.ID,
		"filename":   doc.Filename,
		"mime_type":  doc.MimeType,
		"size":       doc.Size,
		"text":       doc.Text,
		"created_at": doc.CreatedAt,
	})
}

// GetFile handles GET /api/files/:id
func (h *DocumentHandler) GetFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid file ID format")
		return
	}

	result, err := h.documentService.Download(c.Request.Context(), service.GetDocumentRequest{ID: id})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer result.Body.Close()

	doc := result.Document
	c.DataFromReader(http.StatusOK, doc.Size, doc.MimeType, result.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.Filename),
	})
}

// DeleteFile handles DELETE /api/files/:id
func (h *DocumentHandler) DeleteFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid file ID format")
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), service.GetDocumentRequest{ID: id}); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"id": id})
}
