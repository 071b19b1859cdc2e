package handlers

import (
	"errors"
	"net/http"

	"redline-backend/logger"
	"redline-backend/service"

	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidKind):
		respondError(c, http.StatusBadRequest, "INVALID_KIND", err.Error())
	case errors.Is(err, service.ErrEmptyDocument):
		respondError(c, http.StatusBadRequest, "EMPTY_DOCUMENT", "Document text is required")
	case errors.Is(err, service.ErrMissingReview):
		respondError(c, http.StatusBadRequest, "MISSING_ANALYSIS_RESULT", "analysis_result is required")
	case errors.Is(err, service.ErrFileTooLarge):
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, service.ErrUnsupportedFormat):
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "File type not allowed. Allowed types: TXT, MD")
	case errors.Is(err, service.ErrDocumentNotFound):
		respondError(c, http.StatusNotFound, "DOCUMENT_NOT_FOUND", "Document not found")
	case errors.Is(err, service.ErrAnalysisNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Analysis not found")
	case errors.Is(err, service.ErrLLMUnavailable):
		logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
		respondError(c, http.StatusBadGateway, "LLM_UNAVAILABLE", "The language model is unavailable. Please try again.")
	case errors.Is(err, service.ErrUploadFailed):
		logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", err.Error())
	default:
		logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
