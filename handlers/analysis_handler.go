package handlers

import (
	"encoding/json"
	"net/http"

	"redline-backend/models"
	"redline-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalysisHandler handles HTTP requests for analyses
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// AnalyzeRequest represents the request body for the analyze endpoints
type AnalyzeRequest struct {
	Text         string   `json:"text"`
	DocumentID   string   `json:"document_id"`
	Language     string   `json:"language"`
	SystemPrompt string   `json:"system_prompt"`
	Temperature  *float64 `json:"temperature" binding:"omitempty,min=0,max=2"`
	TopP         *float64 `json:"top_p" binding:"omitempty,min=0,max=1"`
}

// analysisResponse is an analysis plus the text its offsets refer to
type analysisResponse struct {
	*models.Analysis
	Text   string `json:"text"`
	Cached bool   `json:"cached"`
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	h.analyze(c, models.KindLegal)
}

// AnalyzePRD handles POST /api/analyze-prd
func (h *AnalysisHandler) AnalyzePRD(c *gin.Context) {
	h.analyze(c, models.KindPRD)
}

// AnalyzeBotCard handles POST /api/analyze-bot-card
func (h *AnalysisHandler) AnalyzeBotCard(c *gin.Context) {
	h.analyze(c, models.KindBotCard)
}

func (h *AnalysisHandler) analyze(c *gin.Context, kind models.AnalysisKind) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if req.Text == "" && req.DocumentID == "" {
		respondError(c, http.StatusBadRequest, "MISSING_TEXT", "Either text or document_id is required")
		return
	}

	serviceReq := service.AnalyzeRequest{
		Kind:         kind,
		Language:     models.Language(req.Language),
		Text:         req.Text,
		SystemPrompt: req.SystemPrompt,
		Temperature:  req.Temperature,
		TopP:         req.TopP,
	}

	if req.Text == "" {
		id, err := uuid.Parse(req.DocumentID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_DOCUMENT_ID", "Invalid document_id format")
			return
		}
		serviceReq.DocumentID = &id
	}

	switch serviceReq.Language {
	case "", models.LanguageEnglish, models.LanguageChinese:
	default:
		respondError(c, http.StatusBadRequest, "INVALID_LANGUAGE", "language must be English or 中文")
		return
	}

	result, err := h.analysisService.Analyze(c.Request.Context(), serviceReq)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, analysisResponse{
		Analysis: result.Analysis,
		Text:     result.Text,
		Cached:   result.Cached,
	})
}

// GetAnalysis handles GET /api/analyses/:id
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid analysis ID format")
		return
	}

	result, err := h.analysisService.GetAnalysis(c.Request.Context(), service.GetAnalysisRequest{ID: id})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result.Analysis)
}

// RelocateRequest represents the request body for re-anchoring an analysis
type RelocateRequest struct {
	Text string `json:"text" binding:"required"`
}

// Relocate handles POST /api/analyses/:id/relocate
func (h *AnalysisHandler) Relocate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid analysis ID format")
		return
	}

	var req RelocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.analysisService.Relocate(c.Request.Context(), service.RelocateRequest{ID: id, Text: req.Text})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result.Analysis)
}

// LocateRequest represents the request body for stateless locating
type LocateRequest struct {
	Text     string           `json:"text"`
	Comments []models.Comment `json:"comments" binding:"required"`
}

// Locate handles POST /api/locate
func (h *AnalysisHandler) Locate(c *gin.Context) {
	var req LocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result := h.analysisService.Locate(service.LocateRequest{Text: req.Text, Comments: req.Comments})
	respondOK(c, http.StatusOK, gin.H{"comments": result.Comments})
}

// QuantifyRequest represents the request body for scoring a bot card
type QuantifyRequest struct {
	OriginalContent string          `json:"original_content" binding:"required"`
	AnalysisResult  json.RawMessage `json:"analysis_result" binding:"required"`
}

// QuantifyBotCard handles POST /api/quantify-bot-card
func (h *AnalysisHandler) QuantifyBotCard(c *gin.Context) {
	var req QuantifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing original_content or analysis_result")
		return
	}

	result, err := h.analysisService.QuantifyBotCard(c.Request.Context(), service.QuantifyRequest{
		Content: req.OriginalContent,
		Review:  req.AnalysisResult,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"card_id":             result.Result.CardID,
		"quantitative_scores": result.Result.QuantitativeScores,
		"fallback":            result.Fallback,
	})
}
