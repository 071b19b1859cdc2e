package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"redline-backend/cache"
	"redline-backend/llm"
	"redline-backend/locator"
	"redline-backend/logger"
	"redline-backend/models"
	"redline-backend/parser"
	"redline-backend/repository"

	"github.com/google/uuid"
)

// AnalysisStore persists analyses. Satisfied by repository.AnalysisRepository.
type AnalysisStore interface {
	Create(ctx context.Context, a *models.Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error)
	UpdateComments(ctx context.Context, id uuid.UUID, comments models.LocatedComments) error
}

// DocumentReader loads uploaded documents. Satisfied by repository.DocumentRepository.
type DocumentReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
}

// AnalysisService runs documents through the model and anchors the resulting comments
type AnalysisService struct {
	llmClient llm.Client
	cache     cache.Store
	parser    *parser.Parser
	analyses  AnalysisStore
	documents DocumentReader
	now       func() time.Time
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// WithLLMClient sets the model client
func WithLLMClient(client llm.Client) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.llmClient = client
	}
}

// WithCache sets the result cache
func WithCache(store cache.Store) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.cache = store
	}
}

// WithParser sets the structured output parser
func WithParser(p *parser.Parser) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.parser = p
	}
}

// WithAnalysisStore sets where analyses are persisted
func WithAnalysisStore(store AnalysisStore) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.analyses = store
	}
}

// WithDocumentStore sets where uploaded documents are read from
func WithDocumentStore(store DocumentReader) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.documents = store
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{
		cache:  cache.Noop{},
		parser: parser.NewParser(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrInvalidKind      = errors.New("invalid analysis kind")
	ErrEmptyDocument    = errors.New("document text is empty")
	ErrDocumentNotFound = errors.New("document not found")
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrMissingReview    = errors.New("analysis result is required")
	ErrLLMUnavailable   = errors.New("language model unavailable")
)

// AnalyzeRequest represents a request to analyse a document. Exactly one of
// Text and DocumentID is expected; Text wins when both are set.
type AnalyzeRequest struct {
	Kind         models.AnalysisKind
	Language     models.Language
	Text         string
	DocumentID   *uuid.UUID
	SystemPrompt string
	Temperature  *float64
	TopP         *float64
}

// AnalyzeResult represents the result of an analysis
type AnalyzeResult struct {
	Analysis *models.Analysis
	// Text is the document text the comments are anchored against
	Text      string
	Cached    bool
	Persisted bool
}

// Analyze asks the model for a critique of the document, parses the answer
// and locates every comment in the text. Identical requests are served from
// the cache. Unusable model output yields a fallback result, not an error.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	if !req.Kind.Valid() {
		return nil, ErrInvalidKind
	}
	if s.llmClient == nil {
		return nil, errors.New("llm client not set")
	}

	text, err := s.resolveText(ctx, req)
	if err != nil {
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = models.LanguageEnglish
	}
	system := req.SystemPrompt
	if strings.TrimSpace(system) == "" {
		system = systemPromptFor(req.Kind, language)
	}
	temperature := valueOr(req.Temperature, defaultTemperature)
	topP := valueOr(req.TopP, defaultTopP)

	key := cache.Key(text, promptVariant(req.Kind, language, system, temperature, topP))

	result, cached := s.cache.Get(key)
	ok := true
	if cached {
		logger.Debug("Cache hit for %s analysis %s", req.Kind, key[:12])
	} else {
		raw, err := s.llmClient.Complete(ctx, llm.Prompt{
			System:      system,
			User:        truncateForPrompt(text),
			Temperature: llm.Float(temperature),
			TopP:        llm.Float(topP),
			JSON:        true,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
		}

		result, ok = s.parser.ParseWithStatus(raw)
		if ok {
			s.cache.Set(key, result)
		} else {
			logger.Warn("Unusable %s analysis output (%d chars), returning fallback", req.Kind, len(raw))
		}
	}

	analysis := &models.Analysis{
		ID:         uuid.New(),
		DocumentID: req.DocumentID,
		Kind:       req.Kind,
		Language:   language,
		CacheKey:   key,
		Result:     result,
		Comments:   locator.LocateComments(result.Comments, text),
		Fallback:   !ok,
		CreatedAt:  s.now(),
	}
	if req.Text != "" {
		// inline text is not tied to an uploaded document
		analysis.DocumentID = nil
	}

	persisted := false
	if s.analyses != nil {
		if err := s.analyses.Create(ctx, analysis); err != nil {
			// the caller still gets the analysis
			logger.Error("Failed to save analysis %s: %v", analysis.ID, err)
		} else {
			persisted = true
		}
	}

	return &AnalyzeResult{
		Analysis:  analysis,
		Text:      text,
		Cached:    cached,
		Persisted: persisted,
	}, nil
}

func (s *AnalysisService) resolveText(ctx context.Context, req AnalyzeRequest) (string, error) {
	text := req.Text
	if text == "" && req.DocumentID != nil {
		if s.documents == nil {
			return "", errors.New("document store not set")
		}
		doc, err := s.documents.GetByID(ctx, *req.DocumentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", ErrDocumentNotFound
			}
			return "", fmt.Errorf("failed to load document: %w", err)
		}
		text = doc.Text
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

// GetAnalysisRequest represents a request to get an analysis
type GetAnalysisRequest struct {
	ID uuid.UUID
}

// GetAnalysisResult represents the result of getting an analysis
type GetAnalysisResult struct {
	Analysis *models.Analysis
}

// GetAnalysis retrieves a stored analysis
func (s *AnalysisService) GetAnalysis(ctx context.Context, req GetAnalysisRequest) (*GetAnalysisResult, error) {
	analysis, err := s.loadAnalysis(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &GetAnalysisResult{Analysis: analysis}, nil
}

// RelocateRequest represents a request to re-anchor a stored analysis on edited text
type RelocateRequest struct {
	ID   uuid.UUID
	Text string
}

// RelocateResult represents the result of relocating an analysis
type RelocateResult struct {
	Analysis *models.Analysis
}

// Relocate places the stored comments of an analysis on a new revision of
// the document text and saves the new ranges
func (s *AnalysisService) Relocate(ctx context.Context, req RelocateRequest) (*RelocateResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyDocument
	}
	analysis, err := s.loadAnalysis(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	analysis.Comments = locator.LocateComments(analysis.Result.Comments, req.Text)
	if err := s.analyses.UpdateComments(ctx, analysis.ID, analysis.Comments); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to update analysis: %w", err)
	}

	return &RelocateResult{Analysis: analysis}, nil
}

func (s *AnalysisService) loadAnalysis(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	if s.analyses == nil {
		return nil, errors.New("analysis store not set")
	}
	analysis, err := s.analyses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}
	return analysis, nil
}

// LocateRequest represents a stateless request to anchor comments on text
type LocateRequest struct {
	Text     string
	Comments []models.Comment
}

// LocateResult represents located comments
type LocateResult struct {
	Comments []models.LocatedComment
}

// Locate anchors caller-supplied comments on text. It never fails.
func (s *AnalysisService) Locate(req LocateRequest) *LocateResult {
	return &LocateResult{Comments: locator.LocateComments(req.Comments, req.Text)}
}

// QuantifyRequest represents a request to score a bot card
type QuantifyRequest struct {
	Content string
	// Review is the qualitative bot card analysis as JSON
	Review json.RawMessage
}

// QuantifyResult represents a bot card score sheet
type QuantifyResult struct {
	Result   models.QuantitativeResult
	Fallback bool
}

// QuantifyBotCard asks the model to score a reviewed bot card. Scores are
// clamped and the final score recomputed regardless of what the model claims.
func (s *AnalysisService) QuantifyBotCard(ctx context.Context, req QuantifyRequest) (*QuantifyResult, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyDocument
	}
	review := strings.TrimSpace(string(req.Review))
	if review == "" || review == "null" {
		return nil, ErrMissingReview
	}
	if s.llmClient == nil {
		return nil, errors.New("llm client not set")
	}

	raw, err := s.llmClient.Complete(ctx, llm.Prompt{
		System:      quantifyPrompt,
		User:        quantifyUserPrompt(req.Content, review),
		Temperature: llm.Float(defaultTemperature),
		TopP:        llm.Float(defaultTopP),
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}

	result, ok := s.parser.ParseQuantitative(raw)
	if !ok {
		logger.Warn("Unusable bot card score output (%d chars), returning fallback", len(raw))
	}
	return &QuantifyResult{Result: result, Fallback: !ok}, nil
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
