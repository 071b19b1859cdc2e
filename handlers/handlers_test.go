package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"redline-backend/llm"
	"redline-backend/logger"
	"redline-backend/models"
	"redline-backend/repository"
	"redline-backend/service"
	"redline-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type memAnalyses struct {
	mu sync.Mutex
	m  map[uuid.UUID]models.Analysis
}

func (s *memAnalyses) Create(_ context.Context, a *models.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[a.ID] = *a
	return nil
}

func (s *memAnalyses) GetByID(_ context.Context, id uuid.UUID) (*models.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.m[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (s *memAnalyses) UpdateComments(_ context.Context, id uuid.UUID, comments models.LocatedComments) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.m[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Comments = comments
	s.m[id] = a
	return nil
}

type memDocuments struct {
	mu sync.Mutex
	m  map[uuid.UUID]models.Document
}

func (s *memDocuments) Create(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[doc.ID] = *doc
	return nil
}

func (s *memDocuments) GetByID(_ context.Context, id uuid.UUID) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.m[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (s *memDocuments) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

const clauseResponse = `{
  "document_id": "nda-1",
  "analysis_summary": "One-sided indemnity.",
  "comments": [{
    "comment_id": "c1",
    "context_before": "The Company shall ",
    "original_text": "indemnify the Investor",
    "context_after": " for all losses",
    "severity": "Must Change",
    "comment_title": "Uncapped indemnity",
    "comment_details": "There is no cap.",
    "recommendation": "Cap it at the purchase price."
  }]
}`

func setupRouter(t *testing.T, client llm.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.SetOutput(&bytes.Buffer{})

	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	docs := &memDocuments{m: make(map[uuid.UUID]models.Document)}

	analysisService := service.NewAnalysisService(
		service.WithLLMClient(client),
		service.WithAnalysisStore(&memAnalyses{m: make(map[uuid.UUID]models.Analysis)}),
		service.WithDocumentStore(docs),
	)
	documentService := service.NewDocumentService(
		service.DocumentWithStore(docs),
		service.DocumentWithStorage(st),
		service.DocumentWithMaxFileSize(1024),
	)

	r := gin.New()
	RegisterRoutes(r, NewAnalysisHandler(analysisService), NewDocumentHandler(documentService))
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := setupRouter(t, llm.NewMockClient())
	w := doJSON(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", gjson.Get(w.Body.String(), "status").String())
}

func TestAnalyzeEndpoint(t *testing.T) {
	r := setupRouter(t, llm.NewMockClient(clauseResponse))

	w := doJSON(r, http.MethodPost, "/api/analyze",
		`{"text": "The Company shall indemnify the Investor for all losses.", "temperature": 0.2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := w.Body.String()
	assert.True(t, gjson.Get(body, "success").Bool())
	assert.Equal(t, "legal", gjson.Get(body, "data.kind").String())
	assert.False(t, gjson.Get(body, "data.fallback").Bool())
	assert.Equal(t, "One-sided indemnity.", gjson.Get(body, "data.result.analysis_summary").String())
	assert.Equal(t, int64(18), gjson.Get(body, "data.comments.0.start").Int())
	assert.Equal(t, int64(40), gjson.Get(body, "data.comments.0.end").Int())
	assert.Equal(t, "high", gjson.Get(body, "data.comments.0.severity").String())

	id := gjson.Get(body, "data.id").String()
	w = doJSON(r, http.MethodGet, "/api/analyses/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, gjson.Get(w.Body.String(), "data.id").String())

	w = doJSON(r, http.MethodPost, "/api/analyses/"+id+"/relocate",
		`{"text": "Preamble. The Company shall indemnify the Investor for all losses."}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(28), gjson.Get(w.Body.String(), "data.comments.0.start").Int())
}

func TestAnalyzeEndpointErrors(t *testing.T) {
	tcs := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"no text", "/api/analyze", `{}`, http.StatusBadRequest, "MISSING_TEXT"},
		{"bad json", "/api/analyze", `{`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"temperature out of range", "/api/analyze", `{"text": "x", "temperature": 3}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad document id", "/api/analyze-prd", `{"document_id": "nope"}`, http.StatusBadRequest, "INVALID_DOCUMENT_ID"},
		{"unknown document", "/api/analyze-prd", `{"document_id": "` + uuid.NewString() + `"}`, http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
		{"bad language", "/api/analyze-prd", `{"text": "x", "language": "Klingon"}`, http.StatusBadRequest, "INVALID_LANGUAGE"},
		{"blank text", "/api/analyze-bot-card", `{"text": "   "}`, http.StatusBadRequest, "EMPTY_DOCUMENT"},
		{"quantify without review", "/api/quantify-bot-card", `{"original_content": "card"}`, http.StatusBadRequest, "INVALID_REQUEST"},
	}

	r := setupRouter(t, llm.NewMockClient(clauseResponse))
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.False(t, gjson.Get(w.Body.String(), "success").Bool())
			assert.Equal(t, tc.code, gjson.Get(w.Body.String(), "error.code").String())
		})
	}
}

func TestAnalyzeEndpointLLMUnavailable(t *testing.T) {
	r := setupRouter(t, &llm.MockClient{Errors: []error{errors.New("quota exceeded")}})

	w := doJSON(r, http.MethodPost, "/api/analyze-bot-card", `{"text": "Title: Knight"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "LLM_UNAVAILABLE", gjson.Get(w.Body.String(), "error.code").String())
}

func TestGetAnalysisErrors(t *testing.T) {
	r := setupRouter(t, llm.NewMockClient())

	w := doJSON(r, http.MethodGet, "/api/analyses/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/analyses/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", gjson.Get(w.Body.String(), "error.code").String())
}

func TestLocateEndpoint(t *testing.T) {
	r := setupRouter(t, llm.NewMockClient())

	w := doJSON(r, http.MethodPost, "/api/locate", `{
		"text": "The quick brown fox jumps over the lazy dog.",
		"comments": [{"comment_id": "c1", "context_before": "The quick ", "original_text": "brown fox", "context_after": " jumps"}]
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, int64(10), gjson.Get(body, "data.comments.0.start").Int())
	assert.Equal(t, int64(19), gjson.Get(body, "data.comments.0.end").Int())
	assert.Equal(t, "exact_context", gjson.Get(body, "data.comments.0.tier").String())
}

func TestQuantifyEndpoint(t *testing.T) {
	r := setupRouter(t, llm.NewMockClient(`{"card_id": "card-1", "sections": {"bot_prompt": {"character_story_arc": 4}}}`))

	w := doJSON(r, http.MethodPost, "/api/quantify-bot-card",
		`{"original_content": "Title: Knight", "analysis_result": {"card_id": "card-1"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Equal(t, "card-1", gjson.Get(body, "data.card_id").String())
	assert.Equal(t, 4.0, gjson.Get(body, "data.quantitative_scores.final_score").Float())
	assert.False(t, gjson.Get(body, "data.fallback").Bool())
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAndDownload(t *testing.T) {
	r := setupRouter(t, llm.NewMockClient(clauseResponse))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "nda.txt", "The Company shall indemnify the Investor for all losses."))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := w.Body.String()
	id := gjson.Get(body, "data.id").String()
	assert.Equal(t, "nda.txt", gjson.Get(body, "data.filename").String())
	assert.Equal(t, "The Company shall indemnify the Investor for all losses.", gjson.Get(body, "data.text").String())

	w = doJSON(r, http.MethodGet, "/api/files/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "The Company shall indemnify the Investor for all losses.", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="nda.txt"`)

	// analyse the stored document by id
	w = doJSON(r, http.MethodPost, "/api/analyze", `{"document_id": "`+id+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, id, gjson.Get(w.Body.String(), "data.document_id").String())
}

func TestUploadErrors(t *testing.T) {
	r := setupRouter(t, llm.NewMockClient())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "deck.pdf", "%PDF-1.7"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FILE_TYPE", gjson.Get(w.Body.String(), "error.code").String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "big.txt", strings.Repeat("a", 2048)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "FILE_TOO_LARGE", gjson.Get(w.Body.String(), "error.code").String())

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "MISSING_FILE", gjson.Get(w.Body.String(), "error.code").String())

	w = doJSON(r, http.MethodGet, "/api/files/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteFile(t *testing.T) {
	r := setupRouter(t, llm.NewMockClient())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "notes.txt", "draft"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := gjson.Get(w.Body.String(), "data.id").String()

	w = doJSON(r, http.MethodDelete, "/api/files/"+id, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, id, gjson.Get(w.Body.String(), "data.id").String())

	w = doJSON(r, http.MethodGet, "/api/files/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/files/not-a-uuid", "")
	assert.Equal(t, "INVALID_ID", gjson.Get(w.Body.String(), "error.code").String())
}
