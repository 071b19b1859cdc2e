package service

import (
	"context"
	"sync"

	"redline-backend/models"
	"redline-backend/repository"

	"github.com/google/uuid"
)

type memAnalysisStore struct {
	mu        sync.Mutex
	analyses  map[uuid.UUID]*models.Analysis
	createErr error
}

func newMemAnalysisStore() *memAnalysisStore {
	return &memAnalysisStore{analyses: make(map[uuid.UUID]*models.Analysis)}
}

func (m *memAnalysisStore) Create(_ context.Context, a *models.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	stored := *a
	m.analyses[a.ID] = &stored
	return nil
}

func (m *memAnalysisStore) GetByID(_ context.Context, id uuid.UUID) (*models.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.analyses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *memAnalysisStore) UpdateComments(_ context.Context, id uuid.UUID, comments models.LocatedComments) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.analyses[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Comments = comments
	return nil
}

type memDocumentStore struct {
	mu        sync.Mutex
	documents map[uuid.UUID]*models.Document
	createErr error
}

func newMemDocumentStore() *memDocumentStore {
	return &memDocumentStore{documents: make(map[uuid.UUID]*models.Document)}
}

func (m *memDocumentStore) Create(_ context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	stored := *doc
	m.documents[doc.ID] = &stored
	return nil
}

func (m *memDocumentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (m *memDocumentStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.documents, id)
	return nil
}
