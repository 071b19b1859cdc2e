package repository

import (
	"context"
	"errors"

	"redline-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisRepository handles database operations for analyses
type AnalysisRepository struct {
	db *pgxpool.Pool
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const analysisColumns = `id, document_id, kind, language, cache_key, result, comments, fallback, created_at`

// Create inserts an analysis; result and comments are stored as JSONB
func (r *AnalysisRepository) Create(ctx context.Context, a *models.Analysis) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	query := `
		INSERT INTO analyses (id, document_id, kind, language, cache_key, result, comments, fallback)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		a.ID,
		a.DocumentID,
		a.Kind,
		a.Language,
		a.CacheKey,
		a.Result,
		a.Comments,
		a.Fallback,
	).Scan(&a.CreatedAt)
}

// GetByID retrieves an analysis by ID
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1`
	a, err := scanAnalysis(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// UpdateComments replaces the located comments after re-anchoring
func (r *AnalysisRepository) UpdateComments(ctx context.Context, id uuid.UUID, comments models.LocatedComments) error {
	tag, err := r.db.Exec(ctx, `UPDATE analyses SET comments = $2 WHERE id = $1`, id, comments)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAnalysis(row pgx.Row) (*models.Analysis, error) {
	a := &models.Analysis{}
	err := row.Scan(
		&a.ID,
		&a.DocumentID,
		&a.Kind,
		&a.Language,
		&a.CacheKey,
		&a.Result,
		&a.Comments,
		&a.Fallback,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}
