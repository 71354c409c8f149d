package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"flashdeck-backend/internal/models"
)

type ProgressRepo struct {
	pool *pgxpool.Pool
}

func NewProgressRepo(pool *pgxpool.Pool) *ProgressRepo {
	return &ProgressRepo{pool: pool}
}

// Create inserts one answer attempt. Rows are append-only; there is no update.
func (r *ProgressRepo) Create(ctx context.Context, p *models.FlashcardProgress) error {
	p.ID = uuid.New()
	query := `INSERT INTO flashcard_progress (id, user_id, flashcard_id, session_id, is_correct, difficulty)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		p.ID, p.UserID, p.FlashcardID, p.SessionID, p.IsCorrect, p.Difficulty,
	).Scan(&p.CreatedAt)
}

func (r *ProgressRepo) ListByFlashcard(ctx context.Context, flashcardID, userID uuid.UUID) ([]models.FlashcardProgress, error) {
	query := `SELECT id, user_id, flashcard_id, session_id, is_correct, difficulty, created_at
		FROM flashcard_progress
		WHERE flashcard_id = $1 AND user_id = $2
		ORDER BY created_at DESC`

	return r.list(ctx, query, flashcardID, userID)
}

// ListBySet returns all progress rows for cards in one set.
func (r *ProgressRepo) ListBySet(ctx context.Context, setID, userID uuid.UUID) ([]models.FlashcardProgress, error) {
	query := `SELECT p.id, p.user_id, p.flashcard_id, p.session_id, p.is_correct, p.difficulty, p.created_at
		FROM flashcard_progress p
		JOIN flashcards f ON p.flashcard_id = f.id
		WHERE f.set_id = $1 AND p.user_id = $2
		ORDER BY p.created_at DESC`

	return r.list(ctx, query, setID, userID)
}

// ListByUser returns all progress rows for a user across every set.
func (r *ProgressRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FlashcardProgress, error) {
	query := `SELECT id, user_id, flashcard_id, session_id, is_correct, difficulty, created_at
		FROM flashcard_progress
		WHERE user_id = $1
		ORDER BY created_at DESC`

	return r.list(ctx, query, userID)
}

func (r *ProgressRepo) list(ctx context.Context, query string, args ...interface{}) ([]models.FlashcardProgress, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.FlashcardProgress
	for rows.Next() {
		p := models.FlashcardProgress{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.FlashcardID, &p.SessionID, &p.IsCorrect, &p.Difficulty, &p.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, rows.Err()
}
