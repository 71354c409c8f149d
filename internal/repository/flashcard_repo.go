package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"flashdeck-backend/internal/models"
)

type FlashcardRepo struct {
	pool *pgxpool.Pool
}

func NewFlashcardRepo(pool *pgxpool.Pool) *FlashcardRepo {
	return &FlashcardRepo{pool: pool}
}

// Set operations

func (r *FlashcardRepo) CreateSet(ctx context.Context, s *models.FlashcardSet) error {
	s.ID = uuid.New()
	query := `INSERT INTO flashcard_sets (id, user_id, title, description, source_document)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.UserID, s.Title, s.Description, s.SourceDocument,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *FlashcardRepo) GetSetByID(ctx context.Context, id uuid.UUID) (*models.FlashcardSet, error) {
	s := &models.FlashcardSet{}
	query := `SELECT id, user_id, title, description, source_document, created_at, updated_at
		FROM flashcard_sets WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.Title, &s.Description, &s.SourceDocument, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *FlashcardRepo) ListSetsByUser(ctx context.Context, userID uuid.UUID) ([]*models.FlashcardSet, error) {
	query := `SELECT id, user_id, title, description, source_document, created_at, updated_at
		FROM flashcard_sets WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []*models.FlashcardSet
	for rows.Next() {
		s := &models.FlashcardSet{}
		err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &s.SourceDocument, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

func (r *FlashcardRepo) UpdateSet(ctx context.Context, s *models.FlashcardSet) error {
	return r.pool.QueryRow(ctx,
		`UPDATE flashcard_sets SET title = $1, description = $2, updated_at = NOW()
		 WHERE id = $3 RETURNING updated_at`,
		s.Title, s.Description, s.ID,
	).Scan(&s.UpdatedAt)
}

// DeleteSet removes the set; cards and sessions go with it via FK cascade.
func (r *FlashcardRepo) DeleteSet(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM flashcard_sets WHERE id = $1", id)
	return err
}

func (r *FlashcardRepo) CountSetsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM flashcard_sets WHERE user_id = $1", userID).Scan(&n)
	return n, err
}

// Card operations

func (r *FlashcardRepo) CreateCard(ctx context.Context, c *models.Flashcard) error {
	c.ID = uuid.New()
	query := `INSERT INTO flashcards (id, set_id, question, answer)
		VALUES ($1, $2, $3, $4) RETURNING created_at`

	return r.pool.QueryRow(ctx, query, c.ID, c.SetID, c.Question, c.Answer).Scan(&c.CreatedAt)
}

func (r *FlashcardRepo) CreateCards(ctx context.Context, setID uuid.UUID, cards []models.GeneratedCard) ([]models.Flashcard, error) {
	out := make([]models.Flashcard, 0, len(cards))
	for _, gc := range cards {
		c := models.Flashcard{SetID: setID, Question: gc.Question, Answer: gc.Answer}
		if err := r.CreateCard(ctx, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *FlashcardRepo) GetCardByID(ctx context.Context, id uuid.UUID) (*models.Flashcard, error) {
	c := &models.Flashcard{}
	query := `SELECT id, set_id, question, answer, created_at FROM flashcards WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.SetID, &c.Question, &c.Answer, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *FlashcardRepo) GetCardsBySet(ctx context.Context, setID uuid.UUID) ([]models.Flashcard, error) {
	query := `SELECT id, set_id, question, answer, created_at
		FROM flashcards WHERE set_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		c := models.Flashcard{}
		if err := rows.Scan(&c.ID, &c.SetID, &c.Question, &c.Answer, &c.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// GetCardsByUser returns every card across all of a user's sets.
func (r *FlashcardRepo) GetCardsByUser(ctx context.Context, userID uuid.UUID) ([]models.Flashcard, error) {
	query := `SELECT f.id, f.set_id, f.question, f.answer, f.created_at
		FROM flashcards f
		JOIN flashcard_sets s ON f.set_id = s.id
		WHERE s.user_id = $1
		ORDER BY f.created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		c := models.Flashcard{}
		if err := rows.Scan(&c.ID, &c.SetID, &c.Question, &c.Answer, &c.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *FlashcardRepo) UpdateCard(ctx context.Context, c *models.Flashcard) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE flashcards SET question = $1, answer = $2 WHERE id = $3",
		c.Question, c.Answer, c.ID,
	)
	return err
}

func (r *FlashcardRepo) DeleteCard(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM flashcards WHERE id = $1", id)
	return err
}

func (r *FlashcardRepo) CountCardsBySet(ctx context.Context, setID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM flashcards WHERE set_id = $1", setID).Scan(&n)
	return n, err
}

func (r *FlashcardRepo) CountCardsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM flashcards f
		JOIN flashcard_sets s ON f.set_id = s.id
		WHERE s.user_id = $1`, userID).Scan(&n)
	return n, err
}
