package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"flashdeck-backend/internal/models"
)

type StudySessionRepo struct {
	pool *pgxpool.Pool
}

func NewStudySessionRepo(pool *pgxpool.Pool) *StudySessionRepo {
	return &StudySessionRepo{pool: pool}
}

func (r *StudySessionRepo) Start(ctx context.Context, s *models.StudySession) error {
	s.ID = uuid.New()
	query := `INSERT INTO study_sessions (id, user_id, set_id)
		VALUES ($1, $2, $3) RETURNING start_time`

	return r.pool.QueryRow(ctx, query, s.ID, s.UserID, s.SetID).Scan(&s.StartTime)
}

func (r *StudySessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error) {
	s := &models.StudySession{}
	query := `SELECT id, user_id, set_id, start_time, end_time FROM study_sessions WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.UserID, &s.SetID, &s.StartTime, &s.EndTime)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StudySessionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.StudySession, error) {
	query := `SELECT id, user_id, set_id, start_time, end_time
		FROM study_sessions WHERE user_id = $1 ORDER BY start_time DESC`

	return r.list(ctx, query, userID)
}

func (r *StudySessionRepo) ListBySet(ctx context.Context, setID, userID uuid.UUID) ([]*models.StudySession, error) {
	query := `SELECT id, user_id, set_id, start_time, end_time
		FROM study_sessions WHERE set_id = $1 AND user_id = $2 ORDER BY start_time DESC`

	return r.list(ctx, query, setID, userID)
}

func (r *StudySessionRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.StudySession, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.StudySession
	for rows.Next() {
		s := &models.StudySession{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.SetID, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// End closes an open session. The WHERE guard makes closing terminal; the
// caller checks the session state first to report a double-close as a
// conflict rather than silently succeeding.
func (r *StudySessionRepo) End(ctx context.Context, s *models.StudySession) error {
	return r.pool.QueryRow(ctx, `
		UPDATE study_sessions
		SET end_time = NOW()
		WHERE id = $1 AND end_time IS NULL
		RETURNING end_time
	`, s.ID).Scan(&s.EndTime)
}

func (r *StudySessionRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM study_sessions WHERE user_id = $1", userID).Scan(&n)
	return n, err
}
