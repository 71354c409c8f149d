package models

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty levels as perceived by the student for a single answer attempt.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// FlashcardProgress is one immutable answer outcome for one card.
type FlashcardProgress struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	FlashcardID uuid.UUID  `json:"flashcard_id"`
	SessionID   *uuid.UUID `json:"session_id,omitempty"`
	IsCorrect   bool       `json:"is_correct"`
	Difficulty  string     `json:"difficulty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type RecordProgressRequest struct {
	FlashcardID uuid.UUID `json:"flashcard_id"`
	IsCorrect   bool      `json:"is_correct"`
	Difficulty  string    `json:"difficulty"`
}

// CardStats are derived per-card counters; mastered/struggling are computed,
// never stored.
type CardStats struct {
	FlashcardID       uuid.UUID  `json:"flashcard_id"`
	CorrectCount      int        `json:"correct_count"`
	IncorrectCount    int        `json:"incorrect_count"`
	LastStudied       *time.Time `json:"last_studied,omitempty"`
	AverageDifficulty float64    `json:"average_difficulty"`
	Mastered          bool       `json:"mastered"`
	Struggling        bool       `json:"struggling"`
}

type SetStudyStats struct {
	SetID                  uuid.UUID  `json:"set_id"`
	TotalSessions          int        `json:"total_sessions"`
	AverageDurationSeconds *float64   `json:"average_duration_seconds,omitempty"`
	LastSessionDate        *time.Time `json:"last_session_date,omitempty"`
	TotalCards             int        `json:"total_cards"`
	MasteredCards          int        `json:"mastered_cards"`
	StrugglingCards        int        `json:"struggling_cards"`
}
