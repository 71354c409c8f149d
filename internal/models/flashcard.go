package models

import (
	"time"

	"github.com/google/uuid"
)

type FlashcardSet struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	SourceDocument *string   `json:"source_document"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Flashcard struct {
	ID        uuid.UUID `json:"id"`
	SetID     uuid.UUID `json:"set_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

type FlashcardSetWithCards struct {
	FlashcardSet
	Flashcards []Flashcard `json:"flashcards"`
}

type CreateSetRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type UpdateSetRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type CreateCardRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type UpdateCardRequest struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

// GeneratedCard is one question/answer pair recovered from a model response.
type GeneratedCard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type GenerateFromTextRequest struct {
	Text     string `json:"text"`
	NumCards int    `json:"num_cards"`
}

type GenerateFromDocumentRequest struct {
	DocumentName string  `json:"document_name"`
	NumCards     int     `json:"num_cards"`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
}
