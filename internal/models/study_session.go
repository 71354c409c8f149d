package models

import (
	"time"

	"github.com/google/uuid"
)

type StudySession struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	SetID     uuid.UUID  `json:"set_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

type StartSessionRequest struct {
	SetID uuid.UUID `json:"set_id"`
}
