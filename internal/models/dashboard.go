package models

import (
	"time"

	"github.com/google/uuid"
)

type DashboardSummary struct {
	TotalSets             int     `json:"total_sets"`
	TotalCards            int     `json:"total_cards"`
	TotalStudySessions    int     `json:"total_study_sessions"`
	TotalStudyTimeMinutes float64 `json:"total_study_time_minutes"`
	MasteredCards         int     `json:"mastered_cards"`
	StrugglingCards       int     `json:"struggling_cards"`
	CompletionPercentage  float64 `json:"completion_percentage"`
}

type ActivityItem struct {
	ID        uuid.UUID         `json:"id"`
	Type      string            `json:"type"` // study_session | flashcard_set_created | flashcard_progress
	Timestamp time.Time         `json:"timestamp"`
	Details   map[string]string `json:"details"`
}

type SetStatistics struct {
	SetID                 uuid.UUID  `json:"set_id"`
	Title                 string     `json:"title"`
	TotalCards            int        `json:"total_cards"`
	MasteryPercentage     float64    `json:"mastery_percentage"`
	LastStudied           *time.Time `json:"last_studied,omitempty"`
	StudyCount            int        `json:"study_count"`
	AverageSessionMinutes *float64   `json:"average_session_minutes,omitempty"`
}

type TimePoint struct {
	Date    string  `json:"date"`
	Minutes float64 `json:"minutes"`
}

type StudyTimeDistribution struct {
	Daily   []TimePoint `json:"daily"`
	Weekly  []TimePoint `json:"weekly"`
	Monthly []TimePoint `json:"monthly"`
}
