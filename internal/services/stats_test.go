package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"flashdeck-backend/internal/models"
)

func newTestStatsService() *StatsService {
	return &StatsService{masteryMinCorrect: 3, masteryMaxDifficulty: 2.0}
}

func progressRow(correct bool, difficulty string, at time.Time) models.FlashcardProgress {
	return models.FlashcardProgress{
		ID:         uuid.New(),
		IsCorrect:  correct,
		Difficulty: difficulty,
		CreatedAt:  at,
	}
}

func TestAggregateCard_Mastered(t *testing.T) {
	s := newTestStatsService()
	cardID := uuid.New()
	now := time.Now()

	// 3 correct, avg difficulty (1+1+2)/4 with one incorrect easy = 1.25 < 2
	rows := []models.FlashcardProgress{
		progressRow(true, models.DifficultyEasy, now.Add(-3*time.Hour)),
		progressRow(true, models.DifficultyEasy, now.Add(-2*time.Hour)),
		progressRow(true, models.DifficultyMedium, now.Add(-1*time.Hour)),
		progressRow(false, models.DifficultyEasy, now.Add(-4*time.Hour)),
	}

	stats := s.aggregateCard(cardID, rows)

	if stats.CorrectCount != 3 {
		t.Errorf("Expected 3 correct, got %d", stats.CorrectCount)
	}
	if stats.IncorrectCount != 1 {
		t.Errorf("Expected 1 incorrect, got %d", stats.IncorrectCount)
	}
	if !stats.Mastered {
		t.Errorf("expected card to be mastered (correct=%d avg=%.2f)", stats.CorrectCount, stats.AverageDifficulty)
	}
	if stats.Struggling {
		t.Errorf("did not expect card to be struggling")
	}
	if stats.LastStudied == nil || !stats.LastStudied.Equal(now.Add(-1*time.Hour)) {
		t.Errorf("expected last studied to be the newest row, got %v", stats.LastStudied)
	}
}

func TestAggregateCard_NotMasteredWhenDifficultyHigh(t *testing.T) {
	s := newTestStatsService()
	now := time.Now()

	// Enough correct answers, but all hard: avg 3 >= 2.
	rows := []models.FlashcardProgress{
		progressRow(true, models.DifficultyHard, now),
		progressRow(true, models.DifficultyHard, now),
		progressRow(true, models.DifficultyHard, now),
	}

	stats := s.aggregateCard(uuid.New(), rows)
	if stats.Mastered {
		t.Errorf("expected card not mastered with avg difficulty %.2f", stats.AverageDifficulty)
	}
}

func TestAggregateCard_NotMasteredWhenTooFewCorrect(t *testing.T) {
	s := newTestStatsService()
	now := time.Now()

	rows := []models.FlashcardProgress{
		progressRow(true, models.DifficultyEasy, now),
		progressRow(true, models.DifficultyEasy, now),
	}

	stats := s.aggregateCard(uuid.New(), rows)
	if stats.Mastered {
		t.Errorf("expected card not mastered with only %d correct", stats.CorrectCount)
	}
}

func TestAggregateCard_Struggling(t *testing.T) {
	s := newTestStatsService()
	now := time.Now()

	rows := []models.FlashcardProgress{
		progressRow(true, models.DifficultyMedium, now),
		progressRow(false, models.DifficultyHard, now),
		progressRow(false, models.DifficultyHard, now),
		progressRow(false, models.DifficultyMedium, now),
	}

	stats := s.aggregateCard(uuid.New(), rows)
	if !stats.Struggling {
		t.Errorf("expected struggling with %d incorrect vs %d correct", stats.IncorrectCount, stats.CorrectCount)
	}
	if stats.Mastered {
		t.Errorf("did not expect mastered")
	}
}

func TestAggregateCard_NoAttempts(t *testing.T) {
	s := newTestStatsService()

	stats := s.aggregateCard(uuid.New(), nil)
	if stats.Mastered || stats.Struggling {
		t.Errorf("card with no attempts must be neither mastered nor struggling")
	}
	if stats.AverageDifficulty != 0 {
		t.Errorf("Expected average difficulty 0, got %.2f", stats.AverageDifficulty)
	}
	if stats.LastStudied != nil {
		t.Errorf("Expected nil last studied, got %v", stats.LastStudied)
	}
}

func TestDifficultyWeight(t *testing.T) {
	tests := []struct {
		difficulty string
		want       float64
	}{
		{models.DifficultyEasy, 1},
		{models.DifficultyMedium, 2},
		{models.DifficultyHard, 3},
	}

	for _, tc := range tests {
		if got := difficultyWeight(tc.difficulty); got != tc.want {
			t.Errorf("difficultyWeight(%q) = %v, want %v", tc.difficulty, got, tc.want)
		}
	}
}

func session(start time.Time, end *time.Time) *models.StudySession {
	return &models.StudySession{
		ID:        uuid.New(),
		StartTime: start,
		EndTime:   end,
	}
}

func TestSessionMinutes(t *testing.T) {
	now := time.Now()
	start := now.Add(-30 * time.Minute)
	end := now.Add(-10 * time.Minute)

	closed := session(start, &end)
	if got := sessionMinutes(closed, now); got != 20 {
		t.Errorf("Expected 20 minutes, got %v", got)
	}

	// Open session runs up to now.
	open := session(start, nil)
	if got := sessionMinutes(open, now); got != 30 {
		t.Errorf("Expected 30 minutes for open session, got %v", got)
	}
}

func TestOverlapMinutes_ClipsToBucket(t *testing.T) {
	loc := time.UTC
	dayStart := time.Date(2026, 8, 30, 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	now := dayEnd.Add(12 * time.Hour)

	// Session spans the midnight boundary: 23:30 to 00:30 next day.
	start := dayStart.Add(23*time.Hour + 30*time.Minute)
	end := dayEnd.Add(30 * time.Minute)
	sess := session(start, &end)

	if got := overlapMinutes(sess, dayStart, dayEnd, now); got != 30 {
		t.Errorf("Expected 30 minutes inside bucket, got %v", got)
	}
	if got := overlapMinutes(sess, dayEnd, dayEnd.AddDate(0, 0, 1), now); got != 30 {
		t.Errorf("Expected 30 minutes in following bucket, got %v", got)
	}
}

func TestOverlapMinutes_OutsideBucket(t *testing.T) {
	loc := time.UTC
	from := time.Date(2026, 8, 30, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, 1)

	start := from.Add(-2 * time.Hour)
	end := from.Add(-1 * time.Hour)
	sess := session(start, &end)

	if got := overlapMinutes(sess, from, to, to); got != 0 {
		t.Errorf("Expected 0 minutes, got %v", got)
	}
}

func TestBuildStudyTimeDistribution_BucketCounts(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC) // a Monday

	end := now.Add(-1 * time.Hour)
	sessions := []*models.StudySession{
		session(now.Add(-2*time.Hour), &end),
	}

	dist := buildStudyTimeDistribution(sessions, now)

	if len(dist.Daily) != 7 {
		t.Errorf("Expected 7 daily buckets, got %d", len(dist.Daily))
	}
	if len(dist.Weekly) != 4 {
		t.Errorf("Expected 4 weekly buckets, got %d", len(dist.Weekly))
	}
	if len(dist.Monthly) != 6 {
		t.Errorf("Expected 6 monthly buckets, got %d", len(dist.Monthly))
	}

	today := dist.Daily[len(dist.Daily)-1]
	if today.Date != "2026-08-31" {
		t.Errorf("Expected last daily bucket 2026-08-31, got %q", today.Date)
	}
	if today.Minutes != 60 {
		t.Errorf("Expected 60 minutes today, got %v", today.Minutes)
	}

	thisWeek := dist.Weekly[len(dist.Weekly)-1]
	if thisWeek.Date != "2026-08-31 to 2026-09-06" {
		t.Errorf("Expected Monday-start week label, got %q", thisWeek.Date)
	}
	if thisWeek.Minutes != 60 {
		t.Errorf("Expected 60 minutes this week, got %v", thisWeek.Minutes)
	}

	thisMonth := dist.Monthly[len(dist.Monthly)-1]
	if thisMonth.Date != "2026-08" {
		t.Errorf("Expected monthly label 2026-08, got %q", thisMonth.Date)
	}
}

func TestBuildStudyTimeDistribution_OpenSessionCountsToNow(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	sessions := []*models.StudySession{
		session(now.Add(-45*time.Minute), nil),
	}

	dist := buildStudyTimeDistribution(sessions, now)
	today := dist.Daily[len(dist.Daily)-1]
	if today.Minutes != 45 {
		t.Errorf("Expected open session to contribute 45 minutes, got %v", today.Minutes)
	}
}
