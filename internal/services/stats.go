package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/repository"
)

// StatsService derives all study statistics from the append-only progress log
// and the session table. Nothing here is stored; every number is recomputed
// per request.
type StatsService struct {
	flashcardRepo *repository.FlashcardRepo
	sessionRepo   *repository.StudySessionRepo
	progressRepo  *repository.ProgressRepo

	masteryMinCorrect    int
	masteryMaxDifficulty float64
}

func NewStatsService(
	flashcardRepo *repository.FlashcardRepo,
	sessionRepo *repository.StudySessionRepo,
	progressRepo *repository.ProgressRepo,
	masteryMinCorrect int,
	masteryMaxDifficulty float64,
) *StatsService {
	return &StatsService{
		flashcardRepo:        flashcardRepo,
		sessionRepo:          sessionRepo,
		progressRepo:         progressRepo,
		masteryMinCorrect:    masteryMinCorrect,
		masteryMaxDifficulty: masteryMaxDifficulty,
	}
}

func difficultyWeight(d string) float64 {
	switch d {
	case models.DifficultyEasy:
		return 1
	case models.DifficultyHard:
		return 3
	default:
		return 2
	}
}

// aggregateCard reduces one card's progress rows to counters and the
// mastered/struggling classification. Cards with no attempts are neither.
func (s *StatsService) aggregateCard(flashcardID uuid.UUID, rows []models.FlashcardProgress) models.CardStats {
	stats := models.CardStats{FlashcardID: flashcardID}

	var difficultySum float64
	for _, p := range rows {
		if p.IsCorrect {
			stats.CorrectCount++
		} else {
			stats.IncorrectCount++
		}
		difficultySum += difficultyWeight(p.Difficulty)
		if stats.LastStudied == nil || p.CreatedAt.After(*stats.LastStudied) {
			t := p.CreatedAt
			stats.LastStudied = &t
		}
	}

	if n := len(rows); n > 0 {
		stats.AverageDifficulty = difficultySum / float64(n)
	}

	stats.Mastered = stats.CorrectCount >= s.masteryMinCorrect &&
		stats.AverageDifficulty < s.masteryMaxDifficulty &&
		len(rows) > 0
	stats.Struggling = stats.IncorrectCount > stats.CorrectCount

	return stats
}

func groupByCard(rows []models.FlashcardProgress) map[uuid.UUID][]models.FlashcardProgress {
	byCard := make(map[uuid.UUID][]models.FlashcardProgress)
	for _, p := range rows {
		byCard[p.FlashcardID] = append(byCard[p.FlashcardID], p)
	}
	return byCard
}

// CardStats returns derived counters for a single card.
func (s *StatsService) CardStats(ctx context.Context, flashcardID, userID uuid.UUID) (*models.CardStats, error) {
	rows, err := s.progressRepo.ListByFlashcard(ctx, flashcardID, userID)
	if err != nil {
		return nil, err
	}
	stats := s.aggregateCard(flashcardID, rows)
	return &stats, nil
}

// SetStats summarizes one set: session counters plus per-card mastery counts.
func (s *StatsService) SetStats(ctx context.Context, setID, userID uuid.UUID) (*models.SetStudyStats, error) {
	sessions, err := s.sessionRepo.ListBySet(ctx, setID, userID)
	if err != nil {
		return nil, err
	}

	stats := &models.SetStudyStats{SetID: setID, TotalSessions: len(sessions)}

	var totalSeconds float64
	var closed int
	for _, sess := range sessions {
		if stats.LastSessionDate == nil || sess.StartTime.After(*stats.LastSessionDate) {
			t := sess.StartTime
			stats.LastSessionDate = &t
		}
		if sess.EndTime != nil {
			totalSeconds += sess.EndTime.Sub(sess.StartTime).Seconds()
			closed++
		}
	}
	if closed > 0 {
		avg := totalSeconds / float64(closed)
		stats.AverageDurationSeconds = &avg
	}

	stats.TotalCards, err = s.flashcardRepo.CountCardsBySet(ctx, setID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.ListBySet(ctx, setID, userID)
	if err != nil {
		return nil, err
	}
	for cardID, rows := range groupByCard(progress) {
		cs := s.aggregateCard(cardID, rows)
		if cs.Mastered {
			stats.MasteredCards++
		}
		if cs.Struggling {
			stats.StrugglingCards++
		}
	}

	return stats, nil
}

// SetCardStats returns derived counters for every card in a set that has at
// least one recorded attempt.
func (s *StatsService) SetCardStats(ctx context.Context, setID, userID uuid.UUID) ([]models.CardStats, error) {
	progress, err := s.progressRepo.ListBySet(ctx, setID, userID)
	if err != nil {
		return nil, err
	}

	byCard := groupByCard(progress)
	out := make([]models.CardStats, 0, len(byCard))
	for cardID, rows := range byCard {
		out = append(out, s.aggregateCard(cardID, rows))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FlashcardID.String() < out[j].FlashcardID.String()
	})
	return out, nil
}

// Summary produces the dashboard headline numbers for one user.
func (s *StatsService) Summary(ctx context.Context, userID uuid.UUID) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{}
	var err error

	summary.TotalSets, err = s.flashcardRepo.CountSetsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary.TotalCards, err = s.flashcardRepo.CountCardsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary.TotalStudySessions = len(sessions)

	now := time.Now()
	for _, sess := range sessions {
		summary.TotalStudyTimeMinutes += sessionMinutes(sess, now)
	}

	progress, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for cardID, rows := range groupByCard(progress) {
		cs := s.aggregateCard(cardID, rows)
		if cs.Mastered {
			summary.MasteredCards++
		}
		if cs.Struggling {
			summary.StrugglingCards++
		}
	}

	if summary.TotalCards > 0 {
		summary.CompletionPercentage = 100 * float64(summary.MasteredCards) / float64(summary.TotalCards)
	}

	return summary, nil
}

// SetStatistics lists per-set mastery for the dashboard, newest set first.
func (s *StatsService) SetStatistics(ctx context.Context, userID uuid.UUID) ([]models.SetStatistics, error) {
	sets, err := s.flashcardRepo.ListSetsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.SetStatistics, 0, len(sets))
	for _, set := range sets {
		stats, err := s.SetStats(ctx, set.ID, userID)
		if err != nil {
			return nil, err
		}

		item := models.SetStatistics{
			SetID:       set.ID,
			Title:       set.Title,
			TotalCards:  stats.TotalCards,
			LastStudied: stats.LastSessionDate,
			StudyCount:  stats.TotalSessions,
		}
		if stats.TotalCards > 0 {
			item.MasteryPercentage = 100 * float64(stats.MasteredCards) / float64(stats.TotalCards)
		}
		if stats.AverageDurationSeconds != nil {
			m := *stats.AverageDurationSeconds / 60
			item.AverageSessionMinutes = &m
		}
		out = append(out, item)
	}
	return out, nil
}

// RecentActivity merges session starts, set creations and answer attempts
// into one feed, newest first, capped at limit.
func (s *StatsService) RecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]models.ActivityItem, error) {
	if limit <= 0 {
		limit = 10
	}

	items := []models.ActivityItem{}

	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	setTitles := make(map[uuid.UUID]string)
	sets, err := s.flashcardRepo.ListSetsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, set := range sets {
		setTitles[set.ID] = set.Title
	}

	for _, sess := range sessions {
		items = append(items, models.ActivityItem{
			ID:        sess.ID,
			Type:      "study_session",
			Timestamp: sess.StartTime,
			Details: map[string]string{
				"set_id":    sess.SetID.String(),
				"set_title": setTitles[sess.SetID],
			},
		})
	}

	for _, set := range sets {
		items = append(items, models.ActivityItem{
			ID:        set.ID,
			Type:      "flashcard_set_created",
			Timestamp: set.CreatedAt,
			Details:   map[string]string{"title": set.Title},
		})
	}

	progress, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range progress {
		result := "incorrect"
		if p.IsCorrect {
			result = "correct"
		}
		items = append(items, models.ActivityItem{
			ID:        p.ID,
			Type:      "flashcard_progress",
			Timestamp: p.CreatedAt,
			Details: map[string]string{
				"flashcard_id": p.FlashcardID.String(),
				"result":       result,
				"difficulty":   p.Difficulty,
			},
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// StudyTime buckets the user's session minutes into the last 7 days, 4 weeks
// and 6 months. Sessions spanning a bucket boundary contribute only the
// overlapping portion to each bucket.
func (s *StatsService) StudyTime(ctx context.Context, userID uuid.UUID) (*models.StudyTimeDistribution, error) {
	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	dist := buildStudyTimeDistribution(sessions, time.Now())
	return dist, nil
}

func buildStudyTimeDistribution(sessions []*models.StudySession, now time.Time) *models.StudyTimeDistribution {
	dist := &models.StudyTimeDistribution{
		Daily:   make([]models.TimePoint, 0, 7),
		Weekly:  make([]models.TimePoint, 0, 4),
		Monthly: make([]models.TimePoint, 0, 6),
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for i := 6; i >= 0; i-- {
		dayStart := today.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)
		dist.Daily = append(dist.Daily, models.TimePoint{
			Date:    dayStart.Format("2006-01-02"),
			Minutes: bucketMinutes(sessions, dayStart, dayEnd, now),
		})
	}

	// Weeks start on Monday.
	weekday := int(today.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	thisMonday := today.AddDate(0, 0, -(weekday - 1))
	for i := 3; i >= 0; i-- {
		weekStart := thisMonday.AddDate(0, 0, -7*i)
		weekEnd := weekStart.AddDate(0, 0, 7)
		label := fmt.Sprintf("%s to %s",
			weekStart.Format("2006-01-02"),
			weekEnd.AddDate(0, 0, -1).Format("2006-01-02"))
		dist.Weekly = append(dist.Weekly, models.TimePoint{
			Date:    label,
			Minutes: bucketMinutes(sessions, weekStart, weekEnd, now),
		})
	}

	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 5; i >= 0; i-- {
		monthStart := thisMonth.AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)
		dist.Monthly = append(dist.Monthly, models.TimePoint{
			Date:    monthStart.Format("2006-01"),
			Minutes: bucketMinutes(sessions, monthStart, monthEnd, now),
		})
	}

	return dist
}

func bucketMinutes(sessions []*models.StudySession, from, to, now time.Time) float64 {
	var total float64
	for _, sess := range sessions {
		total += overlapMinutes(sess, from, to, now)
	}
	return total
}

// sessionMinutes is the full session duration; open sessions are measured up
// to now.
func sessionMinutes(sess *models.StudySession, now time.Time) float64 {
	end := now
	if sess.EndTime != nil {
		end = *sess.EndTime
	}
	if end.Before(sess.StartTime) {
		return 0
	}
	return end.Sub(sess.StartTime).Minutes()
}

func overlapMinutes(sess *models.StudySession, from, to, now time.Time) float64 {
	start := sess.StartTime
	end := now
	if sess.EndTime != nil {
		end = *sess.EndTime
	}

	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Minutes()
}

// IsNotFound reports whether err is a missing-row error from the repository
// layer.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
