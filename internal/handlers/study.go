package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"flashdeck-backend/internal/middleware"
	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/repository"
	"flashdeck-backend/internal/services"
)

type StudySessionHandler struct {
	sessionRepo   *repository.StudySessionRepo
	flashcardRepo *repository.FlashcardRepo
	progressRepo  *repository.ProgressRepo
	statsService  *services.StatsService
}

func NewStudySessionHandler(
	sessionRepo *repository.StudySessionRepo,
	flashcardRepo *repository.FlashcardRepo,
	progressRepo *repository.ProgressRepo,
	statsService *services.StatsService,
) *StudySessionHandler {
	return &StudySessionHandler{
		sessionRepo:   sessionRepo,
		flashcardRepo: flashcardRepo,
		progressRepo:  progressRepo,
		statsService:  statsService,
	}
}

func (h *StudySessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	set, err := h.flashcardRepo.GetSetByID(r.Context(), req.SetID)
	if err != nil {
		if services.IsNotFound(err) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard set not found", r))
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load set", r))
		}
		return
	}
	if set.UserID != userID {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	session := &models.StudySession{UserID: userID, SetID: req.SetID}
	if err := h.sessionRepo.Start(r.Context(), session); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to start session", r))
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *StudySessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var sessions []*models.StudySession
	var err error
	if setIDStr := r.URL.Query().Get("set_id"); setIDStr != "" {
		setID, perr := uuid.Parse(setIDStr)
		if perr != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid set ID", r))
			return
		}
		sessions, err = h.sessionRepo.ListBySet(r.Context(), setID, userID)
	} else {
		sessions, err = h.sessionRepo.ListByUser(r.Context(), userID)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list sessions", r))
		return
	}
	if sessions == nil {
		sessions = []*models.StudySession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *StudySessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadOwnedSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// End closes a session. Ending an already-ended session is a conflict, not a
// silent no-op.
func (h *StudySessionHandler) End(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadOwnedSession(w, r)
	if !ok {
		return
	}

	if session.EndTime != nil {
		handleServiceError(w, r, &services.ConflictError{Message: "Session already ended"})
		return
	}

	if err := h.sessionRepo.End(r.Context(), session); err != nil {
		if services.IsNotFound(err) {
			// Closed between the read and the update.
			handleServiceError(w, r, &services.ConflictError{Message: "Session already ended"})
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to end session", r))
		}
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// RecordProgress logs one answer attempt inside a session.
func (h *StudySessionHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadOwnedSession(w, r)
	if !ok {
		return
	}

	var req models.RecordProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if !models.ValidDifficulty(req.Difficulty) {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"difficulty": "Difficulty must be easy, medium or hard"}, r))
		return
	}

	card, err := h.flashcardRepo.GetCardByID(r.Context(), req.FlashcardID)
	if err != nil {
		if services.IsNotFound(err) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard not found", r))
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load card", r))
		}
		return
	}

	set, err := h.flashcardRepo.GetSetByID(r.Context(), card.SetID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load set", r))
		return
	}
	if set.UserID != session.UserID {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	progress := &models.FlashcardProgress{
		UserID:      session.UserID,
		FlashcardID: req.FlashcardID,
		SessionID:   &session.ID,
		IsCorrect:   req.IsCorrect,
		Difficulty:  req.Difficulty,
	}
	if err := h.progressRepo.Create(r.Context(), progress); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to record progress", r))
		return
	}

	writeJSON(w, http.StatusCreated, progress)
}

// CardProgress returns the raw attempt history plus derived statistics for
// one card.
func (h *StudySessionHandler) CardProgress(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid card ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	records, err := h.progressRepo.ListByFlashcard(r.Context(), id, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load progress", r))
		return
	}
	if records == nil {
		records = []models.FlashcardProgress{}
	}

	stats, err := h.statsService.CardStats(r.Context(), id, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load progress", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"stats":   stats,
	})
}

// SetProgress returns per-card statistics for a set.
func (h *StudySessionHandler) SetProgress(w http.ResponseWriter, r *http.Request) {
	set, ok := h.loadOwnedSetParam(w, r)
	if !ok {
		return
	}

	stats, err := h.statsService.SetCardStats(r.Context(), set.ID, set.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load progress", r))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// SetStats returns session and mastery counters for a set.
func (h *StudySessionHandler) SetStats(w http.ResponseWriter, r *http.Request) {
	set, ok := h.loadOwnedSetParam(w, r)
	if !ok {
		return
	}

	stats, err := h.statsService.SetStats(r.Context(), set.ID, set.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load stats", r))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *StudySessionHandler) loadOwnedSession(w http.ResponseWriter, r *http.Request) (*models.StudySession, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return nil, false
	}

	session, err := h.sessionRepo.GetByID(r.Context(), id)
	if err != nil {
		if services.IsNotFound(err) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Study session not found", r))
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load session", r))
		}
		return nil, false
	}

	if session.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}
	return session, true
}

func (h *StudySessionHandler) loadOwnedSetParam(w http.ResponseWriter, r *http.Request) (*models.FlashcardSet, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid set ID", r))
		return nil, false
	}

	set, err := h.flashcardRepo.GetSetByID(r.Context(), id)
	if err != nil {
		if services.IsNotFound(err) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard set not found", r))
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load set", r))
		}
		return nil, false
	}
	if set.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}
	return set, true
}
