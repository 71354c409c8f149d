package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"flashdeck-backend/internal/middleware"
	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/repository"
	"flashdeck-backend/internal/services"
)

type FlashcardHandler struct {
	flashcardRepo *repository.FlashcardRepo
}

func NewFlashcardHandler(flashcardRepo *repository.FlashcardRepo) *FlashcardHandler {
	return &FlashcardHandler{flashcardRepo: flashcardRepo}
}

// Set endpoints

func (h *FlashcardHandler) CreateSet(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"title": "Title is required"}, r))
		return
	}

	set := &models.FlashcardSet{
		UserID:      middleware.GetUserID(r.Context()),
		Title:       req.Title,
		Description: req.Description,
	}
	if err := h.flashcardRepo.CreateSet(r.Context(), set); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create set", r))
		return
	}

	writeJSON(w, http.StatusCreated, set)
}

func (h *FlashcardHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.flashcardRepo.ListSetsByUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list sets", r))
		return
	}
	if sets == nil {
		sets = []*models.FlashcardSet{}
	}
	writeJSON(w, http.StatusOK, sets)
}

func (h *FlashcardHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	set, ok := h.loadOwnedSet(w, r)
	if !ok {
		return
	}

	cards, err := h.flashcardRepo.GetCardsBySet(r.Context(), set.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load cards", r))
		return
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}

	writeJSON(w, http.StatusOK, models.FlashcardSetWithCards{FlashcardSet: *set, Flashcards: cards})
}

func (h *FlashcardHandler) UpdateSet(w http.ResponseWriter, r *http.Request) {
	set, ok := h.loadOwnedSet(w, r)
	if !ok {
		return
	}

	var req models.UpdateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"title": "Title must not be empty"}, r))
			return
		}
		set.Title = *req.Title
	}
	if req.Description != nil {
		set.Description = req.Description
	}

	if err := h.flashcardRepo.UpdateSet(r.Context(), set); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update set", r))
		return
	}

	writeJSON(w, http.StatusOK, set)
}

func (h *FlashcardHandler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	set, ok := h.loadOwnedSet(w, r)
	if !ok {
		return
	}

	if err := h.flashcardRepo.DeleteSet(r.Context(), set.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete set", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Set deleted"})
}

// Card endpoints

func (h *FlashcardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	set, ok := h.loadOwnedSet(w, r)
	if !ok {
		return
	}

	var req models.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := make(map[string]string)
	if strings.TrimSpace(req.Question) == "" {
		fields["question"] = "Question is required"
	}
	if strings.TrimSpace(req.Answer) == "" {
		fields["answer"] = "Answer is required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	card := &models.Flashcard{SetID: set.ID, Question: req.Question, Answer: req.Answer}
	if err := h.flashcardRepo.CreateCard(r.Context(), card); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create card", r))
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

func (h *FlashcardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	set, ok := h.loadOwnedSet(w, r)
	if !ok {
		return
	}

	cards, err := h.flashcardRepo.GetCardsBySet(r.Context(), set.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load cards", r))
		return
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *FlashcardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	card, ok := h.loadOwnedCard(w, r)
	if !ok {
		return
	}

	var req models.UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Question != nil {
		if strings.TrimSpace(*req.Question) == "" {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"question": "Question must not be empty"}, r))
			return
		}
		card.Question = *req.Question
	}
	if req.Answer != nil {
		if strings.TrimSpace(*req.Answer) == "" {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"answer": "Answer must not be empty"}, r))
			return
		}
		card.Answer = *req.Answer
	}

	if err := h.flashcardRepo.UpdateCard(r.Context(), card); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update card", r))
		return
	}

	writeJSON(w, http.StatusOK, card)
}

func (h *FlashcardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	card, ok := h.loadOwnedCard(w, r)
	if !ok {
		return
	}

	if err := h.flashcardRepo.DeleteCard(r.Context(), card.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete card", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Card deleted"})
}

// loadOwnedSet resolves the {id} URL param to a set, writing 404 for a
// missing set and 403 when it belongs to someone else.
func (h *FlashcardHandler) loadOwnedSet(w http.ResponseWriter, r *http.Request) (*models.FlashcardSet, bool) {
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

// loadOwnedCard resolves {cardID}, checking ownership through the parent set.
func (h *FlashcardHandler) loadOwnedCard(w http.ResponseWriter, r *http.Request) (*models.Flashcard, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "cardID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid card ID", r))
		return nil, false
	}

	card, err := h.flashcardRepo.GetCardByID(r.Context(), id)
	if err != nil {
		if services.IsNotFound(err) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard not found", r))
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load card", r))
		}
		return nil, false
	}

	// Card routes are nested under a set; the path set must match.
	if setIDStr := chi.URLParam(r, "id"); setIDStr != "" {
		setID, err := uuid.Parse(setIDStr)
		if err != nil || setID != card.SetID {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard not found", r))
			return nil, false
		}
	}

	set, err := h.flashcardRepo.GetSetByID(r.Context(), card.SetID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load set", r))
		return nil, false
	}
	if set.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}
	return card, true
}
