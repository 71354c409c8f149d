package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"flashdeck-backend/internal/middleware"
	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/repository"
	"flashdeck-backend/internal/services"
)

// AIHandler exposes flashcard generation: from raw text, returning candidate
// cards for review, and from an uploaded document, persisting a new set.
type AIHandler struct {
	generator      services.FlashcardGenerator
	extractService *services.FileExtractService
	flashcardRepo  *repository.FlashcardRepo
	uploadDir      string
}

func NewAIHandler(
	generator services.FlashcardGenerator,
	extractService *services.FileExtractService,
	flashcardRepo *repository.FlashcardRepo,
	uploadDir string,
) *AIHandler {
	return &AIHandler{
		generator:      generator,
		extractService: extractService,
		flashcardRepo:  flashcardRepo,
		uploadDir:      uploadDir,
	}
}

func (h *AIHandler) GenerateFromText(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateFromTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"text": "Text is required"}, r))
		return
	}

	cards, err := h.generator.Generate(r.Context(), req.Text, req.NumCards)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("AI_ERROR", "Flashcard generation failed", r))
		return
	}
	if cards == nil {
		cards = []models.GeneratedCard{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"flashcards": cards})
}

// GenerateFromDocument extracts text from a previously uploaded document,
// generates cards, and persists them as a new set with the document recorded
// as its source.
func (h *AIHandler) GenerateFromDocument(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateFromDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	name := req.DocumentName
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"document_name": "Invalid document name"}, r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	path := filepath.Join(h.uploadDir, userID.String(), name)
	if _, err := os.Stat(path); err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Document not found", r))
		return
	}

	text, err := h.extractService.ExtractText(path)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("EXTRACTION_FAILED", "Could not extract text from file", r))
		return
	}

	cards, err := h.generator.Generate(r.Context(), text, req.NumCards)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("AI_ERROR", "Flashcard generation failed", r))
		return
	}

	title := "Flashcards from " + name
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		title = *req.Title
	}

	set := &models.FlashcardSet{
		UserID:         userID,
		Title:          title,
		Description:    req.Description,
		SourceDocument: &name,
	}
	if err := h.flashcardRepo.CreateSet(r.Context(), set); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create set", r))
		return
	}

	created, err := h.flashcardRepo.CreateCards(r.Context(), set.ID, cards)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save cards", r))
		return
	}
	if created == nil {
		created = []models.Flashcard{}
	}

	writeJSON(w, http.StatusCreated, models.FlashcardSetWithCards{FlashcardSet: *set, Flashcards: created})
}
