package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"flashdeck-backend/internal/middleware"
	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/services"
)

// DocumentHandler stores uploads on local disk under one directory per user
// and serves extracted text back by stored filename.
type DocumentHandler struct {
	extractService *services.FileExtractService
	uploadDir      string
	maxUploadSize  int64
}

func NewDocumentHandler(extractService *services.FileExtractService, uploadDir string, maxUploadSize int64) *DocumentHandler {
	return &DocumentHandler{
		extractService: extractService,
		uploadDir:      uploadDir,
		maxUploadSize:  maxUploadSize,
	}
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadSize {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds upload limit", r))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return
	}
	defer file.Close()

	if !h.extractService.IsAllowed(header.Filename) {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResp("UNSUPPORTED_FORMAT", "File type not supported", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	userDir := filepath.Join(h.uploadDir, userID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	storedName := uuid.New().String() + ext
	path := filepath.Join(userDir, storedName)

	dst, err := os.Create(path)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}
	written, err := io.Copy(dst, file)
	dst.Close()
	if err != nil {
		os.Remove(path)
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds upload limit", r))
		return
	}

	text, err := h.extractService.ExtractText(path)
	if err != nil {
		os.Remove(path)
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("EXTRACTION_FAILED", "Could not extract text from file", r))
		return
	}

	writeJSON(w, http.StatusCreated, models.DocumentUpload{
		Filename:    storedName,
		ContentType: header.Header.Get("Content-Type"),
		Size:        written,
		TextContent: text,
	})
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	entries, err := os.ReadDir(filepath.Join(h.uploadDir, userID.String()))
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusOK, []string{})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list documents", r))
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, names)
}

func (h *DocumentHandler) GetText(w http.ResponseWriter, r *http.Request) {
	path, ok := h.resolve(w, r)
	if !ok {
		return
	}

	text, err := h.extractService.ExtractText(path)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("EXTRACTION_FAILED", "Could not extract text from file", r))
		return
	}

	writeJSON(w, http.StatusOK, models.DocumentText{
		Filename: chi.URLParam(r, "name"),
		Text:     text,
	})
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	path, ok := h.resolve(w, r)
	if !ok {
		return
	}

	if err := os.Remove(path); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete document", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted"})
}

// resolve maps the {name} URL param to the caller's storage directory,
// rejecting names that could escape it, and 404s on missing files.
func (h *DocumentHandler) resolve(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid document name", r))
		return "", false
	}

	userID := middleware.GetUserID(r.Context())
	path := filepath.Join(h.uploadDir, userID.String(), name)
	if _, err := os.Stat(path); err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Document not found", r))
		return "", false
	}
	return path, true
}
