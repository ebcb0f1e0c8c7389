package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cramdeck.app/backend/internal/core"
	"cramdeck.app/backend/internal/logger"
	"cramdeck.app/backend/internal/store"
)

type APIHandler struct {
	users     *core.UserService
	courses   *core.CourseService
	summaries *core.SummaryService
	log       *logger.Logger

	maxUploadBytes int64
}

func NewAPIHandler(users *core.UserService, courses *core.CourseService, summaries *core.SummaryService, maxUploadBytes int, log *logger.Logger) *APIHandler {
	return &APIHandler{
		users:          users,
		courses:        courses,
		summaries:      summaries,
		log:            log.With("component", "api"),
		maxUploadBytes: int64(maxUploadBytes),
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// envelope mirrors the generative backend's wrapper structure so existing
// clients keep finding the payload under candidates[0].content.parts[0].text.
func respondEnvelope(w http.ResponseWriter, payload any) {
	text, err := json.Marshal(payload)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode result")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]string{"text": string(text)}},
				},
			},
		},
	})
}

// respondServiceError maps core and store failures onto the HTTP contract.
func (h *APIHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, store.ErrDuplicateUser):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrUserNotFound), errors.Is(err, store.ErrArtifactNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrDocumentTooLarge), errors.Is(err, core.ErrUnreadableDocument):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("request failed", "error", err.Error())
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

type RegisterRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	ProfilePicture string `json:"profilePicture"`
}

func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	user, err := h.users.Register(req.Username, req.Email, req.Password, req.ProfilePicture)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "user": user})
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.users.Login(req.Username, req.Password)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

type CrashCourseRequest struct {
	Prompt string `json:"prompt"`
	UserID string `json:"userId"`
}

func (h *APIHandler) CreateCrashCourseHandler(w http.ResponseWriter, r *http.Request) {
	var req CrashCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		respondError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	course, err := h.courses.Create(r.Context(), req.Prompt, req.UserID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondEnvelope(w, course)
}

// batchParams reads the optional pagination window. Absent limit means the
// whole list.
func batchParams(r *http.Request) (start, limit int) {
	start, _ = strconv.Atoi(r.URL.Query().Get("start"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return start, limit
}

func (h *APIHandler) ListCrashCoursesHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	start, limit := batchParams(r)

	batch, err := h.courses.List(userID, start, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, batch)
}

func (h *APIHandler) DeleteCrashCourseHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	courseID := chi.URLParam(r, "courseID")

	if err := h.courses.Delete(userID, courseID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readUpload pulls the uploaded pdf out of the multipart form. The body is
// capped a little above the configured ceiling so oversized uploads fail the
// service check with a clear message instead of a connection reset.
func (h *APIHandler) readUpload(w http.ResponseWriter, r *http.Request) (fileName string, data []byte, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return "", nil, false
	}
	file, header, err := r.FormFile("pdf")
	if err != nil {
		respondError(w, http.StatusBadRequest, "pdf file is required")
		return "", nil, false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return "", nil, false
	}
	if len(data) == 0 {
		respondError(w, http.StatusBadRequest, "uploaded file is empty")
		return "", nil, false
	}
	return header.Filename, data, true
}

func (h *APIHandler) TokenCountHandler(w http.ResponseWriter, r *http.Request) {
	_, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	count, err := h.summaries.EstimateTokens(r.Context(), data)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, count)
}

func (h *APIHandler) CreateSummaryHandler(w http.ResponseWriter, r *http.Request) {
	fileName, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	extra := r.FormValue("prompt")
	userID := r.FormValue("userId")

	summary, err := h.summaries.Create(r.Context(), fileName, data, extra, userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondEnvelope(w, summary)
}

func (h *APIHandler) ListSummariesHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	start, limit := batchParams(r)

	batch, err := h.summaries.List(userID, start, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, batch)
}

func (h *APIHandler) DeleteSummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	summaryID := chi.URLParam(r, "summaryID")

	if err := h.summaries.Delete(userID, summaryID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
