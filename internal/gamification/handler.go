package gamification

import (
	"encoding/json"
	"net/http"

	"github.com/founder-prep/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

// ── Snapshot ────────────────────────────────────────────

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	snap, err := h.service.GetProgress(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get progress"})
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// ── XP & Streak ─────────────────────────────────────────

func (h *Handler) EarnXP(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.EarnXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Source == "" {
		req.Source = "manual"
	}

	resp, err := h.service.EarnXP(userID, req.Amount, req.Source)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to earn XP"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.UpdateStreak(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update streak"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ── Quizzes ─────────────────────────────────────────────

func (h *Handler) RecordQuizAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.RecordQuizAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.QuizID == "" || req.ModuleID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "quiz_id and module_id are required"})
		return
	}

	attempt, err := h.service.RecordQuizAttempt(userID, req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record attempt"})
		return
	}

	writeJSON(w, http.StatusCreated, attempt)
}

// ── Flashcards ──────────────────────────────────────────

func (h *Handler) ReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	cardID := mux.Vars(r)["id"]

	var req models.FlashcardReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.ReviewFlashcard(userID, cardID, req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record review"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) DueFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	cards, err := h.service.DueFlashcards(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get due cards"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"cards": cards, "count": len(cards)})
}

// ── Glossary ────────────────────────────────────────────

func (h *Handler) LearnTerm(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	termID := mux.Vars(r)["id"]

	resp, err := h.service.LearnTerm(userID, termID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to learn term"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ── Videos & Modules ────────────────────────────────────

func (h *Handler) MarkVideoWatched(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	videoID := mux.Vars(r)["id"]

	var req models.MarkVideoWatchedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.ModuleID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "module_id is required"})
		return
	}

	if err := h.service.MarkVideoWatched(userID, req.ModuleID, videoID, req.XPReward); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to mark video watched"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "watched"})
}

func (h *Handler) UpdateVideoTimestamp(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	videoID := mux.Vars(r)["id"]

	var req models.VideoTimestampRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.UpdateVideoTimestamp(userID, videoID, req); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update timestamp"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) CompleteModule(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	moduleID := mux.Vars(r)["id"]

	var req models.CompleteModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.CompleteModule(userID, moduleID, req.XPReward); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to complete module"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// ── Courses & Certificates ──────────────────────────────

func (h *Handler) CompleteCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	courseID := mux.Vars(r)["id"]

	var req models.CompleteCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.CourseName == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "course_name is required"})
		return
	}

	resp, err := h.service.CompleteCourse(userID, courseID, req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to complete course"})
		return
	}

	status := http.StatusCreated
	if resp.AlreadyDone {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (h *Handler) IsCourseCompleted(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	courseID := mux.Vars(r)["id"]

	completed, err := h.service.IsCourseCompleted(userID, courseID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to check course completion"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"course_id": courseID, "completed": completed})
}

func (h *Handler) GetCertificate(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	courseID := mux.Vars(r)["id"]

	cert, err := h.service.GetCertificate(userID, courseID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get certificate"})
		return
	}
	if cert == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Certificate not found"})
		return
	}

	writeJSON(w, http.StatusOK, cert)
}

// ── Achievements ────────────────────────────────────────

func (h *Handler) CheckAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.CheckAchievements(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to check achievements"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) DismissAchievement(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	achievementID := mux.Vars(r)["id"]

	if err := h.service.DismissAchievement(userID, achievementID); err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

func (h *Handler) DismissLevelUp(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	if err := h.service.DismissLevelUp(userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to dismiss level-up"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

// ── Helpers ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
