package content

import (
	"encoding/json"
	"net/http"

	"github.com/founder-prep/backend/internal/gamification"
	"github.com/founder-prep/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	library *Library
	service *gamification.Service
}

func NewHandler(library *Library, service *gamification.Service) *Handler {
	return &Handler{library: library, service: service}
}

// ── Read-Only Content ───────────────────────────────────

func (h *Handler) ListGlossary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"terms": h.library.Glossary})
}

func (h *Handler) ListDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"decks": h.library.Decks})
}

func (h *Handler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deck, ok := h.library.Deck(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Deck not found"})
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"quizzes": h.library.Quizzes})
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, ok := h.library.Quiz(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Quiz not found"})
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"courses": h.library.Courses})
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := h.library.Course(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Course not found"})
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"games": h.library.Games()})
}

func (h *Handler) GetGameScenarios(w http.ResponseWriter, r *http.Request) {
	game := mux.Vars(r)["game"]
	scenarios := h.library.GameScenarios(game)
	if scenarios == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Unknown game"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"game": game, "scenarios": scenarios})
}

// ── Game Results ────────────────────────────────────────

// RecordGameResult awards XP for a finished mini-game round. The round
// itself runs on the client; the server only credits the reported reward,
// tagged with the game id as the XP source.
func (h *Handler) RecordGameResult(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int64)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	game := mux.Vars(r)["game"]
	if h.library.GameScenarios(game) == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Unknown game"})
		return
	}

	var req models.GameResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.EarnXP(userID, req.XPEarned, "game:"+game)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record result"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
