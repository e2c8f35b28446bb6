package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"snake-arena/lobby"
	"snake-arena/store"
)

const (
	defaultScoreLimit = 10
	maxScoreLimit     = 100
	maxPlayerName     = 32
)

type ScoreHandler struct {
	storage store.Storage
}

func NewScoreHandler(storage store.Storage) *ScoreHandler {
	return &ScoreHandler{storage: storage}
}

// ServeHTTP serves the leaderboard on GET ?limit=N. POST records a score and
// must be wrapped by auth.Middleware.
func (h *ScoreHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.topScores(w, r)
	case http.MethodPost:
		h.recordScore(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ScoreHandler) topScores(w http.ResponseWriter, r *http.Request) {
	limit := defaultScoreLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxScoreLimit)
	}

	entries, err := h.storage.TopScores(r.Context(), limit)
	if err != nil {
		log.Printf("Failed to load scores: %v", err)
		http.Error(w, "Failed to load scores", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []store.ScoreEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type scoreRequest struct {
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}

func (h *ScoreHandler) recordScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	req.PlayerName = strings.TrimSpace(req.PlayerName)
	if req.PlayerName == "" || len(req.PlayerName) > maxPlayerName || req.Score < 0 {
		http.Error(w, "Invalid score", http.StatusBadRequest)
		return
	}

	if err := h.storage.RecordScore(r.Context(), req.PlayerName, req.Score); err != nil {
		log.Printf("Failed to record score for %s: %v", req.PlayerName, err)
		http.Error(w, "Failed to record score", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

type RoomsHandler struct {
	rooms *lobby.Registry
}

func NewRoomsHandler(rooms *lobby.Registry) *RoomsHandler {
	return &RoomsHandler{rooms: rooms}
}

func (h *RoomsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.rooms.Summaries())
}

// WithCORS allows browser clients from any origin.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
