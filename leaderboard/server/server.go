// Package server serves the leaderboard HTTP API and the live standings
// feed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/leaderboard/store"
)

type Config struct {
	Store store.Storage

	// AllowOrigins lists the browser origins granted CORS access and
	// websocket upgrades. Requests without an Origin header are always
	// accepted.
	AllowOrigins []string

	Logger *slog.Logger
}

type Server struct {
	store store.Storage
	feed  *Feed
	log   *slog.Logger
	allow map[string]struct{}
	mux   *http.ServeMux
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	allow := make(map[string]struct{})
	for _, a := range cfg.AllowOrigins {
		if a = strings.TrimSpace(a); a != "" {
			allow[a] = struct{}{}
		}
	}

	s := &Server{
		store: cfg.Store,
		log:   logger,
		allow: allow,
		mux:   http.NewServeMux(),
	}
	s.feed = newFeed(s.originAllowed, s.standings, logger)

	s.mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	s.mux.HandleFunc("POST /api/leaderboard/submit", s.handleSubmit)
	s.mux.HandleFunc("GET /api/players/stats", s.handlePlayerStats)
	s.mux.HandleFunc("GET /ws/leaderboard", s.feed.ServeWS)
	s.mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return s
}

// Handler returns the routes wrapped in the CORS middleware.
func (s *Server) Handler() http.Handler {
	return s.cors(s.mux)
}

func (s *Server) Feed() *Feed {
	return s.feed
}

func (s *Server) standings(ctx context.Context) ([]leaderboard.Entry, error) {
	return s.store.Top(ctx, leaderboard.Size)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.standings(r.Context())
	if err != nil {
		s.log.Error("load standings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sub := leaderboard.Submission{Level: 1}
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON submission")
		return
	}

	name, err := leaderboard.ValidateName(sub.PlayerName)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("player name must be %d-%d characters",
			leaderboard.MinNameLength, leaderboard.MaxNameLength))
		return
	}
	sub.PlayerName = name

	if sub.Score <= 0 {
		writeError(w, http.StatusBadRequest, "score must be greater than 0")
		return
	}

	rank, err := s.store.Record(r.Context(), sub)
	if err != nil {
		s.log.Error("record score", "player", sub.PlayerName, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to submit score: "+err.Error())
		return
	}
	s.log.Info("score recorded", "player", sub.PlayerName, "score", sub.Score, "rank", rank)

	message := "Score did not reach the top 10, but your game has been recorded"
	if rank <= leaderboard.Size {
		message = fmt.Sprintf("Congratulations! Your score ranks #%d!", rank)
	}

	writeJSON(w, http.StatusOK, leaderboard.SubmitResponse{
		Success: true,
		Message: message,
		Rank:    rank,
	})

	s.feed.Publish(r.Context())
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "player name is required")
		return
	}

	stats, err := s.store.PlayerStats(r.Context(), name)
	switch {
	case errors.Is(err, store.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, "no games recorded for this player")
	case err != nil:
		s.log.Error("load player stats", "player", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load player stats")
	default:
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) originAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	_, ok := s.allow[origin]
	return ok
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, leaderboard.SubmitResponse{Error: message})
}
