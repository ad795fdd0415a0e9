package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/palemoky/aoch-leaderboard/internal/apperrors"
	"github.com/palemoky/aoch-leaderboard/internal/logger"
	"github.com/palemoky/aoch-leaderboard/internal/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleLeaderboard GET /api/leaderboard/{mode}
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	mode, err := render.ParseMode(mux.Vars(r)["mode"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if !s.limiter.Allow(s.clientIPs.ClientIP(r)) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	text, err := s.svc.Render(r.Context(), mode)
	if err != nil {
		logger.LogError("api render %s: %v", mode, err)
		http.Error(w, apperrors.UserMessage(err), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrEmptyLeaderboard):
		return http.StatusNotFound
	case apperrors.HasCode(err, apperrors.CodeFetch), apperrors.HasCode(err, apperrors.CodeDecode):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
