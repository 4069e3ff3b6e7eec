package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/career-recommender/internal/history"
	"github.com/jonathan/career-recommender/internal/server/middleware"
	"github.com/jonathan/career-recommender/internal/types"
)

// handleListHistory answers GET /me/history, newest entry first.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := s.history.ListAll(r.Context(), userID.String())
	if err != nil {
		s.historyFail(w, "list", err)
		return
	}
	entries = history.SortNewestFirst(entries)

	jsonResponse(w, http.StatusOK, types.HistoryListResponse{Entries: entries, Total: len(entries)})
}

// handleAppendHistory answers POST /me/history. Reposting an ID that is
// already stored is a 409 and leaves the stored entry untouched.
func (s *Server) handleAppendHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.AppendHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	createdAt := history.Timestamp(s.now())
	if req.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, req.CreatedAt)
		if err != nil {
			errorResponse(w, http.StatusBadRequest, "validation error: createdAt - timestamp")
			return
		}
		createdAt = history.Timestamp(t)
	}

	entry := types.HistoryEntry{
		ID:              req.ID,
		Skills:          req.Skills,
		Recommendations: types.HistoryRecommendations{Careers: req.Recommendations},
		CreatedAt:       createdAt,
	}
	if entry.ID == "" {
		entry.ID = history.NewID()
	}

	if err := s.history.Append(r.Context(), userID.String(), entry); err != nil {
		s.historyFail(w, "append", err)
		return
	}
	jsonResponse(w, http.StatusCreated, entry)
}

func (s *Server) historyFail(w http.ResponseWriter, op string, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[history] %s failed: %v", op, err)
		errorResponse(w, status, "internal error")
		return
	}
	errorResponse(w, status, err.Error())
}
