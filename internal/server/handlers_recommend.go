package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/career-recommender/internal/roadmap"
	"github.com/jonathan/career-recommender/internal/types"
)

var requestValidator = validator.New()

// handleRecommend answers POST /recommend-careers. Responses are cached per
// skill list when a cache is configured.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req types.SkillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	key := recommendCacheKey(req.Skills, s.insights != nil)
	if s.cache != nil {
		if body, ok := s.cache.Get(r.Context(), key); ok {
			writeRawJSON(w, "HIT", body)
			return
		}
	}

	recs := s.catalog.Recommend(req.Skills)
	cacheable := true
	if s.insights != nil {
		ctx, cancel := context.WithTimeout(r.Context(), s.insightTimeout)
		enriched, err := s.insights.Enrich(ctx, req.Skills, recs)
		cancel()
		if err != nil {
			log.Printf("[recommend] insight enrichment failed: %v", err)
			cacheable = false
		} else {
			recs = enriched
		}
	}
	if recs == nil {
		recs = []types.CareerRecommendation{}
	}

	body, err := json.Marshal(types.RecommendationsResponse{Recommendations: recs})
	if err != nil {
		log.Printf("[recommend] encode failed: %v", err)
		errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}
	if s.cache != nil && cacheable {
		s.cache.Set(r.Context(), key, body)
	}
	writeRawJSON(w, "MISS", body)
}

// handleGrowthGuides answers GET /growth-guides with every known roadmap.
func (s *Server) handleGrowthGuides(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string][]roadmap.Guide{"guides": roadmap.Guides()})
}

func writeRawJSON(w http.ResponseWriter, cacheStatus string, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}
