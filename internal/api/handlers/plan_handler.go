package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/learnplan/internal/domain/entities"
)

// PlanGenerator runs the recommendation pipeline
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, req entities.PlanRequest) entities.PlanResult
	Recommend(ctx context.Context, req entities.RecommendRequest) entities.RecommendResult
}

// PlanHandler serves the learning plan endpoints
type PlanHandler struct {
	plans PlanGenerator
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(plans PlanGenerator) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// GeneratePlan handles POST /api/ai/generate-plan. Every pipeline run answers
// 200; Success in the body tells the client whether a plan was produced.
func (h *PlanHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req entities.PlanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, entities.FailedPlan(err.Error()))
		return
	}

	respondWithJSON(w, http.StatusOK, h.plans.GeneratePlan(r.Context(), req))
}

// Recommend handles POST /api/ai/recommend
func (h *PlanHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req entities.RecommendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, entities.RecommendResult{
			Error:           err.Error(),
			Recommendations: []entities.Recommendation{},
		})
		return
	}

	respondWithJSON(w, http.StatusOK, h.plans.Recommend(r.Context(), req))
}
