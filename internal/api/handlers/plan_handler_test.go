package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/learnplan/internal/api/handlers"
	"github.com/zatekoja/learnplan/internal/domain/entities"
)

type stubPlanGenerator struct {
	planReq      entities.PlanRequest
	recommendReq entities.RecommendRequest
	plan         entities.PlanResult
	recommend    entities.RecommendResult
}

func (s *stubPlanGenerator) GeneratePlan(ctx context.Context, req entities.PlanRequest) entities.PlanResult {
	s.planReq = req
	return s.plan
}

func (s *stubPlanGenerator) Recommend(ctx context.Context, req entities.RecommendRequest) entities.RecommendResult {
	s.recommendReq = req
	return s.recommend
}

func TestPlanHandler_GeneratePlan(t *testing.T) {
	stub := &stubPlanGenerator{plan: entities.PlanResult{
		Success:   true,
		Materials: []entities.Recommendation{{Title: "Go Tour", IsCurated: true}},
		DailyPlan: []entities.PlanEntry{{Day: 1, Recommendation: entities.Recommendation{Title: "Go Tour"}}},
		TotalDays: 1,
	}}
	handler := handlers.NewPlanHandler(stub)

	body := `{"description":"build APIs","topic":"Go","level":"beginner","duration":1,"intensity":"light","materials":["video"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-plan", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.GeneratePlan(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Go", stub.planReq.Topic)
	assert.Equal(t, []string{"video"}, stub.planReq.Materials)

	var result entities.PlanResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.True(t, result.Success)
	require.Len(t, result.DailyPlan, 1)
	assert.Equal(t, 1, result.DailyPlan[0].Day)
	assert.Equal(t, "Go Tour", result.DailyPlan[0].Title)
}

func TestPlanHandler_GeneratePlan_FailureIsStill200(t *testing.T) {
	stub := &stubPlanGenerator{plan: entities.FailedPlan("topic is required")}
	handler := handlers.NewPlanHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-plan", strings.NewReader(`{"description":"x"}`))
	w := httptest.NewRecorder()

	handler.GeneratePlan(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "topic is required", result["error"])
	assert.Equal(t, []interface{}{}, result["daily_plan"])
}

func TestPlanHandler_GeneratePlan_BadJSON(t *testing.T) {
	handler := handlers.NewPlanHandler(&stubPlanGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-plan", strings.NewReader(`{"topic":`))
	w := httptest.NewRecorder()

	handler.GeneratePlan(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "invalid request payload", result["error"])
	assert.Equal(t, []interface{}{}, result["materials"])
}

func TestPlanHandler_Recommend(t *testing.T) {
	stub := &stubPlanGenerator{recommend: entities.RecommendResult{
		Success:         true,
		Recommendations: []entities.Recommendation{{Title: "A", IsCurated: true}, {Title: "B"}},
		Total:           2,
		CuratedCount:    1,
		AICount:         1,
	}}
	handler := handlers.NewPlanHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/ai/recommend",
		strings.NewReader(`{"description":"learn","topic":"Rust","level":"advanced"}`))
	w := httptest.NewRecorder()

	handler.Recommend(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rust", stub.recommendReq.Topic)
	var result entities.RecommendResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.AICount)
}

func TestPlanHandler_Recommend_BadJSON(t *testing.T) {
	handler := handlers.NewPlanHandler(&stubPlanGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/api/ai/recommend", strings.NewReader(`nope`))
	w := httptest.NewRecorder()

	handler.Recommend(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"recommendations":[]`)
}
