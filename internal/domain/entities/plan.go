package entities

// PlanRequest is the learner's goal as received from a client
type PlanRequest struct {
	Description string   `json:"description" validate:"required,max=4000"`
	Topic       string   `json:"topic" validate:"required,max=200"`
	Level       string   `json:"level" validate:"required,max=32"`
	Duration    int      `json:"duration" validate:"gte=1,lte=365"`
	Intensity   string   `json:"intensity" validate:"required,max=32"`
	Materials   []string `json:"materials" validate:"omitempty,max=20,dive,max=64"`
}

// RecommendRequest asks for recommendations without scheduling them
type RecommendRequest struct {
	Description string   `json:"description" validate:"required,max=4000"`
	Topic       string   `json:"topic" validate:"required,max=200"`
	Level       string   `json:"level" validate:"required,max=32"`
	Duration    int      `json:"duration" validate:"omitempty,gte=1,lte=365"`
	Intensity   string   `json:"intensity" validate:"omitempty,max=32"`
	Materials   []string `json:"materials" validate:"omitempty,max=20,dive,max=64"`
}

// PlanRequest returns the request as a plan request for prompt rendering
func (r RecommendRequest) PlanRequest() PlanRequest {
	return PlanRequest{
		Description: r.Description,
		Topic:       r.Topic,
		Level:       r.Level,
		Duration:    r.Duration,
		Intensity:   r.Intensity,
		Materials:   r.Materials,
	}
}

// PlanEntry is the activity scheduled for one day of the plan
type PlanEntry struct {
	Day int `json:"day"`
	Recommendation
}

// PlanResult is the outcome of one pipeline run. Failures carry Error and
// empty, non-nil Materials and DailyPlan.
type PlanResult struct {
	Success      bool             `json:"success"`
	Error        string           `json:"error,omitempty"`
	Materials    []Recommendation `json:"materials"`
	DailyPlan    []PlanEntry      `json:"daily_plan"`
	TotalDays    int              `json:"total_days,omitempty"`
	CuratedCount int              `json:"curated_count"`
	AICount      int              `json:"ai_count"`
	// Fallback is set when the AI gateway did not contribute.
	Fallback bool `json:"fallback"`
}

// FailedPlan builds the failure payload for msg
func FailedPlan(msg string) PlanResult {
	return PlanResult{
		Success:   false,
		Error:     msg,
		Materials: []Recommendation{},
		DailyPlan: []PlanEntry{},
	}
}

// RecommendResult is the outcome of a recommendation-only run
type RecommendResult struct {
	Success         bool             `json:"success"`
	Error           string           `json:"error,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
	Total           int              `json:"total"`
	CuratedCount    int              `json:"curated_count"`
	AICount         int              `json:"ai_count"`
	Fallback        bool             `json:"fallback"`
}
