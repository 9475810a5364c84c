package entities

// Suggestion is one resource proposed by the AI gateway. Values are untrusted
// and already defaulted for missing fields.
type Suggestion struct {
	Title           string   `json:"title"`
	Type            string   `json:"type"`
	Description     string   `json:"description"`
	Duration        string   `json:"duration"`
	Difficulty      int      `json:"difficulty"`
	URL             string   `json:"url"`
	Icon            string   `json:"icon"`
	RelevanceScore  float64  `json:"relevanceScore"`
	LearningOutcome string   `json:"learningOutcome"`
	Prerequisites   []string `json:"prerequisites"`
}

// Recommendation is one entry of the merged list handed to the scheduler.
// It lives for a single pipeline run and is never persisted.
type Recommendation struct {
	Title           string   `json:"title"`
	Type            string   `json:"type"`
	Description     string   `json:"description"`
	Duration        string   `json:"duration"`
	Difficulty      int      `json:"difficulty"`
	URL             string   `json:"url"`
	Icon            string   `json:"icon"`
	RelevanceScore  float64  `json:"relevanceScore"`
	LearningOutcome string   `json:"learningOutcome"`
	Prerequisites   []string `json:"prerequisites"`
	IsCurated       bool     `json:"isCurated"`
	Priority        float64  `json:"priority"`
	Provider        string   `json:"provider"`
	Author          string   `json:"author"`
}

// CountOrigins returns how many recommendations are curated and AI-sourced
func CountOrigins(recs []Recommendation) (curated, ai int) {
	for _, r := range recs {
		if r.IsCurated {
			curated++
		} else {
			ai++
		}
	}
	return curated, ai
}
