package services

import (
	"sort"
	"strings"

	"github.com/zatekoja/learnplan/internal/domain/entities"
)

const (
	// CuratedSliceSize is the number of catalog candidates always kept
	CuratedSliceSize = 6
	// MaxRecommendations caps the merged list
	MaxRecommendations = 8

	minURLLength = 10

	defaultLearningOutcome = "Master the related skills"
	aiProvider             = "AI Recommendation"
	aiAuthor               = "AI System"
	aiPriority             = 1.0
)

// urlDenylist holds substrings that mark a suggested URL as fake or unusable.
var urlDenylist = []string{
	"example.com", "placeholder", "fake", "test.com", "demo.com", "sample.com",
	"localhost", "127.0.0.1", "#",
	"javascript:", "mailto:", "tel:", "data:", "file:", "ftp:",
}

// IsAcceptableURL reports whether an AI-suggested URL may be shown to a learner
func IsAcceptableURL(url string) bool {
	if len(url) <= minURLLength {
		return false
	}
	lower := strings.ToLower(url)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	for _, pattern := range urlDenylist {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	return true
}

// MergeRecommendations combines ranked catalog candidates with untrusted AI
// suggestions. The first CuratedSliceSize candidates are always kept; AI
// suggestions are added in order while their URL is acceptable and unseen.
// The result is ordered curated first, then by relevance, and holds at most
// MaxRecommendations entries with unique URLs. With no suggestions it equals
// the curated slice in catalog order.
func MergeRecommendations(candidates []ScoredResource, suggestions []entities.Suggestion) []entities.Recommendation {
	merged := make([]entities.Recommendation, 0, MaxRecommendations)
	seen := make(map[string]struct{})

	if len(candidates) > CuratedSliceSize {
		candidates = candidates[:CuratedSliceSize]
	}
	for _, c := range candidates {
		if _, dup := seen[c.Resource.URL]; dup {
			continue
		}
		seen[c.Resource.URL] = struct{}{}
		merged = append(merged, curatedRecommendation(c))
	}

	for _, s := range suggestions {
		if len(merged) >= MaxRecommendations {
			break
		}
		url := strings.TrimSpace(s.URL)
		if url == "" || !IsAcceptableURL(url) {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		merged = append(merged, suggestedRecommendation(s, url))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].IsCurated != merged[j].IsCurated {
			return merged[i].IsCurated
		}
		return merged[i].RelevanceScore > merged[j].RelevanceScore
	})

	if len(merged) > MaxRecommendations {
		merged = merged[:MaxRecommendations]
	}
	return merged
}

func curatedRecommendation(c ScoredResource) entities.Recommendation {
	r := c.Resource
	outcome := defaultLearningOutcome
	if len(r.LearningOutcomes) > 0 && r.LearningOutcomes[0] != "" {
		outcome = r.LearningOutcomes[0]
	}
	return entities.Recommendation{
		Title:           r.Title,
		Type:            r.Type.DisplayName(),
		Description:     r.Description,
		Duration:        r.Duration,
		Difficulty:      int(r.Difficulty),
		URL:             r.URL,
		Icon:            r.Type.Icon(),
		RelevanceScore:  c.Relevance,
		LearningOutcome: outcome,
		Prerequisites:   copyStrings(r.Prerequisites),
		IsCurated:       true,
		Priority:        r.Priority,
		Provider:        r.Provider,
		Author:          r.Author,
	}
}

func suggestedRecommendation(s entities.Suggestion, url string) entities.Recommendation {
	return entities.Recommendation{
		Title:           s.Title,
		Type:            s.Type,
		Description:     s.Description,
		Duration:        s.Duration,
		Difficulty:      s.Difficulty,
		URL:             url,
		Icon:            s.Icon,
		RelevanceScore:  s.RelevanceScore,
		LearningOutcome: s.LearningOutcome,
		Prerequisites:   copyStrings(s.Prerequisites),
		IsCurated:       false,
		Priority:        aiPriority,
		Provider:        aiProvider,
		Author:          aiAuthor,
	}
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
