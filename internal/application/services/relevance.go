package services

import (
	"strings"

	"github.com/zatekoja/learnplan/internal/domain/entities"
)

// Weights of the additive relevance model.
const (
	tagMatchWeight     = 1.0
	textMatchWeight    = 0.5
	outcomeMatchWeight = 0.3
)

// interestVocabulary holds the keywords recognized in free-text goal descriptions.
var interestVocabulary = []string{
	"ai", "artificial intelligence", "machine learning", "deep learning",
	"web development", "frontend", "backend", "full stack",
	"data science", "data analysis", "python", "javascript",
	"react", "vue", "angular", "node.js",
	"trading", "finance", "investment", "blockchain",
	"mobile development", "ios", "android", "flutter",
	"cloud computing", "aws", "azure", "docker", "kubernetes",
	"cybersecurity", "ethical hacking", "penetration testing",
	"game development", "unity", "unreal engine",
	"ui/ux", "design", "figma", "sketch",
}

// ExtractInterests derives lower-cased interest terms from a goal: the topic
// itself followed by every vocabulary keyword contained in the description.
// The result has no duplicates.
func ExtractInterests(topic, description string) []string {
	seen := make(map[string]struct{})
	var interests []string
	add := func(term string) {
		if term == "" {
			return
		}
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		interests = append(interests, term)
	}

	add(strings.ToLower(strings.TrimSpace(topic)))

	desc := strings.ToLower(description)
	for _, keyword := range interestVocabulary {
		if strings.Contains(desc, keyword) {
			add(keyword)
		}
	}
	return interests
}

// ScoreRelevance computes the affinity between a resource and lower-cased
// interest terms. Each (interest, tag) pair where one contains the other adds
// 1.0, each interest found in the title or description adds 0.5 and each
// (outcome, interest) match adds 0.3.
//
// The score is a heuristic sum, not a normalized similarity: it is unbounded
// and ties are common.
func ScoreRelevance(resource *entities.Resource, interests []string) float64 {
	if resource == nil {
		return 0
	}

	text := strings.ToLower(resource.Title + " " + resource.Description)

	tags := make([]string, len(resource.Tags))
	for i, tag := range resource.Tags {
		tags[i] = strings.ToLower(tag)
	}
	outcomes := make([]string, len(resource.LearningOutcomes))
	for i, outcome := range resource.LearningOutcomes {
		outcomes[i] = strings.ToLower(outcome)
	}

	var score float64
	for _, interest := range interests {
		if interest == "" {
			continue
		}
		for _, tag := range tags {
			if tag == "" {
				continue
			}
			if strings.Contains(tag, interest) || strings.Contains(interest, tag) {
				score += tagMatchWeight
			}
		}
		if strings.Contains(text, interest) {
			score += textMatchWeight
		}
		for _, outcome := range outcomes {
			if strings.Contains(outcome, interest) {
				score += outcomeMatchWeight
			}
		}
	}
	return score
}
