package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/learnplan/internal/application/services"
	"github.com/zatekoja/learnplan/internal/domain/entities"
)

func TestExtractInterests_TopicThenVocabularyOrder(t *testing.T) {
	interests := services.ExtractInterests("AI Trading", "I want to use AI and machine learning for trading with Python")

	assert.Equal(t, []string{"ai trading", "ai", "machine learning", "python", "trading"}, interests)
}

func TestExtractInterests_Deduplicates(t *testing.T) {
	interests := services.ExtractInterests("Python", "python scripting in PYTHON")

	assert.Equal(t, []string{"python"}, interests)
}

func TestExtractInterests_EmptyTopic(t *testing.T) {
	interests := services.ExtractInterests("  ", "learn docker")

	assert.Equal(t, []string{"docker"}, interests)
}

func TestScoreRelevance_AdditiveWeights(t *testing.T) {
	resource := &entities.Resource{
		Title:            "AI Trading Bootcamp",
		Description:      "Build trading bots",
		Tags:             []string{"ai-trading", "python"},
		LearningOutcomes: []string{"Automate trading strategies", "Backtest"},
	}

	// "ai trading": title match only (0.5)
	// "trading": tag (1.0) + text (0.5) + one outcome (0.3)
	score := services.ScoreRelevance(resource, []string{"ai trading", "trading"})

	assert.InDelta(t, 2.3, score, 1e-9)
}

func TestScoreRelevance_TagContainedInInterest(t *testing.T) {
	resource := &entities.Resource{Tags: []string{"ML"}}

	score := services.ScoreRelevance(resource, []string{"ml engineering"})

	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestScoreRelevance_CountsEveryMatchingTag(t *testing.T) {
	resource := &entities.Resource{Tags: []string{"python", "python3", ""}}

	score := services.ScoreRelevance(resource, []string{"python"})

	assert.InDelta(t, 2.0, score, 1e-9)
}

func TestScoreRelevance_NoMatches(t *testing.T) {
	resource := &entities.Resource{Title: "Cooking basics", Tags: []string{"food"}}

	assert.Zero(t, services.ScoreRelevance(resource, []string{"kubernetes"}))
	assert.Zero(t, services.ScoreRelevance(resource, nil))
	assert.Zero(t, services.ScoreRelevance(nil, []string{"kubernetes"}))
}
