package aiml

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zatekoja/learnplan/internal/domain/entities"
)

// SystemPrompt frames every plan request
const SystemPrompt = `You are a professional learning advisor. Analyse the learner's goal and pick the most relevant learning resources from the curated catalog provided.

Priorities:
1. Choose the most relevant resources from the curated catalog first.
2. Only when the catalog does not cover the goal, suggest other high-quality resources.
3. Every recommended resource must be real and publicly reachable.

Output format: return only a JSON array, without markdown code fences.`

const (
	defaultSuggestionType     = "Course"
	defaultSuggestionDuration = "1 week"
	defaultSuggestionLevel    = 2
	defaultSuggestionScore    = 5.0
	defaultSuggestionOutcome  = "Master the related skills"
	defaultSuggestionIcon     = entities.DefaultIcon
)

// StripCodeFence removes a leading ```json or ``` fence and its closing marker
func StripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	switch {
	case strings.HasPrefix(content, "```json"):
		content = strings.TrimPrefix(content, "```json")
	case strings.HasPrefix(content, "```"):
		content = strings.TrimPrefix(content, "```")
	default:
		return content
	}
	content = strings.TrimSpace(content)
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// ParseSuggestions decodes a suggestion array from model output. Missing or
// malformed fields take defaults; elements that are not objects are skipped.
// Content that is not a JSON array is an error.
func ParseSuggestions(content string) ([]entities.Suggestion, error) {
	cleaned := StripCodeFence(content)

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion array: %w", err)
	}
	if items == nil {
		return nil, errors.New("suggestion payload is null")
	}

	suggestions := make([]entities.Suggestion, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			continue
		}
		suggestions = append(suggestions, suggestionFromFields(fields))
	}
	return suggestions, nil
}

func suggestionFromFields(fields map[string]json.RawMessage) entities.Suggestion {
	s := entities.Suggestion{
		Title:           stringField(fields, "title", ""),
		Type:            stringField(fields, "type", defaultSuggestionType),
		Description:     stringField(fields, "description", ""),
		Duration:        stringField(fields, "duration", defaultSuggestionDuration),
		URL:             strings.TrimSpace(stringField(fields, "url", "")),
		Icon:            stringField(fields, "icon", defaultSuggestionIcon),
		LearningOutcome: stringField(fields, "learningOutcome", defaultSuggestionOutcome),
		Prerequisites:   stringListField(fields, "prerequisites"),
	}

	level, ok := numberField(fields, "difficulty")
	if !ok || level < 1 || level > 5 {
		level = defaultSuggestionLevel
	}
	s.Difficulty = int(math.Round(level))

	score, ok := numberField(fields, "relevanceScore")
	if !ok {
		score = defaultSuggestionScore
	}
	s.RelevanceScore = math.Max(0, math.Min(10, score))
	return s
}

func stringField(fields map[string]json.RawMessage, key, fallback string) string {
	raw, ok := fields[key]
	if !ok {
		return fallback
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil || strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// numberField accepts a JSON number or a numeric string
func numberField(fields map[string]json.RawMessage, key string) (float64, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// stringListField accepts a list of strings or a single comma-separated string
func stringListField(fields map[string]json.RawMessage, key string) []string {
	out := []string{}
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return out
	}

	var list []interface{}
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, v := range list {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		for _, part := range strings.Split(single, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
