package services

import (
	"fmt"
	"strings"

	"github.com/zatekoja/learnplan/internal/domain/entities"
)

// PromptCatalogLimit is the number of catalog candidates quoted in a prompt
const PromptCatalogLimit = 10

// BuildPrompt renders the learner's goal and the top catalog candidates into
// a single instruction for the AI gateway. It is deterministic.
func BuildPrompt(req entities.PlanRequest, candidates []ScoredResource) string {
	var b strings.Builder

	b.WriteString("A learner needs a personalized set of learning resources.\n\n")
	b.WriteString("Learner goal:\n")
	fmt.Fprintf(&b, "- Description: %s\n", req.Description)
	fmt.Fprintf(&b, "- Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "- Level: %s\n", req.Level)
	if req.Duration > 0 {
		fmt.Fprintf(&b, "- Plan length: %d days\n", req.Duration)
	}
	if req.Intensity != "" {
		fmt.Fprintf(&b, "- Intensity: %s\n", req.Intensity)
	}
	if len(req.Materials) > 0 {
		fmt.Fprintf(&b, "- Preferred material types: %s\n", strings.Join(req.Materials, ", "))
	} else {
		b.WriteString("- Preferred material types: any\n")
	}

	if len(candidates) > PromptCatalogLimit {
		candidates = candidates[:PromptCatalogLimit]
	}

	b.WriteString("\nCurated catalog (highest priority first):\n")
	if len(candidates) == 0 {
		b.WriteString("(no curated resources match this goal)\n")
	}
	for i, c := range candidates {
		r := c.Resource
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "   Type: %s | Difficulty: %d/5 | Duration: %s\n", r.Type, r.Difficulty, r.Duration)
		if len(r.Tags) > 0 {
			fmt.Fprintf(&b, "   Tags: %s\n", strings.Join(r.Tags, ", "))
		}
		fmt.Fprintf(&b, "   Description: %s\n", r.Description)
		fmt.Fprintf(&b, "   URL: %s\n", r.URL)
		fmt.Fprintf(&b, "   Priority: %.1f | Relevance: %.1f\n", r.Priority, c.Relevance)
	}

	b.WriteString(`
Instructions:
1. Prefer resources from the curated catalog above and keep their URLs unchanged.
2. Only when the catalog does not cover the goal, add other high-quality resources that really exist.
3. Every URL must be a real, publicly reachable http or https address. Never invent placeholder links.
4. Match the learner's level and preferred material types.

Respond with a JSON array only, without markdown code fences. Each element must have exactly these fields:
{
  "title": string,
  "type": string (Course, Book, Video, Article, Project, Tutorial, Podcast, Tool or Documentation),
  "description": string,
  "duration": string (for example "2 weeks" or "3 hours"),
  "difficulty": integer from 1 to 5,
  "url": string,
  "icon": string (a Font Awesome class such as "fas fa-book"),
  "relevanceScore": integer from 1 to 10,
  "learningOutcome": string,
  "prerequisites": array of strings,
  "isCurated": boolean (true when taken from the curated catalog),
  "priority": number
}
`)
	return b.String()
}
