package services

import (
	"context"
	"sort"
	"strings"

	"github.com/zatekoja/learnplan/internal/domain/entities"
	"github.com/zatekoja/learnplan/internal/domain/repositories"
)

// CatalogSelectionSize is the number of candidates returned by Select
const CatalogSelectionSize = 20

const defaultCandidatePool = 200

// ScoredResource pairs a catalog resource with its relevance for one request.
// The resource itself is never modified.
type ScoredResource struct {
	Resource  *entities.Resource
	Relevance float64
}

// CatalogSelector picks the catalog resources that best fit a learner's goal
type CatalogSelector struct {
	resources     repositories.ResourceRepository
	candidatePool int
}

// NewCatalogSelector creates a selector reading at most candidatePool resources per request
func NewCatalogSelector(resources repositories.ResourceRepository, candidatePool int) *CatalogSelector {
	if candidatePool <= 0 {
		candidatePool = defaultCandidatePool
	}
	return &CatalogSelector{
		resources:     resources,
		candidatePool: candidatePool,
	}
}

// DifficultyBands maps a coarse level label to the difficulty bands it covers.
// Unknown labels fall back to beginner and intermediate.
func DifficultyBands(level string) []entities.Difficulty {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "beginner":
		return []entities.Difficulty{entities.DifficultyBeginner}
	case "intermediate":
		return []entities.Difficulty{entities.DifficultyBeginner, entities.DifficultyIntermediate}
	case "advanced":
		return []entities.Difficulty{entities.DifficultyIntermediate, entities.DifficultyAdvanced}
	case "expert":
		return []entities.Difficulty{entities.DifficultyAdvanced, entities.DifficultyExpert}
	default:
		return []entities.Difficulty{entities.DifficultyBeginner, entities.DifficultyIntermediate}
	}
}

// Select returns up to CatalogSelectionSize active resources in the level's
// difficulty bands, ordered by relevance then priority, both descending.
// Store errors are returned unchanged.
func (s *CatalogSelector) Select(ctx context.Context, description, topic, level string) ([]ScoredResource, error) {
	candidates, err := s.resources.List(ctx, repositories.ResourceFilter{
		Statuses:     []entities.ResourceStatus{entities.ResourceStatusActive},
		Difficulties: DifficultyBands(level),
		Limit:        s.candidatePool,
	})
	if err != nil {
		return nil, err
	}

	return Rank(candidates, ExtractInterests(topic, description), CatalogSelectionSize), nil
}

// Rank scores resources against interests and keeps the best limit of them.
// Ties keep their input order.
func Rank(resources []*entities.Resource, interests []string, limit int) []ScoredResource {
	scored := make([]ScoredResource, 0, len(resources))
	for _, r := range resources {
		if r == nil {
			continue
		}
		scored = append(scored, ScoredResource{
			Resource:  r,
			Relevance: ScoreRelevance(r, interests),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Relevance != scored[j].Relevance {
			return scored[i].Relevance > scored[j].Relevance
		}
		return scored[i].Resource.Priority > scored[j].Resource.Priority
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
