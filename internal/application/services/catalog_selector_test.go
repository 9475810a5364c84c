package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/learnplan/internal/application/services"
	"github.com/zatekoja/learnplan/internal/domain/entities"
	"github.com/zatekoja/learnplan/internal/domain/repositories"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
)

func TestDifficultyBands(t *testing.T) {
	tests := []struct {
		level string
		want  []entities.Difficulty
	}{
		{"beginner", []entities.Difficulty{1}},
		{"intermediate", []entities.Difficulty{1, 2}},
		{"Advanced", []entities.Difficulty{2, 3}},
		{"expert", []entities.Difficulty{3, 4}},
		{"wizard", []entities.Difficulty{1, 2}},
		{"", []entities.Difficulty{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, services.DifficultyBands(tt.level))
		})
	}
}

func TestCatalogSelector_Select_QueriesActiveBands(t *testing.T) {
	repo := new(MockResourceRepository)
	repo.On("List", mock.Anything, mock.MatchedBy(func(f repositories.ResourceFilter) bool {
		return assert.ObjectsAreEqual([]entities.ResourceStatus{entities.ResourceStatusActive}, f.Statuses) &&
			assert.ObjectsAreEqual([]entities.Difficulty{2, 3}, f.Difficulties) &&
			f.Limit == 50
	})).Return([]*entities.Resource{}, nil)

	selector := services.NewCatalogSelector(repo, 50)
	result, err := selector.Select(context.Background(), "desc", "go", "advanced")

	require.NoError(t, err)
	assert.Empty(t, result)
	repo.AssertExpectations(t)
}

func TestCatalogSelector_Select_SortsByRelevanceThenPriority(t *testing.T) {
	unrelated := &entities.Resource{ID: "r1", Title: "Cooking", Priority: 3.0}
	lowPriority := &entities.Resource{ID: "r2", Title: "Docker deep dive", Priority: 1.0, Tags: []string{"docker"}}
	highPriority := &entities.Resource{ID: "r3", Title: "Docker in practice", Priority: 2.0, Tags: []string{"docker"}}

	repo := new(MockResourceRepository)
	repo.On("List", mock.Anything, mock.Anything).
		Return([]*entities.Resource{unrelated, lowPriority, highPriority}, nil)

	selector := services.NewCatalogSelector(repo, 0)
	result, err := selector.Select(context.Background(), "", "docker", "beginner")

	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "r3", result[0].Resource.ID)
	assert.Equal(t, "r2", result[1].Resource.ID)
	assert.Equal(t, "r1", result[2].Resource.ID)
	assert.InDelta(t, 1.5, result[0].Relevance, 1e-9)
	assert.Zero(t, result[2].Relevance)
}

func TestCatalogSelector_Select_KeepsTopTwenty(t *testing.T) {
	resources := make([]*entities.Resource, 25)
	for i := range resources {
		resources[i] = &entities.Resource{ID: fmt.Sprintf("r%d", i), Priority: float64(i)}
	}

	repo := new(MockResourceRepository)
	repo.On("List", mock.Anything, mock.Anything).Return(resources, nil)

	result, err := services.NewCatalogSelector(repo, 100).Select(context.Background(), "", "topic", "beginner")

	require.NoError(t, err)
	require.Len(t, result, services.CatalogSelectionSize)
	assert.Equal(t, "r24", result[0].Resource.ID)
	assert.Equal(t, "r5", result[19].Resource.ID)
}

func TestCatalogSelector_Select_StoreFailure(t *testing.T) {
	repo := new(MockResourceRepository)
	repo.On("List", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewInternalError("failed to list resources", fmt.Errorf("connection refused")))

	result, err := services.NewCatalogSelector(repo, 10).Select(context.Background(), "", "go", "beginner")

	assert.Nil(t, result)
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(err))
}

func TestRank_DoesNotModifyResources(t *testing.T) {
	resource := &entities.Resource{ID: "r1", Title: "Go", Priority: 2.5, Tags: []string{"go"}}
	before := *resource

	services.Rank([]*entities.Resource{resource, nil}, []string{"go"}, 5)

	assert.Equal(t, before, *resource)
}
