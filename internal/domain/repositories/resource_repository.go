package repositories

import (
	"context"

	"github.com/zatekoja/learnplan/internal/domain/entities"
)

// ResourceRepository defines the interface for learning resource persistence
type ResourceRepository interface {
	// Create stores a new resource. A duplicate URL yields a conflict error.
	Create(ctx context.Context, resource *entities.Resource) error

	// GetByID retrieves a resource by ID
	GetByID(ctx context.Context, id string) (*entities.Resource, error)

	// Update replaces the editable fields of a resource
	Update(ctx context.Context, resource *entities.Resource) error

	// Delete removes a resource
	Delete(ctx context.Context, id string) error

	// List returns resources matching filter ordered by priority descending,
	// then most recently updated
	List(ctx context.Context, filter ResourceFilter) ([]*entities.Resource, error)

	// Search matches active resources whose title, description or tags contain any query term
	Search(ctx context.Context, query string, limit int) ([]*entities.Resource, error)

	// UpdatePriority sets the priority weight of a resource
	UpdatePriority(ctx context.Context, id string, priority float64) error

	// UpdateStatus sets the review status of a resource
	UpdateStatus(ctx context.Context, id string, status entities.ResourceStatus) error

	// Stats summarizes the catalog
	Stats(ctx context.Context) (*entities.CatalogStats, error)
}

// ResourceFilter contains filtering options for listing resources.
// Empty slices do not constrain the result.
type ResourceFilter struct {
	Statuses     []entities.ResourceStatus
	Difficulties []entities.Difficulty
	Types        []entities.ResourceType
	CreatedBy    string
	Limit        int
	Offset       int
}
