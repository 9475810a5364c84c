package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/learnplan/internal/domain/entities"
)

// ContributorRepository defines the interface for contributor persistence
type ContributorRepository interface {
	// Create stores a new contributor. A duplicate email yields a conflict error.
	Create(ctx context.Context, contributor *entities.Contributor) error

	GetByID(ctx context.Context, id string) (*entities.Contributor, error)

	GetByEmail(ctx context.Context, email string) (*entities.Contributor, error)

	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
