package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/learnplan/internal/domain/entities"
	"github.com/zatekoja/learnplan/internal/domain/repositories"
	"github.com/zatekoja/learnplan/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
	"github.com/zatekoja/learnplan/pkg/validation"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	defaultAdminLimit  = 100
	maxPriority        = 10.0
)

// ResourceService manages the curated catalog on behalf of contributors and admins
type ResourceService struct {
	resources repositories.ResourceRepository
	now       func() time.Time
}

// NewResourceService creates a new resource service
func NewResourceService(resources repositories.ResourceRepository) *ResourceService {
	return &ResourceService{
		resources: resources,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Add submits a resource for review. The author defaults to the contributor's name.
func (s *ResourceService) Add(ctx context.Context, session *entities.Session, in entities.ResourceInput) (*entities.Resource, error) {
	if err := validateResourceInput(&in); err != nil {
		return nil, err
	}

	now := s.now()
	resource := &entities.Resource{
		ID:        uuid.New().String(),
		Status:    entities.ResourceStatusPendingReview,
		Priority:  entities.DefaultPriority,
		CreatedBy: session.ContributorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.Apply(resource)
	if resource.Author == "" {
		resource.Author = session.ContributorName
	}
	if resource.Language == "" {
		resource.Language = "en"
	}
	normalizeLists(resource)

	if err := s.resources.Create(ctx, resource); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("resource_id", resource.ID).
		Str("contributor_id", session.ContributorID).
		Msg("resource submitted for review")
	return resource, nil
}

// Update replaces an owned resource's fields and sends it back to review
func (s *ResourceService) Update(ctx context.Context, session *entities.Session, id string, in entities.ResourceInput) (*entities.Resource, error) {
	if err := validateResourceInput(&in); err != nil {
		return nil, err
	}

	resource, err := s.owned(ctx, session, id)
	if err != nil {
		return nil, err
	}

	in.Apply(resource)
	if resource.Author == "" {
		resource.Author = session.ContributorName
	}
	normalizeLists(resource)
	resource.Status = entities.ResourceStatusPendingReview
	resource.UpdatedAt = s.now()

	if err := s.resources.Update(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// Delete removes an owned resource
func (s *ResourceService) Delete(ctx context.Context, session *entities.Session, id string) error {
	if _, err := s.owned(ctx, session, id); err != nil {
		return err
	}
	return s.resources.Delete(ctx, id)
}

// MyResources lists the resources submitted by the session's contributor
func (s *ResourceService) MyResources(ctx context.Context, session *entities.Session) ([]*entities.Resource, error) {
	return s.resources.List(ctx, repositories.ResourceFilter{CreatedBy: session.ContributorID})
}

// Search finds active resources matching any term of query
func (s *ResourceService) Search(ctx context.Context, query string, limit int) ([]*entities.Resource, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return s.resources.Search(ctx, strings.TrimSpace(query), limit)
}

// AdminList lists resources in any status, optionally narrowed to one
func (s *ResourceService) AdminList(ctx context.Context, status string, limit, offset int) ([]*entities.Resource, error) {
	filter := repositories.ResourceFilter{Limit: limit, Offset: offset}
	if filter.Limit <= 0 {
		filter.Limit = defaultAdminLimit
	}
	if status != "" {
		st := entities.ResourceStatus(status)
		if !st.Valid() {
			return nil, apperrors.NewValidationError("unknown status: " + status)
		}
		filter.Statuses = []entities.ResourceStatus{st}
	}
	return s.resources.List(ctx, filter)
}

// UpdatePriority sets the priority weight used to rank a resource
func (s *ResourceService) UpdatePriority(ctx context.Context, id string, priority float64) error {
	if priority < 0 || priority > maxPriority {
		return apperrors.NewValidationError("priority must be between 0 and 10")
	}
	return s.resources.UpdatePriority(ctx, id, priority)
}

// UpdateStatus moves a resource through review; active approves it
func (s *ResourceService) UpdateStatus(ctx context.Context, id string, status entities.ResourceStatus) error {
	if !status.Valid() {
		return apperrors.NewValidationError("unknown status: " + string(status))
	}
	if err := s.resources.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	observability.LoggerFromContext(ctx).Info().
		Str("resource_id", id).
		Str("status", string(status)).
		Msg("resource status updated")
	return nil
}

// Stats summarizes the catalog
func (s *ResourceService) Stats(ctx context.Context) (*entities.CatalogStats, error) {
	return s.resources.Stats(ctx)
}

func (s *ResourceService) owned(ctx context.Context, session *entities.Session, id string) (*entities.Resource, error) {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource.CreatedBy != session.ContributorID {
		return nil, apperrors.NewForbiddenError("resource belongs to another contributor")
	}
	return resource, nil
}

func validateResourceInput(in *entities.ResourceInput) error {
	if verr := validation.ValidateStruct(in); verr != nil {
		return verr.ToAppError()
	}
	if !in.Type.Valid() {
		return apperrors.NewValidationError("unknown resource_type: " + string(in.Type))
	}
	return nil
}

func normalizeLists(r *entities.Resource) {
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Prerequisites == nil {
		r.Prerequisites = []string{}
	}
	if r.LearningOutcomes == nil {
		r.LearningOutcomes = []string{}
	}
}
