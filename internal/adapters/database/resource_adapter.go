package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
	"github.com/zatekoja/learnplan/internal/domain/entities"
	"github.com/zatekoja/learnplan/internal/domain/repositories"
	"github.com/zatekoja/learnplan/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
)

const (
	uniqueViolation  = "23505"
	recentStatsLimit = 5
	defaultListLimit = 500
)

var resourceColumns = []interface{}{
	"id", "title", "description", "url", "type", "difficulty", "duration", "cost",
	"language", "provider", "author", "rating", "review_count", "hashtags",
	"prerequisites", "learning_outcomes", "target_audience", "status",
	"priority_score", "created_by", "created_at", "updated_at",
}

// ResourceAdapter implements ResourceRepository on PostgreSQL
type ResourceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewResourceAdapter creates a new resource adapter
func NewResourceAdapter(client *postgres.Client) repositories.ResourceRepository {
	return &ResourceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new resource
func (a *ResourceAdapter) Create(ctx context.Context, r *entities.Resource) error {
	record := resourceRecord(r)
	record["id"] = r.ID
	record["created_by"] = sql.NullString{String: r.CreatedBy, Valid: r.CreatedBy != ""}
	record["created_at"] = r.CreatedAt

	query, args, err := a.db.Insert(resourcesTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("resource with url %s already exists", r.URL))
		}
		return apperrors.NewInternalError("failed to create resource", err)
	}
	return nil
}

// GetByID retrieves a resource by ID
func (a *ResourceAdapter) GetByID(ctx context.Context, id string) (*entities.Resource, error) {
	query, args, err := a.db.Select(resourceColumns...).
		From(resourcesTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	resource, err := scanResource(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("resource with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get resource", err)
	}
	return resource, nil
}

// Update updates the editable fields, status and priority of a resource
func (a *ResourceAdapter) Update(ctx context.Context, r *entities.Resource) error {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now().UTC()
	}

	query, args, err := a.db.Update(resourcesTable).
		Set(resourceRecord(r)).
		Where(goqu.Ex{"id": r.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("resource with url %s already exists", r.URL))
		}
		return apperrors.NewInternalError("failed to update resource", err)
	}
	return expectAffected(result, r.ID)
}

// Delete deletes a resource
func (a *ResourceAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete(resourcesTable).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete resource", err)
	}
	return expectAffected(result, id)
}

// List retrieves resources with filters
func (a *ResourceAdapter) List(ctx context.Context, filter repositories.ResourceFilter) ([]*entities.Resource, error) {
	ds := a.db.Select(resourceColumns...).From(resourcesTable)

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		ds = ds.Where(goqu.Ex{"status": statuses})
	}
	if len(filter.Difficulties) > 0 {
		levels := make([]int, len(filter.Difficulties))
		for i, d := range filter.Difficulties {
			levels[i] = int(d)
		}
		ds = ds.Where(goqu.Ex{"difficulty": levels})
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		ds = ds.Where(goqu.Ex{"type": types})
	}
	if filter.CreatedBy != "" {
		ds = ds.Where(goqu.Ex{"created_by": filter.CreatedBy})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	ds = ds.Order(goqu.I("priority_score").Desc(), goqu.I("updated_at").Desc()).Limit(uint(limit))
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	return a.query(ctx, ds, "failed to list resources")
}

// Search matches active resources containing any whitespace-separated term of
// query in their title, description or tags. An empty query lists active resources.
func (a *ResourceAdapter) Search(ctx context.Context, query string, limit int) ([]*entities.Resource, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return a.List(ctx, repositories.ResourceFilter{
			Statuses: []entities.ResourceStatus{entities.ResourceStatusActive},
			Limit:    limit,
		})
	}

	conditions := make([]exp.Expression, 0, len(terms)*3)
	for _, term := range terms {
		pattern := "%" + term + "%"
		conditions = append(conditions,
			goqu.I("title").ILike(pattern),
			goqu.I("description").ILike(pattern),
			goqu.L("array_to_string(hashtags, ' ') ILIKE ?", pattern),
		)
	}

	ds := a.db.Select(resourceColumns...).
		From(resourcesTable).
		Where(
			goqu.Ex{"status": string(entities.ResourceStatusActive)},
			goqu.Or(conditions...),
		).
		Order(goqu.I("priority_score").Desc(), goqu.I("updated_at").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	return a.query(ctx, ds, "failed to search resources")
}

// UpdatePriority sets the priority weight of a resource
func (a *ResourceAdapter) UpdatePriority(ctx context.Context, id string, priority float64) error {
	return a.updateFields(ctx, id, goqu.Record{"priority_score": priority})
}

// UpdateStatus sets the review status of a resource
func (a *ResourceAdapter) UpdateStatus(ctx context.Context, id string, status entities.ResourceStatus) error {
	return a.updateFields(ctx, id, goqu.Record{"status": string(status)})
}

// Stats summarizes the catalog with grouped counts
func (a *ResourceAdapter) Stats(ctx context.Context) (*entities.CatalogStats, error) {
	stats := &entities.CatalogStats{
		ByDifficulty: make(map[entities.Difficulty]int),
	}

	byStatus, err := a.countBy(ctx, "status")
	if err != nil {
		return nil, err
	}
	for status, n := range byStatus {
		stats.Total += n
		switch entities.ResourceStatus(status) {
		case entities.ResourceStatusActive:
			stats.Active = n
		case entities.ResourceStatusPendingReview:
			stats.Pending = n
		}
	}

	if stats.ByType, err = a.countBy(ctx, "type"); err != nil {
		return nil, err
	}
	if stats.ByProvider, err = a.countBy(ctx, "provider"); err != nil {
		return nil, err
	}
	delete(stats.ByProvider, "")

	byDifficulty, err := a.countBy(ctx, "difficulty")
	if err != nil {
		return nil, err
	}
	for level, n := range byDifficulty {
		var d int
		if _, err := fmt.Sscan(level, &d); err == nil {
			stats.ByDifficulty[entities.Difficulty(d)] = n
		}
	}

	recent := a.db.Select(resourceColumns...).
		From(resourcesTable).
		Order(goqu.I("updated_at").Desc()).
		Limit(recentStatsLimit)
	if stats.Recent, err = a.query(ctx, recent, "failed to list recent resources"); err != nil {
		return nil, err
	}

	return stats, nil
}

func (a *ResourceAdapter) countBy(ctx context.Context, column string) (map[string]int, error) {
	query, args, err := a.db.Select(goqu.L("?::text", goqu.I(column)).As("key"), goqu.COUNT("*")).
		From(resourcesTable).
		GroupBy(goqu.I(column)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build stats query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to count resources by "+column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key sql.NullString
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, apperrors.NewInternalError("failed to scan stats row", err)
		}
		counts[key.String] += n
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read stats rows", err)
	}
	return counts, nil
}

func (a *ResourceAdapter) updateFields(ctx context.Context, id string, record goqu.Record) error {
	record["updated_at"] = time.Now().UTC()

	query, args, err := a.db.Update(resourcesTable).
		Set(record).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update resource", err)
	}
	return expectAffected(result, id)
}

func (a *ResourceAdapter) query(ctx context.Context, ds *goqu.SelectDataset, failure string) ([]*entities.Resource, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError(failure, err)
	}
	defer rows.Close()

	resources := make([]*entities.Resource, 0)
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan resource", err)
		}
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError(failure, err)
	}
	return resources, nil
}

// resourceRecord holds the columns written by both insert and update
func resourceRecord(r *entities.Resource) goqu.Record {
	return goqu.Record{
		"title":             r.Title,
		"description":       r.Description,
		"url":               r.URL,
		"type":              string(r.Type),
		"difficulty":        int(r.Difficulty),
		"duration":          r.Duration,
		"cost":              r.Cost,
		"language":          r.Language,
		"provider":          r.Provider,
		"author":            r.Author,
		"rating":            r.Rating,
		"review_count":      r.ReviewCount,
		"hashtags":          pq.Array(nonNil(r.Tags)),
		"prerequisites":     pq.Array(nonNil(r.Prerequisites)),
		"learning_outcomes": pq.Array(nonNil(r.LearningOutcomes)),
		"target_audience":   r.TargetAudience,
		"status":            string(r.Status),
		"priority_score":    r.Priority,
		"updated_at":        r.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResource(row rowScanner) (*entities.Resource, error) {
	r := &entities.Resource{}
	var resourceType, status string
	var difficulty int
	var createdBy sql.NullString

	err := row.Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&r.URL,
		&resourceType,
		&difficulty,
		&r.Duration,
		&r.Cost,
		&r.Language,
		&r.Provider,
		&r.Author,
		&r.Rating,
		&r.ReviewCount,
		pq.Array(&r.Tags),
		pq.Array(&r.Prerequisites),
		pq.Array(&r.LearningOutcomes),
		&r.TargetAudience,
		&status,
		&r.Priority,
		&createdBy,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Type = entities.ResourceType(resourceType)
	r.Difficulty = entities.Difficulty(difficulty)
	r.Status = entities.ResourceStatus(status)
	r.CreatedBy = createdBy.String
	r.Tags = nonNil(r.Tags)
	r.Prerequisites = nonNil(r.Prerequisites)
	r.LearningOutcomes = nonNil(r.LearningOutcomes)
	return r, nil
}

func expectAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("resource with id %s not found", id))
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
