package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/zatekoja/learnplan/internal/domain/entities"
	"github.com/zatekoja/learnplan/internal/domain/repositories"
	"github.com/zatekoja/learnplan/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
)

var contributorColumns = []interface{}{
	"id", "name", "email", "password_hash", "expertise_areas",
	"organization", "bio", "is_verified", "created_at", "last_login",
}

// contributorRow mirrors the contributors table for sqlx scanning
type contributorRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Expertise    pq.StringArray `db:"expertise_areas"`
	Organization string         `db:"organization"`
	Bio          string         `db:"bio"`
	IsVerified   bool           `db:"is_verified"`
	CreatedAt    time.Time      `db:"created_at"`
	LastLogin    sql.NullTime   `db:"last_login"`
}

func (r *contributorRow) toEntity() *entities.Contributor {
	c := &entities.Contributor{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Expertise:    nonNil([]string(r.Expertise)),
		Organization: r.Organization,
		Bio:          r.Bio,
		IsVerified:   r.IsVerified,
		CreatedAt:    r.CreatedAt,
	}
	if r.LastLogin.Valid {
		at := r.LastLogin.Time
		c.LastLogin = &at
	}
	return c
}

// ContributorAdapter implements ContributorRepository on PostgreSQL
type ContributorAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	dbx    *sqlx.DB
}

// NewContributorAdapter creates a new contributor adapter
func NewContributorAdapter(client *postgres.Client) repositories.ContributorRepository {
	return &ContributorAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		dbx:    client.DBX(),
	}
}

// Create creates a new contributor
func (a *ContributorAdapter) Create(ctx context.Context, c *entities.Contributor) error {
	record := goqu.Record{
		"id":              c.ID,
		"name":            c.Name,
		"email":           c.Email,
		"password_hash":   c.PasswordHash,
		"expertise_areas": pq.Array(nonNil(c.Expertise)),
		"organization":    c.Organization,
		"bio":             c.Bio,
		"is_verified":     c.IsVerified,
		"created_at":      c.CreatedAt,
	}

	query, args, err := a.db.Insert(contributorsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("email already registered")
		}
		return apperrors.NewInternalError("failed to create contributor", err)
	}
	return nil
}

// GetByID retrieves a contributor by ID
func (a *ContributorAdapter) GetByID(ctx context.Context, id string) (*entities.Contributor, error) {
	return a.getByField(ctx, "id", id)
}

// GetByEmail retrieves a contributor by email
func (a *ContributorAdapter) GetByEmail(ctx context.Context, email string) (*entities.Contributor, error) {
	return a.getByField(ctx, "email", email)
}

func (a *ContributorAdapter) getByField(ctx context.Context, field, value string) (*entities.Contributor, error) {
	query, args, err := a.db.Select(contributorColumns...).
		From(contributorsTable).
		Where(goqu.Ex{field: value}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var row contributorRow
	err = a.dbx.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("contributor with %s %s not found", field, value))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get contributor", err)
	}
	return row.toEntity(), nil
}

// UpdateLastLogin records a successful login
func (a *ContributorAdapter) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	query, args, err := a.db.Update(contributorsTable).
		Set(goqu.Record{"last_login": at}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to update last login", err)
	}
	return nil
}
