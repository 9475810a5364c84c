package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/learnplan/internal/adapters/database"
	"github.com/zatekoja/learnplan/internal/domain/entities"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
)

var contributorColumnNames = []string{
	"id", "name", "email", "password_hash", "expertise_areas",
	"organization", "bio", "is_verified", "created_at", "last_login",
}

func TestContributorAdapter_GetByEmail(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewContributorAdapter(client)
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM "contributors" WHERE \("email" = 'ada@example.org'\)`).
		WillReturnRows(sqlmock.NewRows(contributorColumnNames).
			AddRow("c1", "Ada", "ada@example.org", "hash", "{math,engines}", "", "", true, created, nil))

	contributor, err := adapter.GetByEmail(context.Background(), "ada@example.org")

	require.NoError(t, err)
	assert.Equal(t, "c1", contributor.ID)
	assert.Equal(t, []string{"math", "engines"}, contributor.Expertise)
	assert.True(t, contributor.IsVerified)
	assert.Nil(t, contributor.LastLogin)
	assert.Equal(t, created, contributor.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContributorAdapter_GetByID_NotFound(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewContributorAdapter(client)

	mock.ExpectQuery(`FROM "contributors"`).WillReturnRows(sqlmock.NewRows(contributorColumnNames))

	_, err := adapter.GetByID(context.Background(), "missing")

	assert.True(t, apperrors.IsNotFound(err))
}

func TestContributorAdapter_Create_DuplicateEmail(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewContributorAdapter(client)

	mock.ExpectExec(`INSERT INTO "contributors"`).WillReturnError(&pq.Error{Code: "23505"})

	err := adapter.Create(context.Background(), &entities.Contributor{ID: "c1", Email: "ada@example.org"})

	assert.True(t, apperrors.IsConflict(err))
}

func TestContributorAdapter_UpdateLastLogin(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewContributorAdapter(client)

	mock.ExpectExec(`UPDATE "contributors" SET "last_login"=.* WHERE \("id" = 'c1'\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.UpdateLastLogin(context.Background(), "c1", time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
