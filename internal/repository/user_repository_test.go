package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminColumns() []string {
	return []string{"id", "email", "password_hash", "nama", "aktif", "created_at", "updated_at"}
}

func TestUserRepositoryFindByEmailIsCaseInsensitive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(adminColumns()).
		AddRow("admin-1", "admin@masjid-almuttaqin.com", "$2a$10$hash", "Pentadbir", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(email) = $1")).
		WithArgs("admin@masjid-almuttaqin.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "Admin@Masjid-Almuttaqin.COM")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", user.ID)
	assert.True(t, user.Aktif)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM admin_users WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdatePassword(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	updatedAt := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE admin_users SET password_hash = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("admin-1", "$2a$10$newhash", updatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), "admin-1", "$2a$10$newhash", updatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}
