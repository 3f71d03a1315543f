package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func lecturerColumns() []string {
	return []string{"id", "nama", "gambar_url", "deskripsi", "susunan", "created_at", "updated_at"}
}

func TestLecturerRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLecturerRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(lecturerColumns()).
		AddRow("lec-1", "Ustaz Hassan", nil, nil, 1, now, now).
		AddRow("lec-2", "Ustaz Karim", "https://example.com/k.jpg", "Pengajian tafsir", 2, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM lecturers ORDER BY susunan ASC, nama ASC")).
		WillReturnRows(rows)

	lecturers, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, lecturers, 2)
	assert.Equal(t, "Ustaz Hassan", lecturers[0].Nama)
	require.NotNil(t, lecturers[1].GambarURL)
	assert.Equal(t, "https://example.com/k.jpg", *lecturers[1].GambarURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLecturerRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLecturerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM lecturers WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLecturerRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLecturerRepository(db)

	mock.ExpectExec("INSERT INTO lecturers").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	lecturer := &models.Lecturer{Nama: "Ustaz Hassan", Susunan: 1}
	require.NoError(t, repo.Create(context.Background(), lecturer))
	assert.NotEmpty(t, lecturer.ID)
	assert.False(t, lecturer.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLecturerRepositoryDeleteDetachesReferences(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLecturerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE evaluations SET lecturer_id = NULL WHERE lecturer_id = $1")).
		WithArgs("lec-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE kuliah_sessions SET lecturer_id = NULL WHERE lecturer_id = $1")).
		WithArgs("lec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM lecturers WHERE id = $1")).
		WithArgs("lec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "lec-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLecturerRepositoryDeleteRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLecturerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE evaluations SET lecturer_id = NULL WHERE lecturer_id = $1")).
		WithArgs("lec-1").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "lec-1")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
