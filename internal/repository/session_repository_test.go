package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

func sessionColumns() []string {
	return []string{
		"id", "bulan", "tahun", "minggu", "hari", "jenis_kuliah", "aktif", "lecturer_id",
		"created_at", "updated_at",
		"lecturer_nama", "lecturer_gambar_url", "lecturer_deskripsi",
	}
}

func TestSessionRepositoryListActiveJoinsLecturer(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(sessionColumns()).
		AddRow("sess-1", 0, 0, 1, "Isnin", "Subuh", true, "lec-1", now, now,
			"Ustaz Hassan", "https://example.com/h.jpg", nil).
		AddRow("sess-2", 0, 0, 2, "Jumaat", "Jumaat", true, nil, now, now,
			nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.aktif = true ORDER BY s.minggu ASC, s.created_at ASC")).
		WillReturnRows(rows)

	sessions, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	first := sessions[0]
	assert.True(t, first.Recurring())
	require.NotNil(t, first.Lecturer)
	assert.Equal(t, "Ustaz Hassan", first.Lecturer.Nama)
	require.NotNil(t, first.Lecturer.GambarURL)

	// Sessions without an assigned lecturer stay unjoined.
	assert.Nil(t, sessions[1].Lecturer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(sessionColumns()).
		AddRow("sess-1", 1, 2026, 3, "Rabu", "Maghrib", true, "lec-1", now, now,
			"Ustaz Hassan", nil, "Pengajian hadis")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.id = $1")).
		WithArgs("sess-1").
		WillReturnRows(rows)

	session, err := repo.FindByID(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.False(t, session.Recurring())
	assert.Equal(t, "Maghrib", session.JenisKuliah)
	require.NotNil(t, session.Lecturer)
	require.NotNil(t, session.Lecturer.Deskripsi)
	assert.Equal(t, "Pengajian hadis", *session.Lecturer.Deskripsi)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec("INSERT INTO kuliah_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	session := &models.LectureSession{Minggu: 1, Hari: "Isnin", JenisKuliah: models.LectureTypeSubuh, Aktif: true}
	require.NoError(t, repo.Create(context.Background(), session))
	assert.NotEmpty(t, session.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryDeleteDetachesEvaluations(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE evaluations SET session_id = NULL WHERE session_id = $1")).
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kuliah_sessions WHERE id = $1")).
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "sess-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
