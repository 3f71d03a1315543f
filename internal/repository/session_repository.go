package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

// SessionRepository manages persistence for lecture schedule slots.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

type sessionRow struct {
	models.LectureSession
	LecturerNama      sql.NullString `db:"lecturer_nama"`
	LecturerGambarURL sql.NullString `db:"lecturer_gambar_url"`
	LecturerDeskripsi sql.NullString `db:"lecturer_deskripsi"`
}

func (row sessionRow) toModel() models.LectureSession {
	session := row.LectureSession
	if session.LecturerID != nil && row.LecturerNama.Valid {
		lecturer := &models.Lecturer{
			ID:   *session.LecturerID,
			Nama: row.LecturerNama.String,
		}
		if row.LecturerGambarURL.Valid {
			lecturer.GambarURL = &row.LecturerGambarURL.String
		}
		if row.LecturerDeskripsi.Valid {
			lecturer.Deskripsi = &row.LecturerDeskripsi.String
		}
		session.Lecturer = lecturer
	}
	return session
}

const sessionSelect = `SELECT s.id, s.bulan, s.tahun, s.minggu, s.hari, s.jenis_kuliah, s.aktif, s.lecturer_id,
        s.created_at, s.updated_at,
        l.nama AS lecturer_nama, l.gambar_url AS lecturer_gambar_url, l.deskripsi AS lecturer_deskripsi
        FROM kuliah_sessions s LEFT JOIN lecturers l ON l.id = s.lecturer_id`

// ListActive returns only the sessions shown on the public schedule.
func (r *SessionRepository) ListActive(ctx context.Context) ([]models.LectureSession, error) {
	query := sessionSelect + ` WHERE s.aktif = true ORDER BY s.minggu ASC, s.created_at ASC`
	return r.list(ctx, query)
}

// List returns every session for the admin view.
func (r *SessionRepository) List(ctx context.Context) ([]models.LectureSession, error) {
	query := sessionSelect + ` ORDER BY s.minggu ASC, s.created_at ASC`
	return r.list(ctx, query)
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.LectureSession, error) {
	var rows []sessionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	sessions := make([]models.LectureSession, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, row.toModel())
	}
	return sessions, nil
}

// FindByID fetches one session with its joined lecturer.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.LectureSession, error) {
	query := sessionSelect + ` WHERE s.id = $1`
	var row sessionRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	session := row.toModel()
	return &session, nil
}

// Create inserts a new session slot.
func (r *SessionRepository) Create(ctx context.Context, session *models.LectureSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	const query = `INSERT INTO kuliah_sessions (id, bulan, tahun, minggu, hari, jenis_kuliah, aktif, lecturer_id, created_at, updated_at)
        VALUES (:id, :bulan, :tahun, :minggu, :hari, :jenis_kuliah, :aktif, :lecturer_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Update modifies an existing session slot.
func (r *SessionRepository) Update(ctx context.Context, session *models.LectureSession) error {
	session.UpdatedAt = time.Now().UTC()
	const query = `UPDATE kuliah_sessions SET bulan = :bulan, tahun = :tahun, minggu = :minggu, hari = :hari,
        jenis_kuliah = :jenis_kuliah, aktif = :aktif, lecturer_id = :lecturer_id, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Delete removes a session slot. Evaluations referencing the slot keep
// their rows with session_id nulled.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete session: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE evaluations SET session_id = NULL WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("detach evaluations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM kuliah_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete session: %w", err)
	}
	return nil
}
