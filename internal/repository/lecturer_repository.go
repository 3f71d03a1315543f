package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

// LecturerRepository manages persistence for lecturer records.
type LecturerRepository struct {
	db *sqlx.DB
}

// NewLecturerRepository constructs a LecturerRepository.
func NewLecturerRepository(db *sqlx.DB) *LecturerRepository {
	return &LecturerRepository{db: db}
}

// List returns every lecturer ordered by the configured display order,
// then by name.
func (r *LecturerRepository) List(ctx context.Context) ([]models.Lecturer, error) {
	const query = `SELECT id, nama, gambar_url, deskripsi, susunan, created_at, updated_at
        FROM lecturers ORDER BY susunan ASC, nama ASC`
	lecturers := make([]models.Lecturer, 0)
	if err := r.db.SelectContext(ctx, &lecturers, query); err != nil {
		return nil, fmt.Errorf("list lecturers: %w", err)
	}
	return lecturers, nil
}

// FindByID fetches one lecturer by ID.
func (r *LecturerRepository) FindByID(ctx context.Context, id string) (*models.Lecturer, error) {
	const query = `SELECT id, nama, gambar_url, deskripsi, susunan, created_at, updated_at
        FROM lecturers WHERE id = $1`
	var lecturer models.Lecturer
	if err := r.db.GetContext(ctx, &lecturer, query, id); err != nil {
		return nil, err
	}
	return &lecturer, nil
}

// Create inserts a new lecturer record.
func (r *LecturerRepository) Create(ctx context.Context, lecturer *models.Lecturer) error {
	if lecturer.ID == "" {
		lecturer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lecturer.CreatedAt.IsZero() {
		lecturer.CreatedAt = now
	}
	lecturer.UpdatedAt = now
	const query = `INSERT INTO lecturers (id, nama, gambar_url, deskripsi, susunan, created_at, updated_at)
        VALUES (:id, :nama, :gambar_url, :deskripsi, :susunan, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lecturer); err != nil {
		return fmt.Errorf("create lecturer: %w", err)
	}
	return nil
}

// Update modifies an existing lecturer.
func (r *LecturerRepository) Update(ctx context.Context, lecturer *models.Lecturer) error {
	lecturer.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lecturers SET nama = :nama, gambar_url = :gambar_url, deskripsi = :deskripsi,
        susunan = :susunan, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, lecturer); err != nil {
		return fmt.Errorf("update lecturer: %w", err)
	}
	return nil
}

// Delete removes a lecturer. Evaluations and sessions referencing the
// lecturer keep their rows with the reference nulled, so history
// survives the removal.
func (r *LecturerRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete lecturer: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE evaluations SET lecturer_id = NULL WHERE lecturer_id = $1`, id); err != nil {
		return fmt.Errorf("detach evaluations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE kuliah_sessions SET lecturer_id = NULL WHERE lecturer_id = $1`, id); err != nil {
		return fmt.Errorf("detach sessions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM lecturers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lecturer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete lecturer: %w", err)
	}
	return nil
}
