package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

// EvaluationRepository manages persistence for submitted evaluations.
// Records are insert-only from the public form; admins may delete them.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository constructs an EvaluationRepository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

type evaluationRow struct {
	models.Evaluation
	LecturerNama      sql.NullString `db:"lecturer_nama"`
	LecturerGambarURL sql.NullString `db:"lecturer_gambar_url"`
	SessionMinggu     sql.NullInt64  `db:"session_minggu"`
	SessionHari       sql.NullString `db:"session_hari"`
	SessionJenis      sql.NullString `db:"session_jenis_kuliah"`
}

func (row evaluationRow) toModel() models.Evaluation {
	e := row.Evaluation
	if e.LecturerID != nil && row.LecturerNama.Valid {
		lecturer := &models.Lecturer{
			ID:   *e.LecturerID,
			Nama: row.LecturerNama.String,
		}
		if row.LecturerGambarURL.Valid {
			lecturer.GambarURL = &row.LecturerGambarURL.String
		}
		e.Lecturer = lecturer
	}
	if e.SessionID != nil && row.SessionMinggu.Valid {
		e.Session = &models.LectureSession{
			ID:          *e.SessionID,
			Minggu:      int(row.SessionMinggu.Int64),
			Hari:        row.SessionHari.String,
			JenisKuliah: row.SessionJenis.String,
		}
	}
	return e
}

const evaluationSelect = `SELECT e.id, e.nama_penilai, e.umur, e.alamat, e.tarikh_penilaian,
        e.q1_tajuk, e.q2_ilmu, e.q3_penyampaian, e.q4_masa,
        e.cadangan_teruskan, e.komen_penceramah, e.cadangan_masjid,
        e.lecturer_id, e.session_id, e.created_at,
        l.nama AS lecturer_nama, l.gambar_url AS lecturer_gambar_url,
        s.minggu AS session_minggu, s.hari AS session_hari, s.jenis_kuliah AS session_jenis_kuliah`

const evaluationFrom = ` FROM evaluations e
        LEFT JOIN lecturers l ON l.id = e.lecturer_id
        LEFT JOIN kuliah_sessions s ON s.id = e.session_id`

func buildEvaluationConditions(filter models.EvaluationFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := make([]interface{}, 0)

	if filter.LecturerID != "" {
		conditions = append(conditions, fmt.Sprintf("e.lecturer_id = $%d", len(args)+1))
		args = append(args, filter.LecturerID)
	}
	if filter.Week > 0 {
		conditions = append(conditions, fmt.Sprintf("s.minggu = $%d", len(args)+1))
		args = append(args, filter.Week)
	}
	if filter.LectureType != "" {
		conditions = append(conditions, fmt.Sprintf("s.jenis_kuliah = $%d", len(args)+1))
		args = append(args, filter.LectureType)
	}
	if filter.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("e.tarikh_penilaian >= $%d", len(args)+1))
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("e.tarikh_penilaian <= $%d", len(args)+1))
		args = append(args, filter.DateTo)
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List returns a filtered, paginated page of evaluations with joined
// lecturer and session rows, newest first, plus the unpaginated total.
func (r *EvaluationRepository) List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, int, error) {
	where, args := buildEvaluationConditions(filter)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("%s%s%s ORDER BY e.created_at DESC LIMIT %d OFFSET %d",
		evaluationSelect, evaluationFrom, where, size, offset)

	var rows []evaluationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list evaluations: %w", err)
	}

	countQuery := "SELECT COUNT(*)" + evaluationFrom + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count evaluations: %w", err)
	}

	evaluations := make([]models.Evaluation, 0, len(rows))
	for _, row := range rows {
		evaluations = append(evaluations, row.toModel())
	}
	return evaluations, total, nil
}

// ListAll returns every evaluation with joins, oldest first. The derived
// aggregates scan the full record set in one pass.
func (r *EvaluationRepository) ListAll(ctx context.Context) ([]models.Evaluation, error) {
	query := evaluationSelect + evaluationFrom + " ORDER BY e.created_at ASC"
	var rows []evaluationRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list all evaluations: %w", err)
	}
	evaluations := make([]models.Evaluation, 0, len(rows))
	for _, row := range rows {
		evaluations = append(evaluations, row.toModel())
	}
	return evaluations, nil
}

// FindByID fetches one evaluation with joins.
func (r *EvaluationRepository) FindByID(ctx context.Context, id string) (*models.Evaluation, error) {
	query := evaluationSelect + evaluationFrom + " WHERE e.id = $1"
	var row evaluationRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	evaluation := row.toModel()
	return &evaluation, nil
}

// CreateBatch inserts all records in one transaction. A submission is
// all-or-nothing; a failure on any record rolls back the whole batch.
func (r *EvaluationRepository) CreateBatch(ctx context.Context, evaluations []*models.Evaluation) error {
	if len(evaluations) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create evaluations: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `INSERT INTO evaluations (id, nama_penilai, umur, alamat, tarikh_penilaian,
        q1_tajuk, q2_ilmu, q3_penyampaian, q4_masa, cadangan_teruskan,
        komen_penceramah, cadangan_masjid, lecturer_id, session_id, created_at)
        VALUES (:id, :nama_penilai, :umur, :alamat, :tarikh_penilaian,
        :q1_tajuk, :q2_ilmu, :q3_penyampaian, :q4_masa, :cadangan_teruskan,
        :komen_penceramah, :cadangan_masjid, :lecturer_id, :session_id, :created_at)`

	now := time.Now().UTC()
	for _, e := range evaluations {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, e); err != nil {
			return fmt.Errorf("create evaluation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create evaluations: %w", err)
	}
	return nil
}

// Delete removes one evaluation record.
func (r *EvaluationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM evaluations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete evaluation: %w", err)
	}
	return nil
}
