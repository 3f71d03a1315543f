package models

import "time"

// Evaluation is one submitted rating event. Records are created by the
// public form and never mutated afterwards; only administrators delete
// them. The lecturer and session references may be nulled out when the
// referenced entity is deleted — the evaluation itself survives.
type Evaluation struct {
	ID               string    `db:"id" json:"id"`
	NamaPenilai      string    `db:"nama_penilai" json:"nama_penilai"`
	Umur             int       `db:"umur" json:"umur"`
	Alamat           string    `db:"alamat" json:"alamat"`
	TarikhPenilaian  string    `db:"tarikh_penilaian" json:"tarikh_penilaian"`
	Q1Tajuk          int       `db:"q1_tajuk" json:"q1_tajuk"`
	Q2Ilmu           int       `db:"q2_ilmu" json:"q2_ilmu"`
	Q3Penyampaian    int       `db:"q3_penyampaian" json:"q3_penyampaian"`
	Q4Masa           int       `db:"q4_masa" json:"q4_masa"`
	CadanganTeruskan *bool     `db:"cadangan_teruskan" json:"cadangan_teruskan"`
	KomenPenceramah  *string   `db:"komen_penceramah" json:"komen_penceramah"`
	CadanganMasjid   *string   `db:"cadangan_masjid" json:"cadangan_masjid"`
	LecturerID       *string   `db:"lecturer_id" json:"lecturer_id"`
	SessionID        *string   `db:"session_id" json:"session_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`

	// Joined rows, populated by list queries.
	Lecturer *Lecturer       `db:"-" json:"lecturer,omitempty"`
	Session  *LectureSession `db:"-" json:"session,omitempty"`
}

// Recommended reports the recommendation flag treating null as "no",
// matching how the aggregation layer counts it.
func (e Evaluation) Recommended() bool {
	return e.CadanganTeruskan != nil && *e.CadanganTeruskan
}

// EvaluatorInfo is the respondent block of the submission form.
type EvaluatorInfo struct {
	Nama   string `json:"nama"`
	Umur   int    `json:"umur"`
	Alamat string `json:"alamat"`
	Tarikh string `json:"tarikh"`
}

// EvaluationRatings is the four-question answer block. Nil means
// unanswered; a record is only persisted once all four are set.
type EvaluationRatings struct {
	Q1Tajuk       *int `json:"q1_tajuk"`
	Q2Ilmu        *int `json:"q2_ilmu"`
	Q3Penyampaian *int `json:"q3_penyampaian"`
	Q4Masa        *int `json:"q4_masa"`
}

// ValidationError is one field-level validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormValidation is the structured result of a validation pass. It is a
// value, never an error: malformed input is an expected outcome.
type FormValidation struct {
	IsValid bool              `json:"is_valid"`
	Errors  []ValidationError `json:"errors"`
}

// EvaluationFilter narrows admin evaluation queries.
type EvaluationFilter struct {
	LecturerID  string
	Week        int
	LectureType string
	DateFrom    string
	DateTo      string
	Page        int
	PageSize    int
}
