package models

import "time"

// Lecture types offered by the mosque.
const (
	LectureTypeSubuh   = "Subuh"
	LectureTypeMaghrib = "Maghrib"
	LectureTypeJumaat  = "Jumaat"
)

// DayOrder maps Malay day names to their schedule position.
var DayOrder = map[string]int{
	"Isnin":  1,
	"Selasa": 2,
	"Rabu":   3,
	"Khamis": 4,
	"Jumaat": 5,
	"Sabtu":  6,
	"Ahad":   7,
}

// LectureSession is a scheduled lecture slot. Bulan/Tahun of 0/0 marks a
// recurring weekly session. Deleting a session nulls session_id on
// referencing evaluations rather than deleting them.
type LectureSession struct {
	ID          string    `db:"id" json:"id"`
	Bulan       int       `db:"bulan" json:"bulan"`
	Tahun       int       `db:"tahun" json:"tahun"`
	Minggu      int       `db:"minggu" json:"minggu"`
	Hari        string    `db:"hari" json:"hari"`
	JenisKuliah string    `db:"jenis_kuliah" json:"jenis_kuliah"`
	Aktif       bool      `db:"aktif" json:"aktif"`
	LecturerID  *string   `db:"lecturer_id" json:"lecturer_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	Lecturer *Lecturer `db:"-" json:"lecturer,omitempty"`
}

// Recurring reports whether the session repeats weekly instead of being
// bound to one calendar month.
func (s LectureSession) Recurring() bool {
	return s.Bulan == 0 && s.Tahun == 0
}

// WeekGroup is one week bucket of the public schedule view.
type WeekGroup struct {
	Week      int               `json:"week"`
	Sessions  []LectureSession  `json:"sessions"`
	Lecturers map[string]Lecturer `json:"lecturers"`
}

// LecturerCard is the public schedule card for one session.
type LecturerCard struct {
	Nama        string  `json:"nama"`
	GambarURL   *string `json:"gambar_url"`
	JenisKuliah string  `json:"jenis_kuliah"`
	Hari        string  `json:"hari"`
}
