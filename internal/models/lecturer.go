package models

import "time"

// Lecturer is a named individual being evaluated. Deleting a lecturer
// orphans their evaluations (lecturer_id nulled), it never cascades.
type Lecturer struct {
	ID        string    `db:"id" json:"id"`
	Nama      string    `db:"nama" json:"nama"`
	GambarURL *string   `db:"gambar_url" json:"gambar_url"`
	Deskripsi *string   `db:"deskripsi" json:"deskripsi"`
	Susunan   int       `db:"susunan" json:"susunan"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
