package models

import "time"

// AdminUser can sign in to the dashboard and manage data. The public
// submission flow never authenticates.
type AdminUser struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Nama         string    `db:"nama" json:"nama"`
	Aktif        bool      `db:"aktif" json:"aktif"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
