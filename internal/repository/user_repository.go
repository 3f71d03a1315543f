package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

// UserRepository manages persistence for admin accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail fetches an admin account by email. Matching is
// case-insensitive on the stored address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	const query = `SELECT id, email, password_hash, nama, aktif, created_at, updated_at
        FROM admin_users WHERE LOWER(email) = $1`
	var user models.AdminUser
	if err := r.db.GetContext(ctx, &user, query, strings.ToLower(email)); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID fetches an admin account by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.AdminUser, error) {
	const query = `SELECT id, email, password_hash, nama, aktif, created_at, updated_at
        FROM admin_users WHERE id = $1`
	var user models.AdminUser
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE admin_users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt); err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	return nil
}
