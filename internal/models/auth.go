package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest is the admin sign-in payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        AdminInfo `json:"user"`
}

// AdminInfo is the public projection of an admin account.
type AdminInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Nama  string `json:"nama"`
}

// ChangePasswordRequest rotates an admin password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// AdminClaims are the JWT claims issued to signed-in administrators.
type AdminClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Nama   string `json:"nama"`
	jwt.RegisteredClaims
}
