package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Every registered user starts as an owner; staff accounts are
// attached to an existing store.
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

type User struct {
	ID                   uuid.UUID  `json:"id" db:"id"`
	StoreID              *uuid.UUID `json:"store_id" db:"store_id"`
	Name                 string     `json:"name" db:"name"`
	Email                string     `json:"email" db:"email"`
	PasswordHash         string     `json:"-" db:"password_hash"` // Never serialize in JSON
	Phone                *string    `json:"phone" db:"phone"`
	Role                 string     `json:"role" db:"role"`
	IsActive             bool       `json:"is_active" db:"is_active"`
	LastLogin            *time.Time `json:"last_login" db:"last_login"`
	Avatar               *string    `json:"avatar" db:"avatar"`
	ResetPasswordToken   *string    `json:"-" db:"reset_password_token"`
	ResetPasswordExpires *time.Time `json:"-" db:"reset_password_expires"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// PublicProfile strips credential material for API responses.
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"phone":      u.Phone,
		"role":       u.Role,
		"store_id":   u.StoreID,
		"is_active":  u.IsActive,
		"last_login": u.LastLogin,
		"avatar":     u.Avatar,
		"created_at": u.CreatedAt,
	}
}
