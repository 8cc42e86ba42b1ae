// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// Role is the static authorization role of a user.
type Role string

const (
	RoleMember        Role = "member"
	RoleTrainer       Role = "trainer"
	RoleAdministrator Role = "administrator"
	RoleSuperadmin    Role = "superadmin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleTrainer, RoleAdministrator, RoleSuperadmin:
		return true
	}
	return false
}

// Privileged reports whether the role may act on behalf of other users.
func (r Role) Privileged() bool {
	return r == RoleTrainer || r == RoleAdministrator || r == RoleSuperadmin
}

// Admin reports whether the role may manage reference data.
func (r Role) Admin() bool {
	return r == RoleAdministrator || r == RoleSuperadmin
}

// User represents an authenticated user in the system.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session represents an active user session.
type Session struct {
	Token     string
	UserID    int64
	UserAgent string
	IP        string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, u User) (*User, error)
	Count(ctx context.Context) (int, error)
}

// UserDirectory is the port for staff-facing user administration.
type UserDirectory interface {
	// ListUsers lists users ordered by id. An empty role lists everyone.
	ListUsers(ctx context.Context, role Role) ([]User, error)
	// UpdateUser replaces name, role and password hash. It returns nil when
	// the user does not exist.
	UpdateUser(ctx context.Context, u User) (*User, error)
	// ListAssignedUsers lists the users whose profile names trainerID.
	ListAssignedUsers(ctx context.Context, trainerID int64) ([]User, error)
}

// SessionRepository defines the port for session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
