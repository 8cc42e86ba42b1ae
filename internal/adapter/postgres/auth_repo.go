// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitcenter/internal/domain"
)

const userColumns = "id, username, name, password_hash, role, created_at"

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername retrieves a user by username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE lower(username) = lower($1)",
		username,
	))
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1",
		id,
	))
}

// Create creates a new user.
func (d *DB) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	if u.Role == "" {
		u.Role = domain.RoleMember
	}
	return scanUser(d.sql.QueryRowContext(ctx,
		"INSERT INTO users (username, name, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING "+userColumns,
		u.Username, u.Name, u.PasswordHash, u.Role, time.Now().UTC(),
	))
}

// Count returns the total number of users.
func (d *DB) Count(ctx context.Context) (int, error) {
	var count int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// ListUsers lists users in id order, optionally filtered by role.
func (d *DB) ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return d.queryUsers(ctx,
		"SELECT "+userColumns+" FROM users WHERE ($1 = '' OR role = $1) ORDER BY id",
		string(role),
	)
}

// UpdateUser replaces a user's name, role and password hash.
func (d *DB) UpdateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"UPDATE users SET name = $2, role = $3, password_hash = $4 WHERE id = $1 RETURNING "+userColumns,
		u.ID, u.Name, u.Role, u.PasswordHash,
	))
}

// ListAssignedUsers lists users whose profile names the trainer.
func (d *DB) ListAssignedUsers(ctx context.Context, trainerID int64) ([]domain.User, error) {
	return d.queryUsers(ctx,
		"SELECT u.id, u.username, u.name, u.password_hash, u.role, u.created_at FROM users u JOIN profiles p ON p.user_id = u.id WHERE p.trainer_id = $1 ORDER BY u.id",
		trainerID,
	)
}

func (d *DB) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SessionRepo implements session repository operations on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token, user_agent, ip, expires_at, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		userID, token, userAgent, ip, expiresAt, time.Now().UTC(),
	)
	return err
}

// GetByToken retrieves an unexpired session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT token, user_id, user_agent, ip, expires_at, created_at FROM sessions WHERE token = $1 AND expires_at > $2",
		token, time.Now().UTC(),
	).Scan(&s.Token, &s.UserID, &s.UserAgent, &s.IP, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return err
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < $1", time.Now().UTC())
	return err
}
