// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"fitcenter/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists indicates that the username is already taken.
	ErrUserExists = errors.New("user already exists")
)

// SessionTTL is the lifetime of a login session.
const SessionTTL = 24 * time.Hour

const minPasswordLength = 8

// AuthService handles authentication and session management.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	profiles domain.ProfileRepository
}

// NewAuthService creates a new authentication service. profiles may be nil,
// in which case registered users get no default profile.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, profiles domain.ProfileRepository) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		profiles: profiles,
	}
}

// Login authenticates a user and creates a session.
func (s *AuthService) Login(ctx context.Context, username, password, userAgent, ip string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil || user == nil {
		return "", ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.newSession(ctx, user.ID, userAgent, ip)
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks if a session token is valid and matches the user agent.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	if session.UserAgent != userAgent {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// Signup is a self-registration request. The embedded profile fields are
// optional and override the default profile.
type Signup struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
	ProfileUpdate
}

// Register creates a member account with a profile built from the signup's
// biometrics on top of the defaults.
func (s *AuthService) Register(ctx context.Context, req Signup) (*domain.User, error) {
	username, err := validateCredentials(req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if req.AssignedTrainerID != nil {
		return nil, invalid("assignedTrainerId cannot be set at signup")
	}
	profile := domain.DefaultProfile(0)
	if err := applyBiometrics(&profile, req.ProfileUpdate); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, domain.User{
		Username:     username,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         domain.RoleMember,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.profiles != nil {
		profile.UserID = user.ID
		if _, err := s.profiles.UpsertProfile(ctx, profile); err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
	}
	return user, nil
}

// validateCredentials checks a username and password for a new account and
// returns the trimmed username.
func validateCredentials(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if _, err := mail.ParseAddress(username); err != nil {
		return "", invalid("username must be an email address")
	}
	if len(password) < minPasswordLength {
		return "", invalid("password must be at least %d characters", minPasswordLength)
	}
	return username, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// BootstrapAdmin creates the superadmin account if no users exist. It
// reports whether an account was created.
func (s *AuthService) BootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}

	_, err = s.users.Create(ctx, domain.User{
		Username:     username,
		Name:         username,
		PasswordHash: hash,
		Role:         domain.RoleSuperadmin,
	})
	return err == nil, err
}

// ValidateForwardAuth validates a request from an authenticating proxy.
// It checks for the Remote-User header set by the proxy.
func (s *AuthService) ValidateForwardAuth(ctx context.Context, remoteUser string) (*domain.User, error) {
	if remoteUser == "" {
		return nil, errors.New("no remote user header")
	}
	return s.provision(ctx, remoteUser)
}

// LoginWithUser creates a session for an already authenticated user (e.g. via SSO).
func (s *AuthService) LoginWithUser(ctx context.Context, username, userAgent, ip string) (string, error) {
	user, err := s.provision(ctx, username)
	if err != nil {
		return "", err
	}
	return s.newSession(ctx, user.ID, userAgent, ip)
}

// provision returns the named user, creating a member without a password if
// missing.
func (s *AuthService) provision(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = s.users.Create(ctx, domain.User{Username: username, Name: username, Role: domain.RoleMember})
	if err != nil {
		// Lost a race on the unique username.
		user, err2 := s.users.GetByUsername(ctx, username)
		if err2 != nil || user == nil {
			return nil, err
		}
		return user, nil
	}
	if s.profiles != nil {
		if _, err := s.profiles.UpsertProfile(ctx, domain.DefaultProfile(user.ID)); err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
	}
	return user, nil
}

// CleanupSessions removes expired sessions.
func (s *AuthService) CleanupSessions(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx)
}

func (s *AuthService) newSession(ctx context.Context, userID int64, userAgent, ip string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(SessionTTL)
	if err := s.sessions.Create(ctx, userID, token, userAgent, ip, expiresAt); err != nil {
		return "", err
	}

	return token, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
