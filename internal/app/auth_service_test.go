package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitcenter/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	createFn        func(ctx context.Context, u domain.User) (*domain.User, error)
	countFn         func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	u.ID = 1
	return &u, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error
	getByTokenFn    func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context) error
}

func (m *mockSessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, token, userAgent, ip, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) error {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return nil
}

type mockProfileRepo struct {
	getFn    func(ctx context.Context, userID int64) (*domain.Profile, error)
	upsertFn func(ctx context.Context, p domain.Profile) (*domain.Profile, error)
}

func (m *mockProfileRepo) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockProfileRepo) UpsertProfile(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, p)
	}
	return &p, nil
}

func ptr[T any](v T) *T { return &v }

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	password := "testpass123"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{
				ID:           1,
				Username:     "testuser@example.com",
				PasswordHash: string(hash),
			}, nil
		},
	}

	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
			if userID != 1 {
				t.Errorf("expected userID 1, got %d", userID)
			}
			if token == "" {
				t.Error("token should not be empty")
			}
			if userAgent != "agent" {
				t.Errorf("expected user agent 'agent', got %q", userAgent)
			}
			return nil
		},
	}

	svc := NewAuthService(users, sessions, nil)
	token, err := svc.Login(ctx, "testuser@example.com", password, "agent", "127.0.0.1")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token, got empty string")
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.DefaultCost)

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{
				ID:           1,
				Username:     "testuser",
				PasswordHash: string(hash),
			}, nil
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{}, nil)

	_, err := svc.Login(ctx, "testuser", "wrongpass", "agent", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, nil)
	_, err := svc.Login(context.Background(), "ghost", "whatever", "agent", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_SSOOnlyAccount(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: username}, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{}, nil)
	_, err := svc.Login(context.Background(), "sso", "", "agent", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ValidateSession_Valid(t *testing.T) {
	ctx := context.Background()
	token := "validtoken"

	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{
				Token:     token,
				UserID:    1,
				UserAgent: "agent",
				ExpiresAt: time.Now().Add(1 * time.Hour),
			}, nil
		},
	}

	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{
				ID:       1,
				Username: "testuser",
			}, nil
		},
	}

	svc := NewAuthService(users, sessions, nil)
	user, err := svc.ValidateSession(ctx, token, "agent")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %s", user.Username)
	}
}

func TestAuthService_ValidateSession_Missing(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, nil)
	_, err := svc.ValidateSession(context.Background(), "nope", "agent")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAuthService_ValidateSession_Expired(t *testing.T) {
	ctx := context.Background()
	token := "expiredtoken"

	deleted := false
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{
				Token:     token,
				UserID:    1,
				UserAgent: "agent",
				ExpiresAt: time.Now().Add(-1 * time.Hour),
			}, nil
		},
		deleteFn: func(ctx context.Context, tok string) error {
			deleted = true
			return nil
		},
	}

	svc := NewAuthService(&mockUserRepo{}, sessions, nil)

	_, err := svc.ValidateSession(ctx, token, "agent")
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if !deleted {
		t.Error("expected session to be deleted")
	}
}

func TestAuthService_ValidateSession_UserAgentMismatch(t *testing.T) {
	deleted := false
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{Token: tok, UserID: 1, UserAgent: "agent", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		deleteFn: func(ctx context.Context, tok string) error {
			deleted = true
			return nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions, nil)

	_, err := svc.ValidateSession(context.Background(), "tok", "other-agent")
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if !deleted {
		t.Error("expected session to be deleted")
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	var profiled int64
	users := &mockUserRepo{
		createFn: func(ctx context.Context, u domain.User) (*domain.User, error) {
			if u.Role != domain.RoleMember {
				t.Errorf("expected member role, got %q", u.Role)
			}
			if u.PasswordHash == "" || u.PasswordHash == "password123" {
				t.Error("expected hashed password")
			}
			u.ID = 5
			return &u, nil
		},
	}
	profiles := &mockProfileRepo{
		upsertFn: func(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
			profiled = p.UserID
			if p.Age != 25 || p.HeightCm != 170 || p.WeightKg != 70 {
				t.Errorf("expected default profile, got %+v", p)
			}
			return &p, nil
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{}, profiles)
	u, err := svc.Register(ctx, Signup{Username: "new@example.com", Name: "New Member", Password: "password123"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if u.ID != 5 || profiled != 5 {
		t.Errorf("expected user 5 with profile, got user %d profile %d", u.ID, profiled)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	existing := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: username}, nil
		},
	}

	tests := []struct {
		name     string
		users    *mockUserRepo
		username string
		password string
		profile  ProfileUpdate
		want     error
	}{
		{"not an email", &mockUserRepo{}, "bob", "password123", ProfileUpdate{}, ErrValidation},
		{"short password", &mockUserRepo{}, "bob@example.com", "short", ProfileUpdate{}, ErrValidation},
		{"taken", existing, "bob@example.com", "password123", ProfileUpdate{}, ErrUserExists},
		{"bad age", &mockUserRepo{}, "bob@example.com", "password123", ProfileUpdate{Age: ptr(0)}, ErrValidation},
		{"bad activity", &mockUserRepo{}, "bob@example.com", "password123", ProfileUpdate{ActivityLevel: ptr(domain.ActivityLevel("couch"))}, ErrValidation},
		{"trainer at signup", &mockUserRepo{}, "bob@example.com", "password123", ProfileUpdate{AssignedTrainerID: ptr(int64(2))}, ErrValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAuthService(tc.users, &mockSessionRepo{}, nil)
			_, err := svc.Register(context.Background(), Signup{Username: tc.username, Password: tc.password, ProfileUpdate: tc.profile})
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthService_Register_Biometrics(t *testing.T) {
	var saved domain.Profile
	profiles := &mockProfileRepo{
		upsertFn: func(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
			saved = p
			return &p, nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, profiles)

	_, err := svc.Register(context.Background(), Signup{
		Username: "fit@example.com",
		Password: "password123",
		ProfileUpdate: ProfileUpdate{
			Age:           ptr(31),
			Sex:           ptr(domain.SexFemale),
			HeightCm:      ptr(165.0),
			WeightKg:      ptr(58.5),
			ActivityLevel: ptr(domain.ActivityActive),
			Goal:          ptr(domain.GoalLose),
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved.UserID != 1 || saved.Age != 31 || saved.Sex != domain.SexFemale || saved.HeightCm != 165 ||
		saved.WeightKg != 58.5 || saved.ActivityLevel != domain.ActivityActive || saved.Goal != domain.GoalLose {
		t.Errorf("signup biometrics not stored: %+v", saved)
	}
	if saved.TrainingDaysPerWeek != 3 {
		t.Errorf("expected default training days, got %d", saved.TrainingDaysPerWeek)
	}
}

func TestAuthService_BootstrapAdmin_Success(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{
		countFn: func(ctx context.Context) (int, error) {
			return 0, nil
		},
		createFn: func(ctx context.Context, u domain.User) (*domain.User, error) {
			if u.Username != "admin" {
				t.Errorf("expected username 'admin', got %s", u.Username)
			}
			if u.PasswordHash == "" {
				t.Error("password hash should not be empty")
			}
			if u.Role != domain.RoleSuperadmin {
				t.Errorf("expected superadmin role, got %q", u.Role)
			}
			return &domain.User{ID: 1, Username: u.Username}, nil
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{}, nil)

	created, err := svc.BootstrapAdmin(ctx, "admin", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !created {
		t.Error("expected account to be created")
	}
}

func TestAuthService_BootstrapAdmin_UsersExist(t *testing.T) {
	users := &mockUserRepo{
		countFn: func(ctx context.Context) (int, error) {
			return 1, nil
		},
		createFn: func(ctx context.Context, u domain.User) (*domain.User, error) {
			t.Error("create should not be called")
			return nil, nil
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{}, nil)

	created, err := svc.BootstrapAdmin(context.Background(), "admin", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created {
		t.Error("expected no account to be created")
	}
}

func TestAuthService_ValidateForwardAuth_ExistingUser(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{
				ID:       1,
				Username: "ssouser",
			}, nil
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{}, nil)

	user, err := svc.ValidateForwardAuth(ctx, "ssouser")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "ssouser" {
		t.Errorf("expected username 'ssouser', got %s", user.Username)
	}
}

func TestAuthService_ValidateForwardAuth_NewUser(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{
		createFn: func(ctx context.Context, u domain.User) (*domain.User, error) {
			if u.Role != domain.RoleMember {
				t.Errorf("expected member role, got %q", u.Role)
			}
			return &domain.User{
				ID:       2,
				Username: u.Username,
				Role:     u.Role,
			}, nil
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{}, &mockProfileRepo{})

	user, err := svc.ValidateForwardAuth(ctx, "newssouser")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "newssouser" {
		t.Errorf("expected username 'newssouser', got %s", user.Username)
	}
}

func TestAuthService_ValidateForwardAuth_Empty(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, nil)
	if _, err := svc.ValidateForwardAuth(context.Background(), ""); err == nil {
		t.Error("expected error for empty remote user")
	}
}

func TestAuthService_LoginWithUser(t *testing.T) {
	var sessionUser int64
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 9, Username: username}, nil
		},
	}
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
			sessionUser = userID
			if time.Until(expiresAt) > SessionTTL {
				t.Errorf("session expires too late: %v", expiresAt)
			}
			return nil
		},
	}
	svc := NewAuthService(users, sessions, nil)

	token, err := svc.LoginWithUser(context.Background(), "sso@example.com", "agent", "10.0.0.1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" || sessionUser != 9 {
		t.Errorf("expected session for user 9, got %d (%q)", sessionUser, token)
	}
}
