package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fitcenter/internal/domain"
)

// NewUser is an account created by an administrator.
type NewUser struct {
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// UserUpdate is a partial account update. Nil fields are left unchanged.
type UserUpdate struct {
	Name     *string      `json:"name"`
	Role     *domain.Role `json:"role"`
	Password *string      `json:"password"`
}

// UserService manages accounts, roles and trainer assignments.
type UserService struct {
	users    domain.UserRepository
	dir      domain.UserDirectory
	profiles domain.ProfileRepository
	cache    readCache
}

// NewUserService creates a UserService. cache may be nil.
func NewUserService(users domain.UserRepository, dir domain.UserDirectory, profiles domain.ProfileRepository, cache domain.Cache, ttl time.Duration) *UserService {
	return &UserService{users: users, dir: dir, profiles: profiles, cache: newReadCache(cache, ttl)}
}

// List returns all users, or only those holding role when it is set.
func (s *UserService) List(ctx context.Context, role string) ([]domain.User, error) {
	r := domain.Role(strings.ToLower(strings.TrimSpace(role)))
	if r != "" && !r.Valid() {
		return nil, invalid("unknown role %q", role)
	}
	return s.dir.ListUsers(ctx, r)
}

// Create adds an account with the requested role, member by default. Only a
// superadmin may create another superadmin.
func (s *UserService) Create(ctx context.Context, caller *domain.User, req NewUser) (*domain.User, error) {
	username, err := validateCredentials(req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = domain.RoleMember
	}
	if err := checkGrant(caller, role); err != nil {
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
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = username
	}
	user, err := s.users.Create(ctx, domain.User{
		Username:     username,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if _, err := s.profiles.UpsertProfile(ctx, domain.DefaultProfile(user.ID)); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return user, nil
}

// Update changes a user's name, role or password. Superadmin accounts and
// the superadmin role are reserved to superadmins, and nobody may change
// their own role.
func (s *UserService) Update(ctx context.Context, caller *domain.User, id int64, u UserUpdate) (*domain.User, error) {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}
	if target.Role == domain.RoleSuperadmin && caller.Role != domain.RoleSuperadmin {
		return nil, ErrForbidden
	}

	next := *target
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		next.Name = name
	}
	if u.Role != nil && *u.Role != target.Role {
		if target.ID == caller.ID {
			return nil, invalid("cannot change your own role")
		}
		if err := checkGrant(caller, *u.Role); err != nil {
			return nil, err
		}
		next.Role = *u.Role
	}
	if u.Password != nil {
		if len(*u.Password) < minPasswordLength {
			return nil, invalid("password must be at least %d characters", minPasswordLength)
		}
		if next.PasswordHash, err = hashPassword(*u.Password); err != nil {
			return nil, err
		}
	}

	saved, err := s.dir.UpdateUser(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if saved == nil {
		return nil, ErrNotFound
	}
	return saved, nil
}

// AssignTrainer sets or, with a nil trainerID, clears the trainer of a user.
func (s *UserService) AssignTrainer(ctx context.Context, userID int64, trainerID *int64) (*domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if trainerID != nil {
		trainer, err := s.users.GetByID(ctx, *trainerID)
		if err != nil {
			return nil, err
		}
		if trainer == nil || !trainer.Role.Privileged() {
			return nil, invalid("trainerId must name a trainer")
		}
	}

	current, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := domain.DefaultProfile(userID)
	if current != nil {
		p = *current
	}
	p.AssignedTrainerID = trainerID

	saved, err := s.profiles.UpsertProfile(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("assign trainer: %w", err)
	}
	s.cache.invalidate(ctx, profileKey(userID))
	return saved, nil
}

// AssignedUsers lists the users assigned to the trainer.
func (s *UserService) AssignedUsers(ctx context.Context, trainerID int64) ([]domain.User, error) {
	return s.dir.ListAssignedUsers(ctx, trainerID)
}

func checkGrant(caller *domain.User, role domain.Role) error {
	if !role.Valid() {
		return invalid("unknown role %q", role)
	}
	if role == domain.RoleSuperadmin && caller.Role != domain.RoleSuperadmin {
		return ErrForbidden
	}
	return nil
}
