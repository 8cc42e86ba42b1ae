// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"fitcenter/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu           sync.Mutex
	users        []*domain.User
	sessions     map[string]*domain.Session
	profiles     map[int64]domain.Profile
	measurements []domain.Measurement
	foods        []domain.FoodItem
	exercises    []domain.Exercise
	plans        []domain.DietPlan
	workouts     []domain.WorkoutPlan

	userIDCounter        int64
	measurementIDCounter int64
	foodIDCounter        int64
	exerciseIDCounter    int64
	planIDCounter        int64
	mealIDCounter        int64
	dietFoodIDCounter    int64
	workoutIDCounter     int64

	lastPlanAt time.Time
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
		profiles: make(map[int64]domain.Profile),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.UserDirectory = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)
var _ domain.ProfileRepository = (*DB)(nil)
var _ domain.MeasurementRepository = (*DB)(nil)
var _ domain.FoodRepository = (*DB)(nil)
var _ domain.ExerciseRepository = (*DB)(nil)
var _ domain.DietRepository = (*DB)(nil)
var _ domain.WorkoutRepository = (*DB)(nil)

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if strings.EqualFold(u.Username, username) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u.ID = db.userIDCounter
	u.CreatedAt = time.Now().UTC()
	if u.Role == "" {
		u.Role = domain.RoleMember
	}
	stored := u
	db.users = append(db.users, &stored)
	return &u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// ListUsers lists users in id order, optionally filtered by role.
func (db *DB) ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := []domain.User{}
	for _, u := range db.users {
		if role == "" || u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

// UpdateUser replaces a user's name, role and password hash.
func (db *DB) UpdateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users {
		if existing.ID == u.ID {
			existing.Name = u.Name
			existing.Role = u.Role
			existing.PasswordHash = u.PasswordHash
			c := *existing
			return &c, nil
		}
	}
	return nil, nil
}

// ListAssignedUsers lists users whose profile names the trainer.
func (db *DB) ListAssignedUsers(ctx context.Context, trainerID int64) ([]domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := []domain.User{}
	for _, u := range db.users {
		p, ok := db.profiles[u.ID]
		if ok && p.AssignedTrainerID != nil && *p.AssignedTrainerID == trainerID {
			out = append(out, *u)
		}
	}
	return out, nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		if time.Now().After(s.ExpiresAt) {
			delete(r.db.sessions, token)
			return nil, nil
		}
		c := *s
		return &c, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}

// --- ProfileRepository ---

// GetProfile returns the profile of a user, or nil.
func (db *DB) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// UpsertProfile creates or replaces a profile.
func (db *DB) UpsertProfile(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p.UpdatedAt = time.Now().UTC()
	db.profiles[p.UserID] = p
	return &p, nil
}

// --- MeasurementRepository ---

// AddMeasurement appends a measurement.
func (db *DB) AddMeasurement(ctx context.Context, m domain.Measurement) (*domain.Measurement, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.measurementIDCounter++
	m.ID = db.measurementIDCounter
	if m.CapturedAt.IsZero() {
		m.CapturedAt = time.Now()
	}
	m.CapturedAt = m.CapturedAt.UTC()
	db.measurements = append(db.measurements, m)
	return &m, nil
}

// LatestMeasurement returns the most recently captured measurement.
func (db *DB) LatestMeasurement(ctx context.Context, userID int64) (*domain.Measurement, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var latest *domain.Measurement
	for i := range db.measurements {
		m := &db.measurements[i]
		if m.UserID != userID {
			continue
		}
		if latest == nil || !m.CapturedAt.Before(latest.CapturedAt) {
			latest = m
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := *latest
	return &c, nil
}

// ListMeasurements lists measurements newest first.
func (db *DB) ListMeasurements(ctx context.Context, userID int64) ([]domain.Measurement, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Measurement, 0)
	for _, m := range db.measurements {
		if m.UserID == userID {
			result = append(result, m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CapturedAt.After(result[j].CapturedAt)
	})
	return result, nil
}

// ListMeasurementsBetween lists measurements in [from, to), oldest first.
func (db *DB) ListMeasurementsBetween(ctx context.Context, userID int64, from, to time.Time) ([]domain.Measurement, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Measurement, 0)
	for _, m := range db.measurements {
		if m.UserID == userID && !m.CapturedAt.Before(from.UTC()) && m.CapturedAt.Before(to.UTC()) {
			result = append(result, m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CapturedAt.Before(result[j].CapturedAt)
	})
	return result, nil
}

// --- FoodRepository ---

// ListFoods lists the catalog ordered by category then name.
func (db *DB) ListFoods(ctx context.Context) ([]domain.FoodItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.FoodItem, len(db.foods))
	copy(result, db.foods)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// GetFood retrieves a catalog item.
func (db *DB) GetFood(ctx context.Context, id int64) (*domain.FoodItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.foodLocked(id), nil
}

func (db *DB) foodLocked(id int64) *domain.FoodItem {
	for _, f := range db.foods {
		if f.ID == id {
			c := f
			return &c
		}
	}
	return nil
}

// CreateFood adds a catalog item.
func (db *DB) CreateFood(ctx context.Context, f domain.FoodItem) (*domain.FoodItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.foodIDCounter++
	f.ID = db.foodIDCounter
	db.foods = append(db.foods, f)
	return &f, nil
}

// UpdateFood replaces a catalog item.
func (db *DB) UpdateFood(ctx context.Context, f domain.FoodItem) (*domain.FoodItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.foods {
		if db.foods[i].ID == f.ID {
			db.foods[i] = f
			return &f, nil
		}
	}
	return nil, nil
}

// DeleteFood removes a catalog item and every diet entry that uses it.
func (db *DB) DeleteFood(ctx context.Context, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, f := range db.foods {
		if f.ID == id {
			db.foods = append(db.foods[:i], db.foods[i+1:]...)
			db.dropDietFoodsLocked(id)
			return true, nil
		}
	}
	return false, nil
}

// CountFoods returns the catalog size.
func (db *DB) CountFoods(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.foods), nil
}

// --- ExerciseRepository ---

// ListExercises lists the exercise catalog by name.
func (db *DB) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return db.listExercises(func(domain.Exercise) bool { return true }), nil
}

// ListExercisesByMuscle lists exercises of one muscle group by name.
func (db *DB) ListExercisesByMuscle(ctx context.Context, muscleGroup string) ([]domain.Exercise, error) {
	return db.listExercises(func(e domain.Exercise) bool {
		return strings.EqualFold(e.MuscleGroup, muscleGroup)
	}), nil
}

func (db *DB) listExercises(keep func(domain.Exercise) bool) []domain.Exercise {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Exercise, 0)
	for _, e := range db.exercises {
		if keep(e) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// CreateExercise adds an exercise.
func (db *DB) CreateExercise(ctx context.Context, e domain.Exercise) (*domain.Exercise, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.exerciseIDCounter++
	e.ID = db.exerciseIDCounter
	db.exercises = append(db.exercises, e)
	return &e, nil
}

// CountExercises returns the exercise catalog size.
func (db *DB) CountExercises(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.exercises), nil
}
