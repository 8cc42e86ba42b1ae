package adapthttp

import (
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"

	"fitcenter/internal/app"
	"fitcenter/internal/domain"
)

// OIDCConfig holds the single sign-on provider. SSO routes answer 404 unless
// Enabled is set.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Services groups the application services the adapter drives.
type Services struct {
	Auth         *app.AuthService
	Profiles     *app.ProfileService
	Measurements *app.MeasurementService
	Diet         *app.DietService
	Foods        *app.FoodService
	Exercises    *app.ExerciseService
	Workouts     *app.WorkoutService
	Users        *app.UserService
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	svc         Services
	oidcConfig  OIDCConfig
	forwardAuth bool

	disableAuth bool
	testUser    *domain.User
}

// New creates a Server wired to the given application services.
func New(svc Services) *Server {
	return &Server{svc: svc}
}

// WithOIDC enables the SSO routes.
func (s *Server) WithOIDC(cfg OIDCConfig) *Server {
	s.oidcConfig = cfg
	return s
}

// WithForwardAuth makes the server accept the Remote-User header from an
// authenticating reverse proxy. It is off by default.
func (s *Server) WithForwardAuth(enabled bool) *Server {
	s.forwardAuth = enabled
	return s
}

// WithoutAuth skips authentication and treats every request as coming from
// user. It is meant for tests.
func (s *Server) WithoutAuth(user *domain.User) *Server {
	s.disableAuth = true
	s.testUser = user
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	authed := func(h http.HandlerFunc) http.Handler { return s.authMiddleware(h) }
	staff := func(h http.HandlerFunc) http.Handler {
		return s.authMiddleware(requireRole(domain.Role.Privileged, h))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return s.authMiddleware(requireRole(domain.Role.Admin, h))
	}

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/config", s.handleConfig).Methods(http.MethodGet)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin).Methods(http.MethodGet)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback).Methods(http.MethodGet)
	api.Handle("/auth/me", authed(s.handleMe)).Methods(http.MethodGet)

	api.Handle("/profile", authed(s.handleGetProfile)).Methods(http.MethodGet)
	api.Handle("/profile", authed(s.handleUpdateProfile)).Methods(http.MethodPut)

	api.Handle("/measurements", authed(s.handleRecordMeasurement)).Methods(http.MethodPost)
	api.Handle("/measurements", authed(s.handleListMeasurements)).Methods(http.MethodGet)
	api.Handle("/measurements/history", authed(s.handleListMeasurements)).Methods(http.MethodGet)
	api.Handle("/measurements/progress", authed(s.handleProgress)).Methods(http.MethodGet)
	api.Handle("/measurements/user/{id:[0-9]+}", staff(s.handleUserMeasurements)).Methods(http.MethodGet)

	api.Handle("/diet", authed(s.handleGenerateDiet)).Methods(http.MethodPost)
	api.Handle("/diet", authed(s.handleLatestDiet)).Methods(http.MethodGet)
	api.Handle("/diet/latest", authed(s.handleLatestDiet)).Methods(http.MethodGet)
	api.Handle("/diet/meals/{mealId:[0-9]+}/foods", authed(s.handleAddDietFood)).Methods(http.MethodPost)
	api.Handle("/diet/foods/{id:[0-9]+}", authed(s.handleRemoveDietFood)).Methods(http.MethodDelete)

	api.Handle("/foods", authed(s.handleListFoods)).Methods(http.MethodGet)
	api.Handle("/foods", admin(s.handleCreateFood)).Methods(http.MethodPost)
	api.Handle("/foods/{id:[0-9]+}", admin(s.handleUpdateFood)).Methods(http.MethodPut)
	api.Handle("/foods/{id:[0-9]+}", admin(s.handleDeleteFood)).Methods(http.MethodDelete)

	api.Handle("/exercises", authed(s.handleListExercises)).Methods(http.MethodGet)
	api.Handle("/exercises/muscle/{group}", authed(s.handleExercisesByMuscle)).Methods(http.MethodGet)

	api.Handle("/workouts", authed(s.handleMyWorkouts)).Methods(http.MethodGet)
	api.Handle("/trainer/workouts", staff(s.handleUpsertWorkout)).Methods(http.MethodPut)
	api.Handle("/trainer/workouts/{userId:[0-9]+}", staff(s.handleUserWorkout)).Methods(http.MethodGet)
	api.Handle("/trainer/users", staff(s.handleAssignedUsers)).Methods(http.MethodGet)

	api.Handle("/admin/users", admin(s.handleListUsers)).Methods(http.MethodGet)
	api.Handle("/admin/users", admin(s.handleCreateUser)).Methods(http.MethodPost)
	api.Handle("/admin/users/{id:[0-9]+}", admin(s.handleUpdateUser)).Methods(http.MethodPut)
	api.Handle("/admin/users/{id:[0-9]+}/trainer", admin(s.handleAssignTrainer)).Methods(http.MethodPut)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
	})

	return s.loggingMiddleware(withNoCache(r))
}
