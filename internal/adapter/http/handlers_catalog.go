package adapthttp

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"fitcenter/internal/domain"
)

func (s *Server) handleListFoods(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Foods.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateFood(w http.ResponseWriter, r *http.Request) {
	var req domain.FoodItem
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	f, err := s.svc.Foods.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) handleUpdateFood(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req domain.FoodItem
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	f, err := s.svc.Foods.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleDeleteFood(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.svc.Foods.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Exercises.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleExercisesByMuscle(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Exercises.ListByMuscle(r.Context(), mux.Vars(r)["group"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleMyWorkouts(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Workouts.ListMine(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleUserWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	plan, err := s.svc.Workouts.UserPlan(r.Context(), currentUser(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleUpsertWorkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    int64           `json:"userId"`
		Exercises json.RawMessage `json:"exercises"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	plan, err := s.svc.Workouts.Upsert(r.Context(), currentUser(r), req.UserID, req.Exercises)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
