package adapthttp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

func (s *Server) handleGenerateDiet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID *int64 `json:"userId"`
	}
	// An empty body generates a plan for the caller.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}

	plan, err := s.svc.Diet.Generate(r.Context(), currentUser(r), req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleLatestDiet(w http.ResponseWriter, r *http.Request) {
	plan, err := s.svc.Diet.Latest(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleAddDietFood(w http.ResponseWriter, r *http.Request) {
	mealID, err := pathID(r, "mealId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		FoodID      int64 `json:"foodId"`
		PortionGram int   `json:"portionGram"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	df, err := s.svc.Diet.AddFood(r.Context(), currentUser(r), mealID, req.FoodID, req.PortionGram)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, df)
}

func (s *Server) handleRemoveDietFood(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.svc.Diet.RemoveFood(r.Context(), currentUser(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
