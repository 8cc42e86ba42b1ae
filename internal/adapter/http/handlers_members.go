package adapthttp

import (
	"net/http"
	"time"

	"fitcenter/internal/app"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Profiles.Get(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req app.ProfileUpdate
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := s.svc.Profiles.Update(r.Context(), currentUser(r).ID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleRecordMeasurement(w http.ResponseWriter, r *http.Request) {
	var req app.MeasurementInput
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m, err := s.svc.Measurements.Record(r.Context(), currentUser(r).ID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Measurements.List(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleUserMeasurements(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	list, err := s.svc.Measurements.ListForUser(r.Context(), currentUser(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	year := intQuery(r, "year", time.Now().UTC().Year())
	unit := r.URL.Query().Get("unit")
	points, err := s.svc.Measurements.MonthlyProgress(r.Context(), currentUser(r).ID, year, unit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "months": points})
}
