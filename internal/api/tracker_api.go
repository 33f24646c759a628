package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tyria-tracker/tyria/internal/app/tracker"
	"github.com/tyria-tracker/tyria/internal/domain"
	"github.com/tyria-tracker/tyria/internal/infra/sqlite"
)

// occurrenceView is an Occurrence with the computed status and an optional
// price-enriched reward list rendered for the wire.
type occurrenceView struct {
	domain.Occurrence
	Status          string `json:"status"`
	DurationMinutes int    `json:"duration_minutes"`
}

func viewOf(o domain.Occurrence) occurrenceView {
	return occurrenceView{
		Occurrence:      o,
		Status:          o.Status.String(),
		DurationMinutes: int(o.Duration.Minutes()),
	}
}

type eventsResponse struct {
	Profile   string                      `json:"profile"`
	Now       string                      `json:"now"`
	Active    []occurrenceView            `json:"active"`
	Completed map[string][]occurrenceView `json:"completed"`
	Counts    struct {
		Active    int `json:"active"`
		Upcoming  int `json:"upcoming"`
		Completed int `json:"completed"`
	} `json:"counts"`
}

// handleEvents returns the current event board for a profile.
// GET /api/events?profile=name
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	profile := r.URL.Query().Get("profile")

	snap, err := s.tracker.Evaluate(profile, s.tracker.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := eventsResponse{
		Profile:   snap.Profile,
		Now:       snap.Now.Format("2006-01-02T15:04:05Z"),
		Active:    []occurrenceView{},
		Completed: make(map[string][]occurrenceView),
	}
	for _, o := range snap.Active {
		resp.Active = append(resp.Active, viewOf(o))
	}
	for key, group := range snap.CompletedGroups {
		for _, o := range group {
			resp.Completed[key] = append(resp.Completed[key], viewOf(o))
		}
	}
	resp.Counts.Active = snap.ActiveCount
	resp.Counts.Upcoming = snap.UpcomingCount
	resp.Counts.Completed = len(snap.CompletedGroups)

	writeJSON(w, http.StatusOK, resp)
}

type toggleRequest struct {
	Profile      string `json:"profile"`
	OccurrenceID string `json:"occurrence_id"`
	EventKey     string `json:"event_key"`
}

// handleEventToggle flips a completion mark.
// POST /api/events/toggle
func (s *Server) handleEventToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EventKey == "" {
		writeError(w, http.StatusBadRequest, "event_key is required")
		return
	}

	completed, err := s.tracker.Toggle(req.Profile, req.OccurrenceID, req.EventKey)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownEvent) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.pushCompletion(effectiveProfile(req.Profile))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"event_key":     req.EventKey,
		"occurrence_id": req.OccurrenceID,
		"completed":     completed,
	})
}

type tasksResponse struct {
	Profile string               `json:"profile"`
	Tasks   []tracker.TaskStatus `json:"tasks"`
	Done    int                  `json:"done"`
	Total   int                  `json:"total"`
}

// handleTasks returns the daily checklist for a profile.
// GET /api/tasks?profile=name
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	profile := r.URL.Query().Get("profile")

	tasks, err := s.tracker.Tasks(profile, s.tracker.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := tasksResponse{Profile: effectiveProfile(profile), Tasks: tasks, Total: len(tasks)}
	for _, task := range tasks {
		if task.Done {
			resp.Done++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type taskToggleRequest struct {
	Profile  string `json:"profile"`
	Category string `json:"category"`
	TaskID   string `json:"task_id"`
}

// handleTaskToggle flips one checklist entry.
// POST /api/tasks/toggle
func (s *Server) handleTaskToggle(w http.ResponseWriter, r *http.Request) {
	var req taskToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	done, err := s.tracker.ToggleTask(req.Profile, domain.TaskCategory(req.Category), req.TaskID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBadTaskCategory):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrUnknownTask):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.pushProgress(effectiveProfile(req.Profile))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"category": req.Category,
		"task_id":  req.TaskID,
		"done":     done,
	})
}

type historyDayView struct {
	domain.HistoryDay
	Done int `json:"done"`
}

// handleHistory returns the archived checklist days for a profile.
// GET /api/history?profile=name
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	profile := r.URL.Query().Get("profile")

	days, err := s.tracker.History(profile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	views := make([]historyDayView, 0, len(days))
	for _, day := range days {
		views = append(views, historyDayView{HistoryDay: day, Done: day.DoneCount()})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": effectiveProfile(profile),
		"days":    views,
	})
}

// handleListProfiles returns all profiles.
// GET /api/profiles
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.db.ListProfiles()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"profiles": names})
}

// handleCreateProfile adds a profile.
// POST /api/profiles
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := s.db.CreateProfile(req.Name); err != nil {
		if errors.Is(err, domain.ErrProfileExists) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

// handleDeleteProfile removes a profile and its state.
// DELETE /api/profiles/{name}
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.db.DeleteProfile(name); err != nil {
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrLastProfile):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": name})
}

// handleReset clears all per-day state immediately.
// POST /api/reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.ForceReset(s.tracker.Now()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// handlePrices returns the cached reward price table in copper.
// GET /api/prices
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	if s.prices == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"prices": map[int]int{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"prices": s.prices.Snapshot()})
}

// effectiveProfile resolves an empty profile name to the default.
func effectiveProfile(requested string) string {
	if requested != "" {
		return requested
	}
	return sqlite.DefaultProfile
}
