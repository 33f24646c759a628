package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tyria-tracker/tyria/internal/app/tracker"
	"github.com/tyria-tracker/tyria/internal/infra/catalog"
	"github.com/tyria-tracker/tyria/internal/infra/sqlite"
	"github.com/tyria-tracker/tyria/internal/schedule"
)

// boardTime is the fixed instant the test server runs at. Tequatl's 00:00
// occurrence is active and Claw of Jormag's 02:30 is outside the horizon.
var boardTime = time.Date(2026, 3, 14, 0, 5, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default catalog: %v", err)
	}

	tr := tracker.New(cat, db, tracker.WithClock(schedule.FixedClock{Instant: boardTime}))
	return NewServer(tr, db, "test")
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	var parsed map[string]interface{}
	json.NewDecoder(w.Body).Decode(&parsed)
	return w, parsed
}

// ─── Health and Version ─────────────────────────────────────────────────────

func TestAPI_Health(t *testing.T) {
	srv := newTestServer(t)

	w, body := doJSON(t, srv, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want \"ok\"", body["status"])
	}
}

func TestAPI_Version(t *testing.T) {
	srv := newTestServer(t)

	w, body := doJSON(t, srv, "GET", "/api/version", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if body["version"] != "test" {
		t.Errorf("version = %q, want \"test\"", body["version"])
	}
}

func TestAPI_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/events", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want \"*\"", got)
	}
}

func TestAPI_CORSConfiguredOrigins(t *testing.T) {
	srv := newTestServer(t)
	srv.SetCORSOrigins([]string{"https://dash.example.com"})

	req := httptest.NewRequest("GET", "/api/events", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example.com" {
		t.Errorf("Allow-Origin = %q, want the configured origin", got)
	}
	if got := w.Header().Get("Vary"); got != "Origin" {
		t.Errorf("Vary = %q, want %q", got, "Origin")
	}

	req = httptest.NewRequest("GET", "/api/events", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q for unlisted origin, want empty", got)
	}
}

// ─── Event Board ────────────────────────────────────────────────────────────

func TestAPI_Events(t *testing.T) {
	srv := newTestServer(t)

	w, body := doJSON(t, srv, "GET", "/api/events", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	if body["profile"] != sqlite.DefaultProfile {
		t.Errorf("profile = %q, want %q", body["profile"], sqlite.DefaultProfile)
	}

	active, ok := body["active"].([]interface{})
	if !ok || len(active) == 0 {
		t.Fatal("active should be a non-empty array")
	}

	first := active[0].(map[string]interface{})
	if first["id"] != "tt_tequatl/00:00+0" {
		t.Errorf("first occurrence = %v, want tequatl at midnight", first["id"])
	}
	if first["status"] != "ACTIVE" {
		t.Errorf("status = %v, want ACTIVE", first["status"])
	}

	counts := body["counts"].(map[string]interface{})
	if counts["active"].(float64) < 1 {
		t.Errorf("counts.active = %v, want at least 1", counts["active"])
	}
}

func TestAPI_EventToggle(t *testing.T) {
	srv := newTestServer(t)

	w, body := doJSON(t, srv, "POST", "/api/events/toggle",
		`{"occurrence_id":"tt_tequatl/00:00+0","event_key":"tt_tequatl"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	if body["completed"] != true {
		t.Errorf("completed = %v, want true", body["completed"])
	}

	// The marked occurrence leaves the active list.
	_, board := doJSON(t, srv, "GET", "/api/events", "")
	for _, item := range board["active"].([]interface{}) {
		o := item.(map[string]interface{})
		if o["id"] == "tt_tequatl/00:00+0" {
			t.Error("completed occurrence should not stay on the active board")
		}
	}
	completed := board["completed"].(map[string]interface{})
	if _, ok := completed["tt_tequatl"]; !ok {
		t.Error("completed board should list tt_tequatl")
	}

	// Toggling again clears the mark.
	_, body = doJSON(t, srv, "POST", "/api/events/toggle",
		`{"occurrence_id":"tt_tequatl/00:00+0","event_key":"tt_tequatl"}`)
	if body["completed"] != false {
		t.Errorf("completed = %v, want false after second toggle", body["completed"])
	}
}

func TestAPI_EventToggle_Errors(t *testing.T) {
	srv := newTestServer(t)

	w, _ := doJSON(t, srv, "POST", "/api/events/toggle", `{"occurrence_id":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing event_key: status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	w, _ = doJSON(t, srv, "POST", "/api/events/toggle", `{"event_key":"no_such_event"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown event: status = %d, want %d", w.Code, http.StatusNotFound)
	}

	w, _ = doJSON(t, srv, "POST", "/api/events/toggle", `not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad body: status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// ─── Daily Checklist ────────────────────────────────────────────────────────

func TestAPI_Tasks(t *testing.T) {
	srv := newTestServer(t)

	w, body := doJSON(t, srv, "GET", "/api/tasks", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	tasks, ok := body["tasks"].([]interface{})
	if !ok || len(tasks) == 0 {
		t.Fatal("tasks should be a non-empty array")
	}
	if body["done"].(float64) != 0 {
		t.Errorf("done = %v, want 0 on a fresh profile", body["done"])
	}
	if int(body["total"].(float64)) != len(tasks) {
		t.Errorf("total = %v, want %d", body["total"], len(tasks))
	}
}

func TestAPI_TaskToggle(t *testing.T) {
	srv := newTestServer(t)

	w, body := doJSON(t, srv, "POST", "/api/tasks/toggle",
		`{"category":"gathering","task_id":"vine_bridge"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	if body["done"] != true {
		t.Errorf("done = %v, want true", body["done"])
	}

	_, list := doJSON(t, srv, "GET", "/api/tasks", "")
	if list["done"].(float64) != 1 {
		t.Errorf("done count = %v, want 1", list["done"])
	}
}

func TestAPI_TaskToggle_Errors(t *testing.T) {
	srv := newTestServer(t)

	w, _ := doJSON(t, srv, "POST", "/api/tasks/toggle",
		`{"category":"mining","task_id":"vine_bridge"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad category: status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	w, _ = doJSON(t, srv, "POST", "/api/tasks/toggle",
		`{"category":"gathering","task_id":"no_such_task"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown task: status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// ─── Profiles ───────────────────────────────────────────────────────────────

func TestAPI_Profiles(t *testing.T) {
	srv := newTestServer(t)

	w, _ := doJSON(t, srv, "POST", "/api/profiles", `{"name":"alt"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body: %s", w.Code, w.Body.String())
	}

	w, _ = doJSON(t, srv, "POST", "/api/profiles", `{"name":"alt"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create: status = %d, want %d", w.Code, http.StatusConflict)
	}

	_, body := doJSON(t, srv, "GET", "/api/profiles", "")
	names := body["profiles"].([]interface{})
	if len(names) != 2 {
		t.Errorf("profiles = %v, want 2 entries", names)
	}

	// Toggles on the new profile do not leak into the default one.
	doJSON(t, srv, "POST", "/api/events/toggle",
		`{"profile":"alt","occurrence_id":"tt_tequatl/00:00+0","event_key":"tt_tequatl"}`)
	_, board := doJSON(t, srv, "GET", "/api/events", "")
	if completed := board["completed"].(map[string]interface{}); len(completed) != 0 {
		t.Errorf("default profile completed = %v, want empty", completed)
	}

	w, _ = doJSON(t, srv, "DELETE", "/api/profiles/alt", "")
	if w.Code != http.StatusOK {
		t.Errorf("delete: status = %d, want %d", w.Code, http.StatusOK)
	}

	w, _ = doJSON(t, srv, "DELETE", "/api/profiles/alt", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("delete missing: status = %d, want %d", w.Code, http.StatusNotFound)
	}

	w, _ = doJSON(t, srv, "DELETE", "/api/profiles/default", "")
	if w.Code != http.StatusConflict {
		t.Errorf("delete last: status = %d, want %d", w.Code, http.StatusConflict)
	}
}

// ─── Reset and Prices ───────────────────────────────────────────────────────

func TestAPI_Reset(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, "POST", "/api/events/toggle",
		`{"occurrence_id":"tt_tequatl/00:00+0","event_key":"tt_tequatl"}`)
	doJSON(t, srv, "POST", "/api/tasks/toggle",
		`{"category":"gathering","task_id":"vine_bridge"}`)

	w, body := doJSON(t, srv, "POST", "/api/reset", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	if body["status"] != "reset" {
		t.Errorf("status = %v, want \"reset\"", body["status"])
	}

	_, board := doJSON(t, srv, "GET", "/api/events", "")
	if completed := board["completed"].(map[string]interface{}); len(completed) != 0 {
		t.Errorf("completed after reset = %v, want empty", completed)
	}
	_, list := doJSON(t, srv, "GET", "/api/tasks", "")
	if list["done"].(float64) != 0 {
		t.Errorf("done after reset = %v, want 0", list["done"])
	}
}

func TestAPI_History(t *testing.T) {
	srv := newTestServer(t)

	w, body := doJSON(t, srv, "GET", "/api/history", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if days := body["days"].([]interface{}); len(days) != 0 {
		t.Errorf("fresh profile history = %v, want empty", days)
	}

	// A reset archives the day's completed tasks under its date.
	doJSON(t, srv, "POST", "/api/tasks/toggle",
		`{"category":"gathering","task_id":"vine_bridge"}`)
	doJSON(t, srv, "POST", "/api/reset", "")

	_, body = doJSON(t, srv, "GET", "/api/history", "")
	days := body["days"].([]interface{})
	if len(days) != 1 {
		t.Fatalf("days = %d, want 1", len(days))
	}
	day := days[0].(map[string]interface{})
	if day["date"] != "2026-03-14" {
		t.Errorf("date = %v, want 2026-03-14", day["date"])
	}
	if day["done"].(float64) != 1 {
		t.Errorf("done = %v, want 1", day["done"])
	}
}

func TestAPI_Prices_Disabled(t *testing.T) {
	srv := newTestServer(t)

	w, body := doJSON(t, srv, "GET", "/api/prices", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	prices, ok := body["prices"].(map[string]interface{})
	if !ok || len(prices) != 0 {
		t.Errorf("prices = %v, want empty map", body["prices"])
	}
}
