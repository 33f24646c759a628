package sync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tyria-tracker/tyria/internal/domain"
	"github.com/tyria-tracker/tyria/internal/infra/sqlite"
)

func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew_DisabledWithoutEndpoint(t *testing.T) {
	if _, err := New("", testDB(t)); !errors.Is(err, domain.ErrSyncDisabled) {
		t.Errorf("err = %v, want ErrSyncDisabled", err)
	}
}

func TestNew_IdentityIsStable(t *testing.T) {
	db := testDB(t)

	a, err := New("http://example.invalid", db)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New("http://example.invalid", db)
	if err != nil {
		t.Fatal(err)
	}
	if a.UserID() == "" || a.UserID() != b.UserID() {
		t.Errorf("user ID not stable: %q vs %q", a.UserID(), b.UserID())
	}
}

func TestPushEvents(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody eventsPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, testDB(t))
	if err != nil {
		t.Fatal(err)
	}

	state := domain.CompletionState{
		Occurrences: map[string]bool{"tt_tequatl/00:00+0": true},
		EventTypes:  map[string]bool{"lla": true},
	}
	if err := c.PushEvents(context.Background(), state); err != nil {
		t.Fatalf("push: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %s, want PUT", gotMethod)
	}
	if !strings.HasPrefix(gotPath, "/api/events/") || !strings.HasSuffix(gotPath, c.UserID()) {
		t.Errorf("path = %q", gotPath)
	}
	if !gotBody.CompletedEvents["tt_tequatl/00:00+0"] || !gotBody.CompletedEventTypes["lla"] {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestPushProgress(t *testing.T) {
	var gotBody progressPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL, testDB(t))
	if err != nil {
		t.Fatal(err)
	}

	date := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	progress := domain.DailyProgress{
		domain.TaskGathering: {"prosperity": true},
	}
	if err := c.PushProgress(context.Background(), date, progress); err != nil {
		t.Fatalf("push: %v", err)
	}

	if gotBody.Date != "2026-03-14" {
		t.Errorf("date = %q", gotBody.Date)
	}
	if !gotBody.DailyProgress.Done(domain.TaskGathering, "prosperity") {
		t.Errorf("progress = %+v", gotBody.DailyProgress)
	}
}

func TestFetchHistory(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{
			"2026-03-13": {"date": "2026-03-13", "dailyProgress": {"crafting": {"gossamer": true}}},
			"2026-03-14": {"date": "2026-03-14", "dailyProgress": {"gathering": {"prosperity": true, "vine_bridge": true}}}
		}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, testDB(t))
	if err != nil {
		t.Fatal(err)
	}

	days, err := c.FetchHistory(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotMethod != http.MethodGet {
		t.Errorf("method = %s, want GET", gotMethod)
	}
	if gotPath != "/api/progress/"+c.UserID() {
		t.Errorf("path = %q", gotPath)
	}
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	// Most recent date first.
	if days[0].Date != "2026-03-14" || days[1].Date != "2026-03-13" {
		t.Errorf("order = [%s, %s], want newest first", days[0].Date, days[1].Date)
	}
	if days[0].DoneCount() != 2 || !days[1].Progress.Done(domain.TaskCrafting, "gossamer") {
		t.Errorf("days = %+v", days)
	}
}

func TestPush_SurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := New(srv.URL, testDB(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.PushEvents(context.Background(), domain.CompletionState{}); err == nil {
		t.Error("expected error on 500")
	}
}
