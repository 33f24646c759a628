package sqlite

import (
	"errors"
	"testing"

	"github.com/tyria-tracker/tyria/internal/domain"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestProfiles_CreateListDelete(t *testing.T) {
	db := testDB(t)

	if err := db.CreateProfile("main"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.CreateProfile("alt"); err != nil {
		t.Fatalf("create alt: %v", err)
	}
	if err := db.CreateProfile("main"); !errors.Is(err, domain.ErrProfileExists) {
		t.Errorf("duplicate create err = %v, want ErrProfileExists", err)
	}

	names, err := db.ListProfiles()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("profiles = %v, want 2", names)
	}

	if err := db.DeleteProfile("alt"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.DeleteProfile("main"); !errors.Is(err, domain.ErrLastProfile) {
		t.Errorf("deleting last profile err = %v, want ErrLastProfile", err)
	}
	if err := db.CreateProfile("other"); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteProfile("ghost"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("deleting unknown err = %v, want ErrProfileNotFound", err)
	}
}

func TestCompletion_ToggleOccurrence(t *testing.T) {
	db := testDB(t)
	_ = db.EnsureProfile("main")

	nowSet, err := db.ToggleOccurrence("main", "tt_tequatl/00:00+0", "tt_tequatl")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !nowSet {
		t.Error("first toggle must set the mark")
	}

	state, err := db.CompletionState("main")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if !state.Occurrences["tt_tequatl/00:00+0"] {
		t.Error("occurrence mark missing")
	}
	if len(state.EventTypes) != 0 {
		t.Error("type set must stay empty")
	}

	nowSet, err = db.ToggleOccurrence("main", "tt_tequatl/00:00+0", "tt_tequatl")
	if err != nil {
		t.Fatal(err)
	}
	if nowSet {
		t.Error("second toggle must clear the mark")
	}
	state, _ = db.CompletionState("main")
	if len(state.Occurrences) != 0 {
		t.Error("occurrence mark survived a round-trip toggle")
	}
}

func TestCompletion_ToggleEventType(t *testing.T) {
	db := testDB(t)
	_ = db.EnsureProfile("main")

	if set, _ := db.ToggleEventType("main", "lla"); !set {
		t.Error("first toggle must set")
	}
	state, _ := db.CompletionState("main")
	if !state.EventTypes["lla"] {
		t.Error("type mark missing")
	}
	if set, _ := db.ToggleEventType("main", "lla"); set {
		t.Error("second toggle must clear")
	}
}

func TestCompletion_ProfilesAreIsolated(t *testing.T) {
	db := testDB(t)
	_ = db.EnsureProfile("main")
	_ = db.EnsureProfile("alt")

	_, _ = db.ToggleEventType("main", "lla")

	state, _ := db.CompletionState("alt")
	if state.EventTypes["lla"] {
		t.Error("completion leaked across profiles")
	}
}

func TestDailyProgress(t *testing.T) {
	db := testDB(t)
	_ = db.EnsureProfile("main")

	done, err := db.ToggleTask("main", domain.TaskGathering, "vine_bridge")
	if err != nil {
		t.Fatalf("toggle task: %v", err)
	}
	if !done {
		t.Error("first toggle must mark done")
	}

	progress, err := db.DailyProgress("main")
	if err != nil {
		t.Fatal(err)
	}
	if !progress.Done(domain.TaskGathering, "vine_bridge") {
		t.Error("progress missing")
	}
	if progress.Done(domain.TaskCrafting, "mithrillium") {
		t.Error("untouched task reported done")
	}

	if done, _ := db.ToggleTask("main", domain.TaskGathering, "vine_bridge"); done {
		t.Error("second toggle must mark undone")
	}
}

func TestClearDaily(t *testing.T) {
	db := testDB(t)
	_ = db.EnsureProfile("main")
	_, _ = db.ToggleOccurrence("main", "x/01:00+0", "x")
	_, _ = db.ToggleEventType("main", "lla")
	_ = db.SetTaskDone("main", domain.TaskCrafting, "gossamer", true)
	_ = db.SetMeta("last_reset", "2026-03-14")

	if err := db.ClearDaily("2026-03-14"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	state, _ := db.CompletionState("main")
	if len(state.Occurrences) != 0 || len(state.EventTypes) != 0 {
		t.Error("completion survived reset")
	}
	progress, _ := db.DailyProgress("main")
	if progress.Done(domain.TaskCrafting, "gossamer") {
		t.Error("daily progress survived reset")
	}

	// Profiles and meta are not per-day state.
	names, _ := db.ListProfiles()
	if len(names) != 1 {
		t.Error("profile deleted by reset")
	}
	if v, _ := db.GetMeta("last_reset"); v != "2026-03-14" {
		t.Error("meta deleted by reset")
	}
}

func TestHistory_ArchivedAtReset(t *testing.T) {
	db := testDB(t)
	_ = db.EnsureProfile("main")

	_ = db.SetTaskDone("main", domain.TaskCrafting, "gossamer", true)
	_ = db.SetTaskDone("main", domain.TaskGathering, "prosperity", true)
	_ = db.SetTaskDone("main", domain.TaskGathering, "vine_bridge", false)
	if err := db.ClearDaily("2026-03-14"); err != nil {
		t.Fatalf("clear day 1: %v", err)
	}

	_ = db.SetTaskDone("main", domain.TaskCrafting, "mithrillium", true)
	if err := db.ClearDaily("2026-03-15"); err != nil {
		t.Fatalf("clear day 2: %v", err)
	}

	days, err := db.History("main")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	// Most recent date first.
	if days[0].Date != "2026-03-15" || days[1].Date != "2026-03-14" {
		t.Errorf("order = [%s, %s], want newest first", days[0].Date, days[1].Date)
	}
	if !days[0].Progress.Done(domain.TaskCrafting, "mithrillium") {
		t.Error("day 2 missing mithrillium")
	}
	if days[1].DoneCount() != 2 {
		t.Errorf("day 1 done = %d, want 2", days[1].DoneCount())
	}
	// Undone tasks are not archived.
	if _, ok := days[1].Progress[domain.TaskGathering]["vine_bridge"]; ok {
		t.Error("undone task leaked into the archive")
	}
}

func TestHistory_ProfileIsolation(t *testing.T) {
	db := testDB(t)
	_ = db.EnsureProfile("main")
	_ = db.CreateProfile("alt")

	_ = db.SetTaskDone("alt", domain.TaskSpecial, "home_instance", true)
	if err := db.ClearDaily("2026-03-14"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	days, _ := db.History("main")
	if len(days) != 0 {
		t.Errorf("main history = %v, want empty", days)
	}
	days, _ = db.History("alt")
	if len(days) != 1 || !days[0].Progress.Done(domain.TaskSpecial, "home_instance") {
		t.Errorf("alt history = %v, want the archived task", days)
	}
}

func TestMeta(t *testing.T) {
	db := testDB(t)

	if v, err := db.GetMeta("missing"); err != nil || v != "" {
		t.Errorf("missing key = (%q, %v), want empty", v, err)
	}
	if err := db.SetMeta("user_id", "abc"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMeta("user_id", "def"); err != nil {
		t.Fatal(err)
	}
	if v, _ := db.GetMeta("user_id"); v != "def" {
		t.Errorf("user_id = %q, want def", v)
	}
}
