// Package tracker wires the pure scheduling core to the catalog and the
// completion store, and owns the mutable pieces the core refuses to hold:
// the ticking clock, the per-profile completion state, and the once-per-UTC-day
// reset.
package tracker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tyria-tracker/tyria/internal/domain"
	"github.com/tyria-tracker/tyria/internal/infra/catalog"
	"github.com/tyria-tracker/tyria/internal/infra/metrics"
	"github.com/tyria-tracker/tyria/internal/infra/sqlite"
	"github.com/tyria-tracker/tyria/internal/schedule"
)

const lastResetKey = "last_reset_date"

// Tracker is the tracking service: evaluation, toggling, and daily reset.
type Tracker struct {
	cat     *catalog.Catalog
	db      *sqlite.DB
	clock   schedule.Clock
	horizon time.Duration
	tick    time.Duration
}

// Option tweaks a Tracker at construction.
type Option func(*Tracker)

// WithClock injects a time source. Tests use a fixed clock.
func WithClock(c schedule.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithHorizon overrides the display look-ahead window.
func WithHorizon(h time.Duration) Option {
	return func(t *Tracker) { t.horizon = h }
}

// WithTick overrides the evaluation cadence of Run.
func WithTick(d time.Duration) Option {
	return func(t *Tracker) { t.tick = d }
}

// New creates a tracker over the given catalog and store.
func New(cat *catalog.Catalog, db *sqlite.DB, opts ...Option) *Tracker {
	t := &Tracker{
		cat:     cat,
		db:      db,
		clock:   schedule.SystemClock{},
		horizon: schedule.DefaultHorizon,
		tick:    time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Now returns the tracker's current instant.
func (t *Tracker) Now() time.Time { return t.clock.Now() }

// Catalog exposes the loaded catalog (read-only by convention).
func (t *Tracker) Catalog() *catalog.Catalog { return t.cat }

// ─── Evaluation ─────────────────────────────────────────────────────────────

// Snapshot is one profile's view of the event board at a single instant.
type Snapshot struct {
	Profile         string
	Now             time.Time
	Active          []domain.Occurrence
	CompletedGroups map[string][]domain.Occurrence
	ActiveCount     int // occurrences currently in their window
	UpcomingCount   int // visible occurrences not yet started
}

// Evaluate runs the full occurrence pipeline for a profile at now.
// The pipeline itself is pure; this loads the completion state and counts.
func (t *Tracker) Evaluate(profile string, now time.Time) (Snapshot, error) {
	if profile == "" {
		profile = sqlite.DefaultProfile
	}
	if err := t.db.EnsureProfile(profile); err != nil {
		return Snapshot{}, fmt.Errorf("ensure profile: %w", err)
	}
	completion, err := t.db.CompletionState(profile)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load completion: %w", err)
	}

	core := schedule.Evaluate(t.cat.Events, now, t.horizon, completion)
	metrics.EvaluationsTotal.Inc()

	snap := Snapshot{
		Profile:         profile,
		Now:             now,
		Active:          core.Active,
		CompletedGroups: core.CompletedGroups,
	}
	for _, o := range core.Active {
		if o.Status == domain.Active {
			snap.ActiveCount++
		} else {
			snap.UpcomingCount++
		}
	}
	return snap, nil
}

// ─── Completion toggling ────────────────────────────────────────────────────

// Toggle flips the completion mark addressed by (occurrenceID, eventKey).
// Exactly one of the two completion sets is touched: multi-location events
// are dismissed per type, so marking any instance hides all of that day's
// siblings; everything else is tracked per occurrence. An empty occurrenceID
// always addresses the type, which is how the CLI dismisses by event key.
func (t *Tracker) Toggle(profile, occurrenceID, eventKey string) (bool, error) {
	if profile == "" {
		profile = sqlite.DefaultProfile
	}
	def := t.cat.Lookup(eventKey)
	if def == nil {
		return false, fmt.Errorf("%q: %w", eventKey, domain.ErrUnknownEvent)
	}
	if err := t.db.EnsureProfile(profile); err != nil {
		return false, err
	}

	if occurrenceID == "" || def.MultiLocation() {
		set, err := t.db.ToggleEventType(profile, eventKey)
		if err == nil {
			metrics.TogglesTotal.WithLabelValues("event_type").Inc()
		}
		return set, err
	}
	set, err := t.db.ToggleOccurrence(profile, occurrenceID, eventKey)
	if err == nil {
		metrics.TogglesTotal.WithLabelValues("occurrence").Inc()
	}
	return set, err
}

// ─── Daily tasks ────────────────────────────────────────────────────────────

// TaskStatus is one checklist entry merged with its completion state.
type TaskStatus struct {
	domain.DailyTask
	Done bool `json:"done"`
}

// Tasks returns the daily checklist for a profile at now, with the PSNA
// rotation resolved for the current UTC weekday.
func (t *Tracker) Tasks(profile string, now time.Time) ([]TaskStatus, error) {
	if profile == "" {
		profile = sqlite.DefaultProfile
	}
	if err := t.db.EnsureProfile(profile); err != nil {
		return nil, err
	}
	progress, err := t.db.DailyProgress(profile)
	if err != nil {
		return nil, err
	}

	tasks := t.cat.TasksFor(now)
	out := make([]TaskStatus, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, TaskStatus{
			DailyTask: task,
			Done:      progress.Done(task.Category, task.ID),
		})
	}
	return out, nil
}

// ToggleTask flips one checklist entry, validating it against the catalog.
func (t *Tracker) ToggleTask(profile string, category domain.TaskCategory, taskID string) (bool, error) {
	if profile == "" {
		profile = sqlite.DefaultProfile
	}
	if !domain.ValidCategory(category) {
		return false, fmt.Errorf("%q: %w", category, domain.ErrBadTaskCategory)
	}
	task := t.cat.LookupTask(taskID)
	if task == nil || task.Category != category {
		return false, fmt.Errorf("%s/%s: %w", category, taskID, domain.ErrUnknownTask)
	}
	if err := t.db.EnsureProfile(profile); err != nil {
		return false, err
	}
	done, err := t.db.ToggleTask(profile, category, taskID)
	if err == nil {
		metrics.TaskTogglesTotal.WithLabelValues(string(category)).Inc()
	}
	return done, err
}

// ─── Daily reset ────────────────────────────────────────────────────────────

// MaybeReset clears all per-day state when the UTC calendar date has changed
// since the last recorded reset. Called on every tick; a no-op within a day.
// The scheduling core tolerates the completion state vanishing at any
// evaluation boundary, so no coordination with Evaluate is needed.
func (t *Tracker) MaybeReset(now time.Time) (bool, error) {
	today := now.UTC().Format("2006-01-02")
	last, err := t.db.GetMeta(lastResetKey)
	if err != nil {
		return false, err
	}
	if last == today {
		return false, nil
	}
	if last != "" {
		// The retiring day's progress is archived under its own date.
		if err := t.db.ClearDaily(last); err != nil {
			return false, fmt.Errorf("clear daily state: %w", err)
		}
		metrics.DailyResetsTotal.Inc()
		log.Printf("[tracker] daily reset: %s -> %s", last, today)
	}
	return last != "", t.db.SetMeta(lastResetKey, today)
}

// ForceReset clears all per-day state unconditionally, archiving whatever
// was done so far under today's date.
func (t *Tracker) ForceReset(now time.Time) error {
	today := now.UTC().Format("2006-01-02")
	if err := t.db.ClearDaily(today); err != nil {
		return err
	}
	metrics.DailyResetsTotal.Inc()
	return t.db.SetMeta(lastResetKey, today)
}

// History returns a profile's archived checklist days, most recent first.
func (t *Tracker) History(profile string) ([]domain.HistoryDay, error) {
	if profile == "" {
		profile = sqlite.DefaultProfile
	}
	if err := t.db.EnsureProfile(profile); err != nil {
		return nil, err
	}
	return t.db.History(profile)
}

// ─── Tick loop ──────────────────────────────────────────────────────────────

// Run drives periodic re-evaluation until ctx is cancelled: each tick checks
// the reset boundary and refreshes the board gauges for the default profile.
// Cancellation only stops future ticks; there is nothing in flight to abort.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := t.clock.Now()
			if _, err := t.MaybeReset(now); err != nil {
				log.Printf("[tracker] reset check: %v", err)
			}
			snap, err := t.Evaluate(sqlite.DefaultProfile, now)
			if err != nil {
				log.Printf("[tracker] evaluate: %v", err)
				continue
			}
			metrics.EventsActive.Set(float64(snap.ActiveCount))
			metrics.EventsUpcoming.Set(float64(snap.UpcomingCount))
			metrics.EventsCompleted.Set(float64(len(snap.CompletedGroups)))
		}
	}
}
