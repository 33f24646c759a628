// Package schedule computes concrete occurrences of recurring world events.
//
// Every function here is pure: the caller supplies the catalog, the current
// instant, and the completion state on each evaluation, and gets value-equal
// results for equal inputs. Nothing reads the system clock or blocks.
//
// Pipeline: Expand -> FilterVisible -> ApplyCompletion.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/tyria-tracker/tyria/internal/domain"
)

// DefaultHorizon is how far ahead an upcoming occurrence is still shown.
const DefaultHorizon = 2 * time.Hour

// ─── Occurrence Expansion ───────────────────────────────────────────────────

// Expand produces every live or future occurrence of the catalog covering
// today and tomorrow (UTC) relative to now. An occurrence is discarded only
// when its end is at or before now, so at least one occurrence per schedule
// slot always survives, including across the UTC midnight boundary. Events
// recurring faster than 24h legitimately yield several occurrences per slot
// sweep, each with a distinct ID.
//
// Output is sorted by start time, then ID, so equal inputs give value-equal
// output.
func Expand(catalog []domain.EventDefinition, now time.Time) []domain.Occurrence {
	return expand(catalog, now, false)
}

// ExpandDay is Expand without the liveness cut: every slot of today and
// tomorrow yields an occurrence, expired ones included. This feeds the
// completed panel, which covers the whole current UTC day rather than the
// display window, so an occurrence marked done while active stays listed
// there after it expires.
func ExpandDay(catalog []domain.EventDefinition, now time.Time) []domain.Occurrence {
	return expand(catalog, now, true)
}

func expand(catalog []domain.EventDefinition, now time.Time, includeExpired bool) []domain.Occurrence {
	var out []domain.Occurrence
	for _, def := range catalog {
		for _, loc := range def.Locs {
			for _, tod := range loc.Times {
				for dayOffset := 0; dayOffset <= 1; dayOffset++ {
					start := tod.At(now, dayOffset)
					end := start.Add(def.Duration)
					if !includeExpired && !end.After(now) {
						continue
					}
					o := domain.Occurrence{
						ID:         OccurrenceID(def.Key, loc.ID, tod, dayOffset),
						EventKey:   def.Key,
						Name:       def.Name,
						LocationID: loc.ID,
						Map:        loc.Map,
						Waypoint:   loc.Waypoint,
						StartTime:  start,
						EndTime:    end,
						Rewards:    def.Rewards,
						Duration:   def.Duration,
					}
					o.Status = Classify(o, now)
					out = append(out, o)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// OccurrenceID builds the deterministic composite ID for one
// (event, location, slot, day) tuple. Stable across recomputation so that
// completion flags re-associate with the same occurrence.
func OccurrenceID(eventKey, locationID string, tod domain.TimeOfDay, dayOffset int) string {
	if locationID != "" {
		return fmt.Sprintf("%s/%s/%s+%d", eventKey, locationID, tod, dayOffset)
	}
	return fmt.Sprintf("%s/%s+%d", eventKey, tod, dayOffset)
}

// ─── Status Classification ──────────────────────────────────────────────────

// Classify places an occurrence relative to now. The three statuses are
// mutually exclusive and exhaustive over all instants:
//
//	Active   iff start <= now < end
//	Upcoming iff now < start
//	Expired  iff now >= end
func Classify(o domain.Occurrence, now time.Time) domain.Status {
	switch {
	case now.Before(o.StartTime):
		return domain.Upcoming
	case now.Before(o.EndTime):
		return domain.Active
	default:
		return domain.Expired
	}
}

// ─── Visibility Filter ──────────────────────────────────────────────────────

// FilterVisible retains occurrences worth showing: active ones, and upcoming
// ones starting within the horizon. Expired occurrences are always dropped
// here regardless of completion; the completed panel is fed from the full
// expansion instead. Statuses are refreshed against now before filtering.
func FilterVisible(occs []domain.Occurrence, now time.Time, horizon time.Duration) []domain.Occurrence {
	cutoff := now.Add(horizon)
	var out []domain.Occurrence
	for _, o := range occs {
		o.Status = Classify(o, now)
		switch o.Status {
		case domain.Active:
			out = append(out, o)
		case domain.Upcoming:
			if !o.StartTime.After(cutoff) {
				out = append(out, o)
			}
		}
	}
	return out
}

// ─── Completion Overlay ─────────────────────────────────────────────────────

// Snapshot is one evaluation's output: what to show now, and what the user
// already dismissed, grouped by event type.
type Snapshot struct {
	Active          []domain.Occurrence
	CompletedGroups map[string][]domain.Occurrence
}

// ApplyCompletion merges the user's done-marks onto the filtered list.
// An occurrence counts as completed when its event type OR its individual ID
// is flagged; either suffices. Active is visible minus completed. Completed
// groups are drawn from all occurrences, not just the visible window, so the
// completed panel is not time-boxed. Empty or nil completion sets are fine.
func ApplyCompletion(visible, all []domain.Occurrence, completion domain.CompletionState) Snapshot {
	snap := Snapshot{CompletedGroups: make(map[string][]domain.Occurrence)}
	for _, o := range visible {
		if !completion.Completed(o) {
			snap.Active = append(snap.Active, o)
		}
	}
	for _, o := range all {
		if completion.Completed(o) {
			snap.CompletedGroups[o.EventKey] = append(snap.CompletedGroups[o.EventKey], o)
		}
	}
	return snap
}

// Evaluate runs the full pipeline for one instant. The completed panel is
// drawn from the full-day expansion so completion marks outlive their
// occurrence's window.
func Evaluate(catalog []domain.EventDefinition, now time.Time, horizon time.Duration, completion domain.CompletionState) Snapshot {
	all := ExpandDay(catalog, now)
	visible := FilterVisible(all, now, horizon)
	return ApplyCompletion(visible, all, completion)
}
