// Package domain holds the pure types shared across Tyria Tracker.
// Nothing in here touches the clock, the network, or storage.
package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a validated "HH:MM" UTC wall-clock time.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String renders the canonical "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// At returns the absolute UTC instant at ref's UTC calendar date plus
// dayOffset days, at this wall-clock time. Seconds and nanos are zero.
func (t TimeOfDay) At(ref time.Time, dayOffset int) time.Time {
	ref = ref.UTC()
	return time.Date(ref.Year(), ref.Month(), ref.Day()+dayOffset,
		t.Hour, t.Minute, 0, 0, time.UTC)
}

// RewardKind tags the normalized reward variants.
type RewardKind string

const (
	RewardItem     RewardKind = "item"
	RewardCurrency RewardKind = "currency"
)

// Reward is one normalized reward descriptor. The scheduler passes rewards
// through unchanged; only the price enricher looks at ItemID.
type Reward struct {
	Kind   RewardKind `json:"kind"`
	Name   string     `json:"name"`
	ItemID int        `json:"item_id,omitempty"`
	Amount int        `json:"amount,omitempty"`
	Link   string     `json:"link,omitempty"`
}

// Location is one map a recurring event fires in, with its own UTC slots.
// Single-map events have exactly one Location with an empty ID.
type Location struct {
	ID       string
	Map      string
	Waypoint string
	Times    []TimeOfDay
}

// EventDefinition is one recurring world event from the catalog.
// Definitions are static: loaded and validated once, never mutated.
type EventDefinition struct {
	Key      string
	Name     string
	Duration time.Duration
	Locs     []Location
	Rewards  []Reward
}

// MultiLocation reports whether the event rotates through more than one map.
// Completion for such events is tracked per type, not per occurrence.
func (e EventDefinition) MultiLocation() bool {
	return len(e.Locs) > 1
}

// Status is the lifecycle position of an occurrence relative to now.
// Transitions are monotonic: Upcoming -> Active -> Expired.
type Status int

const (
	Upcoming Status = iota
	Active
	Expired
)

// String returns a human-readable status label.
func (s Status) String() string {
	switch s {
	case Upcoming:
		return "UPCOMING"
	case Active:
		return "ACTIVE"
	case Expired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// Occurrence is one concrete time-boxed instance of a recurring event.
// Occurrences are recomputed on every evaluation and never persisted; the ID
// is deterministic so completion flags re-associate across recomputation.
type Occurrence struct {
	ID         string        `json:"id"`
	EventKey   string        `json:"event_key"`
	Name       string        `json:"name"`
	LocationID string        `json:"location_id,omitempty"`
	Map        string        `json:"map,omitempty"`
	Waypoint   string        `json:"waypoint,omitempty"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Status     Status        `json:"-"`
	Rewards    []Reward      `json:"rewards,omitempty"`
	Duration   time.Duration `json:"-"`
}

// CompletionState is the externally-owned "done" marks for one profile.
// Either set may be nil; absence means nothing is completed.
type CompletionState struct {
	Occurrences map[string]bool // keyed by Occurrence.ID
	EventTypes  map[string]bool // keyed by EventDefinition.Key
}

// Completed reports whether an occurrence is marked done, by type key or by
// individual ID. Either suffices; multi-map events rely on the type flag to
// dismiss all sibling instances in one action.
func (c CompletionState) Completed(o Occurrence) bool {
	return c.EventTypes[o.EventKey] || c.Occurrences[o.ID]
}
