// Package catalog provides the static tables Tyria Tracker runs on: the
// recurring world-event schedule and the daily task checklist.
// This is the tracker's "event phonebook" — it maps stable keys like
// "tt_tequatl" to UTC recurrence times, durations, maps, and rewards.
//
// The built-in tables cover the stock dashboard; a TOML file at
// $TYRIA_HOME/catalog.toml replaces them wholesale when present. Either way
// the catalog is parsed and validated exactly once, at load time — a
// malformed entry fails the load, never an evaluation tick.
package catalog

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tyria-tracker/tyria/internal/domain"
)

// Catalog is the validated, immutable set of event and task definitions.
type Catalog struct {
	Events []domain.EventDefinition
	Tasks  []domain.DailyTask
}

// Lookup finds an event definition by key. Returns nil if not found.
func (c *Catalog) Lookup(key string) *domain.EventDefinition {
	for i := range c.Events {
		if c.Events[i].Key == key {
			return &c.Events[i]
		}
	}
	return nil
}

// LookupTask finds a daily task by ID. Returns nil if not found.
func (c *Catalog) LookupTask(id string) *domain.DailyTask {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			return &c.Tasks[i]
		}
	}
	return nil
}

// TasksFor returns the daily checklist for the given instant. The Pact
// Supply Network Agent entry rotates by UTC weekday, so the table is
// materialized per day rather than stored resolved.
func (c *Catalog) TasksFor(now time.Time) []domain.DailyTask {
	out := make([]domain.DailyTask, len(c.Tasks))
	copy(out, c.Tasks)
	for i := range out {
		if out[i].ID == "psna" {
			agent := psnaRotation[int(now.UTC().Weekday())]
			out[i].Name = "PSNA: " + agent.name
			out[i].Waypoint = agent.waypoint
		}
	}
	return out
}

// Load returns the catalog from the TOML file at path, or the built-in
// catalog when the file does not exist.
func Load(path string) (*Catalog, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default()
	}

	var spec fileSpec
	if _, err := toml.DecodeFile(path, &spec); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	c, err := spec.build()
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return builtin.build()
}

// ─── Validation ─────────────────────────────────────────────────────────────

var timeOfDayRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ParseTimeOfDay parses and validates a "HH:MM" UTC schedule entry.
func ParseTimeOfDay(s string) (domain.TimeOfDay, error) {
	m := timeOfDayRe.FindStringSubmatch(s)
	if m == nil {
		return domain.TimeOfDay{}, fmt.Errorf("%q: %w", s, domain.ErrBadTimeOfDay)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return domain.TimeOfDay{Hour: h, Minute: min}, nil
}

// ─── File / built-in spec ───────────────────────────────────────────────────
// The raw spec mirrors the TOML shape; both the built-in catalog and user
// catalog files go through the same build+validate path.

type fileSpec struct {
	Events map[string]eventSpec  `toml:"events"`
	Tasks  map[string][]taskSpec `toml:"tasks"`
}

type eventSpec struct {
	Name            string         `toml:"name"`
	Map             string         `toml:"map"`
	Waypoint        string         `toml:"waypoint"`
	DurationMinutes int            `toml:"duration_minutes"`
	UTCTimes        []string       `toml:"utc_times"`
	Locations       []locationSpec `toml:"locations"`
	Rewards         []rewardSpec   `toml:"rewards"`
}

type locationSpec struct {
	ID       string   `toml:"id"`
	Map      string   `toml:"map"`
	Waypoint string   `toml:"waypoint"`
	UTCTimes []string `toml:"utc_times"`
}

type taskSpec struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Waypoint string `toml:"waypoint"`
}

type rewardSpec struct {
	Kind   string `toml:"kind"`
	Name   string `toml:"name"`
	ItemID int    `toml:"item_id"`
	Amount int    `toml:"amount"`
	Link   string `toml:"link"`
}

func (f fileSpec) build() (*Catalog, error) {
	c := &Catalog{}

	keys := make([]string, 0, len(f.Events))
	for k := range f.Events {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		def, err := f.Events[key].build(key)
		if err != nil {
			return nil, err
		}
		c.Events = append(c.Events, def)
	}

	cats := make([]string, 0, len(f.Tasks))
	for cat := range f.Tasks {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	seenTasks := make(map[string]bool)
	for _, cat := range cats {
		category := domain.TaskCategory(cat)
		if !domain.ValidCategory(category) {
			return nil, fmt.Errorf("%q: %w", cat, domain.ErrBadTaskCategory)
		}
		for _, ts := range f.Tasks[cat] {
			if seenTasks[ts.ID] {
				return nil, fmt.Errorf("task %q: %w", ts.ID, domain.ErrDuplicateTaskID)
			}
			seenTasks[ts.ID] = true
			c.Tasks = append(c.Tasks, domain.DailyTask{
				ID:       ts.ID,
				Name:     ts.Name,
				Category: category,
				Waypoint: ts.Waypoint,
			})
		}
	}

	return c, nil
}

func (e eventSpec) build(key string) (domain.EventDefinition, error) {
	var def domain.EventDefinition
	if key == "" {
		return def, domain.ErrEmptyEventKey
	}
	if e.DurationMinutes <= 0 {
		return def, fmt.Errorf("event %q: %w", key, domain.ErrBadDuration)
	}

	def = domain.EventDefinition{
		Key:      key,
		Name:     e.Name,
		Duration: time.Duration(e.DurationMinutes) * time.Minute,
	}

	for _, r := range e.Rewards {
		kind := domain.RewardKind(r.Kind)
		if kind == "" {
			kind = domain.RewardItem
		}
		def.Rewards = append(def.Rewards, domain.Reward{
			Kind:   kind,
			Name:   r.Name,
			ItemID: r.ItemID,
			Amount: r.Amount,
			Link:   r.Link,
		})
	}

	buildTimes := func(raw []string) ([]domain.TimeOfDay, error) {
		var times []domain.TimeOfDay
		for _, s := range raw {
			tod, err := ParseTimeOfDay(s)
			if err != nil {
				return nil, fmt.Errorf("event %q: %w", key, err)
			}
			times = append(times, tod)
		}
		return times, nil
	}

	if len(e.Locations) > 0 {
		for _, l := range e.Locations {
			times, err := buildTimes(l.UTCTimes)
			if err != nil {
				return def, err
			}
			if len(times) == 0 {
				return def, fmt.Errorf("event %q location %q: %w", key, l.ID, domain.ErrEmptySchedule)
			}
			def.Locs = append(def.Locs, domain.Location{
				ID:       l.ID,
				Map:      l.Map,
				Waypoint: l.Waypoint,
				Times:    times,
			})
		}
	} else {
		times, err := buildTimes(e.UTCTimes)
		if err != nil {
			return def, err
		}
		if len(times) == 0 {
			return def, fmt.Errorf("event %q: %w", key, domain.ErrEmptySchedule)
		}
		def.Locs = []domain.Location{{Map: e.Map, Waypoint: e.Waypoint, Times: times}}
	}

	return def, nil
}
