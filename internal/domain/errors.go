package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Catalog validation errors (raised at load time, never per-tick)
	ErrBadTimeOfDay    = errors.New("schedule time must be HH:MM with HH 00-23 and MM 00-59")
	ErrBadDuration     = errors.New("event duration must be positive")
	ErrEmptySchedule   = errors.New("event has no schedule times")
	ErrEmptyEventKey   = errors.New("event key must not be empty")
	ErrDuplicateTaskID = errors.New("task id already defined in catalog")
	ErrBadTaskCategory = errors.New("unknown daily task category")

	// Lookup errors
	ErrUnknownEvent = errors.New("event not found in catalog")
	ErrUnknownTask  = errors.New("task not found in catalog")

	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrLastProfile     = errors.New("cannot delete the last remaining profile")

	// Sync errors
	ErrSyncDisabled = errors.New("remote sync is disabled in config")
)
