package domain

// TaskCategory groups the daily checklist.
type TaskCategory string

const (
	TaskGathering TaskCategory = "gathering"
	TaskCrafting  TaskCategory = "crafting"
	TaskSpecial   TaskCategory = "special"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c TaskCategory) bool {
	switch c {
	case TaskGathering, TaskCrafting, TaskSpecial:
		return true
	}
	return false
}

// DailyTask is one once-per-UTC-day checklist entry.
type DailyTask struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Category TaskCategory `json:"category"`
	Waypoint string       `json:"waypoint,omitempty"`
}

// DailyProgress maps category -> task ID -> done, for one profile.
// Cleared in full at the UTC midnight reset.
type DailyProgress map[TaskCategory]map[string]bool

// HistoryDay is one archived day of checklist progress, written when the
// daily reset retires that day's state.
type HistoryDay struct {
	Date     string        `json:"date"` // UTC calendar date, "2006-01-02"
	Progress DailyProgress `json:"progress"`
}

// DoneCount tallies the tasks marked done on that day.
func (h HistoryDay) DoneCount() int {
	n := 0
	for _, tasks := range h.Progress {
		for _, done := range tasks {
			if done {
				n++
			}
		}
	}
	return n
}

// Done reports completion for a single task, tolerating missing maps.
func (p DailyProgress) Done(category TaskCategory, taskID string) bool {
	return p[category][taskID]
}
