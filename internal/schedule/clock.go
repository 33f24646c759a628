package schedule

import "time"

// Clock abstracts "what time is it" so evaluation loops can be driven by a
// fake clock in tests. The scheduler itself never reads a clock; only the
// tracker's tick loop does.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time, normalized to UTC with sub-second
// precision dropped, matching the 1-second evaluation cadence.
type SystemClock struct{}

// Now returns the current UTC instant truncated to whole seconds.
func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	Instant time.Time
}

// Now returns the fixed instant.
func (f FixedClock) Now() time.Time { return f.Instant }
