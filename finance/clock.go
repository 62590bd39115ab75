package finance

import "time"

// =============================================================================
// CLOCK - Injectable time source
// =============================================================================

// Clock supplies "now" to calculations that are date-relative (years held,
// debt-free date, months until a goal target). Injecting it keeps engine
// output byte-identical across runs in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	At time.Time
}

func (f FixedClock) Now() time.Time { return f.At }

// ClockAt builds a fixed clock for the given date (UTC, midnight).
func ClockAt(year int, month time.Month, day int) FixedClock {
	return FixedClock{At: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}
