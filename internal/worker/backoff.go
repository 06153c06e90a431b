package worker

import "time"

// Schedule maps a failure count to the delay before the job becomes
// claimable again. Attempts past the end reuse the last entry.
type Schedule []time.Duration

// DefaultSchedule gives 2s, 5s, then 10s for every later failure.
var DefaultSchedule = Schedule{2 * time.Second, 5 * time.Second, 10 * time.Second}

// Delay returns the wait after the given failure (1-indexed).
func (s Schedule) Delay(attempt int) time.Duration {
	if len(s) == 0 {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}
	if attempt > len(s) {
		return s[len(s)-1]
	}
	return s[attempt-1]
}
