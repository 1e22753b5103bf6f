package clock

import "time"

// Clock abstracts wall time so repositories can stamp rows with a
// deterministic time in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func NewClock() Clock {
	return &realClock{}
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

// NewFixedClock returns a Clock frozen at the given instant.
func NewFixedClock(now time.Time) Clock {
	return &fixedClock{now: now}
}
