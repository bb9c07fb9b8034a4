// Package clock derives elapsed match time from the simulator's
// remaining-steps counter and hands out event sequence numbers.
package clock

import (
	"fmt"
	"time"
)

// NominalMatchDuration is the fixed match length mapped linearly over the
// simulator's total step budget.
const NominalMatchDuration = 90 * time.Minute

// Clock tracks elapsed match time for one match instance. The total step
// budget is captured from the first observed frame with a nonzero
// remaining-steps counter.
type Clock struct {
	totalSteps int
	elapsed    time.Duration
}

// New creates a clock with no step budget captured yet.
func New() *Clock {
	return &Clock{}
}

// Observe updates elapsed match time from the current remaining-steps
// counter. The first nonzero observation fixes the total step budget.
func (c *Clock) Observe(stepsLeft int) {
	if c.totalSteps == 0 {
		if stepsLeft <= 0 {
			return
		}
		c.totalSteps = stepsLeft
	}
	done := c.totalSteps - stepsLeft
	c.elapsed = time.Duration(float64(NominalMatchDuration) * float64(done) / float64(c.totalSteps))
}

// Elapsed returns the elapsed match time.
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}

// Format renders the elapsed match time as "MM:SS".
func (c *Clock) Format() string {
	s := int(c.elapsed.Seconds())
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// SecondsSince returns the whole seconds of match time elapsed since an
// earlier clock reading, for two-phase action intervals.
func (c *Clock) SecondsSince(start time.Duration) int {
	return int((c.elapsed - start).Seconds())
}

// Sequencer assigns monotonically increasing event ids starting at 1.
// One sequencer exists per match instance; ids never repeat or skip.
type Sequencer struct {
	last uint64
}

// Next returns the next event id.
func (s *Sequencer) Next() uint64 {
	s.last++
	return s.last
}

// Count returns how many ids have been assigned.
func (s *Sequencer) Count() uint64 {
	return s.last
}
