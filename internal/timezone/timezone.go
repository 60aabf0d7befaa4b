package timezone

import (
	"sync"
	"time"

	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

const DefaultTimezone = "America/Guatemala"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves tz, falling back to the business default. If the
// host has no zoneinfo at all, Guatemala's fixed UTC-6 offset is used
// (the country has no DST).
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.FixedZone("CST", -6*60*60)
}

// ======================================================
// Clock
// ======================================================

// Clock is the source of "now" for everything that compares against the
// current business moment.
type Clock interface {
	Now() time.Time
}

// BusinessClock reports wall time in the business timezone.
type BusinessClock struct {
	loc *time.Location
}

func NewBusinessClock(tz string) *BusinessClock {
	return &BusinessClock{loc: Location(tz)}
}

func (c *BusinessClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *BusinessClock) Location() *time.Location {
	return c.loc
}

// Today returns the civil date and the minute-precision time of day of
// clock.Now().
func Today(clock Clock) (types.Date, types.Clock) {
	now := clock.Now()
	return types.DateOf(now), types.ClockOf(now)
}

// FixedClock is a settable clock for tests and replays.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
