package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	loc := Location("Not/AZone")
	now := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC).In(loc)

	_, offset := now.Zone()
	assert.Equal(t, -6*60*60, offset)
}

func TestToday(t *testing.T) {
	loc := Location(DefaultTimezone)
	clock := NewFixedClock(time.Date(2025, time.March, 14, 23, 59, 42, 0, loc))

	d, c := Today(clock)
	assert.Equal(t, types.NewDate(2025, time.March, 14), d)
	assert.Equal(t, types.NewClock(23, 59), c)

	clock.Advance(time.Minute)
	d, c = Today(clock)
	assert.Equal(t, types.NewDate(2025, time.March, 15), d)
	assert.Equal(t, types.NewClock(0, 0), c)
}

func TestBusinessClockUsesBusinessZone(t *testing.T) {
	clock := NewBusinessClock(DefaultTimezone)
	_, offset := clock.Now().Zone()
	assert.Equal(t, -6*60*60, offset)
}
