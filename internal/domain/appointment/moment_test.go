package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

func TestMomentPassed(t *testing.T) {
	today := types.NewDate(2025, time.March, 14)
	now := types.NewClock(10, 30)

	cases := []struct {
		name string
		date types.Date
		at   types.Clock
		want bool
	}{
		{"yesterday late", today.AddDays(-1), types.NewClock(23, 59), true},
		{"today earlier", today, types.NewClock(9, 0), true},
		{"today same minute", today, types.NewClock(10, 30), true},
		{"today next minute", today, types.NewClock(10, 31), false},
		{"tomorrow early", today.AddDays(1), types.NewClock(0, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MomentPassed(tc.date, tc.at, today, now))
		})
	}
}
