package appointment

import "github.com/BruksfildServices01/mascotico-api/internal/types"

// MomentPassed reports whether an appointment at (date, at) is no longer in
// the future relative to (today, now). The boundary minute counts as passed.
func MomentPassed(date types.Date, at types.Clock, today types.Date, now types.Clock) bool {
	if date.Before(today) {
		return true
	}
	return date.Equal(today) && at <= now
}
