package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a time of day with minute precision, stored as minutes
// since midnight. Seconds are dropped on parse.
type Clock int

const minutesPerDay = 24 * 60

func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ClockOf returns the time of day of t in t's own location, truncated to the minute.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute())
}

// ParseClock accepts "HH:MM" and "HH:MM:SS" (with optional fractional seconds).
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 || len(parts[0]) > 2 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if len(parts) == 3 {
		sec := parts[2]
		if i := strings.IndexByte(sec, '.'); i >= 0 {
			sec = sec[:i]
		}
		if n, err := strconv.Atoi(sec); err != nil || n < 0 || n > 59 {
			return 0, fmt.Errorf("invalid second in %q", s)
		}
	}

	return NewClock(h, m), nil
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) Valid() bool {
	return c >= 0 && c < minutesPerDay
}

// String formats as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// SQLString formats as "HH:MM:00", the normalized stored form.
func (c Clock) SQLString() string {
	return c.String() + ":00"
}

func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

// Within reports whether c lies in the half-open window [start, end).
func (c Clock) Within(start, end Clock) bool {
	return c >= start && c < end
}

// --------------------------------------------------
// SQL
// --------------------------------------------------

func (Clock) GormDataType() string {
	return "time"
}

func (c Clock) Value() (driver.Value, error) {
	return c.SQLString(), nil
}

func (c *Clock) Scan(value any) error {
	switch v := value.(type) {
	case time.Time:
		*c = ClockOf(v)
		return nil
	case string:
		parsed, err := ParseClock(v)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case []byte:
		parsed, err := ParseClock(string(v))
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Clock", value)
	}
}

// --------------------------------------------------
// JSON
// --------------------------------------------------

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
