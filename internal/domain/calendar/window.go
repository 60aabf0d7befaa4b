package calendar

import (
	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

// Window is a half-open opening interval [Start, End).
type Window struct {
	Start types.Clock `json:"hora_inicio"`
	End   types.Clock `json:"hora_fin"`
}

func (w Window) Valid() bool {
	return w.Start.Valid() && w.End.Valid() && w.End > w.Start
}

func (w Window) Contains(at types.Clock) bool {
	return w.Valid() && at.Within(w.Start, w.End)
}

// ValidateWindow is the write-time check for any stored opening window.
func ValidateWindow(start, end types.Clock) error {
	if !start.Valid() {
		return httperr.Validation("hora_inicio", "hora_inicio is out of range")
	}
	if !end.Valid() {
		return httperr.Validation("hora_fin", "hora_fin is out of range")
	}
	if end <= start {
		return httperr.Validation("hora_fin", "hora_fin must be after hora_inicio")
	}
	return nil
}

// FreeSlots lists the start times inside w, stepping by step minutes, where
// a visit of duration minutes still ends inside the window and the start
// time is not taken. When skipUntil is set, times at or before it are
// left out.
func FreeSlots(w Window, step, duration int, taken []types.Clock, skipUntil *types.Clock) []types.Clock {
	slots := []types.Clock{}
	if !w.Valid() || step <= 0 {
		return slots
	}
	if duration <= 0 {
		duration = step
	}

	busy := make(map[types.Clock]struct{}, len(taken))
	for _, t := range taken {
		busy[t] = struct{}{}
	}

	for t := w.Start; t.Add(duration) <= w.End; t = t.Add(step) {
		if skipUntil != nil && t <= *skipUntil {
			continue
		}
		if _, ok := busy[t]; ok {
			continue
		}
		slots = append(slots, t)
	}
	return slots
}
