package appointment

import (
	"time"

	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/models"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

// ===============================
// Domain Actions
// ===============================

// ChangeStatus applies a status change through the transition table.
// It reports whether the record changed; same-status requests are no-ops.
// On error the record is left untouched.
func ChangeStatus(ap *models.Appointment, to Status, actor Actor, now time.Time) (bool, error) {
	from := Status(ap.Status)
	if err := Transition(from, to, actor); err != nil {
		return false, err
	}
	if from == to {
		return false, nil
	}

	ap.Status = string(to)
	switch to {
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	}
	return true, nil
}

// Reschedule moves a pending appointment to another slot or branch.
// field names the first edited attribute, for the error message.
func Reschedule(ap *models.Appointment, date types.Date, at types.Clock, branchID uint, field string) error {
	if Status(ap.Status) != StatusPending {
		return httperr.FieldLocked(ap.Status, field)
	}

	ap.Date = date
	ap.Time = at
	ap.BranchID = branchID
	return nil
}

// SetNotes edits the free-text notes, allowed only while pending.
func SetNotes(ap *models.Appointment, notes *string) error {
	if Status(ap.Status) != StatusPending {
		return httperr.FieldLocked(ap.Status, "notas")
	}
	ap.Notes = notes
	return nil
}
