package appointment

import (
	"context"

	"github.com/BruksfildServices01/mascotico-api/internal/audit"
	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/domain/calendar"
	"github.com/BruksfildServices01/mascotico-api/internal/metrics"
	"github.com/BruksfildServices01/mascotico-api/internal/models"
	"github.com/BruksfildServices01/mascotico-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// UpdateAppointmentInput is a patch: nil fields are left as they are.
type UpdateAppointmentInput struct {
	Caller Caller
	ID     uint

	Date     *string
	Time     *string
	BranchID *uint
	Status   *string
	Notes    *string
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	repo      domain.Repository
	refs      domain.References
	evaluator *calendar.Evaluator
	clock     timezone.Clock
	audit     *audit.Dispatcher
	metrics   *metrics.Metrics
}

func NewUpdateAppointment(
	repo domain.Repository,
	refs domain.References,
	evaluator *calendar.Evaluator,
	clock timezone.Clock,
	audit *audit.Dispatcher,
	metrics *metrics.Metrics,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:      repo,
		refs:      refs,
		evaluator: evaluator,
		clock:     clock,
		audit:     audit,
		metrics:   metrics,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	current, err := loadFor(ctx, uc.repo, in.Caller, in.ID)
	if err != nil {
		return nil, err
	}

	// every change is applied to a copy; current is what we return when
	// nothing changes
	next := *current

	// --------------------------------------------------
	// 1. Slot (date / time / branch)
	// --------------------------------------------------
	date, at, branchID := current.Date, current.Time, current.BranchID
	field := ""

	if in.Date != nil {
		d, err := parseDate("fecha", *in.Date)
		if err != nil {
			return nil, err
		}
		if !d.Equal(date) {
			date, field = d, "fecha"
		}
	}
	if in.Time != nil {
		t, err := parseClock("hora", *in.Time)
		if err != nil {
			return nil, err
		}
		if t != at {
			at = t
			if field == "" {
				field = "hora"
			}
		}
	}
	if in.BranchID != nil && *in.BranchID != 0 && *in.BranchID != branchID {
		branchID = *in.BranchID
		if field == "" {
			field = "sucursal_id"
		}
	}

	rescheduled := field != ""
	if rescheduled {
		if err := domain.Reschedule(&next, date, at, branchID, field); err != nil {
			return nil, err
		}
		if branchID != current.BranchID {
			if err := requireActiveBranch(ctx, uc.refs, branchID); err != nil {
				return nil, err
			}
		}
		if err := checkSlot(ctx, uc.evaluator, uc.repo, uc.metrics, branchID, date, at, current.ID); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 2. Notes
	// --------------------------------------------------
	notesChanged := false
	if in.Notes != nil {
		notes := normalizeNotes(in.Notes)
		if !sameNotes(notes, current.Notes) {
			if err := domain.SetNotes(&next, notes); err != nil {
				return nil, err
			}
			notesChanged = true
		}
	}

	// --------------------------------------------------
	// 3. Status, last so a pending appointment can be
	//    moved and confirmed in one request
	// --------------------------------------------------
	statusChanged := false
	if in.Status != nil {
		to, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		statusChanged, err = domain.ChangeStatus(&next, to, in.Caller.Actor, uc.clock.Now())
		if err != nil {
			return nil, err
		}
	}

	if !rescheduled && !notesChanged && !statusChanged {
		return current, nil
	}

	// --------------------------------------------------
	// 4. Persist
	// --------------------------------------------------
	// the write only lands if nobody moved the status since we read it
	if err := uc.repo.UpdateAppointment(ctx, &next, domain.Status(current.Status)); err != nil {
		return nil, slotConflict(uc.metrics, err)
	}

	if rescheduled {
		uc.audit.Dispatch(audit.Event{
			Actor:    string(in.Caller.Actor),
			ActorID:  actorID(in.Caller),
			Action:   audit.ActionAppointmentRescheduled,
			Entity:   audit.EntityAppointment,
			EntityID: &next.ID,
			Metadata: map[string]any{
				"from": map[string]any{
					"fecha":       current.Date.String(),
					"hora":        current.Time.String(),
					"sucursal_id": current.BranchID,
				},
				"to": map[string]any{
					"fecha":       next.Date.String(),
					"hora":        next.Time.String(),
					"sucursal_id": next.BranchID,
				},
			},
		})
	}

	if statusChanged {
		uc.metrics.Transition(current.Status, next.Status, string(in.Caller.Actor))
		uc.audit.Dispatch(audit.Event{
			Actor:    string(in.Caller.Actor),
			ActorID:  actorID(in.Caller),
			Action:   audit.ActionAppointmentStatusChanged,
			Entity:   audit.EntityAppointment,
			EntityID: &next.ID,
			Metadata: map[string]any{
				"from": current.Status,
				"to":   next.Status,
			},
		})
	}

	return &next, nil
}
