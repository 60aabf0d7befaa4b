package appointment

import (
	"context"

	"github.com/BruksfildServices01/mascotico-api/internal/audit"
	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/domain/calendar"
	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/metrics"
	"github.com/BruksfildServices01/mascotico-api/internal/models"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

// ReasonSlotTaken is reported when another active appointment already
// holds the same branch, date and time.
const ReasonSlotTaken = "slot already booked"

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Caller Caller

	ClientID  uint
	PetID     uint
	ServiceID uint
	BranchID  *uint

	Date   string
	Time   string
	Status string
	Notes  *string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo            domain.Repository
	refs            domain.References
	evaluator       *calendar.Evaluator
	audit           *audit.Dispatcher
	metrics         *metrics.Metrics
	defaultBranchID uint
}

func NewCreateAppointment(
	repo domain.Repository,
	refs domain.References,
	evaluator *calendar.Evaluator,
	audit *audit.Dispatcher,
	metrics *metrics.Metrics,
	defaultBranchID uint,
) *CreateAppointment {
	return &CreateAppointment{
		repo:            repo,
		refs:            refs,
		evaluator:       evaluator,
		audit:           audit,
		metrics:         metrics,
		defaultBranchID: defaultBranchID,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Input, before touching the store
	// --------------------------------------------------
	if in.Caller.IsClient() {
		if in.ClientID == 0 {
			in.ClientID = in.Caller.ClientID
		}
		if in.ClientID != in.Caller.ClientID {
			return nil, httperr.NotFound("client_not_found", "client not found")
		}
	}

	if err := requireID("cliente_id", in.ClientID); err != nil {
		return nil, err
	}
	if err := requireID("mascota_id", in.PetID); err != nil {
		return nil, err
	}
	if err := requireID("servicio_id", in.ServiceID); err != nil {
		return nil, err
	}

	date, err := parseDate("fecha", in.Date)
	if err != nil {
		return nil, err
	}
	at, err := parseClock("hora", in.Time)
	if err != nil {
		return nil, err
	}

	status, err := domain.InitialStatus(domain.Status(in.Status), in.Caller.Actor)
	if err != nil {
		return nil, err
	}

	branchID := uc.defaultBranchID
	if in.BranchID != nil && *in.BranchID != 0 {
		branchID = *in.BranchID
	}

	// --------------------------------------------------
	// 2. References
	// --------------------------------------------------
	if _, err := uc.refs.GetClient(ctx, in.ClientID); err != nil {
		return nil, err
	}

	pet, err := uc.refs.GetPet(ctx, in.PetID)
	if err != nil {
		return nil, err
	}
	if pet.ClientID != in.ClientID {
		return nil, httperr.Validation("mascota_id", "the pet does not belong to this client")
	}

	if err := requireActiveService(ctx, uc.refs, in.ServiceID); err != nil {
		return nil, err
	}
	if err := requireActiveBranch(ctx, uc.refs, branchID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Availability
	// --------------------------------------------------
	if err := checkSlot(ctx, uc.evaluator, uc.repo, uc.metrics, branchID, date, at, 0); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Persist
	// --------------------------------------------------
	ap := &models.Appointment{
		Date:      date,
		Time:      at,
		Status:    string(status),
		ClientID:  in.ClientID,
		PetID:     in.PetID,
		ServiceID: in.ServiceID,
		BranchID:  branchID,
		Notes:     normalizeNotes(in.Notes),
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, slotConflict(uc.metrics, err)
	}

	uc.metrics.AppointmentCreated(ap.Status)
	uc.audit.Dispatch(audit.Event{
		Actor:    string(in.Caller.Actor),
		ActorID:  actorID(in.Caller),
		Action:   audit.ActionAppointmentCreated,
		Entity:   audit.EntityAppointment,
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"fecha":       ap.Date.String(),
			"hora":        ap.Time.String(),
			"sucursal_id": ap.BranchID,
			"estado":      ap.Status,
		},
	})

	return ap, nil
}

// ======================================================
// Shared checks
// ======================================================

func requireActiveService(ctx context.Context, refs domain.References, id uint) error {
	svc, err := refs.GetService(ctx, id)
	if err != nil {
		return err
	}
	if !svc.Active {
		return httperr.Validation("servicio_id", "the service is not available")
	}
	return nil
}

func requireActiveBranch(ctx context.Context, refs domain.References, id uint) error {
	branch, err := refs.GetBranch(ctx, id)
	if err != nil {
		return err
	}
	if !branch.Active {
		return httperr.Validation("sucursal_id", "the branch is not available")
	}
	return nil
}

// checkSlot asks the evaluator, then makes sure no other active appointment
// holds the exact same slot. The two reads are not atomic with the write
// that follows; two simultaneous bookings can both pass here, and the store
// rejects the second write (see slotConflict).
func checkSlot(
	ctx context.Context,
	evaluator *calendar.Evaluator,
	repo domain.Repository,
	m *metrics.Metrics,
	branchID uint,
	date types.Date,
	at types.Clock,
	excludeID uint,
) error {
	res, err := evaluator.IsSlotAvailable(ctx, branchID, date, at)
	if err != nil {
		return err
	}
	if !res.Available {
		m.SlotRejected(res.Reason)
		return httperr.SlotUnavailable(res.Reason)
	}

	taken, err := repo.HasActiveAppointmentAt(ctx, branchID, date, at, excludeID)
	if err != nil {
		return err
	}
	if taken {
		m.SlotRejected(ReasonSlotTaken)
		return httperr.SlotUnavailable(ReasonSlotTaken)
	}
	return nil
}

// slotConflict reports a unique violation on the active slot as a taken
// slot.
func slotConflict(m *metrics.Metrics, err error) error {
	if httperr.IsKind(err, httperr.KindConflict) {
		m.SlotRejected(ReasonSlotTaken)
		return httperr.SlotUnavailable(ReasonSlotTaken)
	}
	return err
}

func actorID(c Caller) *uint {
	if c.IsClient() {
		id := c.ClientID
		return &id
	}
	return nil
}
