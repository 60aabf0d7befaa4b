package appointment

import (
	"context"

	"github.com/BruksfildServices01/mascotico-api/internal/audit"
	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute removes the row for good. Only admins reach it; the route is
// guarded as well.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	caller Caller,
	id uint,
) error {

	if caller.Actor != domain.ActorAdmin {
		return errAppointmentNotFound()
	}
	if id == 0 {
		return httperr.Validation("id", "id is required")
	}

	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.DeleteAppointment(ctx, id); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    string(caller.Actor),
		Action:   audit.ActionAppointmentDeleted,
		Entity:   audit.EntityAppointment,
		EntityID: &id,
		Metadata: map[string]any{
			"fecha":      ap.Date.String(),
			"hora":       ap.Time.String(),
			"estado":     ap.Status,
			"cliente_id": ap.ClientID,
		},
	})

	return nil
}
