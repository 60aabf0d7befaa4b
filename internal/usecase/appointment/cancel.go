package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/models"
)

// CancelAppointment is a shortcut for an update that only moves the status
// to cancelled.
type CancelAppointment struct {
	update *UpdateAppointment
}

func NewCancelAppointment(update *UpdateAppointment) *CancelAppointment {
	return &CancelAppointment{update: update}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	caller Caller,
	id uint,
) (*models.Appointment, error) {

	status := string(domain.StatusCancelled)
	return uc.update.Execute(ctx, UpdateAppointmentInput{
		Caller: caller,
		ID:     id,
		Status: &status,
	})
}
