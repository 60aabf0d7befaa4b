package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/dto"
	"github.com/BruksfildServices01/mascotico-api/internal/timezone"
)

type ListAppointmentsInput struct {
	Caller Caller

	ClientID *uint
	BranchID *uint
	Date     string
	Status   string
	Upcoming bool
}

type ListAppointments struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewListAppointments(
	repo domain.Repository,
	clock timezone.Clock,
) *ListAppointments {
	return &ListAppointments{
		repo:  repo,
		clock: clock,
	}
}

// Execute returns matching appointments newest first, or, for the upcoming
// view, the active ones from now on in chronological order.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]dto.AppointmentListDTO, error) {

	filter := domain.ListFilter{
		ClientID: in.ClientID,
		BranchID: in.BranchID,
		Upcoming: in.Upcoming,
	}

	if in.Caller.IsClient() {
		if in.ClientID != nil && *in.ClientID != in.Caller.ClientID {
			return []dto.AppointmentListDTO{}, nil
		}
		own := in.Caller.ClientID
		filter.ClientID = &own
	}

	if in.Date != "" {
		d, err := parseDate("fecha", in.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = &d
	}

	if in.Status != "" {
		st, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &st
	}

	if in.Upcoming {
		filter.Today, filter.Now = timezone.Today(uc.clock)
	}

	return uc.repo.ListAppointments(ctx, filter)
}
