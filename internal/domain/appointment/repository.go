package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/mascotico-api/internal/dto"
	"github.com/BruksfildServices01/mascotico-api/internal/models"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

// ListFilter narrows ListAppointments. Zero fields do not filter.
type ListFilter struct {
	ClientID *uint
	BranchID *uint
	Date     *types.Date
	Status   *Status

	// Upcoming restricts to active appointments whose moment is at or
	// after (Today, Now), ordered ascending.
	Upcoming bool
	Today    types.Date
	Now      types.Clock
}

// StatusDateCount is one row of the statistics aggregate.
type StatusDateCount struct {
	Status Status
	Date   types.Date
	Count  int64
}

// LapseInput describes one reconciliation sweep.
type LapseInput struct {
	From        []Status
	Today       types.Date
	Now         types.Clock
	CompletedAt time.Time
}

type Repository interface {
	// -------- Appointment (read) --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]dto.AppointmentListDTO, error)

	CountByStatusAndDate(
		ctx context.Context,
		clientID *uint,
	) ([]StatusDateCount, error)

	// -------- Appointment (slot) --------
	HasActiveAppointmentAt(
		ctx context.Context,
		branchID uint,
		date types.Date,
		at types.Clock,
		excludeID uint,
	) (bool, error)

	ListTakenTimes(
		ctx context.Context,
		branchID uint,
		date types.Date,
	) ([]types.Clock, error)

	// -------- Appointment (write) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// UpdateAppointment writes ap only while the stored row is still in
	// prev. When another writer moved it first, it returns InvalidTransition
	// from the stored status to ap.Status.
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		prev Status,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uint,
	) error

	// LapsePastAppointments moves every appointment in one of in.From whose
	// moment has passed to completed, in a single conditional statement,
	// and returns the number of rows it changed.
	LapsePastAppointments(
		ctx context.Context,
		in LapseInput,
	) (int64, error)
}

// References is the read side of the reference entities an appointment
// points at.
type References interface {
	GetClient(ctx context.Context, id uint) (*models.Client, error)
	GetPet(ctx context.Context, id uint) (*models.Pet, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)
	GetBranch(ctx context.Context, id uint) (*models.Branch, error)

	ListBranches(ctx context.Context, activeOnly bool) ([]models.Branch, error)
	ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error)
}
