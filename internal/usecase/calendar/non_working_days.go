package calendar

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/calendar"
	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/models"
	"github.com/BruksfildServices01/mascotico-api/internal/timezone"
)

// NonWorkingDayInput registers a closed date. A nil BranchID closes every
// branch.
type NonWorkingDayInput struct {
	Date        string
	Description string
	BranchID    *uint
}

type ListNonWorkingDays struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewListNonWorkingDays(repo domain.Repository, clock timezone.Clock) *ListNonWorkingDays {
	return &ListNonWorkingDays{repo: repo, clock: clock}
}

// Execute lists the closed dates from today on. With a branch, global
// dates are included.
func (uc *ListNonWorkingDays) Execute(ctx context.Context, branchID *uint) ([]models.NonWorkingDay, error) {
	today, _ := timezone.Today(uc.clock)
	return uc.repo.ListNonWorkingDays(ctx, branchID, today)
}

type CreateNonWorkingDay struct {
	repo domain.Repository
}

func NewCreateNonWorkingDay(repo domain.Repository) *CreateNonWorkingDay {
	return &CreateNonWorkingDay{repo: repo}
}

func (uc *CreateNonWorkingDay) Execute(ctx context.Context, in NonWorkingDayInput) (*models.NonWorkingDay, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	d := &models.NonWorkingDay{
		Date:        date,
		Description: strings.TrimSpace(in.Description),
	}
	if in.BranchID != nil && *in.BranchID != 0 {
		id := *in.BranchID
		d.BranchID = &id
	}

	if err := uc.repo.CreateNonWorkingDay(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

type DeleteNonWorkingDay struct {
	repo domain.Repository
}

func NewDeleteNonWorkingDay(repo domain.Repository) *DeleteNonWorkingDay {
	return &DeleteNonWorkingDay{repo: repo}
}

func (uc *DeleteNonWorkingDay) Execute(ctx context.Context, id uint) error {
	if id == 0 {
		return httperr.Validation("id", "id is required")
	}
	return uc.repo.DeleteNonWorkingDay(ctx, id)
}
