package calendar

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/calendar"
	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/models"
	"github.com/BruksfildServices01/mascotico-api/internal/timezone"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

type SpecialHoursInput struct {
	BranchID    uint
	Date        string
	Start       string
	End         string
	Description string
}

func (in SpecialHoursInput) toModel(sh *models.SpecialHours) error {
	if in.BranchID == 0 {
		return httperr.Validation("sucursal_id", "sucursal_id is required")
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return err
	}
	w, err := parseWindow(in.Start, in.End)
	if err != nil {
		return err
	}

	sh.BranchID = in.BranchID
	sh.Date = date
	sh.Start = w.Start
	sh.End = w.End
	sh.Description = strings.TrimSpace(in.Description)
	return nil
}

// ======================================================
// List
// ======================================================

type ListSpecialHours struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewListSpecialHours(repo domain.Repository, clock timezone.Clock) *ListSpecialHours {
	return &ListSpecialHours{repo: repo, clock: clock}
}

// Execute lists special hours from today on, or every row when all is set.
func (uc *ListSpecialHours) Execute(ctx context.Context, branchID *uint, all bool) ([]models.SpecialHours, error) {
	var from *types.Date
	if !all {
		today, _ := timezone.Today(uc.clock)
		from = &today
	}
	return uc.repo.ListSpecialHours(ctx, branchID, from)
}

// ======================================================
// Create
// ======================================================

type CreateSpecialHours struct {
	repo domain.Repository
}

func NewCreateSpecialHours(repo domain.Repository) *CreateSpecialHours {
	return &CreateSpecialHours{repo: repo}
}

func (uc *CreateSpecialHours) Execute(ctx context.Context, in SpecialHoursInput) (*models.SpecialHours, error) {
	var sh models.SpecialHours
	if err := in.toModel(&sh); err != nil {
		return nil, err
	}
	if err := uc.repo.CreateSpecialHours(ctx, &sh); err != nil {
		return nil, err
	}
	return &sh, nil
}

// ======================================================
// Update
// ======================================================

type UpdateSpecialHours struct {
	repo domain.Repository
}

func NewUpdateSpecialHours(repo domain.Repository) *UpdateSpecialHours {
	return &UpdateSpecialHours{repo: repo}
}

func (uc *UpdateSpecialHours) Execute(ctx context.Context, id uint, in SpecialHoursInput) (*models.SpecialHours, error) {
	if id == 0 {
		return nil, httperr.Validation("id", "id is required")
	}

	sh, err := uc.repo.GetSpecialHours(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *sh
	if err := in.toModel(&next); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateSpecialHours(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// ======================================================
// Delete
// ======================================================

type DeleteSpecialHours struct {
	repo domain.Repository
}

func NewDeleteSpecialHours(repo domain.Repository) *DeleteSpecialHours {
	return &DeleteSpecialHours{repo: repo}
}

func (uc *DeleteSpecialHours) Execute(ctx context.Context, id uint) error {
	if id == 0 {
		return httperr.Validation("id", "id is required")
	}
	return uc.repo.DeleteSpecialHours(ctx, id)
}
