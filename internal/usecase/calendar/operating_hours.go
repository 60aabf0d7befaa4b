package calendar

import (
	"context"

	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/calendar"
	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/models"
)

// OperatingHoursInput edits one weekly row. An inactive day keeps its
// hours but they are only checked while the day is active.
type OperatingHoursInput struct {
	ID     uint
	Start  string
	End    string
	Active bool
}

// ======================================================
// List
// ======================================================

type ListOperatingHours struct {
	repo domain.Repository
}

func NewListOperatingHours(repo domain.Repository) *ListOperatingHours {
	return &ListOperatingHours{repo: repo}
}

func (uc *ListOperatingHours) Execute(ctx context.Context, branchID *uint) ([]models.OperatingHours, error) {
	return uc.repo.ListOperatingHours(ctx, branchID)
}

// ======================================================
// Update one
// ======================================================

type UpdateOperatingHours struct {
	repo domain.Repository
}

func NewUpdateOperatingHours(repo domain.Repository) *UpdateOperatingHours {
	return &UpdateOperatingHours{repo: repo}
}

func (uc *UpdateOperatingHours) Execute(ctx context.Context, in OperatingHoursInput) (*models.OperatingHours, error) {
	if in.ID == 0 {
		return nil, httperr.Validation("id", "id is required")
	}

	oh, err := uc.repo.GetOperatingHours(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if err := apply(oh, in); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateOperatingHours(ctx, oh); err != nil {
		return nil, err
	}
	return oh, nil
}

// ======================================================
// Update many
// ======================================================

type UpdateOperatingHoursBatch struct {
	repo domain.Repository
}

func NewUpdateOperatingHoursBatch(repo domain.Repository) *UpdateOperatingHoursBatch {
	return &UpdateOperatingHoursBatch{repo: repo}
}

// Execute checks every row first and reports all problems in one error.
// Nothing is written unless every row is valid, and the write itself is
// all-or-nothing.
func (uc *UpdateOperatingHoursBatch) Execute(ctx context.Context, in []OperatingHoursInput) ([]models.OperatingHours, error) {
	if len(in) == 0 {
		return nil, httperr.Validation("horarios", "at least one row is required")
	}

	rows := make([]models.OperatingHours, 0, len(in))
	seen := make(map[uint]bool, len(in))
	var errs []error

	for i, row := range in {
		if row.ID == 0 {
			errs = append(errs, rowError(i, httperr.Validation("id", "id is required")))
			continue
		}
		if seen[row.ID] {
			errs = append(errs, rowError(i, httperr.Validation("id", "id is repeated")))
			continue
		}
		seen[row.ID] = true

		oh, err := uc.repo.GetOperatingHours(ctx, row.ID)
		if err != nil {
			if httperr.IsKind(err, httperr.KindStore) {
				return nil, err
			}
			errs = append(errs, rowError(i, err))
			continue
		}
		if err := apply(oh, row); err != nil {
			errs = append(errs, rowError(i, err))
			continue
		}
		rows = append(rows, *oh)
	}

	if len(errs) > 0 {
		return nil, httperr.Aggregate("invalid_horarios", errs)
	}

	if err := uc.repo.UpdateOperatingHoursBatch(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func apply(oh *models.OperatingHours, in OperatingHoursInput) error {
	if !in.Active {
		oh.Active = false
		if in.Start == "" && in.End == "" {
			return nil
		}
	}

	w, err := parseWindow(in.Start, in.End)
	if err != nil {
		return err
	}

	oh.Start = w.Start
	oh.End = w.End
	oh.Active = in.Active
	return nil
}
