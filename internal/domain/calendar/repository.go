package calendar

import (
	"context"

	"github.com/BruksfildServices01/mascotico-api/internal/models"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

// Repository is the administrative side of the calendar tables.
type Repository interface {
	Reader

	// -------- Operating hours --------
	ListOperatingHours(ctx context.Context, branchID *uint) ([]models.OperatingHours, error)
	GetOperatingHours(ctx context.Context, id uint) (*models.OperatingHours, error)
	UpdateOperatingHours(ctx context.Context, oh *models.OperatingHours) error

	// UpdateOperatingHoursBatch writes every row or none of them.
	UpdateOperatingHoursBatch(ctx context.Context, rows []models.OperatingHours) error

	// -------- Special hours --------
	ListSpecialHours(ctx context.Context, branchID *uint, from *types.Date) ([]models.SpecialHours, error)
	GetSpecialHours(ctx context.Context, id uint) (*models.SpecialHours, error)
	CreateSpecialHours(ctx context.Context, sh *models.SpecialHours) error
	UpdateSpecialHours(ctx context.Context, sh *models.SpecialHours) error
	DeleteSpecialHours(ctx context.Context, id uint) error

	// -------- Non-working days --------
	ListNonWorkingDays(ctx context.Context, branchID *uint, from types.Date) ([]models.NonWorkingDay, error)
	CreateNonWorkingDay(ctx context.Context, d *models.NonWorkingDay) error
	DeleteNonWorkingDay(ctx context.Context, id uint) error
}
