package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/mascotico-api/internal/domain/calendar"
	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/models"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

type CalendarGormRepository struct {
	base
}

func NewCalendarGormRepository(db *gorm.DB, timeout time.Duration) *CalendarGormRepository {
	return &CalendarGormRepository{base: base{db: db, timeout: timeout}}
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *CalendarGormRepository) FindNonWorkingDay(
	ctx context.Context,
	branchID uint,
	date types.Date,
) (*models.NonWorkingDay, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var rows []models.NonWorkingDay
	if err := db.
		Where("fecha = ? AND (sucursal_id = ? OR sucursal_id IS NULL)", date, branchID).
		Order("sucursal_id NULLS LAST").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, translate("find dia no laborable", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *CalendarGormRepository) FindSpecialHours(
	ctx context.Context,
	branchID uint,
	date types.Date,
) (*models.SpecialHours, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var rows []models.SpecialHours
	if err := db.
		Where("sucursal_id = ? AND fecha = ?", branchID, date).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, translate("find horario especial", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *CalendarGormRepository) FindOperatingHours(
	ctx context.Context,
	branchID uint,
	weekday int,
) (*models.OperatingHours, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var rows []models.OperatingHours
	if err := db.
		Where("sucursal_id = ? AND dia_semana = ?", branchID, weekday).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, translate("find horario", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// --------------------------------------------------
// Operating hours
// --------------------------------------------------

func (r *CalendarGormRepository) ListOperatingHours(
	ctx context.Context,
	branchID *uint,
) ([]models.OperatingHours, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	q := db.Order("sucursal_id ASC, dia_semana ASC")
	if branchID != nil {
		q = q.Where("sucursal_id = ?", *branchID)
	}

	hours := []models.OperatingHours{}
	if err := q.Find(&hours).Error; err != nil {
		return nil, translate("list horarios", err)
	}
	return hours, nil
}

func (r *CalendarGormRepository) GetOperatingHours(
	ctx context.Context,
	id uint,
) (*models.OperatingHours, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var oh models.OperatingHours
	if err := db.First(&oh, id).Error; err != nil {
		return nil, notFoundOr("get horario", err, "operating_hours_not_found", "operating hours not found")
	}
	return &oh, nil
}

func updateHoursRow(tx *gorm.DB, oh *models.OperatingHours) error {
	res := tx.
		Model(&models.OperatingHours{}).
		Where("id = ?", oh.ID).
		Updates(map[string]any{
			"hora_inicio": oh.Start,
			"hora_fin":    oh.End,
			"activo":      oh.Active,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return translate("update horario", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound(
			"operating_hours_not_found",
			fmt.Sprintf("operating hours %d not found", oh.ID),
		)
	}
	return nil
}

func (r *CalendarGormRepository) UpdateOperatingHours(
	ctx context.Context,
	oh *models.OperatingHours,
) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return updateHoursRow(db, oh)
}

func (r *CalendarGormRepository) UpdateOperatingHoursBatch(
	ctx context.Context,
	rows []models.OperatingHours,
) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := updateHoursRow(tx, &rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// --------------------------------------------------
// Special hours
// --------------------------------------------------

func (r *CalendarGormRepository) ListSpecialHours(
	ctx context.Context,
	branchID *uint,
	from *types.Date,
) ([]models.SpecialHours, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	q := db.Order("fecha ASC, sucursal_id ASC")
	if branchID != nil {
		q = q.Where("sucursal_id = ?", *branchID)
	}
	if from != nil {
		q = q.Where("fecha >= ?", *from)
	}

	out := []models.SpecialHours{}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate("list horarios especiales", err)
	}
	return out, nil
}

func (r *CalendarGormRepository) GetSpecialHours(
	ctx context.Context,
	id uint,
) (*models.SpecialHours, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var sh models.SpecialHours
	if err := db.First(&sh, id).Error; err != nil {
		return nil, notFoundOr("get horario especial", err, "special_hours_not_found", "special hours not found")
	}
	return &sh, nil
}

const duplicateSpecialHoursMsg = "special hours already exist for this branch and date"

func (r *CalendarGormRepository) CreateSpecialHours(
	ctx context.Context,
	sh *models.SpecialHours,
) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	err := translate("insert horario especial", db.Create(sh).Error)
	return conflictAs(err, "duplicate_special_hours", duplicateSpecialHoursMsg)
}

func (r *CalendarGormRepository) UpdateSpecialHours(
	ctx context.Context,
	sh *models.SpecialHours,
) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	err := translate("update horario especial", db.Save(sh).Error)
	return conflictAs(err, "duplicate_special_hours", duplicateSpecialHoursMsg)
}

func (r *CalendarGormRepository) DeleteSpecialHours(
	ctx context.Context,
	id uint,
) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Delete(&models.SpecialHours{}, id)
	if res.Error != nil {
		return translate("delete horario especial", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound("special_hours_not_found", "special hours not found")
	}
	return nil
}

// --------------------------------------------------
// Non-working days
// --------------------------------------------------

func (r *CalendarGormRepository) ListNonWorkingDays(
	ctx context.Context,
	branchID *uint,
	from types.Date,
) ([]models.NonWorkingDay, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	q := db.Where("fecha >= ?", from).Order("fecha ASC")
	if branchID != nil {
		q = q.Where("(sucursal_id = ? OR sucursal_id IS NULL)", *branchID)
	}

	out := []models.NonWorkingDay{}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate("list dias no laborables", err)
	}
	return out, nil
}

func (r *CalendarGormRepository) CreateNonWorkingDay(
	ctx context.Context,
	d *models.NonWorkingDay,
) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	err := translate("insert dia no laborable", db.Create(d).Error)
	return conflictAs(err, "duplicate_non_working_day", "this date is already registered as a non-working day")
}

func (r *CalendarGormRepository) DeleteNonWorkingDay(
	ctx context.Context,
	id uint,
) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Delete(&models.NonWorkingDay{}, id)
	if res.Error != nil {
		return translate("delete dia no laborable", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound("non_working_day_not_found", "non-working day not found")
	}
	return nil
}

var _ calendar.Repository = (*CalendarGormRepository)(nil)
