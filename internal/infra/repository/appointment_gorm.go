package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/dto"
	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/models"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

type AppointmentGormRepository struct {
	base
}

func NewAppointmentGormRepository(db *gorm.DB, timeout time.Duration) *AppointmentGormRepository {
	return &AppointmentGormRepository{base: base{db: db, timeout: timeout}}
}

func statusStrings(statuses []domain.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var ap models.Appointment
	if err := db.First(&ap, id).Error; err != nil {
		return nil, notFoundOr("get cita", err, "appointment_not_found", "appointment not found")
	}
	return &ap, nil
}

// listQuery builds the joined read model for appointment listings.
func listQuery(f domain.ListFilter) sq.SelectBuilder {
	q := sq.Select(
		"c.id AS id",
		"c.fecha AS date",
		"c.hora AS time",
		"c.estado AS status",
		"c.notas AS notes",
		"c.cliente_id AS client_id",
		"cl.nombre AS client_name",
		"c.mascota_id AS pet_id",
		"m.nombre AS pet_name",
		"m.especie AS pet_species",
		"c.servicio_id AS service_id",
		"s.nombre AS service_name",
		"s.precio AS service_price",
		"c.sucursal_id AS branch_id",
		"su.nombre AS branch_name",
		"c.created_at AS created_at",
	).
		From("cita c").
		Join("cliente cl ON cl.id = c.cliente_id").
		Join("mascota m ON m.id = c.mascota_id").
		Join("servicio s ON s.id = c.servicio_id").
		Join("sucursal su ON su.id = c.sucursal_id")

	if f.ClientID != nil {
		q = q.Where(sq.Eq{"c.cliente_id": *f.ClientID})
	}
	if f.BranchID != nil {
		q = q.Where(sq.Eq{"c.sucursal_id": *f.BranchID})
	}
	if f.Date != nil {
		q = q.Where(sq.Eq{"c.fecha": *f.Date})
	}
	if f.Status != nil {
		q = q.Where(sq.Eq{"c.estado": string(*f.Status)})
	}

	if f.Upcoming {
		return q.
			Where(sq.Eq{"c.estado": []string{string(domain.StatusPending), string(domain.StatusConfirmed)}}).
			Where(sq.Or{
				sq.Gt{"c.fecha": f.Today},
				sq.And{sq.Eq{"c.fecha": f.Today}, sq.GtOrEq{"c.hora": f.Now}},
			}).
			OrderBy("c.fecha ASC", "c.hora ASC", "c.id ASC")
	}
	return q.OrderBy("c.fecha DESC", "c.hora DESC", "c.id DESC")
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	filter domain.ListFilter,
) ([]dto.AppointmentListDTO, error) {

	query, args, err := listQuery(filter).ToSql()
	if err != nil {
		return nil, httperr.Store("build list query", err)
	}

	db, cancel := r.conn(ctx)
	defer cancel()

	out := []dto.AppointmentListDTO{}
	if err := db.Raw(query, args...).Scan(&out).Error; err != nil {
		return nil, translate("list citas", err)
	}
	return out, nil
}

type statusDateRow struct {
	Status string
	Date   types.Date
	Count  int64
}

func (r *AppointmentGormRepository) CountByStatusAndDate(
	ctx context.Context,
	clientID *uint,
) ([]domain.StatusDateCount, error) {

	q := sq.Select("estado AS status", "fecha AS date", "COUNT(*) AS count").
		From("cita").
		GroupBy("estado", "fecha").
		OrderBy("fecha")
	if clientID != nil {
		q = q.Where(sq.Eq{"cliente_id": *clientID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, httperr.Store("build statistics query", err)
	}

	db, cancel := r.conn(ctx)
	defer cancel()

	var rows []statusDateRow
	if err := db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, translate("count citas", err)
	}

	out := make([]domain.StatusDateCount, len(rows))
	for i, row := range rows {
		out[i] = domain.StatusDateCount{
			Status: domain.Status(row.Status),
			Date:   row.Date,
			Count:  row.Count,
		}
	}
	return out, nil
}

// --------------------------------------------------
// Appointment (slot)
// --------------------------------------------------

func (r *AppointmentGormRepository) HasActiveAppointmentAt(
	ctx context.Context,
	branchID uint,
	date types.Date,
	at types.Clock,
	excludeID uint,
) (bool, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var count int64
	if err := db.
		Model(&models.Appointment{}).
		Where(
			"sucursal_id = ? AND fecha = ? AND hora = ? AND estado IN ? AND id <> ?",
			branchID, date, at,
			[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
			excludeID,
		).
		Count(&count).Error; err != nil {
		return false, translate("check slot", err)
	}

	return count > 0, nil
}

func (r *AppointmentGormRepository) ListTakenTimes(
	ctx context.Context,
	branchID uint,
	date types.Date,
) ([]types.Clock, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var times []types.Clock
	if err := db.
		Model(&models.Appointment{}).
		Where(
			"sucursal_id = ? AND fecha = ? AND estado IN ?",
			branchID, date,
			[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
		).
		Order("hora ASC").
		Pluck("hora", &times).Error; err != nil {
		return nil, translate("list taken times", err)
	}

	return times, nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return translate("insert cita", db.Create(ap).Error)
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	prev domain.Status,
) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	now := time.Now().UTC()
	res := db.
		Model(&models.Appointment{}).
		Where("id = ? AND estado = ?", ap.ID, string(prev)).
		Updates(map[string]any{
			"fecha":        ap.Date,
			"hora":         ap.Time,
			"sucursal_id":  ap.BranchID,
			"estado":       ap.Status,
			"notas":        ap.Notes,
			"cancelled_at": ap.CancelledAt,
			"completed_at": ap.CompletedAt,
			"updated_at":   now,
		})
	if res.Error != nil {
		return translate("update cita", res.Error)
	}
	if res.RowsAffected == 0 {
		stored, err := r.GetAppointment(ctx, ap.ID)
		if err != nil {
			return err
		}
		return httperr.InvalidTransition(stored.Status, ap.Status)
	}

	ap.UpdatedAt = now
	return nil
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return translate("delete cita", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound("appointment_not_found", "appointment not found")
	}
	return nil
}

func (r *AppointmentGormRepository) LapsePastAppointments(
	ctx context.Context,
	in domain.LapseInput,
) (int64, error) {

	if len(in.From) == 0 {
		return 0, nil
	}

	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.
		Model(&models.Appointment{}).
		Where("estado IN ?", statusStrings(in.From)).
		Where("(fecha < ? OR (fecha = ? AND hora <= ?))", in.Today, in.Today, in.Now).
		Updates(map[string]any{
			"estado":       string(domain.StatusCompleted),
			"completed_at": in.CompletedAt,
			"updated_at":   in.CompletedAt,
		})
	if res.Error != nil {
		return 0, translate("lapse citas", res.Error)
	}

	return res.RowsAffected, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
