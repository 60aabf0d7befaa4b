package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/models"
)

type ReferenceGormRepository struct {
	base
}

func NewReferenceGormRepository(db *gorm.DB, timeout time.Duration) *ReferenceGormRepository {
	return &ReferenceGormRepository{base: base{db: db, timeout: timeout}}
}

func (r *ReferenceGormRepository) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var c models.Client
	if err := db.First(&c, id).Error; err != nil {
		return nil, notFoundOr("get cliente", err, "client_not_found", "client not found")
	}
	return &c, nil
}

func (r *ReferenceGormRepository) GetPet(ctx context.Context, id uint) (*models.Pet, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var p models.Pet
	if err := db.First(&p, id).Error; err != nil {
		return nil, notFoundOr("get mascota", err, "pet_not_found", "pet not found")
	}
	return &p, nil
}

func (r *ReferenceGormRepository) GetService(ctx context.Context, id uint) (*models.Service, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var s models.Service
	if err := db.First(&s, id).Error; err != nil {
		return nil, notFoundOr("get servicio", err, "service_not_found", "service not found")
	}
	return &s, nil
}

func (r *ReferenceGormRepository) GetBranch(ctx context.Context, id uint) (*models.Branch, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var b models.Branch
	if err := db.First(&b, id).Error; err != nil {
		return nil, notFoundOr("get sucursal", err, "branch_not_found", "branch not found")
	}
	return &b, nil
}

func (r *ReferenceGormRepository) ListBranches(ctx context.Context, activeOnly bool) ([]models.Branch, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	q := db.Order("id ASC")
	if activeOnly {
		q = q.Where("activo = ?", true)
	}

	branches := []models.Branch{}
	if err := q.Find(&branches).Error; err != nil {
		return nil, translate("list sucursales", err)
	}
	return branches, nil
}

func (r *ReferenceGormRepository) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	q := db.Order("nombre ASC")
	if activeOnly {
		q = q.Where("activo = ?", true)
	}

	services := []models.Service{}
	if err := q.Find(&services).Error; err != nil {
		return nil, translate("list servicios", err)
	}
	return services, nil
}

var _ domain.References = (*ReferenceGormRepository)(nil)
