package memstore

import (
	"github.com/BruksfildServices01/mascotico-api/internal/models"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

// SeedDefaults loads the same starter data as the SQL seed migration:
// one branch with a weekly schedule and the standard services.
func (s *Store) SeedDefaults(branchID uint) {
	s.AddBranch(models.Branch{ID: branchID, Name: "Sucursal Central", Address: "Zona 10, Ciudad de Guatemala", Active: true})

	for _, svc := range []models.Service{
		{Name: "Baño", Description: "Baño y secado", Price: 100, DurationMin: 60, Active: true},
		{Name: "Corte de pelo", Description: "Corte y arreglo de pelaje", Price: 150, DurationMin: 60, Active: true},
		{Name: "Consulta veterinaria", Description: "Revisión general", Price: 200, DurationMin: 30, Active: true},
		{Name: "Vacunación", Description: "Aplicación de vacunas", Price: 175, DurationMin: 30, Active: true},
	} {
		s.AddService(svc)
	}

	for day := 0; day <= 6; day++ {
		oh := models.OperatingHours{
			BranchID: branchID,
			Weekday:  day,
			Start:    types.NewClock(8, 0),
			End:      types.NewClock(17, 0),
			Active:   day != 0,
		}
		if day == 0 || day == 6 {
			oh.End = types.NewClock(12, 0)
		}
		s.AddOperatingHours(oh)
	}
}
