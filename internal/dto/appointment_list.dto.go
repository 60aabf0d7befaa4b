package dto

import (
	"time"

	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

// AppointmentListDTO is an appointment joined with the display attributes
// of its client, pet, service and branch.
type AppointmentListDTO struct {
	ID     uint        `json:"id"`
	Date   types.Date  `json:"fecha"`
	Time   types.Clock `json:"hora"`
	Status string      `json:"estado"`
	Notes  *string     `json:"notas"`

	ClientID   uint   `json:"cliente_id"`
	ClientName string `json:"cliente_nombre"`

	PetID      uint   `json:"mascota_id"`
	PetName    string `json:"mascota_nombre"`
	PetSpecies string `json:"mascota_especie"`

	ServiceID    uint    `json:"servicio_id"`
	ServiceName  string  `json:"servicio_nombre"`
	ServicePrice float64 `json:"servicio_precio"`

	BranchID   uint   `json:"sucursal_id"`
	BranchName string `json:"sucursal_nombre"`

	CreatedAt time.Time `json:"created_at"`
}
