package models

import (
	"time"

	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

// Appointment is a "cita": one pet, one service, one branch, one slot.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date types.Date  `gorm:"column:fecha;type:date;not null" json:"fecha"`
	Time types.Clock `gorm:"column:hora;type:time;not null" json:"hora"`

	Status string `gorm:"column:estado;size:20;not null" json:"estado"`

	ClientID  uint `gorm:"column:cliente_id;not null" json:"cliente_id"`
	PetID     uint `gorm:"column:mascota_id;not null" json:"mascota_id"`
	ServiceID uint `gorm:"column:servicio_id;not null" json:"servicio_id"`
	BranchID  uint `gorm:"column:sucursal_id;not null" json:"sucursal_id"`

	Notes *string `gorm:"column:notas;size:500" json:"notas"`

	CancelledAt *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Appointment) TableName() string { return "cita" }
