package models

import "time"

// Service is a bookable "servicio" (bath, grooming, consultation...).
type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string  `gorm:"column:nombre;size:100;not null" json:"nombre"`
	Description string  `gorm:"column:descripcion;size:255" json:"descripcion"`
	Price       float64 `gorm:"column:precio" json:"precio"`
	DurationMin int     `gorm:"column:duracion_min;not null" json:"duracion_min"`
	Active      bool    `gorm:"column:activo;not null" json:"activo"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Service) TableName() string { return "servicio" }
