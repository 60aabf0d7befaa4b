package models

import "time"

// Branch is a "sucursal" where appointments take place.
type Branch struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"column:nombre;size:100;not null" json:"nombre"`
	Address string `gorm:"column:direccion;size:255" json:"direccion"`
	Phone   string `gorm:"column:telefono;size:20" json:"telefono"`
	Active  bool   `gorm:"column:activo;not null" json:"activo"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Branch) TableName() string { return "sucursal" }
