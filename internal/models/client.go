package models

import "time"

type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"column:nombre;size:100;not null" json:"nombre"`
	Phone string `gorm:"column:telefono;size:20" json:"telefono"`
	Email string `gorm:"column:email;size:100" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string { return "cliente" }

type Pet struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClientID uint `gorm:"column:cliente_id;not null;index" json:"cliente_id"`

	Name    string  `gorm:"column:nombre;size:100;not null" json:"nombre"`
	Species string  `gorm:"column:especie;size:50" json:"especie"`
	Breed   string  `gorm:"column:raza;size:50" json:"raza"`
	Age     int     `gorm:"column:edad" json:"edad"`
	Weight  float64 `gorm:"column:peso" json:"peso"`
	Remarks string  `gorm:"column:observaciones;size:255" json:"observaciones"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Pet) TableName() string { return "mascota" }
