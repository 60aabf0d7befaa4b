package models

import (
	"time"

	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

// OperatingHours is the weekly opening window of a branch for one weekday
// (0 = Sunday ... 6 = Saturday).
type OperatingHours struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BranchID uint `gorm:"column:sucursal_id;not null;uniqueIndex:ux_horario_sucursal_dia" json:"sucursal_id"`
	Weekday  int  `gorm:"column:dia_semana;not null;uniqueIndex:ux_horario_sucursal_dia" json:"dia_semana"`

	Start  types.Clock `gorm:"column:hora_inicio;type:time;not null" json:"hora_inicio"`
	End    types.Clock `gorm:"column:hora_fin;type:time;not null" json:"hora_fin"`
	Active bool        `gorm:"column:activo;not null" json:"activo"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OperatingHours) TableName() string { return "horario_atencion" }

// SpecialHours overrides the weekly window of a branch on one date.
type SpecialHours struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	BranchID uint       `gorm:"column:sucursal_id;not null;uniqueIndex:ux_horario_especial" json:"sucursal_id"`
	Date     types.Date `gorm:"column:fecha;type:date;not null;uniqueIndex:ux_horario_especial" json:"fecha"`

	Start       types.Clock `gorm:"column:hora_inicio;type:time;not null" json:"hora_inicio"`
	End         types.Clock `gorm:"column:hora_fin;type:time;not null" json:"hora_fin"`
	Description string      `gorm:"column:descripcion;size:255" json:"descripcion"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SpecialHours) TableName() string { return "horario_especial" }

// NonWorkingDay closes one branch, or every branch when BranchID is nil.
type NonWorkingDay struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Date        types.Date `gorm:"column:fecha;type:date;not null" json:"fecha"`
	Description string     `gorm:"column:descripcion;size:255" json:"descripcion"`
	BranchID    *uint      `gorm:"column:sucursal_id" json:"sucursal_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (NonWorkingDay) TableName() string { return "dias_no_laborables" }
