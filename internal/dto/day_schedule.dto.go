package dto

import "github.com/BruksfildServices01/mascotico-api/internal/types"

// DayScheduleDTO is the effective opening of one branch on one date and
// the start times still free.
type DayScheduleDTO struct {
	BranchID uint          `json:"sucursal_id"`
	Date     types.Date    `json:"fecha"`
	Open     bool          `json:"abierto"`
	Reason   string        `json:"reason,omitempty"`
	Rule     string        `json:"regla,omitempty"`
	Start    *types.Clock  `json:"hora_inicio,omitempty"`
	End      *types.Clock  `json:"hora_fin,omitempty"`
	Step     int           `json:"intervalo_min"`
	Slots    []types.Clock `json:"horarios_libres"`
}
