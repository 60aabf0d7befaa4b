package dto

type MonthCountDTO struct {
	Month string `json:"mes"`
	Count int64  `json:"total"`
}

type PeriodCountsDTO struct {
	Past     int64 `json:"pasadas"`
	Today    int64 `json:"hoy"`
	Upcoming int64 `json:"proximas"`
}

type AppointmentStatsDTO struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"por_estado"`
	ByPeriod PeriodCountsDTO  `json:"por_periodo"`
	ByMonth  []MonthCountDTO  `json:"por_mes"`
}
