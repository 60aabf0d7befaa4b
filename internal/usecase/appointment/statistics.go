package appointment

import (
	"context"
	"sort"

	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/dto"
	"github.com/BruksfildServices01/mascotico-api/internal/timezone"
)

type ComputeStatistics struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewComputeStatistics(
	repo domain.Repository,
	clock timezone.Clock,
) *ComputeStatistics {
	return &ComputeStatistics{
		repo:  repo,
		clock: clock,
	}
}

// Execute counts appointments by status, by period relative to today and
// by month. Clients only ever get their own numbers.
func (uc *ComputeStatistics) Execute(
	ctx context.Context,
	caller Caller,
	clientID *uint,
) (*dto.AppointmentStatsDTO, error) {

	if caller.IsClient() {
		own := caller.ClientID
		clientID = &own
	}

	rows, err := uc.repo.CountByStatusAndDate(ctx, clientID)
	if err != nil {
		return nil, err
	}

	today, _ := timezone.Today(uc.clock)

	out := &dto.AppointmentStatsDTO{
		ByStatus: make(map[string]int64, len(domain.AllStatuses)),
		ByMonth:  []dto.MonthCountDTO{},
	}
	for _, st := range domain.AllStatuses {
		out.ByStatus[string(st)] = 0
	}

	months := map[string]int64{}
	for _, r := range rows {
		out.Total += r.Count
		out.ByStatus[string(r.Status)] += r.Count
		months[r.Date.MonthKey()] += r.Count

		switch {
		case r.Date.Before(today):
			out.ByPeriod.Past += r.Count
		case r.Date.Equal(today):
			out.ByPeriod.Today += r.Count
		default:
			out.ByPeriod.Upcoming += r.Count
		}
	}

	for m, n := range months {
		out.ByMonth = append(out.ByMonth, dto.MonthCountDTO{Month: m, Count: n})
	}
	sort.Slice(out.ByMonth, func(i, j int) bool {
		return out.ByMonth[i].Month < out.ByMonth[j].Month
	})

	return out, nil
}
