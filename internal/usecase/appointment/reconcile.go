package appointment

import (
	"context"

	"github.com/BruksfildServices01/mascotico-api/internal/audit"
	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/timezone"
)

type ReconcileResult struct {
	UpdatedCount int64 `json:"updatedCount"`
}

// ReconcilePastAppointments completes every active appointment whose
// moment has already passed. Running it again right away changes nothing.
type ReconcilePastAppointments struct {
	repo  domain.Repository
	clock timezone.Clock
	audit *audit.Dispatcher
}

func NewReconcilePastAppointments(
	repo domain.Repository,
	clock timezone.Clock,
	audit *audit.Dispatcher,
) *ReconcilePastAppointments {
	return &ReconcilePastAppointments{
		repo:  repo,
		clock: clock,
		audit: audit,
	}
}

func (uc *ReconcilePastAppointments) Execute(ctx context.Context) (ReconcileResult, error) {
	now := uc.clock.Now()
	today, at := timezone.Today(uc.clock)

	n, err := uc.repo.LapsePastAppointments(ctx, domain.LapseInput{
		From:        domain.LapsableStatuses(),
		Today:       today,
		Now:         at,
		CompletedAt: now,
	})
	if err != nil {
		return ReconcileResult{}, err
	}

	if n > 0 {
		uc.audit.Dispatch(audit.Event{
			Actor:  string(domain.ActorSystem),
			Action: audit.ActionAppointmentsLapsed,
			Entity: audit.EntityAppointment,
			Metadata: map[string]any{
				"updated_count": n,
				"fecha":         today.String(),
				"hora":          at.String(),
			},
		})
	}

	return ReconcileResult{UpdatedCount: n}, nil
}
