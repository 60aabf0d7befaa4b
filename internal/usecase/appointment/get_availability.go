package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/domain/calendar"
	"github.com/BruksfildServices01/mascotico-api/internal/dto"
	"github.com/BruksfildServices01/mascotico-api/internal/timezone"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

// ======================================================
// Single slot
// ======================================================

type CheckAvailability struct {
	refs      domain.References
	evaluator *calendar.Evaluator
}

func NewCheckAvailability(
	refs domain.References,
	evaluator *calendar.Evaluator,
) *CheckAvailability {
	return &CheckAvailability{
		refs:      refs,
		evaluator: evaluator,
	}
}

func (uc *CheckAvailability) Execute(
	ctx context.Context,
	branchID uint,
	date string,
	at string,
) (calendar.Result, error) {

	if err := requireID("sucursal_id", branchID); err != nil {
		return calendar.Result{}, err
	}
	d, err := parseDate("fecha", date)
	if err != nil {
		return calendar.Result{}, err
	}
	t, err := parseClock("hora", at)
	if err != nil {
		return calendar.Result{}, err
	}

	if _, err := uc.refs.GetBranch(ctx, branchID); err != nil {
		return calendar.Result{}, err
	}

	return uc.evaluator.IsSlotAvailable(ctx, branchID, d, t)
}

// ======================================================
// Whole day
// ======================================================

type GetAvailability struct {
	repo      domain.Repository
	refs      domain.References
	evaluator *calendar.Evaluator
	clock     timezone.Clock
	step      int
}

func NewGetAvailability(
	repo domain.Repository,
	refs domain.References,
	evaluator *calendar.Evaluator,
	clock timezone.Clock,
	step int,
) *GetAvailability {
	if step <= 0 {
		step = 30
	}
	return &GetAvailability{
		repo:      repo,
		refs:      refs,
		evaluator: evaluator,
		clock:     clock,
		step:      step,
	}
}

// Execute returns the day's window and the free start times. With a
// service, slots step by its duration; otherwise by the configured step.
// On the current day, times that already passed are left out.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	branchID uint,
	date string,
	serviceID *uint,
) (*dto.DayScheduleDTO, error) {

	if err := requireID("sucursal_id", branchID); err != nil {
		return nil, err
	}
	d, err := parseDate("fecha", date)
	if err != nil {
		return nil, err
	}

	if _, err := uc.refs.GetBranch(ctx, branchID); err != nil {
		return nil, err
	}

	step := uc.step
	if serviceID != nil && *serviceID != 0 {
		svc, err := uc.refs.GetService(ctx, *serviceID)
		if err != nil {
			return nil, err
		}
		if svc.DurationMin > 0 {
			step = svc.DurationMin
		}
	}

	day, err := uc.evaluator.LoadDay(ctx, branchID, d)
	if err != nil {
		return nil, err
	}

	out := &dto.DayScheduleDTO{
		BranchID: branchID,
		Date:     d,
		Step:     step,
		Slots:    []types.Clock{},
	}

	w, rule, open, reason := day.Window()
	out.Rule = string(rule)
	if !open {
		out.Reason = reason
		return out, nil
	}

	out.Open = true
	out.Start = &w.Start
	out.End = &w.End

	today, now := timezone.Today(uc.clock)
	if d.Before(today) {
		return out, nil
	}
	var skipUntil *types.Clock
	if d.Equal(today) {
		skipUntil = &now
	}

	taken, err := uc.repo.ListTakenTimes(ctx, branchID, d)
	if err != nil {
		return nil, err
	}

	out.Slots = calendar.FreeSlots(w, step, step, taken, skipUntil)
	return out, nil
}
