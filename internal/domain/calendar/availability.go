package calendar

import (
	"context"

	"github.com/BruksfildServices01/mascotico-api/internal/models"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

const (
	ReasonNonWorkingDay         = "non-working day"
	ReasonOutsideSpecialHours   = "outside special hours"
	ReasonClosedThatDay         = "closed that day"
	ReasonOutsideOperatingHours = "outside operating hours"
)

// Rule names which calendar record decided a day.
type Rule string

const (
	RuleNonWorkingDay  Rule = "dia_no_laborable"
	RuleSpecialHours   Rule = "horario_especial"
	RuleOperatingHours Rule = "horario_atencion"
)

type Result struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// DayCalendar holds the three records that can govern one branch on one
// date. Nil means no record of that kind exists.
type DayCalendar struct {
	NonWorkingDay  *models.NonWorkingDay
	SpecialHours   *models.SpecialHours
	OperatingHours *models.OperatingHours
}

// Window returns the open window for the day and the rule that produced
// it. When the day is closed, open is false and reason says why.
//
// Precedence: a non-working day closes the branch, special hours replace
// the weekly schedule, and the weekly schedule applies otherwise.
func (d DayCalendar) Window() (w Window, rule Rule, open bool, reason string) {
	switch {
	case d.NonWorkingDay != nil:
		return Window{}, RuleNonWorkingDay, false, ReasonNonWorkingDay

	case d.SpecialHours != nil:
		w = Window{Start: d.SpecialHours.Start, End: d.SpecialHours.End}
		if !w.Valid() {
			return w, RuleSpecialHours, false, ReasonOutsideSpecialHours
		}
		return w, RuleSpecialHours, true, ""

	case d.OperatingHours == nil || !d.OperatingHours.Active:
		return Window{}, RuleOperatingHours, false, ReasonClosedThatDay

	default:
		w = Window{Start: d.OperatingHours.Start, End: d.OperatingHours.End}
		if !w.Valid() {
			return w, RuleOperatingHours, false, ReasonOutsideOperatingHours
		}
		return w, RuleOperatingHours, true, ""
	}
}

// Resolve decides whether a time of day is bookable on the given day.
func Resolve(day DayCalendar, at types.Clock) Result {
	w, rule, open, reason := day.Window()
	if !open {
		return Result{Available: false, Reason: reason}
	}
	if !w.Contains(at) {
		if rule == RuleSpecialHours {
			return Result{Available: false, Reason: ReasonOutsideSpecialHours}
		}
		return Result{Available: false, Reason: ReasonOutsideOperatingHours}
	}
	return Result{Available: true}
}

// ======================================================
// Evaluator
// ======================================================

// Reader is the lookup side the evaluator depends on. Each finder returns
// (nil, nil) when no record exists.
type Reader interface {
	FindNonWorkingDay(ctx context.Context, branchID uint, date types.Date) (*models.NonWorkingDay, error)
	FindSpecialHours(ctx context.Context, branchID uint, date types.Date) (*models.SpecialHours, error)
	FindOperatingHours(ctx context.Context, branchID uint, weekday int) (*models.OperatingHours, error)
}

type Evaluator struct {
	reader Reader
}

func NewEvaluator(reader Reader) *Evaluator {
	return &Evaluator{reader: reader}
}

// LoadDay reads the calendar records for a branch and date, stopping at
// the first rule that decides the day.
func (e *Evaluator) LoadDay(ctx context.Context, branchID uint, date types.Date) (DayCalendar, error) {
	var day DayCalendar

	nwd, err := e.reader.FindNonWorkingDay(ctx, branchID, date)
	if err != nil {
		return day, err
	}
	if nwd != nil {
		day.NonWorkingDay = nwd
		return day, nil
	}

	sh, err := e.reader.FindSpecialHours(ctx, branchID, date)
	if err != nil {
		return day, err
	}
	if sh != nil {
		day.SpecialHours = sh
		return day, nil
	}

	oh, err := e.reader.FindOperatingHours(ctx, branchID, int(date.Weekday()))
	if err != nil {
		return day, err
	}
	day.OperatingHours = oh
	return day, nil
}

func (e *Evaluator) IsSlotAvailable(ctx context.Context, branchID uint, date types.Date, at types.Clock) (Result, error) {
	day, err := e.LoadDay(ctx, branchID, date)
	if err != nil {
		return Result{}, err
	}
	return Resolve(day, at), nil
}
