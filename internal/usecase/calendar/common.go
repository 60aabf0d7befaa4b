package calendar

import (
	"fmt"
	"strings"

	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/calendar"
	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

func parseDate(s string) (types.Date, error) {
	if strings.TrimSpace(s) == "" {
		return types.Date{}, httperr.Validation("fecha", "fecha is required")
	}
	d, err := types.ParseDate(s)
	if err != nil {
		return types.Date{}, httperr.Validation("fecha", "fecha must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

func parseClock(field, s string) (types.Clock, error) {
	if strings.TrimSpace(s) == "" {
		return 0, httperr.Validation(field, field+" is required")
	}
	c, err := types.ParseClock(s)
	if err != nil {
		return 0, httperr.Validation(field, field+" must be a time in HH:MM format")
	}
	return c, nil
}

// parseWindow reads and checks an opening window given as two strings.
func parseWindow(start, end string) (domain.Window, error) {
	s, err := parseClock("hora_inicio", start)
	if err != nil {
		return domain.Window{}, err
	}
	e, err := parseClock("hora_fin", end)
	if err != nil {
		return domain.Window{}, err
	}
	if err := domain.ValidateWindow(s, e); err != nil {
		return domain.Window{}, err
	}
	return domain.Window{Start: s, End: e}, nil
}

func rowError(i int, err error) error {
	return fmt.Errorf("row %d: %w", i+1, err)
}
