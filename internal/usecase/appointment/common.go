package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/models"
	"github.com/BruksfildServices01/mascotico-api/internal/types"
)

// Caller identifies who is acting. ClientID is only meaningful for
// client callers.
type Caller struct {
	Actor    domain.Actor
	ClientID uint
}

func AdminCaller() Caller  { return Caller{Actor: domain.ActorAdmin} }
func SystemCaller() Caller { return Caller{Actor: domain.ActorSystem} }

func ClientCaller(clientID uint) Caller {
	return Caller{Actor: domain.ActorClient, ClientID: clientID}
}

func (c Caller) IsClient() bool {
	return c.Actor == domain.ActorClient
}

// canSee reports whether the caller may read or act on ap. Clients only see
// their own appointments; anything else looks like a missing record.
func (c Caller) canSee(ap *models.Appointment) bool {
	return !c.IsClient() || ap.ClientID == c.ClientID
}

func errAppointmentNotFound() error {
	return httperr.NotFound("appointment_not_found", "appointment not found")
}

// loadFor fetches an appointment and hides it from callers that do not own it.
func loadFor(ctx context.Context, repo domain.Repository, caller Caller, id uint) (*models.Appointment, error) {
	if id == 0 {
		return nil, httperr.Validation("id", "id is required")
	}
	ap, err := repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.canSee(ap) {
		return nil, errAppointmentNotFound()
	}
	return ap, nil
}

// --------------------------------------------------
// Input parsing
// --------------------------------------------------

func parseDate(field, s string) (types.Date, error) {
	if strings.TrimSpace(s) == "" {
		return types.Date{}, httperr.Validation(field, field+" is required")
	}
	d, err := types.ParseDate(s)
	if err != nil {
		return types.Date{}, httperr.Validation(field, field+" must be a date in YYYY-MM-DD format")
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

func requireID(field string, id uint) error {
	if id == 0 {
		return httperr.Validation(field, field+" is required")
	}
	return nil
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func sameNotes(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
