package appointment

import (
	"fmt"

	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pendiente"
	StatusConfirmed Status = "confirmada"
	StatusCompleted Status = "completada"
	StatusCancelled Status = "cancelada"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", httperr.Validation("estado", fmt.Sprintf("unknown status %q", s))
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Active statuses are the ones still holding a slot.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ===============================
// Actors
// ===============================

type Actor string

const (
	ActorClient Actor = "client"
	ActorAdmin  Actor = "admin"
	ActorSystem Actor = "system"
)

func (a Actor) Valid() bool {
	return a == ActorClient || a == ActorAdmin || a == ActorSystem
}

// ===============================
// Transitions
// ===============================

// transitions is the single source of truth for status changes:
// from -> to -> actors allowed to perform it.
var transitions = map[Status]map[Status][]Actor{
	StatusPending: {
		StatusConfirmed: {ActorAdmin},
		StatusCancelled: {ActorClient, ActorAdmin},
		StatusCompleted: {ActorSystem, ActorAdmin},
	},
	StatusConfirmed: {
		StatusCancelled: {ActorAdmin},
		StatusCompleted: {ActorSystem, ActorAdmin},
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether actor may move an appointment from one
// status to another. Requesting the current status is always allowed.
func CanTransition(from, to Status, actor Actor) bool {
	if from == to {
		return from.Valid()
	}
	for _, a := range transitions[from][to] {
		if a == actor {
			return true
		}
	}
	return false
}

// Transition validates a status change and returns an InvalidTransition
// error when the table does not allow it.
func Transition(from, to Status, actor Actor) error {
	if !to.Valid() {
		return httperr.Validation("estado", fmt.Sprintf("unknown status %q", to))
	}
	if !CanTransition(from, to, actor) {
		return httperr.InvalidTransition(string(from), string(to))
	}
	return nil
}

// LapsableStatuses are the statuses the reconciliation job may move to
// completed, derived from the system edges of the transition table.
func LapsableStatuses() []Status {
	var out []Status
	for _, from := range AllStatuses {
		for _, a := range transitions[from][StatusCompleted] {
			if a == ActorSystem {
				out = append(out, from)
				break
			}
		}
	}
	return out
}

// InitialStatus returns the status a new appointment is stored with.
// Clients always book as pending; an admin may book directly as confirmed.
func InitialStatus(requested Status, actor Actor) (Status, error) {
	if requested == "" || requested == StatusPending {
		return StatusPending, nil
	}
	if requested == StatusConfirmed && actor == ActorAdmin {
		return StatusConfirmed, nil
	}
	if !requested.Valid() {
		return "", httperr.Validation("estado", fmt.Sprintf("unknown status %q", requested))
	}
	return "", httperr.InvalidTransition(string(StatusPending), string(requested))
}
