package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *recordingSink) Write(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("sink down")
	}
	s.events = append(s.events, ev)
	return nil
}

func TestDispatcherDeliversBeforeClose(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, nil)

	id := uint(7)
	for i := 0; i < 10; i++ {
		d.Dispatch(Event{Actor: "admin", Action: ActionAppointmentCreated, Entity: EntityAppointment, EntityID: &id})
	}
	d.Close()

	assert.Len(t, sink.events, 10)
	assert.Equal(t, ActionAppointmentCreated, sink.events[0].Action)
}

func TestDispatcherSurvivesSinkErrorsAndLateEvents(t *testing.T) {
	sink := &recordingSink{fail: true}
	d := NewDispatcher(sink, nil)

	d.Dispatch(Event{Action: ActionAppointmentDeleted})
	d.Close()
	d.Close()

	assert.NotPanics(t, func() { d.Dispatch(Event{Action: ActionAppointmentDeleted}) })
	assert.Empty(t, sink.events)

	var nilDispatcher *Dispatcher
	assert.NotPanics(t, func() { nilDispatcher.Dispatch(Event{}) })
}

func TestToModelEncodesMetadata(t *testing.T) {
	id := uint(3)
	m := ToModel(Event{
		Actor:    "client",
		ActorID:  &id,
		Action:   ActionAppointmentStatusChanged,
		Entity:   EntityAppointment,
		EntityID: &id,
		Metadata: map[string]string{"from": "pendiente", "to": "cancelada"},
	})

	require.NotNil(t, m)
	assert.JSONEq(t, `{"from":"pendiente","to":"cancelada"}`, m.Metadata)
	assert.Equal(t, "client", m.Actor)
}
