package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Event struct {
	Actor    string
	ActorID  *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

const (
	ActionAppointmentCreated       = "appointment_created"
	ActionAppointmentStatusChanged = "appointment_status_changed"
	ActionAppointmentRescheduled   = "appointment_rescheduled"
	ActionAppointmentDeleted       = "appointment_deleted"
	ActionAppointmentsLapsed       = "appointments_lapsed"

	EntityAppointment = "cita"
)

// Sink persists audit events.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

// Dispatcher writes events on a background worker so that auditing never
// blocks or fails an API call.
type Dispatcher struct {
	sink  Sink
	log   *zap.Logger
	queue chan Event
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sink Sink, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.sink.Write(ctx, ev); err != nil {
			d.log.Warn("audit write failed",
				zap.String("action", ev.Action),
				zap.Error(err),
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		// queue full: drop the event rather than slow the request
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}
