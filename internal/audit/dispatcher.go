package audit

import (
	"context"
	"log/slog"
	"sync"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Sink persists a single event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher writes audit events in the background. API calls never wait on
// or fail because of the audit trail.
type Dispatcher struct {
	sink    Sink
	queue   chan Event
	dropped func()

	once sync.Once
	done chan struct{}
}

func NewDispatcher(sink Sink, dropped func()) *Dispatcher {
	d := &Dispatcher{
		sink:    sink,
		queue:   make(chan Event, 100),
		dropped: dropped,
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			slog.Error("audit write failed", "action", ev.Action, "err", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		// queue full: drop the event
		slog.Warn("audit queue full, dropping event", "action", ev.Action)
		if d.dropped != nil {
			d.dropped()
		}
	}
}

// Close stops accepting events and waits for the queue to drain.
// Dispatch must not be called after Close.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.queue) })
	<-d.done
}
