package identity

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/nutritionnest/coaching-api/internal/metrics"
	"github.com/nutritionnest/coaching-api/internal/core/ports"
)

const eventBuffer = 64

// fanout delivers auth events to subscribers through a single worker
// goroutine, so callbacks observe events strictly in sequence order while
// emitters never block on a slow subscriber (up to the channel buffer).
type fanout struct {
	log    zerolog.Logger
	events chan ports.AuthEvent
	done   chan struct{}

	mu          sync.Mutex
	seq         uint64
	nextSubID   int
	subscribers map[int]func(ports.AuthEvent)
}

func newFanout(log zerolog.Logger) *fanout {
	return &fanout{
		log:         log,
		events:      make(chan ports.AuthEvent, eventBuffer),
		done:        make(chan struct{}),
		subscribers: make(map[int]func(ports.AuthEvent)),
	}
}

func (f *fanout) start() {
	go f.run()
}

// stop closes the event channel and waits for the worker to drain it.
func (f *fanout) stop() {
	close(f.events)
	<-f.done
}

func (f *fanout) subscribe(fn func(ports.AuthEvent)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSubID
	f.nextSubID++
	f.subscribers[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subscribers, id)
	}
}

// emit assigns the next sequence number and queues the event for delivery.
func (f *fanout) emit(t ports.AuthEventType, token *ports.SessionToken) {
	f.mu.Lock()
	f.seq++
	ev := ports.AuthEvent{Type: t, Token: token, Seq: f.seq}
	f.mu.Unlock()

	metrics.AuthEventsTotal.WithLabelValues(string(t)).Inc()

	select {
	case f.events <- ev:
	default:
		// Dropping is preferable to blocking a sign-in on a stalled
		// subscriber; the store reconciles through sequence numbers on the
		// next event.
		f.log.Warn().Uint64("seq", ev.Seq).Str("event", string(t)).Msg("auth event buffer full, event dropped")
	}
}

func (f *fanout) run() {
	defer close(f.done)
	for ev := range f.events {
		f.mu.Lock()
		subs := make([]func(ports.AuthEvent), 0, len(f.subscribers))
		for _, fn := range f.subscribers {
			subs = append(subs, fn)
		}
		f.mu.Unlock()

		for _, fn := range subs {
			fn(ev)
		}
	}
}
