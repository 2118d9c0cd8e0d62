package supervision

import (
	"sync"
	"sync/atomic"
	"time"

	events "github.com/gtejasvarma/vani/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const supervisionEventQueueCapacity = 32

type eventQueueItem struct {
	event    events.Event
	queuedAt time.Time
}

// supervisorRuntime serializes everything the supervisor reacts to. Engine
// callbacks, timer fires and user commands originate on foreign goroutines
// but are processed strictly one at a time, in arrival order, which keeps the
// state machine lock-free.
type supervisorRuntime struct {
	queue   chan eventQueueItem
	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once

	started atomic.Bool
}

func newSupervisorRuntime() *supervisorRuntime {
	return &supervisorRuntime{
		queue:   make(chan eventQueueItem, supervisionEventQueueCapacity),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (runtime *supervisorRuntime) isClosed() bool {
	if runtime == nil {
		return false
	}

	select {
	case <-runtime.closeCh:
		return true
	default:
		return false
	}
}

func (s *Supervisor) start() (started bool) {
	runtime := s.runtime
	if runtime == nil || runtime.isClosed() {
		return false
	}

	runtime.startOnce.Do(func() {
		if runtime.isClosed() {
			return
		}

		started = true
		runtime.started.Store(true)
		go func() {
			defer close(runtime.done)

			for {
				select {
				case <-runtime.closeCh:
					return
				case queuedEvent := <-runtime.queue:
					if runtime.isClosed() {
						return
					}
					s.processQueuedEvent(queuedEvent)
				}
			}
		}()
	})

	return started
}

func (s *Supervisor) end() {
	runtime := s.runtime
	if runtime == nil {
		return
	}

	runtime.endOnce.Do(func() {
		close(runtime.closeCh)
	})
}

func (s *Supervisor) waitUntilEnded() {
	runtime := s.runtime
	if runtime == nil {
		return
	}

	if runtime.started.Load() {
		<-runtime.done
	}
}

func (s *Supervisor) enqueue(event events.Event) bool {
	runtime := s.runtime
	if runtime == nil || runtime.isClosed() {
		return false
	}

	queueItem := eventQueueItem{event: event, queuedAt: time.Now()}
	select {
	case <-runtime.closeCh:
		return false
	case runtime.queue <- queueItem:
		return true
	}
}

func (s *Supervisor) processQueuedEvent(queuedEvent eventQueueItem) {
	ctx, span := tracer.Start(s.baseContext, "process supervision event")
	defer span.End()

	queuedTime := time.Since(queuedEvent.queuedAt).Seconds()
	span.SetAttributes(
		attribute.String("supervision.event_kind", string(queuedEvent.event.Kind())),
		attribute.Float64("supervision.queued_time", queuedTime),
	)
	span.AddEvent("taken out of queue", trace.WithAttributes(attribute.Float64("supervision.queued_time", queuedTime)))

	s.apply(ctx, queuedEvent.event)
	span.SetAttributes(attribute.String("supervision.state", string(s.machine.state)))

	s.publishSnapshot()
}
