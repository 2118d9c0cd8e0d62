package supervision

import (
	"sync"
	"time"

	events "github.com/gtejasvarma/vani/core/events"
)

const (
	defaultSessionWindow      = 4 * time.Minute
	defaultConversationWindow = 5 * time.Minute
	defaultRestartDelay       = 80 * time.Millisecond
)

type windowDurations struct {
	session      time.Duration
	conversation time.Duration
	restart      time.Duration
}

func defaultWindowDurations() windowDurations {
	return windowDurations{
		session:      defaultSessionWindow,
		conversation: defaultConversationWindow,
		restart:      defaultRestartDelay,
	}
}

// clock abstracts timer scheduling so tests can advance time manually.
type clock interface {
	AfterFunc(d time.Duration, f func()) clockTimer
}

type clockTimer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) clockTimer {
	return time.AfterFunc(d, f)
}

// windowTimer is one independently cancellable countdown window. Arm, Reset
// and Disarm are idempotent; a fire that raced a disarm carries a stale
// generation and is dropped by the consumer.
type windowTimer struct {
	duration time.Duration
	clock    clock
	fire     func(generation uint64)

	mu         sync.Mutex
	timer      clockTimer
	generation uint64
	armed      bool
}

func newWindowTimer(c clock, duration time.Duration, fire func(generation uint64)) *windowTimer {
	return &windowTimer{duration: duration, clock: c, fire: fire}
}

// Arm starts the countdown if it is not already running.
func (w *windowTimer) Arm() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.armed {
		return
	}
	w.scheduleLocked()
}

// Reset restarts the countdown from its full duration.
func (w *windowTimer) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()
	w.scheduleLocked()
}

// Disarm cancels the countdown. Disarming an idle or already-fired window is
// a no-op.
func (w *windowTimer) Disarm() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.armed && w.timer == nil {
		return
	}
	w.stopLocked()
	// Invalidate fires already in flight.
	w.generation++
}

// isCurrent reports whether a fire generation has not been invalidated by a
// later arm, reset or disarm.
func (w *windowTimer) isCurrent(generation uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return generation == w.generation
}

func (w *windowTimer) scheduleLocked() {
	w.generation++
	generation := w.generation
	w.armed = true
	w.timer = w.clock.AfterFunc(w.duration, func() {
		w.mu.Lock()
		if generation != w.generation {
			w.mu.Unlock()
			return
		}
		// The window has fired; it may be armed again.
		w.armed = false
		w.timer = nil
		w.mu.Unlock()

		w.fire(generation)
	})
}

func (w *windowTimer) stopLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.armed = false
}

// timerSet owns the three supervision windows. Fires never mutate supervisor
// state directly; each posts a single event into the serialized queue.
type timerSet struct {
	session      *windowTimer
	conversation *windowTimer
	restart      *windowTimer
}

func newTimerSet(c clock, windows windowDurations, emit eventEmitter) *timerSet {
	return &timerSet{
		session: newWindowTimer(c, windows.session, func(generation uint64) {
			emit(events.NewSessionWindowExpired(generation))
		}),
		conversation: newWindowTimer(c, windows.conversation, func(generation uint64) {
			emit(events.NewConversationWindowExpired(generation))
		}),
		restart: newWindowTimer(c, windows.restart, func(generation uint64) {
			emit(events.NewRestartDue(generation))
		}),
	}
}

func (t *timerSet) DisarmAll() {
	t.session.Disarm()
	t.conversation.Disarm()
	t.restart.Disarm()
}
