// Package supervision keeps a continuous speech-to-text conversation alive on
// top of recognition engines that only support short single-shot sessions.
//
// The Supervisor owns one engine adapter, one transcript sink and three
// countdown windows. It restarts recognition segments seamlessly before the
// engine's own ceilings kill them, retries recoverable failures silently, and
// exposes a single mic toggle to the rest of the application.
package supervision

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	events "github.com/gtejasvarma/vani/core/events"
	"github.com/gtejasvarma/vani/core/recognition"
)

type Supervisor struct {
	closeOnce sync.Once
	runtime   *supervisorRuntime

	// engine is the facade owning the configured engine adapter.
	engine recognitionEngine
	// sink is the facade around the transcript store.
	sink transcriptSink
	// connectivity is read only when projecting snapshots.
	connectivity connectivitySource

	settings   SettingsSource
	classifier ErrorClassifier

	clock   clock
	windows windowDurations
	timers  *timerSet

	// machine is owned exclusively by the event loop goroutine.
	machine machine

	superviseOptions SuperviseOptions
	baseContext      context.Context

	snapshot atomic.Pointer[Snapshot]
}

func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		runtime:     newSupervisorRuntime(),
		classifier:  DefaultErrorClassifier(),
		clock:       systemClock{},
		windows:     defaultWindowDurations(),
		machine:     newMachine(),
		baseContext: context.Background(),
	}
	s.engine = *newRecognitionEngine(nil)
	s.sink = *newTranscriptSink(nil)
	s.connectivity = *newConnectivitySource(nil)

	for _, opt := range opts {
		opt(s)
	}

	emit := func(event events.Event) { s.enqueue(event) }
	s.engine.setEventEmitter(emit)
	s.timers = newTimerSet(s.clock, s.windows, emit)

	initial := s.buildSnapshot()
	s.snapshot.Store(&initial)

	return s
}

// Supervise starts the supervisor's event loop.
//
// ctx is the base context for engine sessions; cancelling it closes the
// supervisor.
//
// Contract: call Supervise at most once per supervisor instance. Repeated or
// concurrent calls are unsupported and may race while callbacks are being
// reconfigured.
func (s *Supervisor) Supervise(ctx context.Context, opts ...SuperviseOption) {
	if s.runtime.isClosed() {
		log.Println("Warning: supervisor already closed, skipping Supervise")
		return
	}

	s.superviseOptions = SuperviseOptions{}
	for _, opt := range opts {
		opt(&s.superviseOptions)
	}

	s.baseContext = ctx

	if started := s.start(); started {
		go func() {
			<-ctx.Done()
			s.Close()
		}()
	}
}

// Close drains the event loop and releases the engine. Idempotent.
func (s *Supervisor) Close() {
	s.closeOnce.Do(func() {
		s.end()
		s.waitUntilEnded()

		s.timers.DisarmAll()
		if err := s.engine.stop(); err != nil {
			logger.Warn("failed to stop recognition engine on close", "error", err)
		}
	})
}

// TapMic toggles conversation mode: starts listening while idle, stops it
// otherwise. It never returns an error; failures surface only through the
// snapshot and the transcript.
func (s *Supervisor) TapMic() {
	s.enqueue(events.NewMicTapped())
}

// Stop ends conversation mode if it is active. Stopping an idle supervisor
// changes nothing.
func (s *Supervisor) Stop() {
	s.enqueue(events.NewStopRequested())
}

// ClearTranscript stops any active segment, then clears the transcript.
func (s *Supervisor) ClearTranscript() {
	s.enqueue(events.NewTranscriptClearRequested())
}

// Snapshot returns the most recently published UI projection.
func (s *Supervisor) Snapshot() Snapshot {
	return *s.snapshot.Load()
}

func (s *Supervisor) recognitionSettings() (language string, silenceTimeout time.Duration) {
	if s.settings != nil {
		return s.settings.RecognitionSettings()
	}

	return recognition.DefaultLanguage, recognition.DefaultSilenceTimeout
}
