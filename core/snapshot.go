package supervision

import (
	"time"

	"github.com/google/uuid"
	"github.com/gtejasvarma/vani/core/transcript"
)

// State is the supervisor's internal machine state. Idle is both the initial
// and the resting state after any stop.
type State string

const (
	StateIdle            State = "idle"
	StateStarting        State = "starting"
	StateListening       State = "listening"
	StateAwaitingRestart State = "awaiting_restart"
	StateStopping        State = "stopping"
)

// MicState drives the externally visible mic toggle. It stays Listening
// through restarts so the control never flickers between segments.
type MicState string

const (
	MicIdle      MicState = "idle"
	MicListening MicState = "listening"
)

// Snapshot is the observable UI projection, rebuilt on every processed event.
type Snapshot struct {
	Lines       []transcript.Line
	MicState    MicState
	IsListening bool
	IsConnected bool
	VolumeLevel float64
}

// segment is one start-to-termination cycle of the engine.
type segment struct {
	id             string
	language       string
	silenceTimeout time.Duration
	startedAt      time.Time
}

func newSegment(language string, silenceTimeout time.Duration) *segment {
	return &segment{
		id:             uuid.NewString(),
		language:       language,
		silenceTimeout: silenceTimeout,
		startedAt:      time.Now(),
	}
}

// machine carries the supervisor state owned exclusively by the event loop.
type machine struct {
	state      State
	micState   MicState
	conversing bool
	segment    *segment
	volume     float64

	// language and silenceTimeout are fixed for the whole conversation,
	// read from settings when it begins.
	language       string
	silenceTimeout time.Duration
}

func newMachine() machine {
	return machine{state: StateIdle, micState: MicIdle}
}

func (s *Supervisor) buildSnapshot() Snapshot {
	return Snapshot{
		Lines:       s.sink.lines(),
		MicState:    s.machine.micState,
		IsListening: s.machine.state == StateListening,
		IsConnected: s.connectivity.isConnected(),
		VolumeLevel: s.machine.volume,
	}
}

func (s *Supervisor) publishSnapshot() {
	snapshot := s.buildSnapshot()
	s.snapshot.Store(&snapshot)

	if s.superviseOptions.onSnapshot != nil {
		s.superviseOptions.onSnapshot(snapshot)
	}
}
