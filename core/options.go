package supervision

import (
	"context"
	"time"

	"github.com/gtejasvarma/vani/core/recognition"
	"github.com/gtejasvarma/vani/core/transcript"
)

type SupervisorOption func(*Supervisor)

// RecognitionEngine is the engine adapter contract the supervisor drives. An
// engine emits at most one terminal callback (final or error) per started
// session; Stop is idempotent and safe to call when nothing is running.
type RecognitionEngine interface {
	Start(ctx context.Context, opts ...recognition.SessionOption) error
	Stop() error
}

func WithRecognitionEngine(client RecognitionEngine) SupervisorOption {
	return func(s *Supervisor) {
		s.engine.set(client)
	}
}

// TranscriptSink is the append-only transcript store. Written only by the
// supervisor; observed by anyone.
type TranscriptSink interface {
	Append(line transcript.Line)
	Clear()
	Lines() []transcript.Line
}

func WithTranscriptSink(sink TranscriptSink) SupervisorOption {
	return func(s *Supervisor) {
		s.sink.set(sink)
	}
}

// ConnectivitySource reports whether the recognition backend is reachable.
// Only read when projecting snapshots; never drives transitions.
type ConnectivitySource interface {
	IsConnected() bool
}

func WithConnectivitySource(source ConnectivitySource) SupervisorOption {
	return func(s *Supervisor) {
		s.connectivity.set(source)
	}
}

// SettingsSource supplies the per-segment recognition inputs. It is consulted
// at every conversation start, so persisted-settings edits apply on the next
// mic tap.
type SettingsSource interface {
	RecognitionSettings() (language string, silenceTimeout time.Duration)
}

func WithSettingsSource(source SettingsSource) SupervisorOption {
	return func(s *Supervisor) {
		if source != nil {
			s.settings = source
		}
	}
}

func WithErrorClassifier(classifier ErrorClassifier) SupervisorOption {
	return func(s *Supervisor) {
		if classifier != nil {
			s.classifier = classifier
		}
	}
}

// WithSessionWindow bounds how long a segment run may last before a forced
// restart preempts the engine's own session ceiling.
func WithSessionWindow(duration time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		if duration > 0 {
			s.windows.session = duration
		}
	}
}

// WithConversationWindow bounds total user inactivity before conversation
// mode ends on its own.
func WithConversationWindow(duration time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		if duration > 0 {
			s.windows.conversation = duration
		}
	}
}

// WithRestartDelay sets the short pause between a segment's terminal event
// and the next start call. Back-to-back starts are rejected by engines.
func WithRestartDelay(delay time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		if delay > 0 {
			s.windows.restart = delay
		}
	}
}

func withClock(c clock) SupervisorOption {
	return func(s *Supervisor) {
		if c != nil {
			s.clock = c
		}
	}
}

type SuperviseOptions struct {
	onSnapshot          func(snapshot Snapshot)
	onTranscriptLine    func(line transcript.Line)
	onPartialTranscript func(text string)
}

type SuperviseOption func(*SuperviseOptions)

// WithSnapshotCallback registers a callback invoked with a fresh UI snapshot
// after every processed event. It runs on the supervisor's event loop and
// should not block.
func WithSnapshotCallback(callback func(snapshot Snapshot)) SuperviseOption {
	return func(o *SuperviseOptions) {
		o.onSnapshot = callback
	}
}

// WithTranscriptLineCallback registers a callback for every line the
// supervisor appends, transcribed text and surfaced errors alike.
func WithTranscriptLineCallback(callback func(line transcript.Line)) SuperviseOption {
	return func(o *SuperviseOptions) {
		o.onTranscriptLine = callback
	}
}

// WithPartialTranscriptCallback registers a callback for mutable interim text
// of the current segment. An empty string clears the previous interim text.
func WithPartialTranscriptCallback(callback func(text string)) SuperviseOption {
	return func(o *SuperviseOptions) {
		o.onPartialTranscript = callback
	}
}
