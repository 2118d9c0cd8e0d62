package supervision

import (
	"context"
	"fmt"
	"math"
	"strings"

	events "github.com/gtejasvarma/vani/core/events"
	"github.com/gtejasvarma/vani/core/recognition"
	"github.com/gtejasvarma/vani/core/transcript"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// apply runs one transition of the state machine. It executes on the event
// loop goroutine only, so machine reads always see the freshest flags — a
// conversation-mode change enqueued before a final result is visible by the
// time the final is processed.
func (s *Supervisor) apply(ctx context.Context, event events.Event) {
	switch typedEvent := event.(type) {
	case events.MicTapped:
		if s.machine.conversing {
			s.stopConversation(ctx)
		} else {
			s.beginConversation(ctx)
		}

	case events.StopRequested:
		if s.machine.conversing || s.machine.state != StateIdle {
			s.stopConversation(ctx)
		}

	case events.TranscriptClearRequested:
		if s.machine.conversing || s.machine.state != StateIdle {
			s.stopConversation(ctx)
		}
		s.sink.clear()

	case events.EngineReady:
		if s.machine.state != StateStarting {
			return
		}
		s.machine.state = StateListening
		s.machine.micState = MicListening
		s.timers.session.Arm()

	case events.EngineSpeechStarted:
		if s.machine.state != StateListening {
			return
		}
		s.timers.session.Reset()

	case events.EngineSpeechEnded:
		if s.machine.state != StateListening {
			return
		}
		s.timers.session.Arm()

	case events.EnginePartialTranscript:
		if s.machine.state != StateStarting && s.machine.state != StateListening {
			return
		}
		s.notifyPartial(typedEvent.Text)

	case events.EngineVolumeChanged:
		if s.machine.state != StateListening {
			return
		}
		s.machine.volume = math.Max(0, math.Min(1, typedEvent.Level))

	case events.EngineFinalTranscript:
		s.handleFinal(ctx, typedEvent.Text)

	case events.EngineFailed:
		s.handleFailure(ctx, typedEvent.Code, typedEvent.Message)

	case events.SessionWindowExpired:
		if !s.timers.session.isCurrent(typedEvent.Generation) {
			return
		}
		s.handleSessionExpiry(ctx)

	case events.ConversationWindowExpired:
		if !s.timers.conversation.isCurrent(typedEvent.Generation) {
			return
		}
		if s.machine.conversing || s.machine.state != StateIdle {
			s.stopConversation(ctx)
		}

	case events.RestartDue:
		if !s.timers.restart.isCurrent(typedEvent.Generation) {
			return
		}
		if s.machine.state != StateAwaitingRestart {
			return
		}
		s.timers.restart.Disarm()
		s.startSegment(ctx)
	}
}

// beginConversation reads the persisted recognition settings and starts the
// first segment. Settings changes apply from the next conversation on.
func (s *Supervisor) beginConversation(ctx context.Context) {
	language, silenceTimeout := s.recognitionSettings()

	s.machine.conversing = true
	s.machine.language = language
	s.machine.silenceTimeout = silenceTimeout
	s.timers.conversation.Reset()

	s.startSegment(ctx)
}

// startSegment issues one engine start. A start that fails outright is the
// engine-unavailable case: surfaced immediately, conversation over.
func (s *Supervisor) startSegment(ctx context.Context) {
	s.machine.state = StateStarting
	s.machine.segment = newSegment(s.machine.language, s.machine.silenceTimeout)

	if err := s.engine.start(s.baseContext, s.machine.language, s.machine.silenceTimeout); err != nil {
		recordedErr := fmt.Errorf("recognition engine unavailable: %w", err)
		span := trace.SpanFromContext(ctx)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())

		s.appendErrorLine(recordedErr.Error())
		s.stopConversation(ctx)
	}
}

// handleFinal destroys the live segment and either schedules the mandatory
// conversation-mode restart or winds the engine down. Empty and placeholder
// results still drive the transition; they just never reach the transcript.
func (s *Supervisor) handleFinal(ctx context.Context, text string) {
	if s.machine.state != StateStarting && s.machine.state != StateListening {
		return
	}

	s.machine.segment = nil
	s.notifyPartial("")

	text = strings.TrimSpace(text)
	if text != "" && !strings.EqualFold(text, recognition.NoSpeechPlaceholder) {
		s.appendLine(text)
	}

	if s.machine.conversing {
		s.timers.conversation.Reset()
		s.timers.session.Disarm()
		s.scheduleRestart()
		return
	}

	s.stopConversation(ctx)
}

func (s *Supervisor) handleFailure(ctx context.Context, code recognition.ErrorCode, message string) {
	if s.machine.state != StateStarting && s.machine.state != StateListening {
		return
	}

	classification := s.classifier.Classify(code, message)

	s.machine.segment = nil
	s.notifyPartial("")

	if classification.Class == ErrorClassRecoverable {
		if s.machine.conversing {
			s.timers.session.Disarm()
			s.scheduleRestart()
			return
		}

		// Recoverable outside conversation mode stays silent.
		s.stopConversation(ctx)
		return
	}

	s.appendErrorLine(classification.Message)
	s.stopConversation(ctx)
}

// handleSessionExpiry forces a segment restart before the engine hits its own
// session ceiling, which would fail unrecoverably instead of stopping clean.
// Nothing is surfaced to the user.
func (s *Supervisor) handleSessionExpiry(ctx context.Context) {
	if s.machine.state != StateListening || !s.machine.conversing {
		return
	}

	if err := s.engine.stop(); err != nil {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	s.machine.segment = nil
	s.timers.session.Disarm()
	s.scheduleRestart()
}

// scheduleRestart parks the machine until the restart delay elapses. The mic
// state is deliberately left alone so the control never flickers between
// segments.
func (s *Supervisor) scheduleRestart() {
	s.machine.state = StateAwaitingRestart
	s.timers.restart.Reset()
}

// stopConversation is the single exit path to Idle: every timer disarmed,
// any scheduled restart invalidated, the engine stopped.
func (s *Supervisor) stopConversation(ctx context.Context) {
	s.machine.state = StateStopping
	s.timers.DisarmAll()

	if err := s.engine.stop(); err != nil {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	s.machine.conversing = false
	s.machine.segment = nil
	s.machine.state = StateIdle
	s.machine.micState = MicIdle
	s.machine.volume = 0
	s.notifyPartial("")
}

func (s *Supervisor) appendLine(text string) {
	line := transcript.NewLine(text)
	s.sink.append(line)

	if s.superviseOptions.onTranscriptLine != nil {
		s.superviseOptions.onTranscriptLine(line)
	}
}

func (s *Supervisor) appendErrorLine(message string) {
	s.appendLine("❌ Error: " + message)
}

func (s *Supervisor) notifyPartial(text string) {
	if s.superviseOptions.onPartialTranscript != nil {
		s.superviseOptions.onPartialTranscript(text)
	}
}
