package supervision

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gtejasvarma/vani/core/recognition"
	"github.com/gtejasvarma/vani/core/transcript"
)

type supervisorHarness struct {
	engine     *engineStub
	store      *transcript.Store
	clock      *manualClock
	supervisor *Supervisor
}

func newSupervisorHarness(t *testing.T, opts ...SupervisorOption) *supervisorHarness {
	t.Helper()

	harness := &supervisorHarness{
		engine: &engineStub{},
		store:  transcript.NewStore(),
		clock:  newManualClock(),
	}

	baseOpts := []SupervisorOption{
		WithRecognitionEngine(harness.engine),
		WithTranscriptSink(harness.store),
		withClock(harness.clock),
	}
	harness.supervisor = NewSupervisor(append(baseOpts, opts...)...)

	ctx, cancel := context.WithCancel(context.Background())
	harness.supervisor.Supervise(ctx)
	t.Cleanup(func() {
		cancel()
		harness.supervisor.Close()
	})

	return harness
}

func (h *supervisorHarness) startListening(t *testing.T) {
	t.Helper()

	h.supervisor.TapMic()
	waitForCondition(t, 2*time.Second, "engine start", func() bool {
		starts, _ := h.engine.counts()
		return starts == 1
	})
	h.engine.emitReady()
	waitForCondition(t, 2*time.Second, "listening state", func() bool {
		return h.supervisor.Snapshot().IsListening
	})
}

func (h *supervisorHarness) lineTexts() []string {
	texts := []string{}
	for _, line := range h.store.Lines() {
		texts = append(texts, line.Text)
	}
	return texts
}

func waitForCondition(t *testing.T, timeout time.Duration, description string, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", description)
}

func TestHappyPathTranscribesAndKeepsListening(t *testing.T) {
	harness := newSupervisorHarness(t)
	harness.startListening(t)

	harness.engine.emitSpeechStarted()
	harness.engine.emitFinal("hello")

	waitForCondition(t, 2*time.Second, "transcribed line", func() bool {
		lines := harness.lineTexts()
		return len(lines) == 1 && lines[0] == "hello"
	})

	// No user action: a restart is pending, the mic never drops.
	if snapshot := harness.supervisor.Snapshot(); snapshot.MicState != MicListening {
		t.Fatalf("expected mic to stay listening through the restart, got %q", snapshot.MicState)
	}

	harness.clock.Advance(defaultRestartDelay)
	waitForCondition(t, 2*time.Second, "segment restart", func() bool {
		starts, _ := harness.engine.counts()
		return starts == 2
	})

	if lines := harness.lineTexts(); len(lines) != 1 {
		t.Fatalf("expected the restart to append nothing, got %v", lines)
	}
}

func TestRecoverableErrorRestartsSilently(t *testing.T) {
	harness := newSupervisorHarness(t)
	harness.startListening(t)

	harness.engine.emitError(recognition.CodeSpeechTimeout, "no speech input")

	harness.clock.Advance(defaultRestartDelay)
	waitForCondition(t, 2*time.Second, "exactly one restart", func() bool {
		starts, _ := harness.engine.counts()
		return starts == 2
	})

	if lines := harness.lineTexts(); len(lines) != 0 {
		t.Fatalf("expected recoverable errors to stay off the transcript, got %v", lines)
	}
	if snapshot := harness.supervisor.Snapshot(); snapshot.MicState != MicListening {
		t.Fatalf("expected mic to stay listening, got %q", snapshot.MicState)
	}
}

func TestRepeatedRecoverableErrorsNeverIdle(t *testing.T) {
	harness := newSupervisorHarness(t)
	harness.startListening(t)

	for round := 2; round <= 4; round++ {
		harness.engine.emitError(recognition.CodeNoMatch, "")
		harness.clock.Advance(defaultRestartDelay)
		waitForCondition(t, 2*time.Second, "restart after recoverable error", func() bool {
			starts, _ := harness.engine.counts()
			return starts == round
		})
	}

	if snapshot := harness.supervisor.Snapshot(); snapshot.MicState != MicListening {
		t.Fatalf("expected mic to survive every recoverable error, got %q", snapshot.MicState)
	}
	if lines := harness.lineTexts(); len(lines) != 0 {
		t.Fatalf("expected no error lines, got %v", lines)
	}
}

func TestFatalErrorSurfacesOnceAndIdles(t *testing.T) {
	harness := newSupervisorHarness(t)
	harness.startListening(t)

	harness.engine.emitError(recognition.CodePermissionDenied, "insufficient permissions")

	waitForCondition(t, 2*time.Second, "idle mic after fatal error", func() bool {
		return harness.supervisor.Snapshot().MicState == MicIdle
	})

	lines := harness.lineTexts()
	if len(lines) != 1 {
		t.Fatalf("expected exactly one error line, got %v", lines)
	}
	if !strings.Contains(lines[0], "insufficient permissions") || !strings.HasPrefix(lines[0], "❌ Error:") {
		t.Fatalf("expected a surfaced error line, got %q", lines[0])
	}

	// A fresh tap starts a fresh segment.
	harness.supervisor.TapMic()
	waitForCondition(t, 2*time.Second, "fresh segment after fatal error", func() bool {
		starts, _ := harness.engine.counts()
		return starts == 2
	})
}

func TestExplicitStopMidListening(t *testing.T) {
	harness := newSupervisorHarness(t)
	harness.startListening(t)

	harness.supervisor.TapMic()

	waitForCondition(t, 2*time.Second, "idle mic after stop", func() bool {
		return harness.supervisor.Snapshot().MicState == MicIdle
	})

	if _, stops := harness.engine.counts(); stops != 1 {
		t.Fatalf("expected exactly one engine stop, got %d", stops)
	}
	if lines := harness.lineTexts(); len(lines) != 0 {
		t.Fatalf("expected no transcript lines, got %v", lines)
	}
}

func TestStopWhileIdleIsNoOp(t *testing.T) {
	harness := newSupervisorHarness(t)
	harness.startListening(t)

	harness.supervisor.Stop()
	waitForCondition(t, 2*time.Second, "idle mic after stop", func() bool {
		return harness.supervisor.Snapshot().MicState == MicIdle
	})
	_, stopsAfterFirst := harness.engine.counts()

	harness.supervisor.Stop()

	// The queue is processed in order, so once the tap below starts a new
	// segment the second stop has already been handled.
	harness.supervisor.TapMic()
	waitForCondition(t, 2*time.Second, "segment after redundant stop", func() bool {
		starts, _ := harness.engine.counts()
		return starts == 2
	})

	if _, stops := harness.engine.counts(); stops != stopsAfterFirst {
		t.Fatalf("expected the redundant stop to touch nothing, got %d stops after %d", stops, stopsAfterFirst)
	}
}

func TestSessionWindowExpiryForcesExactlyOneRestart(t *testing.T) {
	harness := newSupervisorHarness(t)
	harness.startListening(t)

	harness.clock.Advance(defaultSessionWindow)

	waitForCondition(t, 2*time.Second, "forced engine stop", func() bool {
		_, stops := harness.engine.counts()
		return stops == 1
	})

	harness.clock.Advance(defaultRestartDelay)
	waitForCondition(t, 2*time.Second, "forced restart", func() bool {
		starts, _ := harness.engine.counts()
		return starts == 2
	})

	starts, stops := harness.engine.counts()
	if starts != 2 || stops != 1 {
		t.Fatalf("expected exactly one stop and one restart, got %d starts and %d stops", starts, stops)
	}
	if lines := harness.lineTexts(); len(lines) != 0 {
		t.Fatalf("expected the forced restart to surface nothing, got %v", lines)
	}
	if snapshot := harness.supervisor.Snapshot(); snapshot.MicState != MicListening {
		t.Fatalf("expected mic to stay listening through the forced restart, got %q", snapshot.MicState)
	}
}

func TestSpeechActivityDefersSessionWindow(t *testing.T) {
	harness := newSupervisorHarness(t)
	harness.startListening(t)

	harness.clock.Advance(defaultSessionWindow - time.Second)
	harness.engine.emitSpeechStarted()

	// The queue is processed in order, so once the volume update lands in the
	// snapshot the speech start, and its timer reset, have been handled.
	harness.engine.emitVolume(0.5)
	waitForCondition(t, 2*time.Second, "speech start processed", func() bool {
		return harness.supervisor.Snapshot().VolumeLevel == 0.5
	})

	harness.clock.Advance(2 * time.Second)

	if _, stops := harness.engine.counts(); stops != 0 {
		t.Fatalf("expected speech activity to defer the forced restart, got %d stops", stops)
	}
	if snapshot := harness.supervisor.Snapshot(); snapshot.MicState != MicListening {
		t.Fatalf("expected mic to stay listening past the original deadline, got %q", snapshot.MicState)
	}
}

func TestConversationExpiryWinsOverPendingRestart(t *testing.T) {
	harness := newSupervisorHarness(t)
	harness.startListening(t)

	harness.engine.emitFinal("hello")
	waitForCondition(t, 2*time.Second, "transcribed line", func() bool {
		return len(harness.lineTexts()) == 1
	})

	// Both the pending restart and the conversation window fire in the same
	// advance; the conversation expiry must leave the supervisor idle with
	// the engine stopped regardless of processing order.
	harness.clock.Advance(defaultConversationWindow)

	waitForCondition(t, 2*time.Second, "idle mic after conversation expiry", func() bool {
		return harness.supervisor.Snapshot().MicState == MicIdle
	})

	if _, stops := harness.engine.counts(); stops == 0 {
		t.Fatalf("expected the engine to be stopped")
	}
}

func TestConversationExpiryWhileListeningStopsEverything(t *testing.T) {
	harness := newSupervisorHarness(t)
	harness.startListening(t)

	harness.clock.Advance(defaultConversationWindow)

	waitForCondition(t, 2*time.Second, "idle mic after inactivity", func() bool {
		return harness.supervisor.Snapshot().MicState == MicIdle
	})

	if lines := harness.lineTexts(); len(lines) != 0 {
		t.Fatalf("expected inactivity expiry to surface nothing, got %v", lines)
	}
}

func TestFinalPlaceholderIsFilteredButStillRestarts(t *testing.T) {
	harness := newSupervisorHarness(t)
	harness.startListening(t)

	harness.engine.emitFinal(recognition.NoSpeechPlaceholder)

	harness.clock.Advance(defaultRestartDelay)
	waitForCondition(t, 2*time.Second, "restart after placeholder final", func() bool {
		starts, _ := harness.engine.counts()
		return starts == 2
	})

	if lines := harness.lineTexts(); len(lines) != 0 {
		t.Fatalf("expected the placeholder to stay off the transcript, got %v", lines)
	}
}

func TestEngineUnavailableSurfacesImmediately(t *testing.T) {
	harness := newSupervisorHarness(t)
	harness.engine.mu.Lock()
	harness.engine.startErr = errors.New("no backend")
	harness.engine.mu.Unlock()

	harness.supervisor.TapMic()

	waitForCondition(t, 2*time.Second, "surfaced unavailable error", func() bool {
		lines := harness.lineTexts()
		return len(lines) == 1 && strings.Contains(lines[0], "recognition engine unavailable")
	})

	if snapshot := harness.supervisor.Snapshot(); snapshot.MicState != MicIdle {
		t.Fatalf("expected mic to stay idle when the engine cannot start, got %q", snapshot.MicState)
	}
}

func TestClearTranscriptStopsSegmentAndClears(t *testing.T) {
	harness := newSupervisorHarness(t)
	harness.startListening(t)

	harness.engine.emitFinal("hello")
	waitForCondition(t, 2*time.Second, "transcribed line", func() bool {
		return len(harness.lineTexts()) == 1
	})

	harness.supervisor.ClearTranscript()

	waitForCondition(t, 2*time.Second, "cleared transcript", func() bool {
		return len(harness.lineTexts()) == 0
	})
	if snapshot := harness.supervisor.Snapshot(); snapshot.MicState != MicIdle {
		t.Fatalf("expected clearing to stop the segment, got %q", snapshot.MicState)
	}
}

func TestVolumeUpdatesReachSnapshotWhileListening(t *testing.T) {
	harness := newSupervisorHarness(t)
	harness.startListening(t)

	harness.engine.emitVolume(0.7)

	waitForCondition(t, 2*time.Second, "volume in snapshot", func() bool {
		return harness.supervisor.Snapshot().VolumeLevel == 0.7
	})

	harness.supervisor.TapMic()
	waitForCondition(t, 2*time.Second, "volume reset on stop", func() bool {
		return harness.supervisor.Snapshot().VolumeLevel == 0
	})
}

func TestSettingsSourceIsReadAtConversationStart(t *testing.T) {
	source := settingsSourceStub{language: "hr-HR", silenceTimeout: 3 * time.Second}
	harness := newSupervisorHarness(t, WithSettingsSource(source))

	harness.supervisor.TapMic()
	waitForCondition(t, 2*time.Second, "engine start", func() bool {
		starts, _ := harness.engine.counts()
		return starts == 1
	})

	session := harness.engine.session()
	if session.Language != "hr-HR" {
		t.Fatalf("expected configured language, got %q", session.Language)
	}
	if session.SilenceTimeout != 3*time.Second {
		t.Fatalf("expected configured silence timeout, got %v", session.SilenceTimeout)
	}
}

func TestCloseBeforeSuperviseMarksClosed(t *testing.T) {
	s := NewSupervisor()
	s.Close()

	if !s.runtime.isClosed() {
		t.Fatalf("expected supervisor to be closed")
	}

	s.Supervise(context.Background())
	if !s.runtime.isClosed() {
		t.Fatalf("expected supervisor to stay closed")
	}
}

type settingsSourceStub struct {
	language       string
	silenceTimeout time.Duration
}

func (stub settingsSourceStub) RecognitionSettings() (string, time.Duration) {
	return stub.language, stub.silenceTimeout
}
