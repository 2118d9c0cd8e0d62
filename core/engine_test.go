package supervision

import (
	"context"
	"sync"
	"testing"
	"time"

	events "github.com/gtejasvarma/vani/core/events"
	"github.com/gtejasvarma/vani/core/recognition"
)

// engineStub records start/stop calls and lets tests drive the session
// callbacks captured from the most recent start.
type engineStub struct {
	mu         sync.Mutex
	startCalls int
	stopCalls  int
	startErr   error
	options    recognition.SessionOptions
}

func (stub *engineStub) Start(_ context.Context, opts ...recognition.SessionOption) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	stub.startCalls++
	if stub.startErr != nil {
		return stub.startErr
	}

	options := recognition.SessionOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	stub.options = options
	return nil
}

func (stub *engineStub) Stop() error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.stopCalls++
	return nil
}

func (stub *engineStub) counts() (starts, stops int) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return stub.startCalls, stub.stopCalls
}

func (stub *engineStub) session() recognition.SessionOptions {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return stub.options
}

func (stub *engineStub) emitReady()              { stub.session().ReadyCallback() }
func (stub *engineStub) emitSpeechStarted()      { stub.session().SpeechStartedCallback() }
func (stub *engineStub) emitSpeechEnded()        { stub.session().SpeechEndedCallback() }
func (stub *engineStub) emitPartial(text string) { stub.session().PartialCallback(text) }
func (stub *engineStub) emitFinal(text string)   { stub.session().FinalCallback(text) }
func (stub *engineStub) emitVolume(level float64) {
	stub.session().VolumeCallback(level)
}
func (stub *engineStub) emitError(code recognition.ErrorCode, message string) {
	stub.session().ErrorCallback(recognition.Error{Code: code, Message: message})
}

func TestEngineFacadeConfiguresEverySessionCallback(t *testing.T) {
	stub := &engineStub{}
	facade := newRecognitionEngine(stub)

	if err := facade.start(context.Background(), "en-US", 2*time.Second); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	session := stub.session()
	if session.Language != "en-US" {
		t.Fatalf("expected language to pass through, got %q", session.Language)
	}
	if session.SilenceTimeout != 2*time.Second {
		t.Fatalf("expected silence timeout to pass through, got %v", session.SilenceTimeout)
	}
	if session.ReadyCallback == nil || session.SpeechStartedCallback == nil ||
		session.SpeechEndedCallback == nil || session.PartialCallback == nil ||
		session.FinalCallback == nil || session.VolumeCallback == nil ||
		session.ErrorCallback == nil {
		t.Fatalf("expected every session callback to be configured, got %+v", session)
	}
}

func TestEngineFacadeBridgesCallbacksToEvents(t *testing.T) {
	stub := &engineStub{}
	facade := newRecognitionEngine(stub)

	observed := []events.Event{}
	facade.setEventEmitter(func(event events.Event) {
		observed = append(observed, event)
	})

	if err := facade.start(context.Background(), "en-US", time.Second); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	stub.emitReady()
	stub.emitSpeechStarted()
	stub.emitPartial("hel")
	stub.emitVolume(0.4)
	stub.emitSpeechEnded()
	stub.emitFinal("hello")
	stub.emitError(recognition.CodeNetwork, "socket closed")

	expected := []events.Kind{
		events.KindEngineReady,
		events.KindEngineSpeechStarted,
		events.KindEnginePartialTranscript,
		events.KindEngineVolumeChanged,
		events.KindEngineSpeechEnded,
		events.KindEngineFinalTranscript,
		events.KindEngineFailed,
	}

	if len(observed) != len(expected) {
		t.Fatalf("expected %d events, got %d", len(expected), len(observed))
	}
	for i, kind := range expected {
		if observed[i].Kind() != kind {
			t.Fatalf("expected event %d to be %q, got %q", i, kind, observed[i].Kind())
		}
	}

	failed, ok := observed[6].(events.EngineFailed)
	if !ok {
		t.Fatalf("expected a typed engine failed event, got %T", observed[6])
	}
	if failed.Code != recognition.CodeNetwork || failed.Message != "socket closed" {
		t.Fatalf("expected failure payload to pass through, got %+v", failed)
	}
}

func TestEngineFacadeUnconfiguredStartFails(t *testing.T) {
	facade := newRecognitionEngine(nil)

	if err := facade.start(context.Background(), "en-US", time.Second); err == nil {
		t.Fatalf("expected start without a configured engine to fail")
	}

	if err := facade.stop(); err != nil {
		t.Fatalf("expected stop without a configured engine to be a no-op, got %v", err)
	}
}
