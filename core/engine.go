package supervision

import (
	"context"
	"fmt"
	"time"

	events "github.com/gtejasvarma/vani/core/events"
	"github.com/gtejasvarma/vani/core/recognition"
)

// recognitionEngine is the facade around the configured engine adapter. It
// owns the adapter exclusively and bridges its callbacks into the
// supervisor's serialized event queue.
type recognitionEngine struct {
	client RecognitionEngine

	emitEvent eventEmitter
}

func newRecognitionEngine(client RecognitionEngine) *recognitionEngine {
	return &recognitionEngine{
		client:    client,
		emitEvent: noopEventEmitter,
	}
}

func (e *recognitionEngine) set(client RecognitionEngine) {
	if e != nil {
		e.client = client
	}
}

func (e *recognitionEngine) start(ctx context.Context, language string, silenceTimeout time.Duration) error {
	if !e.isConfigured() {
		return fmt.Errorf("no recognition engine configured")
	}

	sessionOptions := []recognition.SessionOption{
		recognition.WithLanguage(language),
		recognition.WithSilenceTimeout(silenceTimeout),
		recognition.WithReadyCallback(e.invokeReady),
		recognition.WithSpeechStartedCallback(e.invokeSpeechStarted),
		recognition.WithSpeechEndedCallback(e.invokeSpeechEnded),
		recognition.WithPartialCallback(e.invokePartial),
		recognition.WithFinalCallback(e.invokeFinal),
		recognition.WithVolumeCallback(e.invokeVolume),
		recognition.WithErrorCallback(e.invokeError),
	}

	if err := e.client.Start(ctx, sessionOptions...); err != nil {
		return fmt.Errorf("failed to start recognition: %w", err)
	}

	return nil
}

func (e *recognitionEngine) stop() error {
	if !e.isConfigured() {
		return nil
	}

	if err := e.client.Stop(); err != nil {
		return fmt.Errorf("failed to stop recognition: %w", err)
	}

	return nil
}

func (e *recognitionEngine) setEventEmitter(emitEvent eventEmitter) {
	if e != nil {
		if emitEvent != nil {
			e.emitEvent = emitEvent
		} else {
			e.emitEvent = noopEventEmitter
		}
	}
}

func (e *recognitionEngine) isConfigured() bool {
	return e != nil && e.client != nil
}

func (e *recognitionEngine) invokeReady() {
	e.emitEvent(events.NewEngineReady())
}

func (e *recognitionEngine) invokeSpeechStarted() {
	e.emitEvent(events.NewEngineSpeechStarted())
}

func (e *recognitionEngine) invokeSpeechEnded() {
	e.emitEvent(events.NewEngineSpeechEnded())
}

func (e *recognitionEngine) invokePartial(text string) {
	e.emitEvent(events.NewEnginePartialTranscript(text))
}

func (e *recognitionEngine) invokeFinal(text string) {
	e.emitEvent(events.NewEngineFinalTranscript(text))
}

func (e *recognitionEngine) invokeVolume(level float64) {
	e.emitEvent(events.NewEngineVolumeChanged(level))
}

func (e *recognitionEngine) invokeError(err recognition.Error) {
	e.emitEvent(events.NewEngineFailed(err.Code, err.Message))
}
