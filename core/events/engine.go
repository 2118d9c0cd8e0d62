package events

import "github.com/gtejasvarma/vani/core/recognition"

const (
	// KindEngineReady identifies acceptance of a start request by the engine.
	KindEngineReady Kind = "engine.ready"
	// KindEngineSpeechStarted identifies start of speech activity.
	KindEngineSpeechStarted Kind = "engine.speech_started"
	// KindEngineSpeechEnded identifies a pause in speech activity.
	KindEngineSpeechEnded Kind = "engine.speech_ended"
	// KindEnginePartialTranscript identifies mutable interim segment text.
	KindEnginePartialTranscript Kind = "engine.transcript_partial"
	// KindEngineFinalTranscript identifies the terminal text of a segment.
	KindEngineFinalTranscript Kind = "engine.transcript_final"
	// KindEngineVolumeChanged identifies input level updates.
	KindEngineVolumeChanged Kind = "engine.volume_changed"
	// KindEngineFailed identifies segment termination with a typed error.
	KindEngineFailed Kind = "engine.failed"
)

// EngineReady marks that the engine accepted the start request.
type EngineReady struct{ Base }

// NewEngineReady creates an engine ready event.
func NewEngineReady() EngineReady {
	return EngineReady{Base: NewBase(KindEngineReady)}
}

// EngineSpeechStarted marks when speech activity starts.
type EngineSpeechStarted struct{ Base }

// NewEngineSpeechStarted creates a speech started event.
func NewEngineSpeechStarted() EngineSpeechStarted {
	return EngineSpeechStarted{Base: NewBase(KindEngineSpeechStarted)}
}

// EngineSpeechEnded marks when speech activity pauses.
type EngineSpeechEnded struct{ Base }

// NewEngineSpeechEnded creates a speech ended event.
func NewEngineSpeechEnded() EngineSpeechEnded {
	return EngineSpeechEnded{Base: NewBase(KindEngineSpeechEnded)}
}

// EnginePartialTranscript carries mutable interim text for the current segment.
type EnginePartialTranscript struct {
	Base
	Text string
}

// NewEnginePartialTranscript creates a partial transcript event.
func NewEnginePartialTranscript(text string) EnginePartialTranscript {
	return EnginePartialTranscript{Base: NewBase(KindEnginePartialTranscript), Text: text}
}

// EngineFinalTranscript carries the terminal text of the current segment.
type EngineFinalTranscript struct {
	Base
	Text string
}

// NewEngineFinalTranscript creates a final transcript event.
func NewEngineFinalTranscript(text string) EngineFinalTranscript {
	return EngineFinalTranscript{Base: NewBase(KindEngineFinalTranscript), Text: text}
}

// EngineVolumeChanged carries the current input level in [0, 1].
type EngineVolumeChanged struct {
	Base
	Level float64
}

// NewEngineVolumeChanged creates a volume changed event.
func NewEngineVolumeChanged(level float64) EngineVolumeChanged {
	return EngineVolumeChanged{Base: NewBase(KindEngineVolumeChanged), Level: level}
}

// EngineFailed marks segment termination with a typed engine error.
type EngineFailed struct {
	Base
	Code    recognition.ErrorCode
	Message string
}

// NewEngineFailed creates an engine failed event.
func NewEngineFailed(code recognition.ErrorCode, message string) EngineFailed {
	return EngineFailed{Base: NewBase(KindEngineFailed), Code: code, Message: message}
}
