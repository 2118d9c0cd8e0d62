// Package recognition defines the contract between the session supervisor and
// recognition engine implementations.
package recognition

import (
	"time"

	"github.com/gtejasvarma/vani/core/audio"
)

const (
	// DefaultLanguage is the recognition locale used when none is configured.
	DefaultLanguage = "en-US"
	// DefaultSilenceTimeout is how long the engine waits during silence
	// before emitting a final result for the current segment.
	DefaultSilenceTimeout = 2 * time.Second
)

type SessionOptions struct {
	Language       string
	SilenceTimeout time.Duration
	EncodingInfo   audio.EncodingInfo

	ReadyCallback         func()
	SpeechStartedCallback func()
	SpeechEndedCallback   func()
	PartialCallback       func(text string)
	FinalCallback         func(text string)
	VolumeCallback        func(level float64)
	ErrorCallback         func(err Error)
}

type SessionOption func(*SessionOptions)

func WithLanguage(language string) SessionOption {
	return func(o *SessionOptions) {
		o.Language = language
	}
}

func WithSilenceTimeout(timeout time.Duration) SessionOption {
	return func(o *SessionOptions) {
		o.SilenceTimeout = timeout
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SessionOption {
	return func(o *SessionOptions) {
		o.EncodingInfo = encodingInfo
	}
}

// WithReadyCallback registers a callback invoked once the engine has accepted
// the start request and is consuming audio. The supervisor will not issue a
// second start before this, a final result, or an error arrives.
func WithReadyCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.ReadyCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithSpeechEndedCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.SpeechEndedCallback = callback
	}
}

func WithPartialCallback(callback func(text string)) SessionOption {
	return func(o *SessionOptions) {
		o.PartialCallback = callback
	}
}

// WithFinalCallback registers a callback for the terminal text of a segment.
// An engine emits at most one terminal callback (final or error) per session.
func WithFinalCallback(callback func(text string)) SessionOption {
	return func(o *SessionOptions) {
		o.FinalCallback = callback
	}
}

func WithVolumeCallback(callback func(level float64)) SessionOption {
	return func(o *SessionOptions) {
		o.VolumeCallback = callback
	}
}

func WithErrorCallback(callback func(err Error)) SessionOption {
	return func(o *SessionOptions) {
		o.ErrorCallback = callback
	}
}
