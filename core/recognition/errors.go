package recognition

import "fmt"

// ErrorCode is the engine-independent identifier of a recognition failure.
// Engine adapters map their backend's native errors onto these codes; the
// supervisor's classifier decides which codes are recoverable.
type ErrorCode string

const (
	CodeNoMatch          ErrorCode = "no_match"
	CodeSpeechTimeout    ErrorCode = "speech_timeout"
	CodePermissionDenied ErrorCode = "permission_denied"
	CodeClient           ErrorCode = "client"
	CodeRecognizerBusy   ErrorCode = "recognizer_busy"
	CodeNetwork          ErrorCode = "network"
	CodeServer           ErrorCode = "server"
	CodeAudioCapture     ErrorCode = "audio_capture"
	CodeUnknown          ErrorCode = "unknown"
)

// NoSpeechPlaceholder is the placeholder text some engines emit as a final
// result when nothing was recognized. It must never reach the transcript.
const NoSpeechPlaceholder = "no speech detected"

// Error is a typed engine failure terminating the current session.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
