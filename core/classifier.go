package supervision

import "github.com/gtejasvarma/vani/core/recognition"

// ErrorClass decides how the supervisor reacts to an engine failure:
// recoverable failures auto-restart silently while conversation mode is on,
// fatal failures surface to the transcript and end conversation mode.
type ErrorClass int

const (
	ErrorClassRecoverable ErrorClass = iota
	ErrorClassFatal
)

type Classification struct {
	Class   ErrorClass
	Message string
}

// ErrorClassifier is a pure, table-driven mapping from engine error codes to
// classifications. New engine backends substitute their own table without
// touching the supervisor.
type ErrorClassifier map[recognition.ErrorCode]Classification

func DefaultErrorClassifier() ErrorClassifier {
	return ErrorClassifier{
		recognition.CodeNoMatch:          {Class: ErrorClassRecoverable, Message: "no speech recognized"},
		recognition.CodeSpeechTimeout:    {Class: ErrorClassRecoverable, Message: "no speech input"},
		recognition.CodePermissionDenied: {Class: ErrorClassFatal, Message: "insufficient permissions"},
		recognition.CodeClient:           {Class: ErrorClassFatal, Message: "recognition client error"},
		recognition.CodeRecognizerBusy:   {Class: ErrorClassFatal, Message: "recognizer is busy"},
		recognition.CodeNetwork:          {Class: ErrorClassFatal, Message: "network error"},
		recognition.CodeServer:           {Class: ErrorClassFatal, Message: "recognition server error"},
		recognition.CodeAudioCapture:     {Class: ErrorClassFatal, Message: "audio capture error"},
	}
}

// Classify maps an engine failure to its class and user-facing message. The
// engine's own message wins when present; unknown codes are fatal.
func (c ErrorClassifier) Classify(code recognition.ErrorCode, message string) Classification {
	classification, known := c[code]
	if !known {
		classification = Classification{Class: ErrorClassFatal, Message: "unknown recognition error"}
	}

	if message != "" {
		classification.Message = message
	}

	return classification
}
