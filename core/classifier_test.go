package supervision

import (
	"testing"

	"github.com/gtejasvarma/vani/core/recognition"
)

func TestDefaultClassifierTable(t *testing.T) {
	classifier := DefaultErrorClassifier()

	testCases := []struct {
		name     string
		code     recognition.ErrorCode
		expected ErrorClass
	}{
		{name: "no match is recoverable", code: recognition.CodeNoMatch, expected: ErrorClassRecoverable},
		{name: "speech timeout is recoverable", code: recognition.CodeSpeechTimeout, expected: ErrorClassRecoverable},
		{name: "permission denied is fatal", code: recognition.CodePermissionDenied, expected: ErrorClassFatal},
		{name: "client error is fatal", code: recognition.CodeClient, expected: ErrorClassFatal},
		{name: "recognizer busy is fatal", code: recognition.CodeRecognizerBusy, expected: ErrorClassFatal},
		{name: "network error is fatal", code: recognition.CodeNetwork, expected: ErrorClassFatal},
		{name: "server error is fatal", code: recognition.CodeServer, expected: ErrorClassFatal},
		{name: "audio capture error is fatal", code: recognition.CodeAudioCapture, expected: ErrorClassFatal},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			classification := classifier.Classify(testCase.code, "")
			if classification.Class != testCase.expected {
				t.Fatalf("expected class %d for %q, got %d", testCase.expected, testCase.code, classification.Class)
			}
			if classification.Message == "" {
				t.Fatalf("expected a human-readable message for %q", testCase.code)
			}
		})
	}
}

func TestClassifyUnknownCodeIsFatal(t *testing.T) {
	classifier := DefaultErrorClassifier()

	classification := classifier.Classify(recognition.ErrorCode("martian"), "")
	if classification.Class != ErrorClassFatal {
		t.Fatalf("expected unknown codes to classify fatal, got %d", classification.Class)
	}
}

func TestClassifyPrefersEngineMessage(t *testing.T) {
	classifier := DefaultErrorClassifier()

	classification := classifier.Classify(recognition.CodePermissionDenied, "microphone permission was revoked")
	if classification.Message != "microphone permission was revoked" {
		t.Fatalf("expected the engine message to win, got %q", classification.Message)
	}

	fallback := classifier.Classify(recognition.CodePermissionDenied, "")
	if fallback.Message != "insufficient permissions" {
		t.Fatalf("expected the table message as fallback, got %q", fallback.Message)
	}
}

func TestCustomClassifierTableSubstitutes(t *testing.T) {
	classifier := ErrorClassifier{
		recognition.CodeNetwork: {Class: ErrorClassRecoverable, Message: "transient network blip"},
	}

	classification := classifier.Classify(recognition.CodeNetwork, "")
	if classification.Class != ErrorClassRecoverable {
		t.Fatalf("expected substituted table to reclassify network errors, got %d", classification.Class)
	}
}
