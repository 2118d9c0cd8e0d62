package events

import (
	"testing"

	"github.com/gtejasvarma/vani/core/recognition"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "mic tapped", event: NewMicTapped(), expected: KindMicTapped},
		{name: "stop requested", event: NewStopRequested(), expected: KindStopRequested},
		{name: "transcript clear requested", event: NewTranscriptClearRequested(), expected: KindTranscriptClearRequested},
		{name: "engine ready", event: NewEngineReady(), expected: KindEngineReady},
		{name: "engine speech started", event: NewEngineSpeechStarted(), expected: KindEngineSpeechStarted},
		{name: "engine speech ended", event: NewEngineSpeechEnded(), expected: KindEngineSpeechEnded},
		{name: "engine partial transcript", event: NewEnginePartialTranscript("hel"), expected: KindEnginePartialTranscript},
		{name: "engine final transcript", event: NewEngineFinalTranscript("hello"), expected: KindEngineFinalTranscript},
		{name: "engine volume changed", event: NewEngineVolumeChanged(0.5), expected: KindEngineVolumeChanged},
		{name: "engine failed", event: NewEngineFailed(recognition.CodeNoMatch, "no match"), expected: KindEngineFailed},
		{name: "session window expired", event: NewSessionWindowExpired(1), expected: KindSessionWindowExpired},
		{name: "conversation window expired", event: NewConversationWindowExpired(1), expected: KindConversationWindowExpired},
		{name: "restart due", event: NewRestartDue(1), expected: KindRestartDue},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestSpeechStartedAndEndedKindsAreDistinct(t *testing.T) {
	started := NewEngineSpeechStarted()
	ended := NewEngineSpeechEnded()

	if started.Kind() == ended.Kind() {
		t.Fatalf("expected speech started and speech ended kinds to differ, both were %q", started.Kind())
	}
}

func TestTimerEventsCarryGeneration(t *testing.T) {
	if got := NewSessionWindowExpired(7).Generation; got != 7 {
		t.Fatalf("expected session expiry generation 7, got %d", got)
	}
	if got := NewConversationWindowExpired(3).Generation; got != 3 {
		t.Fatalf("expected conversation expiry generation 3, got %d", got)
	}
	if got := NewRestartDue(11).Generation; got != 11 {
		t.Fatalf("expected restart generation 11, got %d", got)
	}
}
