package events

const (
	// KindMicTapped identifies a user toggle of the mic control.
	KindMicTapped Kind = "command.mic_tapped"
	// KindStopRequested identifies an explicit stop of conversation mode.
	KindStopRequested Kind = "command.stop"
	// KindTranscriptClearRequested identifies a user request to clear the transcript.
	KindTranscriptClearRequested Kind = "command.transcript_clear"
)

// MicTapped marks a user toggle of the mic control.
type MicTapped struct{ Base }

// NewMicTapped creates a mic tapped event.
func NewMicTapped() MicTapped {
	return MicTapped{Base: NewBase(KindMicTapped)}
}

// StopRequested marks an explicit stop of conversation mode. Unlike MicTapped
// it never starts anything; stopping while already idle is a no-op.
type StopRequested struct{ Base }

// NewStopRequested creates a stop request event.
func NewStopRequested() StopRequested {
	return StopRequested{Base: NewBase(KindStopRequested)}
}

// TranscriptClearRequested marks a user request to clear the transcript.
type TranscriptClearRequested struct{ Base }

// NewTranscriptClearRequested creates a transcript clear request event.
func NewTranscriptClearRequested() TranscriptClearRequested {
	return TranscriptClearRequested{Base: NewBase(KindTranscriptClearRequested)}
}
