// Package events defines the typed supervision event contract.
//
// Every input the session supervisor reacts to — user commands, recognition
// engine callbacks, and window-timer fires — is expressed as one of these
// events and funneled through the supervisor's serialized queue.
//
// Event kinds are grouped by origin-facing namespaces:
//
//   - command.*
//   - engine.*
//   - timer.*
//
// command events
//
//   - MicTapped (command.mic_tapped): the user toggled the mic control.
//   - StopRequested (command.stop): explicit stop of conversation mode; a
//     no-op while already idle.
//   - TranscriptClearRequested (command.transcript_clear): the user asked for
//     the transcript to be cleared; any live segment stops first.
//
// engine events
//
//   - EngineReady (engine.ready): the engine accepted the start request and
//     is consuming audio.
//   - EngineSpeechStarted (engine.speech_started): speech activity began.
//   - EngineSpeechEnded (engine.speech_ended): speech activity paused.
//   - EnginePartialTranscript (engine.transcript_partial): mutable interim
//     text for the current segment.
//   - EngineFinalTranscript (engine.transcript_final): terminal text for the
//     current segment; the engine is done after emitting it.
//   - EngineVolumeChanged (engine.volume_changed): input level in [0, 1].
//   - EngineFailed (engine.failed): the engine terminated the current segment
//     with a typed error code.
//
// timer events
//
//   - SessionWindowExpired (timer.session_window_expired): the engine-ceiling
//     window ran out; a forced restart is due.
//   - ConversationWindowExpired (timer.conversation_window_expired): the user
//     inactivity window ran out; conversation mode ends.
//   - RestartDue (timer.restart_due): the short post-terminal restart delay
//     elapsed.
//
// Timer events carry the generation of the timer arming that scheduled them;
// the supervisor drops fires whose generation is no longer current, which
// makes cancellation races inert by construction.
package events
