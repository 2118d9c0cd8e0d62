package supervision

import "github.com/gtejasvarma/vani/core/transcript"

// transcriptSink is the nil-safe facade around the configured sink.
type transcriptSink struct {
	sink TranscriptSink
}

func newTranscriptSink(sink TranscriptSink) *transcriptSink {
	return &transcriptSink{sink: sink}
}

func (s *transcriptSink) set(sink TranscriptSink) {
	if s != nil {
		s.sink = sink
	}
}

func (s *transcriptSink) isConfigured() bool {
	return s != nil && s.sink != nil
}

func (s *transcriptSink) append(line transcript.Line) {
	if !s.isConfigured() {
		return
	}

	s.sink.Append(line)
}

func (s *transcriptSink) clear() {
	if !s.isConfigured() {
		return
	}

	s.sink.Clear()
}

func (s *transcriptSink) lines() []transcript.Line {
	if !s.isConfigured() {
		return nil
	}

	return s.sink.Lines()
}

// connectivitySource is the nil-safe facade around the connectivity
// collaborator. Unconfigured reads report connected so a missing monitor does
// not paint the UI offline.
type connectivitySource struct {
	source ConnectivitySource
}

func newConnectivitySource(source ConnectivitySource) *connectivitySource {
	return &connectivitySource{source: source}
}

func (c *connectivitySource) set(source ConnectivitySource) {
	if c != nil {
		c.source = source
	}
}

func (c *connectivitySource) isConnected() bool {
	if c == nil || c.source == nil {
		return true
	}

	return c.source.IsConnected()
}
