// Package deepgram implements the recognition engine contract on top of the
// Deepgram live transcription websocket API.
//
// Deepgram streams indefinitely, but the supervisor contract is single-shot:
// one session ends with exactly one terminal callback (final or error). The
// client enforces that by finalizing the utterance itself on speech-final or
// utterance-end and closing the stream.
package deepgram

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/gtejasvarma/vani/core/audio"
	"github.com/gtejasvarma/vani/core/recognition"
)

type TranscriptionClient struct {
	connMu    sync.Mutex
	conn      *websocket.Conn
	lastMsgTs time.Time

	sessionMu sync.Mutex
	session   *session
}

// session tracks one start-to-terminal cycle.
type session struct {
	options recognition.SessionOptions

	cancel   context.CancelFunc
	terminal sync.Once

	accumulatedTranscript string
	unendedSegment        bool
}

func NewTranscriptionClient() *TranscriptionClient {
	return &TranscriptionClient{}
}

// Start opens a live transcription session. It is an error to start while a
// previous session is still live; the supervisor never does.
func (c *TranscriptionClient) Start(ctx context.Context, opts ...recognition.SessionOption) error {
	options := recognition.SessionOptions{
		Language:       recognition.DefaultLanguage,
		SilenceTimeout: recognition.DefaultSilenceTimeout,
		EncodingInfo:   audio.GetDefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()

	if c.session != nil {
		return fmt.Errorf("transcription session already live")
	}

	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	conn, err := connectWebsocket(connectionOptions{
		sampleRate:     encoding.SampleRate,
		encoding:       encoding.Format.Name(),
		language:       options.Language,
		silenceTimeout: options.SilenceTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	newSession := &session{options: options, cancel: cancel}

	c.connMu.Lock()
	c.conn = conn
	c.lastMsgTs = time.Now()
	c.connMu.Unlock()
	c.session = newSession

	go c.readAndProcessMessages(sessionCtx, conn, newSession)

	if options.ReadyCallback != nil {
		options.ReadyCallback()
	}

	return nil
}

// Stop ends the current session without a terminal callback. Safe to call
// when no session is live.
func (c *TranscriptionClient) Stop() error {
	c.sessionMu.Lock()
	liveSession := c.session
	c.session = nil
	c.sessionMu.Unlock()

	if liveSession == nil {
		return nil
	}

	// Claim the terminal slot so a racing read-loop error stays silent.
	liveSession.terminal.Do(func() {})
	liveSession.cancel()

	return c.closeStream()
}

func (c *TranscriptionClient) closeStream() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}

	if err := c.conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: "CloseStream"}); err != nil {
		c.conn.Close()
		c.conn = nil
		return fmt.Errorf("failed to close deepgram stream: %w", err)
	}

	c.conn.Close()
	c.conn = nil
	return nil
}

// SendAudio forwards a PCM chunk to the live session. Chunks sent while no
// session is live are dropped, which covers the restart gap between segments.
func (c *TranscriptionClient) SendAudio(chunk []byte) error {
	c.sessionMu.Lock()
	liveSession := c.session
	c.sessionMu.Unlock()

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil || liveSession == nil {
		return nil
	}

	c.lastMsgTs = time.Now()
	if err := c.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}

	if liveSession.options.VolumeCallback != nil {
		liveSession.options.VolumeCallback(rmsLevel(chunk, liveSession.options.EncodingInfo))
	}

	return nil
}

func (c *TranscriptionClient) sendSilence(chunk []byte) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}

	if err := c.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

func (c *TranscriptionClient) sendKeepAlive() {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return
	}

	if err := c.conn.WriteJSON(
		struct {
			Type string `json:"type"`
		}{
			Type: "KeepAlive",
		}); err != nil {
		log.Println("Failed to write to deepgram client", "error", err)
	}
}

// finish ends the session with its single terminal callback.
func (c *TranscriptionClient) finish(liveSession *session, emit func(recognition.SessionOptions)) {
	c.sessionMu.Lock()
	if c.session == liveSession {
		c.session = nil
	}
	c.sessionMu.Unlock()

	liveSession.terminal.Do(func() {
		emit(liveSession.options)
	})
	liveSession.cancel()

	if err := c.closeStream(); err != nil {
		log.Println("Failed to close deepgram stream", "error", err)
	}
}
