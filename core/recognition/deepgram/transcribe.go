package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/gtejasvarma/vani/core/audio"
	"github.com/gtejasvarma/vani/core/recognition"
	"github.com/gtejasvarma/vani/internal/utils"
)

type connectionOptions struct {
	sampleRate int
	encoding   string

	language       string
	silenceTimeout time.Duration
}

func connectWebsocket(options connectionOptions) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	listenUrl, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", options.encoding)
	queryParams.Set("sample_rate", strconv.Itoa(options.sampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", "nova-3")
	queryParams.Set("language", options.language)
	queryParams.Set("smart_format", "true")
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", strconv.FormatInt(options.silenceTimeout.Milliseconds(), 10))
	queryParams.Set("endpointing", "300")
	queryParams.Set("vad_events", "true")

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenUrl.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, err
}

func (c *TranscriptionClient) readAndProcessMessages(ctx context.Context, conn *websocket.Conn, liveSession *session) {
	silenceCtx, silenceCancel := context.WithCancel(ctx)
	defer silenceCancel()

	go c.generateSilence(silenceCtx, liveSession.options.EncodingInfo)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				c.finish(liveSession, func(options recognition.SessionOptions) {
					if options.ErrorCallback != nil {
						options.ErrorCallback(recognition.Error{
							Code:    readFailureCode(err),
							Message: err.Error(),
						})
					}
				})
			}
			conn.Close()
			return
		}
		if msgType != websocket.BinaryMessage {
			c.processMessage(msg, liveSession)
		}
	}
}

func (c *TranscriptionClient) processMessage(msg []byte, liveSession *session) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		log.Println("Failed to unmarshal deepgram message", "error", err)
		return
	}

	options := liveSession.options

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		if len(msgResp.Channel.Alternatives) == 0 {
			return
		}
		text := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)

		if msgResp.IsFinal {
			if len(text) > 0 {
				liveSession.accumulatedTranscript += " " + text
			}
			if msgResp.SpeechFinal {
				c.finishUtterance(liveSession)
			}
			return
		}

		if len(text) > 0 && options.PartialCallback != nil {
			options.PartialCallback(strings.TrimSpace(liveSession.accumulatedTranscript + " " + text))
		}

	case api.TypeUtteranceEndResponse:
		if liveSession.unendedSegment {
			c.finishUtterance(liveSession)
		}

	case api.TypeSpeechStartedResponse:
		liveSession.unendedSegment = true
		if options.SpeechStartedCallback != nil {
			options.SpeechStartedCallback()
		}

	case api.TypeResponse(api.TypeErrorResponse):
		var errResp struct {
			Description string `json:"description"`
			Message     string `json:"message"`
			Variant     string `json:"variant"`
		}
		if err := json.Unmarshal(msg, &errResp); err != nil {
			log.Println("Failed to unmarshal deepgram error", err)
			return
		}

		message := errResp.Description
		if message == "" {
			message = errResp.Message
		}
		c.finish(liveSession, func(options recognition.SessionOptions) {
			if options.ErrorCallback != nil {
				options.ErrorCallback(recognition.Error{
					Code:    errorResponseCode(errResp.Variant),
					Message: message,
				})
			}
		})
	}
}

// finishUtterance ends the segment with its terminal final callback. An empty
// utterance surfaces the engine placeholder so the supervisor can still drive
// its restart-or-stop transition.
func (c *TranscriptionClient) finishUtterance(liveSession *session) {
	liveSession.unendedSegment = false

	fullTranscript := strings.TrimSpace(liveSession.accumulatedTranscript)
	liveSession.accumulatedTranscript = ""
	if fullTranscript == "" {
		fullTranscript = recognition.NoSpeechPlaceholder
	}

	if liveSession.options.SpeechEndedCallback != nil {
		liveSession.options.SpeechEndedCallback()
	}

	c.finish(liveSession, func(options recognition.SessionOptions) {
		if options.FinalCallback != nil {
			options.FinalCallback(fullTranscript)
		}
	})
}

// rmsLevel estimates the loudness of a PCM16 chunk as a value in [0, 1].
func rmsLevel(chunk []byte, encoding audio.EncodingInfo) float64 {
	if encoding.Format != audio.EncodingLinear16 || len(chunk) < 2 {
		return 0
	}

	var sumSquares float64
	samples := len(chunk) / 2
	for i := 0; i < samples; i++ {
		sample := int16(uint16(chunk[2*i]) | uint16(chunk[2*i+1])<<8)
		normalized := float64(sample) / math.MaxInt16
		sumSquares += normalized * normalized
	}

	return math.Min(1, math.Sqrt(sumSquares/float64(samples)))
}

func (c *TranscriptionClient) generateSilence(ctx context.Context, encoding audio.EncodingInfo) {
	type silenceGeneratorState string
	const (
		silenceGeneratorStateWaiting   silenceGeneratorState = "waiting"
		silenceGeneratorStateSilence   silenceGeneratorState = "silence"
		silenceGeneratorStateKeepAlive silenceGeneratorState = "keepAlive"
	)

	const durationMs = 50
	const millisecondsPerSecond = 1000
	ticker := time.NewTicker(durationMs * time.Millisecond)

	chunk := make([]byte, encoding.BytesPerSecond()*durationMs/millisecondsPerSecond)
	for i := range chunk {
		chunk[i] = encoding.SilenceValue()
	}

	var state = silenceGeneratorStateWaiting
	var firstSilenceTime *time.Time
	var lastKeepAliveTime *time.Time
	for {
		select {
		case <-ctx.Done():
			ticker.Stop()
			return
		case <-ticker.C:
			c.connMu.Lock()
			lastMsgTs := c.lastMsgTs
			c.connMu.Unlock()

			switch state {
			case silenceGeneratorStateWaiting:
				if time.Since(lastMsgTs).Milliseconds() > 50 {
					state = silenceGeneratorStateSilence
					firstSilenceTime = utils.Ptr(time.Now())
					continue
				}

			case silenceGeneratorStateSilence:
				if time.Since(lastMsgTs).Milliseconds() < 50 {
					state = silenceGeneratorStateWaiting
					firstSilenceTime = nil
					continue
				}
				if time.Since(*firstSilenceTime).Milliseconds() >= 1000 {
					state = silenceGeneratorStateKeepAlive
					lastKeepAliveTime = utils.Ptr(time.Now())
					firstSilenceTime = nil
					continue
				}

				if err := c.sendSilence(chunk); err != nil {
					log.Println("Sending silence audio error", err)
				}

			case silenceGeneratorStateKeepAlive:
				if time.Since(lastMsgTs).Milliseconds() < 50 {
					state = silenceGeneratorStateWaiting
					continue
				}

				if time.Since(*lastKeepAliveTime).Seconds() >= 5 {
					lastKeepAliveTime = utils.Ptr(time.Now())
					c.sendKeepAlive()
				}
			}
		}
	}
}
