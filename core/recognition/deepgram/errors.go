package deepgram

import (
	"errors"
	"net"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/gtejasvarma/vani/core/recognition"
)

// readFailureCode maps a websocket read failure to an engine error code.
func readFailureCode(err error) recognition.ErrorCode {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.ClosePolicyViolation, websocket.CloseUnsupportedData:
			return recognition.CodeClient
		case websocket.CloseInternalServerErr, websocket.CloseServiceRestart:
			return recognition.CodeServer
		case websocket.CloseTryAgainLater:
			return recognition.CodeRecognizerBusy
		}
		return recognition.CodeNetwork
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return recognition.CodeNetwork
	}

	return recognition.CodeUnknown
}

// errorResponseCode maps a Deepgram error-response variant to an engine code.
func errorResponseCode(variant string) recognition.ErrorCode {
	switch {
	case strings.HasPrefix(variant, "NET"):
		return recognition.CodeNetwork
	case strings.HasPrefix(variant, "DATA"):
		return recognition.CodeClient
	case strings.HasPrefix(variant, "INTERNAL"):
		return recognition.CodeServer
	default:
		return recognition.CodeServer
	}
}
