package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNoLoginService   = errors.New("no login service")
	ErrChannelClosed    = errors.New("channel already closed")
	ErrChannelBusy      = errors.New("channel busy, message dropped")
	ErrJSONUnmarshal    = errors.New("json unmarshal error")
	ErrMethodNotSupport = errors.New("method not support")
	ErrRequestInvalid   = errors.New("request invalid")
	ErrLackPendingCall  = errors.New("lack pending call")
	ErrDecodeResponse   = errors.New("decode response error")
)

// ResponseError is an error reply received from, or sent to, the remote peer.
type ResponseError struct {
	Code    int
	Message string
	Data    string
}

func NewResponseError(code int, message string, data string) *ResponseError {
	return &ResponseError{Code: code, Message: message, Data: data}
}

func (e *ResponseError) Error() string {
	if e.Data == "" {
		return fmt.Sprintf("code=%d message=%s", e.Code, e.Message)
	}
	return fmt.Sprintf("code=%d message=%s data=%s", e.Code, e.Message, e.Data)
}

// JSONUnmarshal wraps json errors with ErrJSONUnmarshal.
func JSONUnmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: data=%s, error: %+v", ErrJSONUnmarshal, data, err)
	}
	return nil
}
