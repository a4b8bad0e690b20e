package rpc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/anthillplatform/gameserver-go/protocol"
)

// Request issues one correlated call. Exactly one of onSuccess and onError is
// invoked when the reply arrives; neither is invoked if the peer never
// replies. Only local encoding failures are returned.
//
// A send the channel cannot complete is logged and the call stays pending.
func (e *Engine) Request(method protocol.Method, params interface{}, onSuccess SuccessFunc, onError ErrorFunc) error {
	requestID := atomic.AddInt64(&e.requestID, 1)

	message, err := json.Marshal(protocol.NewJSONRPCRequest(requestID, method, params))
	if err != nil {
		return fmt.Errorf("request %s: %w", method, err)
	}

	e.pending.Set(strconv.FormatInt(requestID, 10), &pendingCall{
		method:    method,
		onSuccess: onSuccess,
		onError:   onError,
	})

	if err = e.send(message); err != nil {
		e.logger.Warnf("request %s id=%d: transport send: %v", method, requestID, err)
	}
	return nil
}

// Notify sends a call that expects no reply.
func (e *Engine) Notify(method protocol.Method, params interface{}) error {
	message, err := json.Marshal(protocol.NewJSONRPCRequest(nil, method, params))
	if err != nil {
		return fmt.Errorf("notify %s: %w", method, err)
	}

	if err = e.send(message); err != nil {
		e.logger.Warnf("notify %s: transport send: %v", method, err)
	}
	return nil
}
