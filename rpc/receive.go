package rpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/anthillplatform/gameserver-go/pkg"
	"github.com/anthillplatform/gameserver-go/protocol"
	"github.com/anthillplatform/gameserver-go/transport"
)

// Received decodes one inbound message and dispatches it to the pending call
// it answers or to the registered method handler. Problems with the message
// itself go to the transport-level error callback.
func (e *Engine) Received(msg transport.Message) {
	if !gjson.ValidBytes(msg) {
		e.onError(protocol.PARSE_ERROR, "parse error", string(msg))
		return
	}

	id := gjson.GetBytes(msg, "id")

	// case response
	if !gjson.GetBytes(msg, "method").Exists() {
		if !id.Exists() {
			e.onError(protocol.INVALID_REQUEST, "message has neither method nor id", string(msg))
			return
		}

		resp := &protocol.JSONRPCResponse{}
		if err := pkg.JSONUnmarshal(msg, resp); err != nil {
			e.onError(protocol.PARSE_ERROR, err.Error(), string(msg))
			return
		}
		e.receiveResponse(requestKey(id), resp)
		return
	}

	// case request or notification
	req := &protocol.JSONRPCRequest{}
	if err := pkg.JSONUnmarshal(msg, req); err != nil {
		e.onError(protocol.PARSE_ERROR, err.Error(), string(msg))
		return
	}
	if !req.IsValid() {
		e.onError(protocol.INVALID_REQUEST, pkg.ErrRequestInvalid.Error(), string(msg))
		if id.Exists() {
			e.reply(protocol.NewJSONRPCErrorResponse(json.RawMessage(id.Raw), protocol.INVALID_REQUEST, pkg.ErrRequestInvalid.Error()))
		}
		return
	}

	if !id.Exists() {
		if _, err := e.receiveRequest(req); err != nil {
			e.logger.Errorf("receive notify method=%s error: %v", req.Method, err)
		}
		return
	}

	result, err := e.receiveRequest(req)
	if err != nil {
		e.reply(errorResponse(json.RawMessage(id.Raw), err))
		return
	}
	e.reply(protocol.NewJSONRPCSuccessResponse(json.RawMessage(id.Raw), result))
}

func (e *Engine) receiveResponse(key string, resp *protocol.JSONRPCResponse) {
	call, ok := e.pending.Pop(key)
	if !ok {
		e.onError(protocol.INVALID_REQUEST, fmt.Sprintf("%v: requestID=%s", pkg.ErrLackPendingCall, key), "")
		return
	}

	if resp.Error != nil {
		if call.onError != nil {
			call.onError(resp.Error.Code, resp.Error.Message, resp.Error.DataString())
		}
		return
	}
	if call.onSuccess != nil {
		call.onSuccess(resp.RawResult)
	}
}

func (e *Engine) receiveRequest(req *protocol.JSONRPCRequest) (result interface{}, err error) {
	handler, ok := e.handlers.Get(string(req.Method))
	if !ok {
		return nil, fmt.Errorf("%w: method=%s", pkg.ErrMethodNotSupport, req.Method)
	}

	defer pkg.RecoverWithFunc(func(r any) {
		result, err = nil, pkg.PanicError(r)
	})
	return handler(req.RawParams)
}

func (e *Engine) reply(resp *protocol.JSONRPCResponse) {
	message, err := json.Marshal(resp)
	if err != nil {
		e.logger.Errorf("reply json marshal response:%+v error: %s", resp, err.Error())
		return
	}
	if err = e.send(message); err != nil {
		e.logger.Warnf("reply id=%s: transport send: %v", resp.ID, err)
	}
}

func errorResponse(id protocol.RequestID, err error) *protocol.JSONRPCResponse {
	var respErr *pkg.ResponseError
	if errors.As(err, &respErr) {
		resp := protocol.NewJSONRPCErrorResponse(id, respErr.Code, respErr.Message)
		if respErr.Data != "" {
			resp.Error.Data = respErr.Data
		}
		return resp
	}

	var code int
	switch {
	case errors.Is(err, pkg.ErrMethodNotSupport):
		code = protocol.METHOD_NOT_FOUND
	case errors.Is(err, pkg.ErrRequestInvalid):
		code = protocol.INVALID_REQUEST
	case errors.Is(err, pkg.ErrJSONUnmarshal):
		code = protocol.INVALID_PARAMS
	default:
		code = protocol.INTERNAL_ERROR
	}
	return protocol.NewJSONRPCErrorResponse(id, code, err.Error())
}

// requestKey renders an id the same way Request stores it.
func requestKey(id gjson.Result) string {
	if id.Type == gjson.String {
		return id.Str
	}
	return id.Raw
}
