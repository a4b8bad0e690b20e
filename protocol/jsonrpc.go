package protocol

import (
	"encoding/json"
)

const jsonrpcVersion = "2.0"

// Standard JSON-RPC error codes.
const (
	PARSE_ERROR      = -32700
	INVALID_REQUEST  = -32600
	METHOD_NOT_FOUND = -32601
	INVALID_PARAMS   = -32602
	INTERNAL_ERROR   = -32603
)

type RequestID interface{} // string or int

type JSONRPCRequest struct {
	JSONRPC   string          `json:"jsonrpc"`
	ID        RequestID       `json:"id,omitempty"`
	Method    Method          `json:"method"`
	Params    interface{}     `json:"params,omitempty"`
	RawParams json.RawMessage `json:"-"`
}

func (r *JSONRPCRequest) UnmarshalJSON(data []byte) error {
	type alias JSONRPCRequest
	temp := &struct {
		Params json.RawMessage `json:"params,omitempty"`
		*alias
	}{
		alias: (*alias)(r),
	}

	if err := json.Unmarshal(data, temp); err != nil {
		return err
	}

	r.RawParams = temp.Params

	if len(r.RawParams) != 0 {
		if err := json.Unmarshal(r.RawParams, &r.Params); err != nil {
			return err
		}
	}

	return nil
}

// IsValid reports whether the request carries a protocol version and a method.
func (r *JSONRPCRequest) IsValid() bool {
	return r.JSONRPC == jsonrpcVersion && r.Method != ""
}

type JSONRPCResponse struct {
	JSONRPC   string          `json:"jsonrpc"`
	ID        RequestID       `json:"id"`
	Result    interface{}     `json:"result,omitempty"`
	RawResult json.RawMessage `json:"-"`
	Error     *responseErr    `json:"error,omitempty"`
}

type responseErr struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// DataString renders the optional error data the way it arrived on the wire.
func (e *responseErr) DataString() string {
	switch v := e.Data.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func (r *JSONRPCResponse) UnmarshalJSON(data []byte) error {
	type alias JSONRPCResponse
	temp := &struct {
		Result json.RawMessage `json:"result,omitempty"`
		*alias
	}{
		alias: (*alias)(r),
	}

	if err := json.Unmarshal(data, temp); err != nil {
		return err
	}

	r.RawResult = temp.Result

	if len(r.RawResult) != 0 {
		if err := json.Unmarshal(r.RawResult, &r.Result); err != nil {
			return err
		}
	}

	return nil
}

func NewJSONRPCRequest(id RequestID, method Method, params interface{}) *JSONRPCRequest {
	return &JSONRPCRequest{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	}
}

func NewJSONRPCSuccessResponse(id RequestID, result interface{}) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Result:  result,
	}
}

func NewJSONRPCErrorResponse(id RequestID, code int, msg string) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Error: &responseErr{
			Code:    code,
			Message: msg,
		},
	}
}
