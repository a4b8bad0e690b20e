// Package rpc correlates JSON-RPC 2.0 calls exchanged over a Channel.
//
// The engine has no goroutines of its own. Outbound calls are written
// immediately; inbound messages are handed to Received by whoever polls the
// channel, and every callback runs inside that call.
package rpc

import (
	"encoding/json"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/anthillplatform/gameserver-go/pkg"
	"github.com/anthillplatform/gameserver-go/protocol"
	"github.com/anthillplatform/gameserver-go/transport"
)

// SuccessFunc receives the raw result of a call.
type SuccessFunc func(result json.RawMessage)

// ErrorFunc receives an error reply. It is also the shape of the
// transport-level error callback.
type ErrorFunc func(code int, message string, data string)

// MethodHandler serves one inbound method. A *pkg.ResponseError keeps its code
// on the wire; any other error is sent as INTERNAL_ERROR.
type MethodHandler func(params json.RawMessage) (interface{}, error)

// SendFunc writes one encoded message to the channel.
type SendFunc func(msg transport.Message) error

type pendingCall struct {
	method    protocol.Method
	onSuccess SuccessFunc
	onError   ErrorFunc
}

type Option func(*Engine)

func WithLogger(logger pkg.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithErrorHandler sets the callback for malformed or unroutable traffic.
func WithErrorHandler(handler ErrorFunc) Option {
	return func(e *Engine) {
		e.onError = handler
	}
}

type Engine struct {
	send SendFunc

	pending  cmap.ConcurrentMap[string, *pendingCall]
	handlers cmap.ConcurrentMap[string, MethodHandler]

	requestID int64

	onError ErrorFunc
	logger  pkg.Logger
}

func New(send SendFunc, opts ...Option) *Engine {
	e := &Engine{
		send:     send,
		pending:  cmap.New[*pendingCall](),
		handlers: cmap.New[MethodHandler](),
		logger:   pkg.DefaultLogger,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.onError == nil {
		e.onError = func(code int, message string, data string) {
			e.logger.Errorf("rpc error: %d %s %s", code, message, data)
		}
	}
	return e
}

// AddHandler registers the handler for method, replacing any previous one.
func (e *Engine) AddHandler(method protocol.Method, handler MethodHandler) {
	e.handlers.Set(string(method), handler)
}

// RemoveHandler unregisters method.
func (e *Engine) RemoveHandler(method protocol.Method) {
	e.handlers.Remove(string(method))
}

// HasHandler reports whether method has a registered handler.
func (e *Engine) HasHandler(method protocol.Method) bool {
	return e.handlers.Has(string(method))
}

// Pending returns the number of calls still waiting for a reply.
func (e *Engine) Pending() int {
	return e.pending.Count()
}
