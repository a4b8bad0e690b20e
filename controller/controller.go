// Package controller implements the game server side of the Controller
// Service session: the inited/joined/left/update_settings/check_deployment
// calls and the status query the Controller Service issues in return.
//
// A Controller has no goroutines of its own. The hosting application calls
// Poll from its main loop; every completion callback and every status query
// runs inside Poll, one message at a time, in arrival order.
//
// The Controller does not enforce call ordering. The Controller Service
// expects Initialize first and player calls only once the room is Active;
// honoring that is up to the caller.
package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/anthillplatform/gameserver-go/config"
	"github.com/anthillplatform/gameserver-go/login"
	"github.com/anthillplatform/gameserver-go/pkg"
	"github.com/anthillplatform/gameserver-go/rpc"
	"github.com/anthillplatform/gameserver-go/transport"
)

// StatusFunc reports the current health of the game server. It is called
// synchronously every time the Controller Service asks, and its result is
// never cached.
type StatusFunc func() string

type Option func(*Controller)

func WithLogger(logger pkg.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithLoginService supplies the service used to mint access tokens for
// admitted players. AdmitPlayer fails without one.
func WithLoginService(service login.Service) Option {
	return func(c *Controller) {
		c.login = service
	}
}

func WithSessionID(id string) Option {
	return func(c *Controller) {
		c.id = id
	}
}

type Controller struct {
	id string

	channel transport.Channel
	rpc     *rpc.Engine

	status StatusFunc
	login  login.Service

	statusRegistered bool
	phase            Phase
	polling          bool

	closed *pkg.AtomicBool

	logger pkg.Logger
}

func New(ch transport.Channel, status StatusFunc, opts ...Option) (*Controller, error) {
	if ch == nil {
		return nil, errors.New("controller channel is required")
	}
	if status == nil {
		return nil, errors.New("status func is required")
	}

	c := &Controller{
		id:      uuid.NewString(),
		channel: ch,
		status:  status,
		phase:   PhaseUninitialized,
		closed:  pkg.NewAtomicBool(),
		logger:  pkg.DefaultLogger,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.rpc = rpc.New(ch.Send,
		rpc.WithLogger(c.logger),
		rpc.WithErrorHandler(c.onTransportError))

	return c, nil
}

// Connect dials the Controller Service described by cfg and returns a
// Controller that owns the resulting channel.
func Connect(ctx context.Context, cfg config.Config, status StatusFunc, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Controller{logger: cfg.Logger()}
	for _, opt := range opts {
		opt(c)
	}

	c.logger.Infof("connecting to Controller Service on %s (%s)", cfg.Socket, cfg.Transport)

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}

	ch, err := transport.Dial(ctx, cfg.Transport, cfg.Socket, cfg.ChannelOptions(c.logger)...)
	if err != nil {
		return nil, err
	}

	controller, err := New(ch, status, append([]Option{WithLogger(c.logger)}, opts...)...)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return controller, nil
}

func (c *Controller) ID() string {
	return c.id
}

func (c *Controller) Phase() Phase {
	return c.phase
}

// StatusRegistered reports whether the status handler has been installed.
func (c *Controller) StatusRegistered() bool {
	return c.statusRegistered
}

// Engine exposes the underlying RPC engine, e.g. to serve extra methods the
// Controller Service may call.
func (c *Controller) Engine() *rpc.Engine {
	return c.rpc
}

// Poll drains every message currently buffered on the channel and dispatches
// each one to completion before taking the next. It never blocks and returns
// the number of messages dispatched.
//
// A Poll made from inside a callback or the status func returns 0 right away;
// the outer Poll picks up the remaining messages.
func (c *Controller) Poll() int {
	if c.closed.Load() || c.polling {
		return 0
	}
	c.polling = true
	defer func() { c.polling = false }()

	n := 0
	for {
		msg, ok := c.channel.TryReceive()
		if !ok {
			return n
		}
		c.rpc.Received(msg)
		n++
	}
}

// Shutdown releases the channel. Calls after the first are no-ops.
func (c *Controller) Shutdown() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.logger.Infof("session %s: closing controller channel", c.id)
	return c.channel.Close()
}

func (c *Controller) onTransportError(code int, message string, data string) {
	c.logger.Errorf("session %s: error: %d %s %s", c.id, code, message, data)
}
