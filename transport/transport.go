package transport

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthillplatform/gameserver-go/pkg"
)

// Message is one complete frame exchanged with the Controller Service.
type Message []byte

func (msg Message) String() string {
	return string(msg)
}

// Channel is the single local link between a game server and its
// Controller Service.
//
// Send is best effort and bounded by the write timeout: a message that cannot
// be handed to the peer in time is reported and dropped, never retried. A
// stream channel that tears a frame this way closes itself. TryReceive never blocks and
// reports false when no complete message is buffered. Close may be called more
// than once.
type Channel interface {
	Send(msg Message) error
	TryReceive() (Message, bool)
	Close() error
}

type Kind string

const (
	KindZMQ  Kind = "zmq"
	KindUnix Kind = "unix"
)

const (
	defaultReceiveBuffer = 256
	defaultSendBuffer    = 64
	defaultWriteTimeout  = 100 * time.Millisecond
)

type channelOptions struct {
	logger        pkg.Logger
	receiveBuffer int
	sendBuffer    int
	writeTimeout  time.Duration
}

func defaultChannelOptions() channelOptions {
	return channelOptions{
		logger:        pkg.DefaultLogger,
		receiveBuffer: defaultReceiveBuffer,
		sendBuffer:    defaultSendBuffer,
		writeTimeout:  defaultWriteTimeout,
	}
}

type ChannelOption func(*channelOptions)

func WithChannelOptionLogger(log pkg.Logger) ChannelOption {
	return func(o *channelOptions) {
		o.logger = log
	}
}

// WithChannelOptionReceiveBuffer bounds how many complete messages may wait
// for the next poll.
func WithChannelOptionReceiveBuffer(size int) ChannelOption {
	return func(o *channelOptions) {
		if size > 0 {
			o.receiveBuffer = size
		}
	}
}

// WithChannelOptionSendBuffer bounds how many messages a message-oriented
// channel may hold while its writer waits on the peer.
func WithChannelOptionSendBuffer(size int) ChannelOption {
	return func(o *channelOptions) {
		if size > 0 {
			o.sendBuffer = size
		}
	}
}

// WithChannelOptionWriteTimeout bounds how long a single Send may wait on the
// peer before the message is dropped. Zero means no wait at all on channels
// with a send buffer, and no deadline on stream channels.
func WithChannelOptionWriteTimeout(timeout time.Duration) ChannelOption {
	return func(o *channelOptions) {
		o.writeTimeout = timeout
	}
}

// Dial connects to the Controller Service at address using the given kind of
// channel.
func Dial(ctx context.Context, kind Kind, address string, opts ...ChannelOption) (Channel, error) {
	switch Kind(strings.ToLower(string(kind))) {
	case KindZMQ, "":
		return DialZMQ(ctx, address, opts...)
	case KindUnix:
		return DialUnix(ctx, address, opts...)
	default:
		return nil, fmt.Errorf("unknown channel kind %q", kind)
	}
}
