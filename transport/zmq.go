package transport

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-zeromq/zmq4"

	"github.com/anthillplatform/gameserver-go/pkg"
)

const ipcScheme = "ipc://"

// zmqChannel is a ZeroMQ PAIR socket, the socket type the Controller Service
// binds for each game server it spawns.
type zmqChannel struct {
	socket zmq4.Socket
	cancel context.CancelFunc
	inbox  chan Message
	outbox *outbox

	logger pkg.Logger

	closed          *pkg.AtomicBool
	done            chan struct{}
	receiveShutDone chan struct{}
}

// DialZMQ connects a PAIR socket to endpoint. A bare path is treated as an
// ipc endpoint.
func DialZMQ(ctx context.Context, endpoint string, opts ...ChannelOption) (Channel, error) {
	o := defaultChannelOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if !strings.Contains(endpoint, "://") {
		endpoint = ipcScheme + endpoint
	}

	innerCtx, cancel := context.WithCancel(context.Background())
	socket := zmq4.NewPair(innerCtx)

	dialed := make(chan error, 1)
	go func() {
		dialed <- socket.Dial(endpoint)
	}()

	select {
	case err := <-dialed:
		if err != nil {
			cancel()
			_ = socket.Close()
			return nil, fmt.Errorf("dial zmq pair %s: %w", endpoint, err)
		}
	case <-ctx.Done():
		cancel()
		_ = socket.Close()
		return nil, ctx.Err()
	}

	t := &zmqChannel{
		socket:          socket,
		cancel:          cancel,
		inbox:           make(chan Message, o.receiveBuffer),
		logger:          o.logger,
		closed:          pkg.NewAtomicBool(),
		done:            make(chan struct{}),
		receiveShutDone: make(chan struct{}),
	}
	t.outbox = newOutbox(o.sendBuffer, o.writeTimeout, t.write, o.logger)

	go func() {
		defer pkg.Recover()
		defer close(t.receiveShutDone)

		t.receive()
	}()

	return t, nil
}

func (t *zmqChannel) Send(msg Message) error {
	if t.closed.Load() {
		return pkg.ErrChannelClosed
	}
	if err := t.outbox.push(msg); err != nil {
		t.logger.Warnf("channel send dropped: %v", err)
		return fmt.Errorf("failed to send: %w", err)
	}
	return nil
}

func (t *zmqChannel) write(msg Message) error {
	return t.socket.Send(zmq4.NewMsg(msg))
}

func (t *zmqChannel) TryReceive() (Message, bool) {
	select {
	case msg := <-t.inbox:
		return msg, true
	default:
		return nil, false
	}
}

func (t *zmqChannel) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(t.done)
	t.outbox.stop()
	err := t.socket.Close()
	t.cancel()

	<-t.receiveShutDone
	t.outbox.wait()

	if err != nil {
		return fmt.Errorf("failed to close zmq socket: %w", err)
	}
	return nil
}

func (t *zmqChannel) receive() {
	for {
		msg, err := t.socket.Recv()
		if err != nil {
			if t.closed.Load() {
				return
			}
			t.logger.Errorf("channel receive unexpected error: %v", err)
			return
		}

		data := msg.Bytes()
		if len(data) == 0 {
			t.logger.Debugf("skipping empty message")
			continue
		}

		select {
		case t.inbox <- Message(data):
		case <-t.done:
			return
		}
	}
}
