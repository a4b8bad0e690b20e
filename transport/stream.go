package transport

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/anthillplatform/gameserver-go/pkg"
)

const messageDelimiter = '\n'

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// streamChannel frames messages on a byte stream, one message per line.
type streamChannel struct {
	conn  io.ReadWriteCloser
	inbox chan Message

	logger       pkg.Logger
	writeTimeout time.Duration

	closed          *pkg.AtomicBool
	done            chan struct{}
	receiveShutDone chan struct{}
}

// NewStreamChannel wraps an already connected stream and starts reading from
// it.
func NewStreamChannel(conn io.ReadWriteCloser, opts ...ChannelOption) Channel {
	o := defaultChannelOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := &streamChannel{
		conn:            conn,
		inbox:           make(chan Message, o.receiveBuffer),
		logger:          o.logger,
		writeTimeout:    o.writeTimeout,
		closed:          pkg.NewAtomicBool(),
		done:            make(chan struct{}),
		receiveShutDone: make(chan struct{}),
	}

	go func() {
		defer pkg.Recover()
		defer close(t.receiveShutDone)

		t.receive()
	}()

	return t
}

// DialUnix connects to a unix domain socket at path.
func DialUnix(ctx context.Context, path string, opts ...ChannelOption) (Channel, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("dial unix socket %s: %w", path, err)
	}
	return NewStreamChannel(conn, opts...), nil
}

func (t *streamChannel) Send(msg Message) error {
	if t.closed.Load() {
		return pkg.ErrChannelClosed
	}

	if d, ok := t.conn.(writeDeadliner); ok && t.writeTimeout > 0 {
		if err := d.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
			t.logger.Warnf("set write deadline: %v", err)
		}
	}

	frame := make([]byte, 0, len(msg)+1)
	frame = append(frame, msg...)
	frame = append(frame, messageDelimiter)

	n, err := t.conn.Write(frame)
	if err == nil {
		return nil
	}
	if n > 0 && n < len(frame) {
		// the peer holds a torn frame and every later line would be glued to it
		t.logger.Errorf("channel send interrupted after %d of %d bytes, closing channel: %v", n, len(frame), err)
		if cerr := t.Close(); cerr != nil {
			t.logger.Warnf("close broken channel: %v", cerr)
		}
		return fmt.Errorf("failed to write: %w", errors.Join(err, pkg.ErrChannelClosed))
	}
	t.logger.Warnf("channel send dropped: %v", err)
	return fmt.Errorf("failed to write: %w", err)
}

func (t *streamChannel) TryReceive() (Message, bool) {
	select {
	case msg := <-t.inbox:
		return msg, true
	default:
		return nil, false
	}
}

func (t *streamChannel) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(t.done)
	err := t.conn.Close()

	<-t.receiveShutDone

	if err != nil {
		return fmt.Errorf("failed to close channel: %w", err)
	}
	return nil
}

func (t *streamChannel) receive() {
	r := bufio.NewReader(t.conn)

	for {
		line, err := r.ReadBytes(messageDelimiter)
		if err != nil {
			if t.closed.Load() {
				return
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
				t.logger.Infof("controller channel closed by peer")
				return
			}
			t.logger.Errorf("channel receive unexpected error reading input: %v", err)
			return
		}

		line = bytes.TrimRight(line, "\r\n")
		if len(bytes.TrimFunc(line, func(r rune) bool { return r == ' ' || r == '\t' })) == 0 {
			t.logger.Debugf("skipping empty message")
			continue
		}

		select {
		case t.inbox <- Message(line):
		case <-t.done:
			return
		}
	}
}
