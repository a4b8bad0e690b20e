package transport

import (
	"bufio"
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthillplatform/gameserver-go/pkg"
)

var nopLogger = pkg.NewZerologLogger(zerolog.Nop())

func receiveWithin(t *testing.T, ch Channel, timeout time.Duration) Message {
	t.Helper()

	var msg Message
	require.Eventually(t, func() bool {
		m, ok := ch.TryReceive()
		if ok {
			msg = m
		}
		return ok
	}, timeout, 5*time.Millisecond)
	return msg
}

func TestStreamChannelTryReceiveEmpty(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	ch := NewStreamChannel(local, WithChannelOptionLogger(nopLogger))
	defer ch.Close()

	msg, ok := ch.TryReceive()
	assert.False(t, ok)
	assert.Nil(t, msg)
}

func TestStreamChannelReceiveInOrder(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	ch := NewStreamChannel(local, WithChannelOptionLogger(nopLogger))
	defer ch.Close()

	go func() {
		_, _ = remote.Write([]byte("first\n\n \t\nsecond\r\nthird\n"))
	}()

	assert.Equal(t, "first", receiveWithin(t, ch, time.Second).String())
	assert.Equal(t, "second", receiveWithin(t, ch, time.Second).String())
	assert.Equal(t, "third", receiveWithin(t, ch, time.Second).String())

	_, ok := ch.TryReceive()
	assert.False(t, ok)
}

func TestStreamChannelSend(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	ch := NewStreamChannel(local, WithChannelOptionLogger(nopLogger))
	defer ch.Close()

	lines := make(chan string, 1)
	go func() {
		line, err := bufio.NewReader(remote).ReadString('\n')
		if err == nil {
			lines <- line
		}
	}()

	require.NoError(t, ch.Send(Message(`{"jsonrpc":"2.0"}`)))

	select {
	case line := <-lines:
		assert.Equal(t, "{\"jsonrpc\":\"2.0\"}\n", line)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for peer to read message")
	}
}

func TestStreamChannelSendDoesNotBlock(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	ch := NewStreamChannel(local,
		WithChannelOptionLogger(nopLogger),
		WithChannelOptionWriteTimeout(20*time.Millisecond))
	defer ch.Close()

	// nobody reads from remote
	start := time.Now()
	err := ch.Send(Message("stuck"))
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestStreamChannelTornFrameClosesChannel(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	ch := NewStreamChannel(local,
		WithChannelOptionLogger(nopLogger),
		WithChannelOptionWriteTimeout(30*time.Millisecond))
	defer ch.Close()

	head := make(chan string, 1)
	go func() {
		buf := make([]byte, 5)
		n, _ := remote.Read(buf)
		head <- string(buf[:n])
	}()

	err := ch.Send(Message(`{"jsonrpc":"2.0","id":1,"method":"inited"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, pkg.ErrChannelClosed)
	assert.Equal(t, `{"jso`, <-head)

	// nothing may follow the torn frame on the wire
	assert.ErrorIs(t, ch.Send(Message(`{"jsonrpc":"2.0","id":2,"method":"check_deployment"}`)), pkg.ErrChannelClosed)

	require.NoError(t, remote.SetReadDeadline(time.Now().Add(time.Second)))
	_, err = remote.Read(make([]byte, 64))
	assert.Error(t, err)
}

func TestStreamChannelSendUntouchedBuffer(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	ch := NewStreamChannel(local, WithChannelOptionLogger(nopLogger))
	defer ch.Close()

	go func() {
		_, _ = bufio.NewReader(remote).ReadString('\n')
	}()

	backing := make([]byte, 2, 8)
	copy(backing, "ok")
	backing = append(backing, 'x')[:2]

	require.NoError(t, ch.Send(Message(backing)))
	assert.Equal(t, byte('x'), backing[:3][2])
}

func TestStreamChannelCloseIsIdempotent(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	ch := NewStreamChannel(local, WithChannelOptionLogger(nopLogger))

	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())

	assert.ErrorIs(t, ch.Send(Message("late")), pkg.ErrChannelClosed)
}

func TestStreamChannelPeerClosed(t *testing.T) {
	local, remote := net.Pipe()

	ch := NewStreamChannel(local, WithChannelOptionLogger(nopLogger))
	defer ch.Close()

	require.NoError(t, remote.Close())

	assert.Never(t, func() bool {
		_, ok := ch.TryReceive()
		return ok
	}, 50*time.Millisecond, 5*time.Millisecond)
}

func TestDialUnix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctl.sock")

	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	ch, err := Dial(context.Background(), KindUnix, path, WithChannelOptionLogger(nopLogger))
	require.NoError(t, err)
	defer ch.Close()

	var peer net.Conn
	select {
	case peer = <-accepted:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for accept")
	}
	defer peer.Close()

	_, err = peer.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, "hello", receiveWithin(t, ch, time.Second).String())

	require.NoError(t, ch.Send(Message("world")))
	line, err := bufio.NewReader(peer).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "world\n", line)
}

func TestDialUnknownKind(t *testing.T) {
	_, err := Dial(context.Background(), Kind("carrier-pigeon"), "/tmp/x")
	assert.Error(t, err)
}

func TestDialUnixMissingSocket(t *testing.T) {
	_, err := DialUnix(context.Background(), filepath.Join(t.TempDir(), "missing.sock"))
	assert.Error(t, err)
}
