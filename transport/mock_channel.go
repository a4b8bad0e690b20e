package transport

import (
	"sync"

	"github.com/anthillplatform/gameserver-go/pkg"
)

// MockChannel is an in-memory Channel. Tests push inbound messages with Push
// and inspect outbound ones with Sent.
type MockChannel struct {
	mu     sync.Mutex
	inbox  []Message
	sent   []Message
	closed bool

	// SendErr, when set, is returned by every Send and the message is dropped.
	SendErr error
}

func NewMockChannel() *MockChannel {
	return &MockChannel{}
}

func (t *MockChannel) Push(msg Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.inbox = append(t.inbox, msg)
}

// Sent returns a copy of every message sent so far.
func (t *MockChannel) Sent() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Message, len(t.sent))
	copy(out, t.sent)
	return out
}

// LastSent returns the most recent outbound message, or nil.
func (t *MockChannel) LastSent() Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.sent) == 0 {
		return nil
	}
	return t.sent[len(t.sent)-1]
}

func (t *MockChannel) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.closed
}

func (t *MockChannel) Send(msg Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return pkg.ErrChannelClosed
	}
	if t.SendErr != nil {
		return t.SendErr
	}
	t.sent = append(t.sent, append(Message(nil), msg...))
	return nil
}

func (t *MockChannel) TryReceive() (Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.inbox) == 0 {
		return nil, false
	}
	msg := t.inbox[0]
	t.inbox = t.inbox[1:]
	return msg, true
}

func (t *MockChannel) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	return nil
}
