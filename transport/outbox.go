package transport

import (
	"time"

	"github.com/anthillplatform/gameserver-go/pkg"
)

// outbox hands messages to one writer goroutine, so a peer that stops reading
// holds up the writer but never the caller of Send for longer than timeout.
type outbox struct {
	queue   chan Message
	write   func(Message) error
	timeout time.Duration
	logger  pkg.Logger

	done     chan struct{}
	shutDone chan struct{}
}

func newOutbox(size int, timeout time.Duration, write func(Message) error, logger pkg.Logger) *outbox {
	o := &outbox{
		queue:    make(chan Message, size),
		write:    write,
		timeout:  timeout,
		logger:   logger,
		done:     make(chan struct{}),
		shutDone: make(chan struct{}),
	}

	go func() {
		defer pkg.Recover()
		defer close(o.shutDone)

		o.run()
	}()

	return o
}

func (o *outbox) push(msg Message) error {
	select {
	case <-o.done:
		return pkg.ErrChannelClosed
	default:
	}

	frame := make(Message, len(msg))
	copy(frame, msg)

	select {
	case o.queue <- frame:
		return nil
	default:
	}
	if o.timeout <= 0 {
		return pkg.ErrChannelBusy
	}

	timer := time.NewTimer(o.timeout)
	defer timer.Stop()

	select {
	case o.queue <- frame:
		return nil
	case <-timer.C:
		return pkg.ErrChannelBusy
	case <-o.done:
		return pkg.ErrChannelClosed
	}
}

func (o *outbox) run() {
	for {
		select {
		case <-o.done:
			return
		case msg := <-o.queue:
			if err := o.write(msg); err != nil {
				o.logger.Warnf("channel send dropped: %v", err)
			}
		}
	}
}

// stop ends the writer. A write blocked on the peer returns only once the
// underlying socket is closed, so close it before calling wait.
func (o *outbox) stop() {
	close(o.done)
}

func (o *outbox) wait() {
	<-o.shutDone
}
