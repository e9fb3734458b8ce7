// Package embedder is the boundary between the engine and its host: a
// buffered event channel paired with a waker. The engine pushes events and
// wakes the host; the host drains events from its own loop and spins the
// engine for deferred work.
package embedder

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"pkt.systems/orrery/schema"
	"pkt.systems/pslog"
)

// ErrClosed indicates the receiver was closed and its buffer drained.
var ErrClosed = errors.New("embedder receiver closed")

// Event pairs an engine notification with the webview it concerns. A zero
// WebView means the event is engine-wide.
type Event struct {
	WebView schema.WebViewID
	Msg     schema.EmbedderMsg
}

// Sink consumes embedder events. The engine's actors emit through a Sink so
// hosts and tests can tee the stream.
type Sink interface {
	OnEmbedderEvent(Event)
}

// Proxy is the engine-side sender. Sends never block: a saturated buffer
// drops the event with a warning, and every accepted send is followed by an
// unconditional waker call.
type Proxy struct {
	events  chan Event
	done    chan struct{}
	waker   EventLoopWaker
	log     pslog.Logger
	dropped atomic.Uint64
}

// Receiver is the host-side consumer.
type Receiver struct {
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewPair builds a connected Proxy and Receiver with the given buffer depth.
func NewPair(waker EventLoopWaker, depth int, logger pslog.Logger) (*Proxy, *Receiver) {
	if waker == nil {
		waker = NopWaker{}
	}
	if depth <= 0 {
		depth = schema.DefaultEmbedderBuffer
	}
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	events := make(chan Event, depth)
	done := make(chan struct{})
	proxy := &Proxy{events: events, done: done, waker: waker, log: logger}
	receiver := &Receiver{events: events, done: done}
	return proxy, receiver
}

// Send pushes an event toward the host. A send after the receiver closed is
// logged and absorbed; the engine never escalates a dead peer.
func (p *Proxy) Send(ev Event) {
	if p == nil {
		return
	}
	select {
	case <-p.done:
		p.log.Warn("embedder send after close", "target", ev.Msg.LogTarget())
		return
	default:
	}
	select {
	case p.events <- ev:
	default:
		p.log.Warn("embedder event dropped", "target", ev.Msg.LogTarget(), "dropped", p.dropped.Add(1))
	}
	p.waker.Wake()
}

// OnEmbedderEvent implements Sink.
func (p *Proxy) OnEmbedderEvent(ev Event) { p.Send(ev) }

// Dropped reports how many events were discarded on a full buffer.
func (p *Proxy) Dropped() uint64 {
	if p == nil {
		return 0
	}
	return p.dropped.Load()
}

// Next blocks for the next event. It returns the context error on
// cancellation and ErrClosed once the receiver is closed and drained.
func (r *Receiver) Next(ctx context.Context) (Event, error) {
	select {
	case ev := <-r.events:
		return ev, nil
	default:
	}
	select {
	case ev := <-r.events:
		return ev, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case <-r.done:
		select {
		case ev := <-r.events:
			return ev, nil
		default:
			return Event{}, ErrClosed
		}
	}
}

// TryNext returns a buffered event without blocking.
func (r *Receiver) TryNext() (Event, bool) {
	select {
	case ev := <-r.events:
		return ev, true
	default:
		return Event{}, false
	}
}

// Close marks the receiver gone. Buffered events stay readable; producers
// switch to warn-and-drop. Close is idempotent.
func (r *Receiver) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}
