package embedder

// EventLoopWaker nudges the host's event loop. Wake must be safe to call
// from any goroutine and may fire before the host loop starts running.
type EventLoopWaker interface {
	Wake()
}

// WakerFunc adapts a plain function to an EventLoopWaker.
type WakerFunc func()

// Wake implements EventLoopWaker.
func (f WakerFunc) Wake() {
	if f != nil {
		f()
	}
}

// NopWaker discards wakes. Useful before the host loop exists.
type NopWaker struct{}

// Wake implements EventLoopWaker.
func (NopWaker) Wake() {}

// ChannelWaker coalesces wakes into a single-slot channel so a host select
// loop sees at most one pending wake no matter how many were issued.
type ChannelWaker struct {
	ch chan struct{}
}

// NewChannelWaker constructs a ChannelWaker.
func NewChannelWaker() *ChannelWaker {
	return &ChannelWaker{ch: make(chan struct{}, 1)}
}

// Wake implements EventLoopWaker.
func (w *ChannelWaker) Wake() {
	if w == nil {
		return
	}
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// C exposes the wake signal for select loops.
func (w *ChannelWaker) C() <-chan struct{} {
	return w.ch
}
