package refresh

import (
	"context"
	"io"
	"sync/atomic"

	"pkt.systems/orrery/embedder"
	"pkt.systems/pslog"
)

// BaseDriver decides when the next frame is scheduled and who hears about
// it. The observer set is confined to the painting goroutine; the pending
// flag is the only value written across goroutines.
type BaseDriver struct {
	driver     Driver
	ownsDriver bool
	waker      embedder.EventLoopWaker
	waiting    atomic.Bool
	observers  []Observer
	log        pslog.Logger
}

// New constructs a BaseDriver. A nil driver gets an owned TimerDriver at the
// default period; an owned driver is closed by Close.
func New(waker embedder.EventLoopWaker, driver Driver, logger pslog.Logger) *BaseDriver {
	if waker == nil {
		waker = embedder.NopWaker{}
	}
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	b := &BaseDriver{driver: driver, waker: waker, log: logger}
	if b.driver == nil {
		b.driver = NewTimerDriver(DefaultFramePeriod, logger)
		b.ownsDriver = true
	}
	return b
}

// AddObserver registers an observer. The first observer arms the driver.
func (b *BaseDriver) AddObserver(obs Observer) {
	b.observers = append(b.observers, obs)
	if len(b.observers) == 1 {
		b.observeNextFrame()
	}
}

// NotifyWillPaint runs the per-frame observer dispatch. While a frame is
// pending it returns immediately; the pending fire wakes the host, which
// paints and lands here again with the flag cleared. Observers returning
// false are dropped, and another frame is requested while any remain.
func (b *BaseDriver) NotifyWillPaint(p Painter) {
	if b.waiting.Load() {
		return
	}
	if len(b.observers) == 0 {
		return
	}
	kept := b.observers[:0]
	for _, obs := range b.observers {
		if obs.FrameStarted(p) {
			kept = append(kept, obs)
		}
	}
	for i := len(kept); i < len(b.observers); i++ {
		b.observers[i] = nil
	}
	b.observers = kept
	if len(b.observers) > 0 {
		b.observeNextFrame()
	}
}

// WaitToPaint reports whether a repaint should wait for the scheduled frame.
// Only a new composited frame defers, and only while observers exist and a
// frame is pending; every other reason paints immediately.
func (b *BaseDriver) WaitToPaint(reason RepaintReason) bool {
	return len(b.observers) > 0 && reason == RepaintNewFrameReady && b.waiting.Load()
}

// observeNextFrame arms the driver with a one-shot callback that clears the
// pending flag and wakes the host. At most one frame is ever pending.
func (b *BaseDriver) observeNextFrame() {
	if b.waiting.Swap(true) {
		return
	}
	b.log.Trace("refresh frame scheduled")
	b.driver.ObserveNextFrame(func() {
		b.waiting.Store(false)
		b.waker.Wake()
	})
}

// Close stops an owned timer driver. A caller-supplied driver stays the
// caller's to close.
func (b *BaseDriver) Close() error {
	if !b.ownsDriver {
		return nil
	}
	if closer, ok := b.driver.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
