package refresh

import (
	"context"
	"sync"
	"time"

	"pkt.systems/orrery/internal/deadline"
	"pkt.systems/pslog"
)

// TimerDriver delivers frame callbacks from a dedicated timer goroutine.
// Each request fires once, one period after it was made.
type TimerDriver struct {
	period    time.Duration
	requests  chan func()
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	log       pslog.Logger
}

// NewTimerDriver starts the timer goroutine. A period of zero or less gets
// DefaultFramePeriod.
func NewTimerDriver(period time.Duration, logger pslog.Logger) *TimerDriver {
	if period <= 0 {
		period = DefaultFramePeriod
	}
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	d := &TimerDriver{
		period:   period,
		requests: make(chan func()),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		log:      logger,
	}
	go d.run()
	return d
}

// ObserveNextFrame implements Driver. Requests after Close are logged and
// dropped.
func (d *TimerDriver) ObserveNextFrame(cb func()) {
	select {
	case d.requests <- cb:
	case <-d.quit:
		d.log.Warn("frame request after timer driver close")
	}
}

// Close stops the timer goroutine and waits for it to exit. Pending frame
// callbacks are discarded. Close is idempotent.
func (d *TimerDriver) Close() error {
	d.closeOnce.Do(func() { close(d.quit) })
	<-d.done
	return nil
}

func (d *TimerDriver) run() {
	defer close(d.done)
	var queue deadline.Queue
	timer := time.NewTimer(d.period)
	timer.Stop()
	defer timer.Stop()
	for {
		var fire <-chan time.Time
		if next, ok := queue.Next(); ok {
			timer.Reset(time.Until(next))
			fire = timer.C
		} else {
			timer.Stop()
		}
		select {
		case <-d.quit:
			return
		case cb := <-d.requests:
			queue.Push(time.Now().Add(d.period), cb)
		case now := <-fire:
			for _, cb := range queue.PopDue(now) {
				cb()
			}
		}
	}
}
