package refresh

import (
	"sync/atomic"
	"testing"

	"pkt.systems/orrery/embedder"
	"pkt.systems/orrery/schema"
)

// fakeDriver records frame requests and fires them on demand.
type fakeDriver struct {
	requests int
	pending  []func()
}

func (d *fakeDriver) ObserveNextFrame(cb func()) {
	d.requests++
	d.pending = append(d.pending, cb)
}

func (d *fakeDriver) fire(t *testing.T) {
	t.Helper()
	if len(d.pending) == 0 {
		t.Fatal("no pending frame callback to fire")
	}
	cb := d.pending[0]
	d.pending = d.pending[1:]
	cb()
}

type fakePainter struct {
	ids []schema.WebViewID
}

func (p fakePainter) AnimatingWebViews() []schema.WebViewID { return p.ids }

func TestFirstObserverArmsDriverOnce(t *testing.T) {
	driver := &fakeDriver{}
	base := New(embedder.NopWaker{}, driver, nil)

	base.AddObserver(ObserverFunc(func(Painter) bool { return true }))
	if driver.requests != 1 {
		t.Fatalf("requests after first observer = %d, want 1", driver.requests)
	}
	base.AddObserver(ObserverFunc(func(Painter) bool { return true }))
	if driver.requests != 1 {
		t.Fatalf("second observer re-armed the driver: %d requests", driver.requests)
	}
}

func TestAtMostOnePendingFrame(t *testing.T) {
	driver := &fakeDriver{}
	var wakes atomic.Int64
	base := New(embedder.WakerFunc(func() { wakes.Add(1) }), driver, nil)

	calls := 0
	base.AddObserver(ObserverFunc(func(Painter) bool { calls++; return true }))

	for i := 0; i < 3; i++ {
		base.NotifyWillPaint(fakePainter{})
	}
	if driver.requests != 1 {
		t.Fatalf("requests while pending = %d, want 1", driver.requests)
	}
	if calls != 0 {
		t.Fatalf("observers ran while a frame was pending: %d calls", calls)
	}

	driver.fire(t)
	if wakes.Load() != 1 {
		t.Fatalf("wakes after fire = %d, want 1", wakes.Load())
	}

	base.NotifyWillPaint(fakePainter{})
	if calls != 1 {
		t.Fatalf("observer calls after fire+paint = %d, want 1", calls)
	}
	if driver.requests != 2 {
		t.Fatalf("observer retention did not re-arm: %d requests", driver.requests)
	}
}

func TestObserverSelfRemoval(t *testing.T) {
	driver := &fakeDriver{}
	base := New(embedder.NopWaker{}, driver, nil)

	dropCalls := 0
	keepCalls := 0
	base.AddObserver(ObserverFunc(func(Painter) bool { dropCalls++; return false }))
	base.AddObserver(ObserverFunc(func(Painter) bool { keepCalls++; return true }))

	driver.fire(t)
	base.NotifyWillPaint(fakePainter{})
	driver.fire(t)
	base.NotifyWillPaint(fakePainter{})

	if dropCalls != 1 {
		t.Fatalf("dropped observer ran %d times, want 1", dropCalls)
	}
	if keepCalls != 2 {
		t.Fatalf("kept observer ran %d times, want 2", keepCalls)
	}
}

func TestAllObserversGoneStopsRequesting(t *testing.T) {
	driver := &fakeDriver{}
	base := New(embedder.NopWaker{}, driver, nil)

	base.AddObserver(ObserverFunc(func(Painter) bool { return false }))
	driver.fire(t)
	base.NotifyWillPaint(fakePainter{})

	if driver.requests != 1 {
		t.Fatalf("requests after last observer left = %d, want 1", driver.requests)
	}
	// Painting with an empty set stays a no-op.
	base.NotifyWillPaint(fakePainter{})
	if driver.requests != 1 {
		t.Fatalf("empty observer set re-armed the driver: %d requests", driver.requests)
	}
}

func TestReAddAfterRemovalArmsAgain(t *testing.T) {
	driver := &fakeDriver{}
	base := New(embedder.NopWaker{}, driver, nil)

	base.AddObserver(ObserverFunc(func(Painter) bool { return false }))
	driver.fire(t)
	base.NotifyWillPaint(fakePainter{})

	base.AddObserver(ObserverFunc(func(Painter) bool { return true }))
	if driver.requests != 2 {
		t.Fatalf("re-added observer did not arm the driver: %d requests", driver.requests)
	}
}

func TestWaitToPaint(t *testing.T) {
	driver := &fakeDriver{}
	base := New(embedder.NopWaker{}, driver, nil)

	if base.WaitToPaint(RepaintNewFrameReady) {
		t.Fatal("deferred with no observers")
	}

	base.AddObserver(ObserverFunc(func(Painter) bool { return true }))
	if !base.WaitToPaint(RepaintNewFrameReady) {
		t.Fatal("new frame did not defer while a frame is pending")
	}
	if base.WaitToPaint(RepaintResize) {
		t.Fatal("resize deferred")
	}
	if base.WaitToPaint(RepaintNewPainter) {
		t.Fatal("painter swap deferred")
	}
	if base.WaitToPaint(RepaintSpin) {
		t.Fatal("spin deferred")
	}

	driver.fire(t)
	if base.WaitToPaint(RepaintNewFrameReady) {
		t.Fatal("deferred with no frame pending")
	}
}
