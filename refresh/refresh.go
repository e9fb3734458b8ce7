// Package refresh drives the engine's frame cadence. A BaseDriver is the
// single source of truth for whether a frame is scheduled; concrete Drivers
// (the timer driver, or an embedder vsync source) deliver one-shot frame
// callbacks.
package refresh

import (
	"time"

	"pkt.systems/orrery/schema"
)

// DefaultFramePeriod is one frame at the default cadence.
const DefaultFramePeriod = time.Second / schema.DefaultRefreshRate

// Driver schedules one-shot callbacks at the next frame boundary.
type Driver interface {
	// ObserveNextFrame registers cb to run exactly once at the next frame
	// boundary. The callback may run on any goroutine.
	ObserveNextFrame(cb func())
}

// Observer is notified when a driven frame starts. Returning false drops the
// observer from the set.
type Observer interface {
	FrameStarted(p Painter) bool
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(Painter) bool

// FrameStarted implements Observer.
func (f ObserverFunc) FrameStarted(p Painter) bool { return f(p) }

// Painter is the paint surface an observer may query mid-frame.
type Painter interface {
	// AnimatingWebViews lists webviews that currently run animations.
	AnimatingWebViews() []schema.WebViewID
}

// AnimatingView exposes the animation state inspected when a webview's
// animations start or stop.
type AnimatingView interface {
	ID() schema.WebViewID
	Animating() bool
}

// RepaintReason classifies why a repaint was requested.
type RepaintReason int

const (
	// RepaintNewFrameReady marks a freshly composited content frame. It is
	// the only reason the scheduler may defer.
	RepaintNewFrameReady RepaintReason = iota
	// RepaintResize marks a viewport change.
	RepaintResize
	// RepaintNewPainter marks a painter swap.
	RepaintNewPainter
	// RepaintSpin marks a host-requested flush.
	RepaintSpin
)

// String renders the reason for logs.
func (r RepaintReason) String() string {
	switch r {
	case RepaintNewFrameReady:
		return "new-frame-ready"
	case RepaintResize:
		return "resize"
	case RepaintNewPainter:
		return "new-painter"
	case RepaintSpin:
		return "spin"
	default:
		return "unknown"
	}
}
