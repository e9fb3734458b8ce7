package refresh

import (
	"context"

	"pkt.systems/orrery/schema"
	"pkt.systems/pslog"
)

// AnimationObserver keeps animations ticking: once per driven frame it asks
// the painter which webviews animate and requests one batched tick for all
// of them. It belongs to the painting goroutine.
type AnimationObserver struct {
	send      func(schema.ConstellationMsg) error
	animating bool
	log       pslog.Logger
}

// NewAnimationObserver constructs an AnimationObserver sending ticks through
// send.
func NewAnimationObserver(send func(schema.ConstellationMsg) error, logger pslog.Logger) *AnimationObserver {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &AnimationObserver{send: send, log: logger}
}

// NotifyAnimationStateChanged reacts to a webview starting or stopping
// animations. A webview entering the animating state gets an immediate tick
// so its first animation frame is not delayed a full period. The return
// value is true only on the first transition into the animating state; the
// caller registers the observer exactly then. Re-entry while already
// animating is a no-op returning false.
func (o *AnimationObserver) NotifyAnimationStateChanged(view AnimatingView) bool {
	if !view.Animating() {
		return false
	}
	o.tick([]schema.WebViewID{view.ID()})
	if o.animating {
		return false
	}
	o.animating = true
	return true
}

// FrameStarted implements Observer. An empty animating set clears the latch
// and removes the observer; otherwise all animating webviews get one batched
// tick. A failed send also removes the observer so a later state change can
// re-register it.
func (o *AnimationObserver) FrameStarted(p Painter) bool {
	ids := p.AnimatingWebViews()
	if len(ids) == 0 {
		o.animating = false
		return false
	}
	if !o.tick(ids) {
		o.animating = false
		return false
	}
	return true
}

func (o *AnimationObserver) tick(ids []schema.WebViewID) bool {
	if err := o.send(schema.TickAnimationMsg{WebViews: ids}); err != nil {
		o.log.Warn("animation tick send failed", "webviews", len(ids), "err", err)
		return false
	}
	return true
}
