package refresh

import (
	"errors"
	"testing"

	"pkt.systems/orrery/schema"
)

type fakeView struct {
	id        schema.WebViewID
	animating bool
}

func (v fakeView) ID() schema.WebViewID { return v.id }
func (v fakeView) Animating() bool      { return v.animating }

type tickRecorder struct {
	batches [][]schema.WebViewID
	err     error
}

func (r *tickRecorder) send(msg schema.ConstellationMsg) error {
	if r.err != nil {
		return r.err
	}
	tick, ok := msg.(schema.TickAnimationMsg)
	if !ok {
		return errors.New("unexpected message type")
	}
	r.batches = append(r.batches, tick.WebViews)
	return nil
}

func TestNotifyAnimationStateChangedLatches(t *testing.T) {
	rec := &tickRecorder{}
	obs := NewAnimationObserver(rec.send, nil)

	if obs.NotifyAnimationStateChanged(fakeView{id: 1, animating: false}) {
		t.Fatal("idle view reported a transition")
	}
	if len(rec.batches) != 0 {
		t.Fatalf("idle view triggered %d ticks", len(rec.batches))
	}

	if !obs.NotifyAnimationStateChanged(fakeView{id: 1, animating: true}) {
		t.Fatal("first transition did not report true")
	}
	if obs.NotifyAnimationStateChanged(fakeView{id: 2, animating: true}) {
		t.Fatal("re-entry while animating reported a transition")
	}
	// Both animating views still got their immediate ticks.
	if len(rec.batches) != 2 {
		t.Fatalf("immediate ticks = %d, want 2", len(rec.batches))
	}
}

func TestFrameStartedBatchesAllAnimatingWebViews(t *testing.T) {
	rec := &tickRecorder{}
	obs := NewAnimationObserver(rec.send, nil)
	obs.NotifyAnimationStateChanged(fakeView{id: 1, animating: true})
	rec.batches = nil

	if !obs.FrameStarted(fakePainter{ids: []schema.WebViewID{1, 2}}) {
		t.Fatal("observer resigned with animations running")
	}
	if len(rec.batches) != 1 {
		t.Fatalf("ticks per frame = %d, want 1", len(rec.batches))
	}
	if got := rec.batches[0]; len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("batch = %v, want [1 2]", got)
	}
}

func TestFrameStartedIdleClearsLatch(t *testing.T) {
	rec := &tickRecorder{}
	obs := NewAnimationObserver(rec.send, nil)
	obs.NotifyAnimationStateChanged(fakeView{id: 1, animating: true})

	if obs.FrameStarted(fakePainter{}) {
		t.Fatal("observer stayed registered with nothing animating")
	}
	// The latch cleared, so the next animation start is a transition again.
	if !obs.NotifyAnimationStateChanged(fakeView{id: 1, animating: true}) {
		t.Fatal("latch did not clear on idle frame")
	}
}

func TestFrameStartedSendFailureResigns(t *testing.T) {
	rec := &tickRecorder{err: errors.New("inbox gone")}
	obs := NewAnimationObserver(rec.send, nil)
	obs.animating = true

	if obs.FrameStarted(fakePainter{ids: []schema.WebViewID{1}}) {
		t.Fatal("observer stayed registered after a failed send")
	}
	rec.err = nil
	if !obs.NotifyAnimationStateChanged(fakeView{id: 1, animating: true}) {
		t.Fatal("latch did not clear after failed send")
	}
}
