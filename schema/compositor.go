package schema

// CompositorMsg is a message bound for the compositor run loop.
type CompositorMsg interface {
	// LogTarget returns the static log-routing target for the variant.
	LogTarget() string
	isCompositorMsg()
}

// CompositorExitMsg stops the compositor loop and joins the frame-refresh
// timer before the loop returns.
type CompositorExitMsg struct{}

// SetPainterMsg hands the compositor a new painter pipeline for a webview
// together with the pipeline's render endpoint. The compositor acknowledges
// the swap with a CompositorAckMsg.
type SetPainterMsg struct {
	WebView  WebViewID
	Pipeline PipelineID
	Render   chan<- PipelineMsg
}

// PainterAnimationsChangedMsg updates the compositor's animating set for a
// pipeline of a webview.
type PainterAnimationsChangedMsg struct {
	WebView   WebViewID
	Pipeline  PipelineID
	Animating bool
}

// PainterViewportChangedMsg resizes a webview's painter through the active
// rendering path.
type PainterViewportChangedMsg struct {
	WebView  WebViewID
	Viewport ViewportDetails
}

// ClearPainterMsg drops the compositor's painter state for a closed webview.
type ClearPainterMsg struct {
	WebView WebViewID
}

// PipelineFrameMsg announces that a pipeline composited a new frame.
type PipelineFrameMsg struct {
	Pipeline PipelineID
	Epoch    Epoch
}

// FlushRepaintsMsg asks the compositor to paint any deferred repaints. Hosts
// post it (via Engine.Spin) after the event-loop waker fires.
type FlushRepaintsMsg struct{}

func (CompositorExitMsg) isCompositorMsg()           {}
func (SetPainterMsg) isCompositorMsg()               {}
func (PainterAnimationsChangedMsg) isCompositorMsg() {}
func (PainterViewportChangedMsg) isCompositorMsg()   {}
func (ClearPainterMsg) isCompositorMsg()             {}
func (PipelineFrameMsg) isCompositorMsg()            {}
func (FlushRepaintsMsg) isCompositorMsg()            {}

// LogTarget implements CompositorMsg.
func (CompositorExitMsg) LogTarget() string { return "compositor<FromConstellation>::Exit" }

// LogTarget implements CompositorMsg.
func (SetPainterMsg) LogTarget() string { return "compositor<FromConstellation>::SetPainter" }

// LogTarget implements CompositorMsg.
func (PainterAnimationsChangedMsg) LogTarget() string {
	return "compositor<FromConstellation>::PainterAnimationsChanged"
}

// LogTarget implements CompositorMsg.
func (PainterViewportChangedMsg) LogTarget() string {
	return "compositor<FromConstellation>::PainterViewportChanged"
}

// LogTarget implements CompositorMsg.
func (ClearPainterMsg) LogTarget() string { return "compositor<FromConstellation>::ClearPainter" }

// LogTarget implements CompositorMsg.
func (PipelineFrameMsg) LogTarget() string { return "compositor<FromPipeline>::PipelineFrame" }

// LogTarget implements CompositorMsg.
func (FlushRepaintsMsg) LogTarget() string { return "compositor<FromEmbedder>::FlushRepaints" }
