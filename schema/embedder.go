package schema

// EmbedderMsg is a notification the engine pushes across the embedder
// boundary. Each event travels with the webview it concerns (or none).
type EmbedderMsg interface {
	// LogTarget returns the static log-routing target for the variant.
	LogTarget() string
	isEmbedderMsg()
}

// WebViewOpenedMsg reports a freshly created webview.
type WebViewOpenedMsg struct {
	WebView WebViewID
}

// WebViewClosedMsg reports a destroyed webview.
type WebViewClosedMsg struct {
	WebView WebViewID
}

// WebViewFocusedMsg reports the webview that now holds focus.
type WebViewFocusedMsg struct {
	WebView WebViewID
}

// WebViewBlurredMsg reports that no webview holds focus.
type WebViewBlurredMsg struct{}

// HistoryChangedMsg reports a webview's session history after a commit or
// traversal. Entries are ordered oldest first and Current indexes into them.
type HistoryChangedMsg struct {
	Entries []string
	Current int
}

// LoadStatusChangedMsg reports document load progress to the embedder.
type LoadStatusChangedMsg struct {
	Status LoadStatus
}

// FrameReadyMsg reports that the compositor presented a new frame.
type FrameReadyMsg struct {
	Pipeline PipelineID
	Epoch    Epoch
}

// ShutdownCompleteMsg acknowledges a clean engine shutdown.
type ShutdownCompleteMsg struct{}

func (WebViewOpenedMsg) isEmbedderMsg()     {}
func (WebViewClosedMsg) isEmbedderMsg()     {}
func (WebViewFocusedMsg) isEmbedderMsg()    {}
func (WebViewBlurredMsg) isEmbedderMsg()    {}
func (HistoryChangedMsg) isEmbedderMsg()    {}
func (LoadStatusChangedMsg) isEmbedderMsg() {}
func (FrameReadyMsg) isEmbedderMsg()        {}
func (ShutdownCompleteMsg) isEmbedderMsg()  {}

// LogTarget implements EmbedderMsg.
func (WebViewOpenedMsg) LogTarget() string { return "embedder<FromConstellation>::WebViewOpened" }

// LogTarget implements EmbedderMsg.
func (WebViewClosedMsg) LogTarget() string { return "embedder<FromConstellation>::WebViewClosed" }

// LogTarget implements EmbedderMsg.
func (WebViewFocusedMsg) LogTarget() string { return "embedder<FromConstellation>::WebViewFocused" }

// LogTarget implements EmbedderMsg.
func (WebViewBlurredMsg) LogTarget() string { return "embedder<FromConstellation>::WebViewBlurred" }

// LogTarget implements EmbedderMsg.
func (HistoryChangedMsg) LogTarget() string { return "embedder<FromConstellation>::HistoryChanged" }

// LogTarget implements EmbedderMsg.
func (LoadStatusChangedMsg) LogTarget() string {
	return "embedder<FromConstellation>::LoadStatusChanged"
}

// LogTarget implements EmbedderMsg.
func (FrameReadyMsg) LogTarget() string { return "embedder<FromCompositor>::FrameReady" }

// LogTarget implements EmbedderMsg.
func (ShutdownCompleteMsg) LogTarget() string {
	return "embedder<FromConstellation>::ShutdownComplete"
}
