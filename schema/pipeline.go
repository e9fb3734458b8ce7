package schema

// PipelineMsg is a message bound for a pipeline's content event loop. The
// engine treats pipelines as opaque endpoints; this union is the entire
// contract between the coordination core and content.
type PipelineMsg interface {
	// LogTarget returns the static log-routing target for the variant.
	LogTarget() string
	isPipelineMsg()
}

// PipelineExitMsg tells the pipeline's event loop to stop.
type PipelineExitMsg struct{}

// PipelineTickAnimationMsg advances the pipeline's animations by one frame.
type PipelineTickAnimationMsg struct{}

// PipelinePaintPermissionMsg grants or revokes the right to paint. Revocation
// of the old painter always precedes the next grant.
type PipelinePaintPermissionMsg struct {
	Granted bool
}

// PipelineResizeInactiveMsg carries a viewport change to a pipeline that is
// not the current painter.
type PipelineResizeInactiveMsg struct {
	Viewport ViewportDetails
}

// PipelineViewportChangedMsg carries a viewport change to the current painter
// through the compositor's active path.
type PipelineViewportChangedMsg struct {
	Viewport ViewportDetails
}

// PipelineSetScrollStatesMsg delivers updated scroll offsets.
type PipelineSetScrollStatesMsg struct {
	Scroll []ScrollState
}

// PipelinePaintMetricMsg delivers a paint timing sample for the document.
type PipelinePaintMetricMsg struct {
	Event PaintMetricEvent
}

// PipelineSetThrottledMsg throttles or unthrottles the pipeline.
type PipelineSetThrottledMsg struct {
	Throttled bool
}

// PipelineThemeChangedMsg announces a theme switch.
type PipelineThemeChangedMsg struct {
	Dark bool
}

func (PipelineExitMsg) isPipelineMsg()            {}
func (PipelineTickAnimationMsg) isPipelineMsg()   {}
func (PipelinePaintPermissionMsg) isPipelineMsg() {}
func (PipelineResizeInactiveMsg) isPipelineMsg()  {}
func (PipelineViewportChangedMsg) isPipelineMsg() {}
func (PipelineSetScrollStatesMsg) isPipelineMsg() {}
func (PipelinePaintMetricMsg) isPipelineMsg()     {}
func (PipelineSetThrottledMsg) isPipelineMsg()    {}
func (PipelineThemeChangedMsg) isPipelineMsg()    {}

// LogTarget implements PipelineMsg.
func (PipelineExitMsg) LogTarget() string { return "pipeline<FromConstellation>::Exit" }

// LogTarget implements PipelineMsg.
func (PipelineTickAnimationMsg) LogTarget() string {
	return "pipeline<FromConstellation>::TickAnimation"
}

// LogTarget implements PipelineMsg.
func (PipelinePaintPermissionMsg) LogTarget() string {
	return "pipeline<FromConstellation>::PaintPermission"
}

// LogTarget implements PipelineMsg.
func (PipelineResizeInactiveMsg) LogTarget() string {
	return "pipeline<FromConstellation>::ResizeInactive"
}

// LogTarget implements PipelineMsg.
func (PipelineViewportChangedMsg) LogTarget() string {
	return "pipeline<FromCompositor>::ViewportChanged"
}

// LogTarget implements PipelineMsg.
func (PipelineSetScrollStatesMsg) LogTarget() string {
	return "pipeline<FromConstellation>::SetScrollStates"
}

// LogTarget implements PipelineMsg.
func (PipelinePaintMetricMsg) LogTarget() string {
	return "pipeline<FromConstellation>::PaintMetric"
}

// LogTarget implements PipelineMsg.
func (PipelineSetThrottledMsg) LogTarget() string {
	return "pipeline<FromConstellation>::SetThrottled"
}

// LogTarget implements PipelineMsg.
func (PipelineThemeChangedMsg) LogTarget() string {
	return "pipeline<FromConstellation>::ThemeChanged"
}
