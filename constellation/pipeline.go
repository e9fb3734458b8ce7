package constellation

import (
	"context"

	"pkt.systems/orrery/schema"
)

// Pipeline is the constellation's registry entry for one content pipeline.
// The constellation treats the pipeline as an opaque message endpoint; the
// states Loading, AwaitingPaintPermission and Painting are derived from the
// candidate and painter fields rather than stored.
type Pipeline struct {
	ID        schema.PipelineID
	WebView   schema.WebViewID
	URL       string
	NavType   schema.NavigationType
	Animating bool

	sender chan schema.PipelineMsg
}

// PipelineSpec describes a content pipeline to start. The starter owns the
// inbox's receive side; the send functions carry messages back into the
// engine and fail with ErrEngineClosed after shutdown.
type PipelineSpec struct {
	ID            schema.PipelineID
	WebView       schema.WebViewID
	URL           string
	NavType       schema.NavigationType
	Viewport      schema.ViewportDetails
	Inbox         <-chan schema.PipelineMsg
	Constellation func(schema.ConstellationMsg) error
	Compositor    func(schema.CompositorMsg) error
}

// PipelineStarter launches content pipelines. The engine's default starter
// runs the synthetic content loop; embedders and tests substitute their own.
type PipelineStarter interface {
	StartPipeline(ctx context.Context, spec PipelineSpec) error
}

// StarterFunc adapts a function to PipelineStarter.
type StarterFunc func(ctx context.Context, spec PipelineSpec) error

// StartPipeline implements PipelineStarter.
func (f StarterFunc) StartPipeline(ctx context.Context, spec PipelineSpec) error {
	return f(ctx, spec)
}

// ResourceExiter releases shared resources pipelines depend on. It runs once
// during engine shutdown, after every pipeline received its exit message.
type ResourceExiter interface {
	Exit()
}
