package schema

import "fmt"

// WebViewID identifies a webview (one browsing surface with its own history).
// The zero value means "no webview".
type WebViewID uint64

// PipelineID identifies a content pipeline (one loaded document and its
// script/layout/paint endpoints). The zero value means "no pipeline".
type PipelineID uint64

// String renders the id for logs.
func (id WebViewID) String() string {
	if id == 0 {
		return "webview-none"
	}
	return fmt.Sprintf("webview-%d", uint64(id))
}

// String renders the id for logs.
func (id PipelineID) String() string {
	if id == 0 {
		return "pipeline-none"
	}
	return fmt.Sprintf("pipeline-%d", uint64(id))
}

// Epoch counts content frames produced by a pipeline. It increases by one per
// rendered frame and never wraps in practice.
type Epoch uint64
