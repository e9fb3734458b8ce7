package logx

import (
	"context"

	"pkt.systems/orrery/schema"
	"pkt.systems/pslog"
)

type contextKey int

const (
	webViewKey contextKey = iota
	pipelineKey
)

// WithWebView annotates the logger with the webview id if present.
func WithWebView(ctx context.Context, id schema.WebViewID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if id != 0 {
		if current, ok := ctx.Value(webViewKey).(schema.WebViewID); ok && current == id {
			return log
		}
		log = log.With("webview", id)
	}
	return log
}

// WithPipeline annotates the logger with webview and pipeline identifiers.
func WithPipeline(ctx context.Context, webView schema.WebViewID, pipeline schema.PipelineID) pslog.Logger {
	log := WithWebView(ctx, webView)
	if pipeline != 0 {
		if current, ok := ctx.Value(pipelineKey).(schema.PipelineID); ok && current == pipeline {
			return log
		}
		log = log.With("pipeline", pipeline)
	}
	return log
}

// ContextWithWebView stores the webview marker on the context for log
// de-duplication.
func ContextWithWebView(ctx context.Context, id schema.WebViewID) context.Context {
	if ctx == nil || id == 0 {
		return ctx
	}
	return context.WithValue(ctx, webViewKey, id)
}

// ContextWithPipeline stores the pipeline marker on the context for log
// de-duplication.
func ContextWithPipeline(ctx context.Context, id schema.PipelineID) context.Context {
	if ctx == nil || id == 0 {
		return ctx
	}
	return context.WithValue(ctx, pipelineKey, id)
}

// ContextWithWebViewLogger attaches the logger and webview marker to the
// context.
func ContextWithWebViewLogger(ctx context.Context, log pslog.Logger, id schema.WebViewID) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithWebView(ctx, id)
}
