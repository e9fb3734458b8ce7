package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"pkt.systems/pslog"
)

func TestWithWebViewAddsField(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	ctx := pslog.ContextWithLogger(context.Background(), logger)
	log := WithWebView(ctx, 3)
	log.Info("hello")

	entry := capture.firstEntry(t)
	if _, ok := entry["webview"]; !ok {
		t.Fatalf("expected webview field, got %+v", entry)
	}
}

func TestWithWebViewSkipsZeroID(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	ctx := pslog.ContextWithLogger(context.Background(), logger)
	log := WithWebView(ctx, 0)
	log.Info("hello")

	entry := capture.firstEntry(t)
	if _, ok := entry["webview"]; ok {
		t.Fatalf("did not expect webview field for zero id, got %+v", entry)
	}
}

func TestWithPipelineAddsFields(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	ctx := pslog.ContextWithLogger(context.Background(), logger)
	log := WithPipeline(ctx, 3, 7)
	log.Info("hello")

	entry := capture.firstEntry(t)
	if _, ok := entry["webview"]; !ok {
		t.Fatalf("expected webview field, got %+v", entry)
	}
	if _, ok := entry["pipeline"]; !ok {
		t.Fatalf("expected pipeline field, got %+v", entry)
	}
}

func TestWithWebViewDeduplicatesMarkedContext(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	ctx := ContextWithWebViewLogger(context.Background(), logger.With("webview", 3), 3)
	log := WithWebView(ctx, 3)
	log.Info("hello")

	line := capture.firstLine(t)
	if n := bytes.Count(line, []byte("webview")); n != 1 {
		t.Fatalf("webview annotated %d times in %s", n, line)
	}
}

type logCapture struct {
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *logCapture) firstLine(t *testing.T) []byte {
	t.Helper()
	data := c.buf.Bytes()
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		idx = len(data)
	}
	return bytes.TrimSpace(data[:idx])
}

func (c *logCapture) firstEntry(t *testing.T) map[string]any {
	t.Helper()
	entry := map[string]any{}
	if err := json.Unmarshal(c.firstLine(t), &entry); err != nil {
		t.Fatalf("parse log entry: %v", err)
	}
	return entry
}
