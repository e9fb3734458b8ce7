package schema

import "time"

// NavigationType records how a pipeline became a painter candidate.
type NavigationType int

const (
	// NavigationLoad is a fresh load; it pushes a history entry when the
	// swap commits.
	NavigationLoad NavigationType = iota
	// NavigationTraverse is a back/forward traversal; the entry is already
	// in the history and is never re-pushed.
	NavigationTraverse
)

// String renders the navigation type for logs.
func (t NavigationType) String() string {
	switch t {
	case NavigationLoad:
		return "load"
	case NavigationTraverse:
		return "traverse"
	default:
		return "unknown"
	}
}

// TraverseDirection selects which history stack a traversal pops.
type TraverseDirection int

const (
	// TraverseBack pops the previous stack.
	TraverseBack TraverseDirection = iota
	// TraverseForward pops the next stack.
	TraverseForward
)

// String renders the direction for logs.
func (d TraverseDirection) String() string {
	if d == TraverseForward {
		return "forward"
	}
	return "back"
}

// ViewportDetails describes a webview's rendering area in device-independent
// pixels plus the device scale factor.
type ViewportDetails struct {
	Width       float32
	Height      float32
	ScaleFactor float32
}

// ScrollState carries the scroll offset of one scrollable node.
type ScrollState struct {
	Node    uint64
	OffsetX float32
	OffsetY float32
}

// PaintMetricKind names a paint timing milestone.
type PaintMetricKind int

const (
	// MetricFirstPaint marks the first presented frame of a pipeline.
	MetricFirstPaint PaintMetricKind = iota
	// MetricFirstContentfulPaint marks the first frame with content.
	MetricFirstContentfulPaint
)

// String renders the metric kind for logs.
func (k PaintMetricKind) String() string {
	if k == MetricFirstContentfulPaint {
		return "first-contentful-paint"
	}
	return "first-paint"
}

// PaintMetricEvent is a paint timing sample reported by the compositor and
// routed to the owning pipeline.
type PaintMetricEvent struct {
	Kind PaintMetricKind
	At   time.Time
}

// LoadStatus describes document load progress.
type LoadStatus int

const (
	// LoadStarted is emitted when a pipeline begins loading.
	LoadStarted LoadStatus = iota
	// LoadComplete is emitted when a pipeline's first frame is committed.
	LoadComplete
)

// String renders the load status for logs.
func (s LoadStatus) String() string {
	if s == LoadComplete {
		return "complete"
	}
	return "started"
}

// LogLevel is the severity carried by an injected log entry.
type LogLevel int

const (
	// LogLevelDebug routes the entry to the debug level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo routes the entry to the info level.
	LogLevelInfo
	// LogLevelWarn routes the entry to the warn level.
	LogLevelWarn
	// LogLevelError routes the entry to the error level.
	LogLevelError
)

// String renders the level for logs.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "info"
	}
}
