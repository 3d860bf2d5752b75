package svgconv

// Phase is the step of a batch reported by a ProgressEvent.
type Phase string

const (
	PhaseStart  Phase = "start"
	PhaseRead   Phase = "read"
	PhaseParse  Phase = "parse"
	PhaseRender Phase = "render"
	PhaseWrite  Phase = "write"
	PhaseDone   Phase = "done"
)

// Event is sent by a Converter to its Emitter,
// either a ProgressEvent or an ItemEvent.
type Event interface {
	// Name identifies the kind of event for hosts
	// that multiplex several streams.
	Name() string
}

// ProgressEvent reports where a batch stands.
//
// Current is the 1-based index of the item being (or last) processed,
// 0 before the first one. Active is set only while an item is in flight.
// OK and Failed count the items completed so far.
type ProgressEvent struct {
	Phase   Phase  `json:"phase"`
	Current int    `json:"current"`
	Active  *int   `json:"active"`
	Total   int    `json:"total"`
	OK      int    `json:"ok"`
	Failed  int    `json:"failed"`
	LastSVG string `json:"lastSvg,omitempty"`
}

func (ProgressEvent) Name() string { return "convert-progress" }

// ItemEvent reports the outcome of one input.
// PNG and the output dimensions are only set on success,
// Error only on failure.
type ItemEvent struct {
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	SVG       string `json:"svg"`
	PNG       string `json:"png"`
	OutWidth  *int   `json:"outWidth"`
	OutHeight *int   `json:"outHeight"`
	OK        bool   `json:"ok"`
	Engine    string `json:"engine"`
	Error     string `json:"error,omitempty"`
}

func (ItemEvent) Name() string { return "convert-item" }

// Emitter receives the events of a batch, in order,
// from the goroutine calling Convert or one it waits for.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(Event)

func (f EmitterFunc) Emit(e Event) { f(e) }
