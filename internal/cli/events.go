package cli

import (
	"encoding/json"
	"io"

	"github.com/benoitkugler/svgconv/svgconv"
)

// jsonEvent is one line of the --json stream.
type jsonEvent struct {
	Event   string        `json:"event"`
	Payload svgconv.Event `json:"payload"`
}

// jsonEmitter writes events as JSON lines.
type jsonEmitter struct {
	enc *json.Encoder
}

func newJSONEmitter(w io.Writer) jsonEmitter {
	return jsonEmitter{enc: json.NewEncoder(w)}
}

func (e jsonEmitter) Emit(ev svgconv.Event) {
	_ = e.enc.Encode(jsonEvent{Event: ev.Name(), Payload: ev})
}

// printEmitter prints one line per converted file.
type printEmitter struct {
	w io.Writer
}

func newPrintEmitter(w io.Writer) printEmitter { return printEmitter{w: w} }

func (e printEmitter) Emit(ev svgconv.Event) {
	switch ev := ev.(type) {
	case svgconv.ProgressEvent:
		if ev.Phase == svgconv.PhaseStart && ev.Total == 0 {
			printWarning(e.w, "no SVG file found")
		}
	case svgconv.ItemEvent:
		if ev.OK {
			printSuccess(e.w, "%s %s %s", ev.SVG, StyleDim.Render(iconArrow), StyleValue.Render(ev.PNG))
		} else {
			printError(e.w, "%s", ev.SVG)
			printDetail(e.w, "%s", ev.Error)
		}
	}
}
