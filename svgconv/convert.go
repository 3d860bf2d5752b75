package svgconv

import (
	"fmt"
	"os"

	"github.com/benoitkugler/svgconv/svgicon"
	"github.com/benoitkugler/svgconv/svgraster"
)

// Engine identifies the rasterizer in item events.
const Engine = "oksvg"

// converted is the outcome of a successful item.
type converted struct {
	png  string
	size svgicon.Size
}

// convertOne reads, parses, renders and writes `src`, announcing each
// stage on `stages` before starting it. `stages` is closed on return.
// `root` is the folder of a folder batch, empty otherwise.
func convertOne(req *Request, src, root string, stages chan<- Phase) (converted, error) {
	defer close(stages)

	stages <- PhaseRead
	data, err := os.ReadFile(src)
	if err != nil {
		return converted{}, ioError(err)
	}

	stages <- PhaseParse
	doc, err := svgicon.ReadDocument(data, req.errorMode())
	if err != nil {
		return converted{}, parseError(err)
	}
	size, err := TargetSize(req, doc.IntrinsicSize())
	if err != nil {
		return converted{}, err
	}

	stages <- PhaseRender
	bg, err := background(req.Background)
	if err != nil {
		return converted{}, err
	}
	img, err := svgraster.RasterDocument(doc, size, req.transform(doc, size), bg)
	if err != nil {
		return converted{}, renderError(err)
	}

	stages <- PhaseWrite
	out := OutputPath(src, root, req.OutputDir, size)
	if err := prepareOutput(out); err != nil {
		return converted{}, err
	}
	b, err := svgraster.ToPNGBytes(img)
	if err != nil {
		return converted{}, renderError(fmt.Errorf("encoding PNG: %w", err))
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return converted{}, ioError(err)
	}
	return converted{png: out, size: size}, nil
}

// safeConvertOne turns a panic from the rasterizer into a RenderError,
// so that one malformed file does not abort the batch.
func safeConvertOne(req *Request, src, root string, stages chan<- Phase) (res converted, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = renderError(fmt.Errorf("rendering %s: %v", src, r))
		}
	}()
	return convertOne(req, src, root, stages)
}
