// Implements a raster backend to render SVG documents,
// by wrapping rasterx.
package svgraster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/benoitkugler/svgconv/svgicon"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

// ErrEmptyCanvas is returned when asking for a canvas without area.
var ErrEmptyCanvas = errors.New("svgraster: canvas must have a positive width and height")

// Renderer paints documents into an RGBA image
// of a fixed size.
type Renderer struct {
	img    *image.RGBA
	dasher *rasterx.Dasher // owns the scanner
}

// NewRenderer allocates a transparent canvas of the given size.
func NewRenderer(width, height int) (rd *Renderer, err error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyCanvas
	}
	defer func() {
		if r := recover(); r != nil { // image.NewRGBA panics when the buffer can't be made
			rd, err = nil, fmt.Errorf("svgraster: can't allocate %dx%d canvas: %v", width, height, r)
		}
	}()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	return &Renderer{img: img, dasher: rasterx.NewDasher(width, height, scanner)}, nil
}

// Image returns the canvas.
func (rd *Renderer) Image() *image.RGBA { return rd.img }

// Fill replaces every pixel of the canvas by `bg`.
// A nil color clears the canvas to transparent.
func (rd *Renderer) Fill(bg color.Color) {
	if bg == nil {
		bg = color.Transparent
	}
	draw.Draw(rd.img, rd.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

// Draw rasterizes the document over the current content of the canvas.
// `t` maps the natural size space of the document to pixels.
func (rd *Renderer) Draw(doc *svgicon.Document, t Transform) {
	icon := doc.Icon
	saved := icon.Transform
	icon.Transform = t.Matrix().Mult(doc.ViewTransform())
	defer func() { icon.Transform = saved }() // Restore untransformed matrix

	icon.Draw(rd.dasher, 1.0)
}

// RasterDocument renders the document into a new image of the given size,
// composited over `bg` (transparent if nil).
func RasterDocument(doc *svgicon.Document, size svgicon.Size, t Transform, bg color.Color) (*image.RGBA, error) {
	rd, err := NewRenderer(size.Width, size.Height)
	if err != nil {
		return nil, err
	}
	rd.Fill(bg)
	rd.Draw(doc, t)
	return rd.Image(), nil
}
