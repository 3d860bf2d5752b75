package svgraster

import (
	"fmt"
	"math"

	"github.com/benoitkugler/svgconv/svgicon"
	"github.com/srwiley/rasterx"
)

// Transform is an axis aligned affine map, from
// the natural size space of a document to output pixels:
//
//	x' = ScaleX*x + TranslateX
//	y' = ScaleY*y + TranslateY
type Transform struct {
	ScaleX, ScaleY         float64
	TranslateX, TranslateY float64
}

// Identity does not change coordinates.
var Identity = Transform{ScaleX: 1, ScaleY: 1}

// Stretch scales each axis independently so that a source
// of size `srcW` x `srcH` exactly fills `target`.
// The aspect ratio is not preserved.
func Stretch(srcW, srcH float64, target svgicon.Size) Transform {
	return Transform{
		ScaleX: float64(target.Width) / srcW,
		ScaleY: float64(target.Height) / srcH,
	}
}

// Cover scales uniformly so that the source covers `target` on both axes,
// and centers it: the overflow is cropped equally from both edges.
func Cover(srcW, srcH float64, target svgicon.Size) Transform {
	tw, th := float64(target.Width), float64(target.Height)
	s := math.Max(tw/srcW, th/srcH)
	return Transform{
		ScaleX:     s,
		ScaleY:     s,
		TranslateX: (tw - srcW*s) / 2,
		TranslateY: (th - srcH*s) / 2,
	}
}

// Matrix returns the transform as [sx, 0, 0, sy, tx, ty].
func (t Transform) Matrix() rasterx.Matrix2D {
	return rasterx.Matrix2D{A: t.ScaleX, D: t.ScaleY, E: t.TranslateX, F: t.TranslateY}
}

// Apply maps the point (x, y).
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.ScaleX*x + t.TranslateX, t.ScaleY*y + t.TranslateY
}

func (t Transform) String() string {
	return fmt.Sprintf("(%g,0,0,%g,%g,%g)", t.ScaleX, t.ScaleY, t.TranslateX, t.TranslateY)
}
