package svgicon

import (
	"math"
	"strings"

	"github.com/srwiley/rasterx"
)

// AspectRatio is the value of a preserveAspectRatio attribute.
type AspectRatio struct {
	None           bool    // scale non-uniformly to fill the viewport
	AlignX, AlignY float64 // 0 for Min, 0.5 for Mid, 1 for Max
	Slice          bool    // cover the viewport instead of fitting in it
}

// DefaultAspect is xMidYMid meet.
var DefaultAspect = AspectRatio{AlignX: 0.5, AlignY: 0.5}

var alignFractions = map[string]float64{"min": 0, "mid": 0.5, "max": 1}

// ParseAspectRatio parses a preserveAspectRatio value.
// Invalid values are ignored and yield DefaultAspect.
func ParseAspectRatio(v string) AspectRatio {
	fields := strings.Fields(v)
	if len(fields) > 0 && fields[0] == "defer" {
		fields = fields[1:]
	}
	if len(fields) == 0 || len(fields) > 2 {
		return DefaultAspect
	}

	var out AspectRatio
	if len(fields) == 2 {
		switch fields[1] {
		case "meet":
		case "slice":
			out.Slice = true
		default:
			return DefaultAspect
		}
	}

	align := fields[0]
	if align == "none" {
		out.None = true
		return out
	}
	// xMinYMin ... xMaxYMax
	if len(align) != 8 || align[0] != 'x' || align[4] != 'Y' {
		return DefaultAspect
	}
	ax, okX := alignFractions[strings.ToLower(align[1:4])]
	ay, okY := alignFractions[strings.ToLower(align[5:8])]
	if !okX || !okY {
		return DefaultAspect
	}
	out.AlignX, out.AlignY = ax, ay
	return out
}

// viewTransform maps the view box `vb` onto the viewport (0, 0, w, h).
func (a AspectRatio) viewTransform(vb Bounds, w, h float64) rasterx.Matrix2D {
	sx, sy := w/vb.W, h/vb.H
	if a.None {
		return rasterx.Identity.Scale(sx, sy).Translate(-vb.X, -vb.Y)
	}
	s := math.Min(sx, sy)
	if a.Slice {
		s = math.Max(sx, sy)
	}
	tx := (w - vb.W*s) * a.AlignX
	ty := (h - vb.H*s) * a.AlignY
	return rasterx.Identity.Translate(tx, ty).Scale(s, s).Translate(-vb.X, -vb.Y)
}
