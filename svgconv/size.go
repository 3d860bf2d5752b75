package svgconv

import (
	"fmt"
	"math"

	"github.com/benoitkugler/svgconv/svgicon"
)

// MaxPixels caps the area of an output image.
// It is checked before any pixel buffer is allocated.
const MaxPixels = 80_000_000

// GetSize returns the intrinsic size of the SVG file at `path`.
func GetSize(path string) (svgicon.Size, error) {
	if !isSVGFile(path) {
		return svgicon.Size{}, invalidInput("Invalid SVG file path.")
	}
	size, err := svgicon.ReadSize(path)
	if err != nil {
		return svgicon.Size{}, parseError(err)
	}
	return size, nil
}

// TargetSize computes the size of the image produced from a document
// of intrinsic size `src`, and checks it against MaxPixels.
func TargetSize(req *Request, src svgicon.Size) (svgicon.Size, error) {
	var out svgicon.Size
	switch req.SizeMode {
	case ScaleMode:
		s := 1.
		if req.Scale != nil {
			s = *req.Scale
		}
		if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
			return out, invalidInput("Scale must be a positive number.")
		}
		out = svgicon.Size{Width: scaleAxis(src.Width, s), Height: scaleAxis(src.Height, s)}
	case ExactMode:
		if req.Width == nil {
			return out, invalidInput("Width is required in Exact mode.")
		}
		if req.Height == nil {
			return out, invalidInput("Height is required in Exact mode.")
		}
		if *req.Width <= 0 || *req.Height <= 0 {
			return out, invalidInput("Width/Height must be positive numbers.")
		}
		out = svgicon.Size{Width: *req.Width, Height: *req.Height}
	default:
		return out, invalidInput("Invalid size mode.")
	}
	if err := CheckPixelCap(out); err != nil {
		return svgicon.Size{}, err
	}
	return out, nil
}

// scaleAxis rounds to the nearest pixel, with a minimum of 1.
// Overflowing values saturate, and are then rejected by the pixel cap.
func scaleAxis(v int, s float64) int {
	f := math.Max(math.Round(float64(v)*s), 1)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// CheckPixelCap returns an error if `size` has more than MaxPixels pixels.
// The message gives the largest allowed square.
func CheckPixelCap(size svgicon.Size) error {
	if size.Pixels() <= MaxPixels {
		return nil
	}
	side := int(math.Floor(math.Sqrt(MaxPixels)))
	return &Error{
		Kind: SizeLimitExceeded,
		Msg:  fmt.Sprintf("Too large. Max is ~%d×%d (%.0fMP).", side, side, float64(MaxPixels)/1_000_000),
	}
}
