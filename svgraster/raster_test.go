package svgraster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/benoitkugler/svgconv/svgicon"
)

var (
	red    = color.RGBA{0xff, 0, 0, 0xff}
	green  = color.RGBA{0, 0xff, 0, 0xff}
	blue   = color.RGBA{0, 0, 0xff, 0xff}
	purple = color.RGBA{0x80, 0, 0x80, 0xff}
)

func loadDocument(t *testing.T, filename string) *svgicon.Document {
	t.Helper()
	doc, err := svgicon.ReadFile(filename, svgicon.IgnoreErrorMode)
	if err != nil {
		t.Fatalf("can't parse svg source: %s", err)
	}
	return doc
}

// renderIcon rasterizes the file through a PNG round trip,
// so that what is checked is what would be written to disk.
func renderIcon(t *testing.T, filename string, size svgicon.Size, tr Transform, bg color.Color) image.Image {
	t.Helper()
	doc := loadDocument(t, filename)
	img, err := RasterDocument(doc, size, tr, bg)
	if err != nil {
		t.Fatalf("can't raster image: %s", err)
	}
	b, err := ToPNGBytes(img)
	if err != nil {
		t.Fatalf("can't retrieve binary from image: %s", err)
	}
	out, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("invalid png output: %s", err)
	}
	if got := out.Bounds().Size(); got.X != size.Width || got.Y != size.Height {
		t.Fatalf("expected %s image, got %v", size, got)
	}
	return out
}

func expectPixel(t *testing.T, img image.Image, x, y int, want color.RGBA) {
	t.Helper()
	got := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	if got != want {
		t.Errorf("pixel (%d, %d): expected %v, got %v", x, y, want, got)
	}
}

func TestStretchScenario(t *testing.T) {
	tr := Stretch(100, 100, svgicon.Size{Width: 200, Height: 200})
	if tr != (Transform{ScaleX: 2, ScaleY: 2}) {
		t.Errorf("unexpected transform %s", tr)
	}
	if m := tr.Matrix(); m.A != 2 || m.B != 0 || m.C != 0 || m.D != 2 || m.E != 0 || m.F != 0 {
		t.Errorf("unexpected matrix %v", m)
	}

	tr = Stretch(300, 100, svgicon.Size{Width: 30, Height: 50})
	if tr.ScaleX != 0.1 || tr.ScaleY != 0.5 {
		t.Errorf("axes should be scaled independently, got %s", tr)
	}
}

func TestCoverScenario(t *testing.T) {
	tr := Cover(300, 100, svgicon.Size{Width: 100, Height: 100})
	if tr != (Transform{ScaleX: 1, ScaleY: 1, TranslateX: -100}) {
		t.Errorf("unexpected transform %s", tr)
	}

	// the overflow is the same on both edges
	for _, tt := range []struct {
		srcW, srcH float64
		target     svgicon.Size
	}{
		{300, 100, svgicon.Size{Width: 100, Height: 100}},
		{50, 200, svgicon.Size{Width: 640, Height: 480}},
		{33.3, 17, svgicon.Size{Width: 7, Height: 1000}},
	} {
		tr := Cover(tt.srcW, tt.srcH, tt.target)
		s := tr.ScaleX
		if s != tr.ScaleY {
			t.Fatalf("cover must be uniform, got %s", tr)
		}
		if tt.srcW*s < float64(tt.target.Width)-1e-9 || tt.srcH*s < float64(tt.target.Height)-1e-9 {
			t.Errorf("%v: scaled source doesn't cover the target", tt)
		}
		x0, y0 := tr.Apply(0, 0)
		x1, y1 := tr.Apply(tt.srcW, tt.srcH)
		left, right := -x0, x1-float64(tt.target.Width)
		top, bottom := -y0, y1-float64(tt.target.Height)
		if abs(left-right) > 1e-9 || abs(top-bottom) > 1e-9 {
			t.Errorf("%v: unbalanced crop %g/%g %g/%g", tt, left, right, top, bottom)
		}
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func TestRenderStretch(t *testing.T) {
	file := filepath.Join("..", "svgicon", "testdata", "square50.svg")
	size := svgicon.Size{Width: 100, Height: 100}
	img := renderIcon(t, file, size, Stretch(50, 50, size), nil)
	for _, p := range [][2]int{{1, 1}, {50, 50}, {98, 98}} {
		expectPixel(t, img, p[0], p[1], red)
	}

	size = svgicon.Size{Width: 30, Height: 10}
	img = renderIcon(t, "testdata/stripes.svg", size, Stretch(300, 100, size), nil)
	expectPixel(t, img, 5, 5, red)
	expectPixel(t, img, 15, 5, green)
	expectPixel(t, img, 25, 5, blue)
}

func TestRenderCoverCrop(t *testing.T) {
	size := svgicon.Size{Width: 100, Height: 100}
	img := renderIcon(t, "testdata/stripes.svg", size, Cover(300, 100, size), nil)
	// only the middle stripe is visible
	for _, p := range [][2]int{{2, 2}, {50, 50}, {97, 97}, {97, 2}} {
		expectPixel(t, img, p[0], p[1], green)
	}
}

func TestRenderViewBox(t *testing.T) {
	file := filepath.Join("..", "svgicon", "testdata", "viewbox_only.svg")
	size := svgicon.Size{Width: 150, Height: 50}
	img := renderIcon(t, file, size, Stretch(300, 100, size), nil)
	expectPixel(t, img, 2, 2, blue)
	expectPixel(t, img, 75, 25, blue)
	expectPixel(t, img, 147, 47, blue)
}

func TestRenderBackground(t *testing.T) {
	file := filepath.Join("..", "svgicon", "testdata", "no_size.svg")
	size := svgicon.Size{Width: 100, Height: 100}

	bg, ok, err := ParseBackground("#123456")
	if err != nil || !ok {
		t.Fatalf("unexpected background parsing result %v %v", ok, err)
	}
	img := renderIcon(t, file, size, Identity, bg)
	expectPixel(t, img, 50, 50, color.RGBA{0x12, 0x34, 0x56, 0xff})
	expectPixel(t, img, 5, 5, purple)

	img = renderIcon(t, file, size, Identity, nil)
	expectPixel(t, img, 50, 50, color.RGBA{})
	expectPixel(t, img, 5, 5, purple)
}

func TestEmptyCanvas(t *testing.T) {
	for _, s := range []svgicon.Size{{Width: 0, Height: 10}, {Width: 10, Height: 0}, {Width: -1, Height: -1}} {
		if _, err := NewRenderer(s.Width, s.Height); !errors.Is(err, ErrEmptyCanvas) {
			t.Errorf("%s: expected ErrEmptyCanvas, got %v", s, err)
		}
	}
}

func TestParseBackground(t *testing.T) {
	for _, tt := range []struct {
		in     string
		want   color.NRGBA
		wantOK bool
	}{
		{"", color.NRGBA{}, false},
		{"   ", color.NRGBA{}, false},
		{"#FFFFFF", color.NRGBA{0xff, 0xff, 0xff, 0xff}, true},
		{"00ff7f", color.NRGBA{0, 0xff, 0x7f, 0xff}, true},
		{" #0a0B0c ", color.NRGBA{0x0a, 0x0b, 0x0c, 0xff}, true},
	} {
		got, ok, err := ParseBackground(tt.in)
		if err != nil {
			t.Fatalf("%q: %s", tt.in, err)
		}
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("%q: expected %v %v, got %v %v", tt.in, tt.want, tt.wantOK, got, ok)
		}
	}

	for _, in := range []string{"#fff", "red", "#12345g", "#1234567", "rgb(1,2,3)"} {
		if _, _, err := ParseBackground(in); !errors.Is(err, ErrInvalidBackground) {
			t.Errorf("%q: expected ErrInvalidBackground, got %v", in, err)
		}
	}
}
