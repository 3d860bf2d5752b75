package svgconv

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// recorder stores the events of a batch.
type recorder struct {
	events []Event
}

func (r *recorder) Emit(e Event) { r.events = append(r.events, e) }

// phases flattens the events: progress phases, and "item" for item events.
func (r *recorder) phases() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		switch e := e.(type) {
		case ProgressEvent:
			out[i] = string(e.Phase)
		case ItemEvent:
			out[i] = "item"
		}
	}
	return out
}

func (r *recorder) items() []ItemEvent {
	var out []ItemEvent
	for _, e := range r.events {
		if it, ok := e.(ItemEvent); ok {
			out = append(out, it)
		}
	}
	return out
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("invalid png %s: %s", path, err)
	}
	return img
}

var itemPhases = []string{"read", "parse", "render", "write", "item", "done"}

func TestConvertFolder(t *testing.T) {
	dir, out := t.TempDir(), t.TempDir()
	writeFile(t, dir, "a/x.svg", squareSVG(50, 50))
	writeFile(t, dir, "b/y.svg", squareSVG(20, 10))
	writeFile(t, dir, "skip.png", "")

	rec := &recorder{}
	conv := Converter{Emitter: rec}
	sum, err := conv.Convert(context.Background(), Request{
		InputMode: FolderMode, InputPath: dir, OutputDir: out,
		SizeMode: ScaleMode, Scale: ptrF(2),
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum != (Summary{Total: 2, OK: 2}) {
		t.Errorf("unexpected summary %+v", sum)
	}

	want := append([]string{"start"}, itemPhases...)
	want = append(want, itemPhases...)
	if got := rec.phases(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}

	start := rec.events[0].(ProgressEvent)
	if start.Current != 0 || start.Active != nil || start.Total != 2 {
		t.Errorf("unexpected start event %+v", start)
	}

	// stages of the second item carry the counters from before it
	read := rec.events[7].(ProgressEvent)
	if read.Current != 2 || read.Active == nil || *read.Active != 2 || read.OK != 1 || read.Failed != 0 {
		t.Errorf("unexpected stage event %+v", read)
	}
	done := rec.events[12].(ProgressEvent)
	if done.Current != 2 || done.Active != nil || done.OK != 2 || !strings.HasSuffix(done.LastSVG, "y.svg") {
		t.Errorf("unexpected done event %+v", done)
	}

	items := rec.items()
	for i, tt := range []struct {
		png  string
		w, h int
	}{
		{filepath.Join(out, "a_x_100x100.png"), 100, 100},
		{filepath.Join(out, "b_y_40x20.png"), 40, 20},
	} {
		it := items[i]
		if !it.OK || it.Index != i+1 || it.Total != 2 || it.PNG != tt.png || it.Engine != Engine || it.Error != "" {
			t.Errorf("unexpected item event %+v", it)
		}
		if it.OutWidth == nil || *it.OutWidth != tt.w || it.OutHeight == nil || *it.OutHeight != tt.h {
			t.Errorf("unexpected output size in %+v", it)
		}
		img := decodePNG(t, tt.png)
		if b := img.Bounds(); b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("%s: unexpected bounds %v", tt.png, b)
		}
	}
}

func TestConvertContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.svg", brokenSVG)
	big := writeFile(t, dir, "big.svg", squareSVG(10, 10))
	good := writeFile(t, dir, "good.svg", squareSVG(10, 10))

	rec := &recorder{}
	conv := Converter{Emitter: rec}
	sum, err := conv.Convert(context.Background(), Request{
		InputMode: FileMode, InputPaths: []string{bad, good},
		SizeMode: ScaleMode,
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum != (Summary{Total: 2, OK: 1, Failed: 1}) {
		t.Errorf("unexpected summary %+v", sum)
	}
	want := []string{"start", "read", "parse", "item", "done"}
	want = append(want, itemPhases...)
	if got := rec.phases(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}

	items := rec.items()
	if it := items[0]; it.OK || it.PNG != "" || it.OutWidth != nil || it.OutHeight != nil || it.Error == "" {
		t.Errorf("unexpected failed item %+v", it)
	}
	if it := items[1]; !it.OK || it.PNG != filepath.Join(dir, "good_10x10.png") {
		t.Errorf("unexpected item %+v", it)
	}

	// too large: fails before rendering, including when the area overflows
	huge := math.MaxInt/2 + 1
	for _, side := range []int{9000, huge} {
		rec = &recorder{}
		conv.Emitter = rec
		sum, err = conv.Convert(context.Background(), Request{
			InputMode: FileMode, InputPath: big,
			SizeMode: ExactMode, Width: ptrI(side), Height: ptrI(side),
		})
		if err != nil {
			t.Fatal(err)
		}
		if sum != (Summary{Total: 1, Failed: 1}) {
			t.Errorf("%d: unexpected summary %+v", side, sum)
		}
		if got, want := rec.phases(), []string{"start", "read", "parse", "item", "done"}; !reflect.DeepEqual(got, want) {
			t.Errorf("%d: expected events %v, got %v", side, want, got)
		}
		if msg := rec.items()[0].Error; msg != "Too large. Max is ~8944×8944 (80MP)." {
			t.Errorf("%d: unexpected error %q", side, msg)
		}
	}
}

func TestConvertBatchErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.svg", squareSVG(10, 10))
	text := writeFile(t, dir, "good.txt", squareSVG(10, 10))

	for _, tt := range []struct {
		req Request
		msg string
	}{
		{Request{InputMode: FileMode, InputPaths: []string{good, filepath.Join(dir, "missing.svg")}, SizeMode: ScaleMode}, "Invalid SVG file path."},
		{Request{InputMode: FileMode, InputPath: text, SizeMode: ScaleMode}, "Invalid SVG file path."},
		{Request{InputMode: FileMode, InputPath: dir, SizeMode: ScaleMode}, "Invalid SVG file path."},
		{Request{InputMode: FolderMode, InputPath: good, SizeMode: ScaleMode}, "Invalid folder path."},
		{Request{InputMode: FileMode, InputPath: good, SizeMode: ScaleMode, Background: "#12345"}, "Invalid background color (expected #RRGGBB)."},
		{Request{InputMode: "zip", InputPath: good, SizeMode: ScaleMode}, "Invalid input mode."},
	} {
		rec := &recorder{}
		conv := Converter{Emitter: rec}
		_, err := conv.Convert(context.Background(), tt.req)
		expectKind(t, err, InvalidInput)
		if err.Error() != tt.msg {
			t.Errorf("expected %q, got %q", tt.msg, err)
		}
		if len(rec.events) != 0 {
			t.Errorf("no event expected, got %v", rec.phases())
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "good_10x10.png")); !os.IsNotExist(err) {
		t.Error("nothing should be written on batch errors")
	}
}

func TestConvertCropAndBackground(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "stripes.svg", stripesSVG)
	src2 := writeFile(t, dir, "holes.svg", `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
	<rect width="10" height="10" fill="#0000ff"/>
</svg>`)

	var conv Converter // zero value
	sum, err := conv.Convert(context.Background(), Request{
		InputMode: FileMode, InputPaths: []string{src, src2},
		SizeMode: ExactMode, Width: ptrI(100), Height: ptrI(100), Crop: true,
		Background: " #FFFFFF ",
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum.OK != 2 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	rgba := func(img image.Image, x, y int) color.RGBA {
		return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	}

	img := decodePNG(t, filepath.Join(dir, "stripes_100x100.png"))
	for _, p := range [][2]int{{2, 2}, {50, 50}, {97, 97}} {
		if c := rgba(img, p[0], p[1]); c != (color.RGBA{0, 0xff, 0, 0xff}) {
			t.Errorf("stripes (%d, %d): expected the middle stripe, got %v", p[0], p[1], c)
		}
	}

	img = decodePNG(t, filepath.Join(dir, "holes_100x100.png"))
	if c := rgba(img, 20, 20); c != (color.RGBA{0, 0, 0xff, 0xff}) {
		t.Errorf("expected content, got %v", c)
	}
	if c := rgba(img, 80, 80); c != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("expected background, got %v", c)
	}
}

func TestConvertCanceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.svg", squareSVG(10, 10))
	writeFile(t, dir, "b.svg", squareSVG(10, 10))

	ctx, cancel := context.WithCancel(context.Background())
	var n int
	conv := Converter{Emitter: EmitterFunc(func(e Event) {
		if _, ok := e.(ItemEvent); ok {
			n++
			cancel()
		}
	})}
	sum, err := conv.Convert(ctx, Request{InputMode: FolderMode, InputPath: dir, SizeMode: ScaleMode})
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n != 1 || sum != (Summary{Total: 1, OK: 1}) {
		t.Errorf("unexpected partial summary %+v after %d items", sum, n)
	}
	if _, err := os.Stat(filepath.Join(dir, "b_10x10.png")); !os.IsNotExist(err) {
		t.Error("second item should not be converted")
	}
}
