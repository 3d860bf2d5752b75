// Provides parsing of SVG documents into a drawable scene,
// together with the natural size the document declares.
// The scene is consumed by painting drivers,
// see for example svgconv/svgraster .
package svgicon

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/net/html/charset"
)

// ErrorMode determines if the parser ignores, errors out, or logs a warning
// when it does not handle an element found in the file.
type ErrorMode = oksvg.ErrorMode

const (
	IgnoreErrorMode = oksvg.IgnoreErrorMode
	WarnErrorMode   = oksvg.WarnErrorMode
	StrictErrorMode = oksvg.StrictErrorMode
)

// maxDimension bounds a natural dimension so that
// rounding it up always fits in an int.
const maxDimension = 1 << 30

var errNoRoot = errors.New("invalid svg document: no root element")

// Bounds defines a bounding box, such as a viewport.
type Bounds struct{ X, Y, W, H float64 }

// Size is an integer pixel size.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Pixels returns the area of the size, saturated to math.MaxUint64
// when the product does not fit.
func (s Size) Pixels() uint64 {
	hi, lo := bits.Mul64(uint64(s.Width), uint64(s.Height))
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// Document holds a parsed SVG file.
type Document struct {
	Icon *oksvg.SvgIcon // drawable scene, in user units

	Width, Height float64     // natural size, in px
	ViewBox       Bounds      // zero when the root has no valid viewBox
	Aspect        AspectRatio // preserveAspectRatio of the root
}

// IntrinsicSize rounds the natural size up to whole pixels,
// with a minimum of one pixel on each axis.
func (d *Document) IntrinsicSize() Size {
	return Size{
		Width:  int(math.Max(math.Ceil(d.Width), 1)),
		Height: int(math.Max(math.Ceil(d.Height), 1)),
	}
}

// ViewTransform maps user units to the natural size space.
func (d *Document) ViewTransform() rasterx.Matrix2D {
	if d.ViewBox.W <= 0 || d.ViewBox.H <= 0 {
		return rasterx.Identity
	}
	return d.Aspect.viewTransform(d.ViewBox, d.Width, d.Height)
}

// rootAttrs are the attributes of the outermost <svg> element
// needed to compute the natural size.
type rootAttrs struct {
	width, height       string
	viewBox             string
	preserveAspectRatio string

	start, end int64 // byte range of the start tag
}

// readRoot returns the attributes of the first element of the stream,
// which must be an <svg> element.
func readRoot(stream io.Reader) (rootAttrs, error) {
	var root rootAttrs
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	root.start = decoder.InputOffset()
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				return root, errNoRoot
			}
			return root, err
		}
		se, ok := t.(xml.StartElement)
		if !ok {
			root.start = decoder.InputOffset()
			continue
		}
		root.end = decoder.InputOffset()
		if se.Name.Local != "svg" {
			return root, fmt.Errorf("invalid svg document: root element is <%s>", se.Name.Local)
		}
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "width":
				root.width = attr.Value
			case "height":
				root.height = attr.Value
			case "viewBox":
				root.viewBox = attr.Value
			case "preserveAspectRatio":
				root.preserveAspectRatio = attr.Value
			}
		}
		return root, nil
	}
}

// parseViewBox returns false for a missing or degenerate viewBox,
// which is then ignored.
func parseViewBox(v string) (Bounds, bool) {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return Bounds{}, false
	}
	var nums [4]float64
	for i, f := range fields {
		n, err := parseNumber(f)
		if err != nil {
			return Bounds{}, false
		}
		nums[i] = n
	}
	if nums[2] <= 0 || nums[3] <= 0 {
		return Bounds{}, false
	}
	return Bounds{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}, true
}

// naturalSize resolves the width and height of the document, in px.
// A missing dimension is deduced from the viewBox aspect ratio,
// and defaults to 100 without viewBox.
func (r rootAttrs) naturalSize(vb Bounds, hasViewBox bool) (w, h float64, err error) {
	refW, refH := 100., 100.
	if hasViewBox {
		refW, refH = vb.W, vb.H
	}
	var wl, hl *length
	if r.width != "" {
		l, err := parseLength(r.width)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid width: %s", err)
		}
		wl = &l
	}
	if r.height != "" {
		l, err := parseLength(r.height)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid height: %s", err)
		}
		hl = &l
	}

	switch {
	case wl != nil && hl != nil:
		w, h = wl.toPx(refW), hl.toPx(refH)
	case wl != nil:
		w, h = wl.toPx(refW), refH
		if hasViewBox {
			h = w * vb.H / vb.W
		}
	case hl != nil:
		w, h = refW, hl.toPx(refH)
		if hasViewBox {
			w = h * vb.W / vb.H
		}
	default:
		w, h = refW, refH
	}

	if !validDimension(w) || !validDimension(h) {
		return 0, 0, fmt.Errorf("invalid svg size %gx%g", w, h)
	}
	return w, h, nil
}

// scene parsing only understands unitless, px, pt, mm and cm lengths
// on the root element
func sceneAcceptsLength(v string) bool {
	v = strings.TrimSpace(v)
	for _, suffix := range [...]string{"cm", "mm", "px", "pt"} {
		v = strings.TrimSuffix(v, suffix)
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

var (
	rootWidthAttr  = regexp.MustCompile(`(\swidth\s*=\s*)("[^"]*"|'[^']*')`)
	rootHeightAttr = regexp.MustCompile(`(\sheight\s*=\s*)("[^"]*"|'[^']*')`)
)

// resolveLengths rewrites the root width and height attributes
// the scene parser would reject with their values in px.
// The input is returned unchanged when the start tag can't be located,
// which happens for documents transcoded from another charset.
func (r rootAttrs) resolveLengths(data []byte, w, h float64) []byte {
	widthOK := r.width == "" || sceneAcceptsLength(r.width)
	heightOK := r.height == "" || sceneAcceptsLength(r.height)
	if widthOK && heightOK {
		return data
	}
	if r.start < 0 || r.end > int64(len(data)) || r.start >= r.end {
		return data
	}
	tag := data[r.start:r.end]
	if !bytes.HasPrefix(tag, []byte("<")) {
		return data
	}
	replace := func(tag []byte, re *regexp.Regexp, v float64) []byte {
		px := strconv.FormatFloat(v, 'f', -1, 64)
		return re.ReplaceAll(tag, []byte(`${1}"`+px+`"`))
	}
	newTag := append([]byte(nil), tag...)
	if !widthOK {
		newTag = replace(newTag, rootWidthAttr, w)
	}
	if !heightOK {
		newTag = replace(newTag, rootHeightAttr, h)
	}
	out := make([]byte, 0, len(data)+len(newTag)-len(tag))
	out = append(out, data[:r.start]...)
	out = append(out, newTag...)
	return append(out, data[r.end:]...)
}

func validDimension(v float64) bool {
	return v > 0 && v <= maxDimension && !math.IsNaN(v)
}

// ReadDocument parses the given SVG content.
// This only supports a sub-set of SVG, but
// is enough to draw many icons. errMode determines if the parser ignores, errors out, or logs a warning
// if it does not handle an element found in the document.
func ReadDocument(data []byte, errMode ErrorMode) (*Document, error) {
	root, err := readRoot(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	doc := &Document{Aspect: ParseAspectRatio(root.preserveAspectRatio)}
	vb, hasViewBox := parseViewBox(root.viewBox)
	if hasViewBox {
		doc.ViewBox = vb
	}
	doc.Width, doc.Height, err = root.naturalSize(vb, hasViewBox)
	if err != nil {
		return nil, err
	}

	data = root.resolveLengths(data, doc.Width, doc.Height)
	doc.Icon, err = oksvg.ReadIconStream(bytes.NewReader(data), errMode)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ReadFile reads and parses the named SVG file.
func ReadFile(path string, errMode ErrorMode) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadDocument(data, errMode)
}

// ReadSize returns the intrinsic size of the named SVG file.
func ReadSize(path string) (Size, error) {
	doc, err := ReadFile(path, IgnoreErrorMode)
	if err != nil {
		return Size{}, err
	}
	return doc.IntrinsicSize(), nil
}
