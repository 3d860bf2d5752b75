package svgconv

import (
	"image/color"

	"github.com/benoitkugler/svgconv/svgicon"
	"github.com/benoitkugler/svgconv/svgraster"
)

// InputMode selects how the inputs of a Request are found.
type InputMode string

const (
	FileMode   InputMode = "file"   // one or many explicit files
	FolderMode InputMode = "folder" // every .svg file under a directory
)

// SizeMode selects how the output size is computed.
type SizeMode string

const (
	ScaleMode SizeMode = "scale" // intrinsic size times Scale
	ExactMode SizeMode = "exact" // Width x Height
)

// Request describes one conversion batch.
//
// In ScaleMode, only Scale is used (1 when nil).
// In ExactMode, Width and Height are required, and Crop
// selects cover-and-crop instead of stretching.
type Request struct {
	InputMode  InputMode `json:"inputMode" toml:"input_mode"`
	InputPath  string    `json:"inputPath" toml:"input_path"`
	InputPaths []string  `json:"inputPaths,omitempty" toml:"input_paths"`
	OutputDir  string    `json:"outputDir,omitempty" toml:"output_dir"` // empty to write next to the sources

	SizeMode SizeMode `json:"sizeMode" toml:"size_mode"`
	Scale    *float64 `json:"scale,omitempty" toml:"scale"`
	Width    *int     `json:"width,omitempty" toml:"width"`
	Height   *int     `json:"height,omitempty" toml:"height"`
	Crop     bool     `json:"crop,omitempty" toml:"crop"`

	Background string `json:"background,omitempty" toml:"background"` // "#RRGGBB", empty for transparent
	Strict     bool   `json:"strict,omitempty" toml:"strict"`         // fail on unsupported SVG elements
}

func (req *Request) cropping() bool { return req.SizeMode == ExactMode && req.Crop }

func (req *Request) errorMode() svgicon.ErrorMode {
	if req.Strict {
		return svgicon.StrictErrorMode
	}
	return svgicon.IgnoreErrorMode
}

// transform returns how a document of natural size `doc` is mapped
// to an output of size `target`.
func (req *Request) transform(doc *svgicon.Document, target svgicon.Size) svgraster.Transform {
	if req.cropping() {
		return svgraster.Cover(doc.Width, doc.Height, target)
	}
	return svgraster.Stretch(doc.Width, doc.Height, target)
}

// CheckOptions validates the size and background options of `req`,
// independently of its inputs.
func (req *Request) CheckOptions() error {
	if _, err := background(req.Background); err != nil {
		return err
	}
	_, err := TargetSize(req, svgicon.Size{Width: 1, Height: 1})
	return err
}

// background returns nil when no background is requested.
func background(s string) (color.Color, error) {
	c, ok, err := svgraster.ParseBackground(s)
	if err != nil {
		return nil, invalidInput("Invalid background color (expected #RRGGBB).")
	}
	if !ok {
		return nil, nil
	}
	return c, nil
}
