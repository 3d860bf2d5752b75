package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgconv/svgconv"
)

// convertOptions are the flags shared by convert and watch.
type convertOptions struct {
	config     string
	out        string
	scale      float64
	width      int
	height     int
	crop       bool
	background string
	strict     bool
}

func (o *convertOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.config, "config", "", "TOML configuration file (default ./"+defaultConfigFile+" if present)")
	f.StringVarP(&o.out, "out", "o", "", "output directory (default: next to each SVG)")
	f.Float64VarP(&o.scale, "scale", "s", 1, "scale factor applied to the intrinsic size")
	f.IntVarP(&o.width, "width", "W", 0, "exact output width")
	f.IntVarP(&o.height, "height", "H", 0, "exact output height")
	f.BoolVar(&o.crop, "crop", false, "with an exact size, cover the output and crop instead of stretching")
	f.StringVarP(&o.background, "background", "b", "", "background color as #RRGGBB (default: transparent)")
	f.BoolVar(&o.strict, "strict", false, "fail on unsupported SVG elements")
	cmd.MarkFlagsMutuallyExclusive("scale", "width")
	cmd.MarkFlagsMutuallyExclusive("scale", "height")
}

// baseRequest merges the configuration file with the flags set on
// the command line. Inputs are left to the caller.
func (o *convertOptions) baseRequest(cmd *cobra.Command) (svgconv.Request, error) {
	cfg, err := loadConfig(o.config)
	if err != nil {
		return svgconv.Request{}, err
	}
	req := cfg.Convert

	changed := cmd.Flags().Changed
	if changed("out") {
		req.OutputDir = o.out
	}
	if changed("scale") {
		req.SizeMode, req.Scale = svgconv.ScaleMode, &o.scale
	}
	if changed("width") {
		req.SizeMode, req.Width = svgconv.ExactMode, &o.width
	}
	if changed("height") {
		req.SizeMode, req.Height = svgconv.ExactMode, &o.height
	}
	if changed("crop") {
		req.Crop = o.crop
	}
	if changed("background") {
		req.Background = o.background
	}
	if changed("strict") {
		req.Strict = o.strict
	}
	if req.SizeMode == "" {
		req.SizeMode = svgconv.ScaleMode
	}
	return req, nil
}

// withInputs sets the inputs of `req`: either a folder or explicit files,
// falling back to the inputs of the configuration file.
func withInputs(req svgconv.Request, folder string, files []string) (svgconv.Request, error) {
	switch {
	case folder != "" && len(files) != 0:
		return req, errors.New("--folder and FILES can't be used together")
	case folder != "":
		req.InputMode, req.InputPath, req.InputPaths = svgconv.FolderMode, folder, nil
	case len(files) != 0:
		req.InputMode, req.InputPath, req.InputPaths = svgconv.FileMode, files[0], files
	case req.InputPath != "" || len(req.InputPaths) != 0:
		if req.InputMode == "" {
			req.InputMode = svgconv.FileMode
		}
	default:
		return req, errors.New("nothing to convert: give SVG files or --folder")
	}
	return req, nil
}

func newConvertCmd() *cobra.Command {
	var (
		opts   convertOptions
		folder string
		asJSON bool
		useTUI bool
	)

	cmd := &cobra.Command{
		Use:   "convert [FILES...]",
		Short: "Convert SVG files to PNG",
		Long: `Convert rasterizes SVG files to PNG.

Outputs are named <name>_<W>x<H>.png. By default the size is the intrinsic
size of each file, optionally scaled with --scale. With --width and --height
every output has the same size: the content is stretched, or scaled to cover
the output and center-cropped with --crop.`,
		Example: `  svgconv convert icon.svg --scale 2
  svgconv convert --folder icons --out png --width 64 --height 64 --crop
  svgconv convert --folder icons --json | jq .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.baseRequest(cmd)
			if err != nil {
				return err
			}
			req, err = withInputs(req, folder, args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx).With("run", uuid.NewString())
			timer := newElapsed(logger)

			var sum svgconv.Summary
			switch {
			case useTUI:
				sum, err = runWithProgressView(ctx, req)
			case asJSON:
				conv := svgconv.Converter{Emitter: newJSONEmitter(cmd.OutOrStdout()), Logger: logger}
				sum, err = conv.Convert(ctx, req)
			default:
				conv := svgconv.Converter{Emitter: newPrintEmitter(cmd.OutOrStdout()), Logger: logger}
				sum, err = conv.Convert(ctx, req)
			}
			if err != nil {
				return err
			}
			timer.done(fmt.Sprintf("Converted %d/%d files", sum.OK, sum.Total))
			if sum.Failed != 0 {
				return fmt.Errorf("%d of %d conversions failed", sum.Failed, sum.Total)
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&folder, "folder", "f", "", "convert every SVG file of this folder, recursively")
	cmd.Flags().BoolVar(&asJSON, "json", false, "stream events as JSON lines on stdout")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "show an interactive progress view")
	cmd.MarkFlagsMutuallyExclusive("json", "tui")
	return cmd
}

// convertOne runs a one-file batch, used by watch.
func convertOne(ctx context.Context, base svgconv.Request, path string, emitter svgconv.Emitter, logger *log.Logger) error {
	req := base
	req.InputMode, req.InputPath, req.InputPaths = svgconv.FileMode, path, nil
	conv := svgconv.Converter{Emitter: emitter, Logger: logger.With("run", uuid.NewString())}
	_, err := conv.Convert(ctx, req)
	return err
}
