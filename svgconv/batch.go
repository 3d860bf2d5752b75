// Package svgconv converts SVG files to PNG images, one by one or by folder,
// reporting the progress of each conversion as a stream of events.
//
// Sizes are either derived from the intrinsic size of each document
// (scale mode) or fixed (exact mode), in which case the content is
// stretched, or scaled to cover the output and center-cropped.
package svgconv

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Summary is the result of a batch. OK + Failed == Total.
type Summary struct {
	Total  int `json:"total"`
	OK     int `json:"ok"`
	Failed int `json:"failed"`
}

// Converter runs conversion batches.
// The zero value is usable, and discards events and logs.
type Converter struct {
	Emitter Emitter
	Logger  *log.Logger
}

var discardLogger = log.New(io.Discard)

func (c *Converter) logger() *log.Logger {
	if c.Logger == nil {
		return discardLogger
	}
	return c.Logger
}

func (c *Converter) emit(e Event) {
	if c.Emitter != nil {
		c.Emitter.Emit(e)
	}
}

// Convert processes every input of `req`, sequentially, in order.
//
// Invalid batch-level parameters (missing inputs, bad background color)
// are returned before any event is sent. Per-item failures are reported
// by an ItemEvent and counted in the Summary, and do not stop the batch.
//
// The context is checked between items: once it is done, the items
// processed so far are returned with the context error.
func (c *Converter) Convert(ctx context.Context, req Request) (Summary, error) {
	if req.InputMode == FolderMode && !isDir(req.InputPath) {
		return Summary{}, invalidInput("Invalid folder path.")
	}
	if _, err := background(req.Background); err != nil {
		return Summary{}, err
	}
	inputs, root, err := resolveInputs(&req)
	if err != nil {
		return Summary{}, err
	}

	logger := c.logger()
	sum := Summary{Total: len(inputs)}
	logger.Debug("starting batch", "inputs", sum.Total, "mode", req.SizeMode)
	c.emit(ProgressEvent{Phase: PhaseStart, Total: sum.Total})

	for i, src := range inputs {
		if err := ctx.Err(); err != nil {
			logger.Warn("batch interrupted", "done", i, "total", sum.Total)
			sum.Total = i
			return sum, err
		}

		index := i + 1
		res, err := c.runItem(&req, index, src, root, sum)
		item := ItemEvent{Index: index, Total: sum.Total, SVG: src, Engine: Engine}
		if err != nil {
			sum.Failed++
			item.Error = err.Error()
			logger.Warn("conversion failed", "svg", src, "err", err)
		} else {
			sum.OK++
			w, h := res.size.Width, res.size.Height
			item.OK, item.PNG, item.OutWidth, item.OutHeight = true, res.png, &w, &h
			logger.Info("converted", "svg", src, "png", res.png, "size", res.size)
		}
		c.emit(item)
		c.emit(ProgressEvent{
			Phase: PhaseDone, Current: index, Total: sum.Total,
			OK: sum.OK, Failed: sum.Failed, LastSVG: src,
		})
	}

	logger.Debug("batch done", "ok", sum.OK, "failed", sum.Failed)
	return sum, nil
}

// runItem converts `src` while relaying its stages as progress events,
// carrying the counters `sum` as they were before the item.
func (c *Converter) runItem(req *Request, index int, src, root string, sum Summary) (converted, error) {
	stages := make(chan Phase)
	var (
		res converted
		g   errgroup.Group
	)
	g.Go(func() error {
		var err error
		res, err = safeConvertOne(req, src, root, stages)
		return err
	})
	g.Go(func() error {
		for stage := range stages {
			c.logger().Debug("stage", "svg", src, "stage", stage)
			active := index
			c.emit(ProgressEvent{
				Phase: stage, Current: index, Active: &active, Total: sum.Total,
				OK: sum.OK, Failed: sum.Failed, LastSVG: src,
			})
		}
		return nil
	})
	err := g.Wait()
	return res, err
}

// resolveInputs returns the files to convert, and the root folder
// for folder batches.
func resolveInputs(req *Request) (inputs []string, root string, err error) {
	switch req.InputMode {
	case FolderMode:
		return listSVG(req.InputPath), req.InputPath, nil
	case FileMode:
		paths := req.InputPaths
		if len(paths) == 0 {
			paths = []string{req.InputPath}
		}
		for _, p := range paths {
			if !isSVGFile(p) {
				return nil, "", invalidInput("Invalid SVG file path.")
			}
		}
		return paths, "", nil
	default:
		return nil, "", invalidInput("Invalid input mode.")
	}
}
