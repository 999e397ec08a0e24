package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/wbrown/img2dither"
	"github.com/wbrown/img2dither/contactsheet"
	"github.com/wbrown/img2dither/imageutil"
	"github.com/wbrown/img2dither/internal/logging"
	"github.com/wbrown/img2dither/sequence"
)

// run executes one CLI invocation after flag parsing.
func run(ctx context.Context, o *cliOptions, stdout io.Writer) error {
	if o.list {
		return writeList(stdout)
	}

	p, warnings, err := o.resolveParams()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logging.WarnWithComponent(logging.ComponentCLI, "Falling back to default", "error", w)
	}

	start := time.Now()
	switch {
	case o.sheet:
		err = writeSheet(o, p)
	case imageutil.FormatFromPath(o.input) == "gif":
		err = ditherGIFFile(ctx, o, p)
	default:
		err = ditherFile(o, p)
	}
	if err != nil {
		return err
	}
	logging.InfoWithComponent(logging.ComponentCLI, "Done",
		"output", o.output,
		"elapsed", time.Since(start))
	return nil
}

func ditherFile(o *cliOptions, p img2dither.Params) error {
	img, err := imageutil.LoadImage(o.input)
	if err != nil {
		return err
	}
	src := imageutil.PrepareForDither(img, o.width, o.sharpen)
	logging.InfoWithComponent(logging.ComponentCLI, "Dithering",
		"width", src.Width(),
		"height", src.Height(),
		"algorithm", p.Algorithm.String(),
		"palette", p.Palette.String(),
		"colors", len(p.ResolvePalette()))

	begin := time.Now()
	out := img2dither.Dither(src, p)
	logging.DebugWithComponent(logging.ComponentCLI, "Dithered", "elapsed", time.Since(begin))
	return imageutil.SaveImage(out, o.output)
}

// ditherGIFFile sends animated GIFs through the frame harness and falls
// back to the still-image path for single frames.
func ditherGIFFile(ctx context.Context, o *cliOptions, p img2dither.Params) error {
	data, err := os.ReadFile(o.input)
	if err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	frames, anim, err := sequence.DecodeGIFFrames(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if len(frames) <= 1 {
		return ditherFile(o, p)
	}
	if imageutil.FormatFromPath(o.output) != "gif" {
		return fmt.Errorf("animated input needs a .gif output, got %q", o.output)
	}
	palette := p.ResolvePalette()
	if len(palette) > 256 {
		return sequence.ErrPaletteTooLarge
	}

	if o.width > 0 || o.sharpen {
		for i, f := range frames {
			frames[i] = imageutil.PrepareForDither(imageutil.RGBAImageFromImage(f), o.width, o.sharpen)
		}
	}

	log := logging.Logger(logging.ComponentSequence)
	log.Info("Dithering animation",
		"frames", len(frames),
		"algorithm", p.Algorithm.String(),
		"palette", p.Palette.String())
	dithered, err := sequence.DitherFrames(ctx, frames, p,
		sequence.WithWorkers(o.workers),
		sequence.WithLogger(log),
		sequence.WithProgress(func(done, total int) {
			log.Debug("Frame done", "done", done, "total", total)
		}))
	if err != nil {
		return err
	}

	f, err := os.Create(o.output)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := sequence.EncodeGIF(f, dithered, palette, anim.Delay, anim.LoopCount); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSheet(o *cliOptions, p img2dither.Params) error {
	img, err := imageutil.LoadImage(o.input)
	if err != nil {
		return err
	}
	cellWidth := o.width
	if cellWidth == 0 {
		cellWidth = 160
	}
	sheet, err := contactsheet.Render(img, img2dither.Algorithms(), p, contactsheet.Options{
		CellWidth: cellWidth,
		Logger:    logging.Logger(logging.ComponentSheet),
	})
	if err != nil {
		return err
	}
	return imageutil.SaveImage(sheet, o.output)
}

func writeList(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tNAME\tSTOCHASTIC")
	for _, a := range img2dither.Algorithms() {
		fmt.Fprintf(tw, "%s\t%s\t%v\n", a.String(), a.Name(), a.Stochastic())
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "PALETTE\tNAME\tCOLORS")
	for _, m := range img2dither.PaletteModes() {
		n := len(img2dither.PaletteFor(m, nil))
		if m == img2dither.Custom {
			n = 0
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", m.String(), m.Name(), n)
	}
	return tw.Flush()
}
