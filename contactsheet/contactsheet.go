// Package contactsheet renders one image through several dithering
// algorithms and lays the results out in a labelled grid.
package contactsheet

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/wbrown/img2dither"
	"github.com/wbrown/img2dither/imageutil"
)

// Options controls the sheet layout. Zero values pick defaults.
type Options struct {
	// Columns per row; defaults to 4.
	Columns int
	// CellWidth resizes the source before dithering; 0 keeps its size.
	CellWidth int
	// LabelSize is the label font size in points; defaults to 12.
	LabelSize float64
	// Padding around each cell in pixels; 0 means 8 and negative none.
	Padding int
	Logger  *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Columns < 1 {
		o.Columns = 4
	}
	if o.LabelSize <= 0 {
		o.LabelSize = 12
	}
	if o.Padding < 0 {
		o.Padding = 0
	} else if o.Padding == 0 {
		o.Padding = 8
	}
	return o
}

var (
	fontOnce  sync.Once
	labelFont *truetype.Font
	fontErr   error
)

func loadLabelFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		labelFont, fontErr = freetype.ParseFont(goregular.TTF)
	})
	return labelFont, fontErr
}

// Render dithers img with every algorithm in algs (all known algorithms
// when algs is empty), sharing the rest of p, and returns the grid.
func Render(img image.Image, algs []img2dither.Algorithm, p img2dither.Params, opts Options) (*image.RGBA, error) {
	o := opts.withDefaults()
	if len(algs) == 0 {
		algs = img2dither.Algorithms()
	}
	ttf, err := loadLabelFont()
	if err != nil {
		return nil, fmt.Errorf("error parsing label font: %w", err)
	}

	src := imageutil.PrepareForDither(imageutil.RGBAImageFromImage(img), o.CellWidth, false)

	labelHeight := int(o.LabelSize*1.5) + o.Padding/2
	cellW := src.Width() + 2*o.Padding
	cellH := src.Height() + labelHeight + 2*o.Padding
	cols := min(o.Columns, len(algs))
	rows := (len(algs) + cols - 1) / cols

	sheet := image.NewRGBA(image.Rect(0, 0, cols*cellW, rows*cellH))
	draw.Draw(sheet, sheet.Bounds(), image.White, image.Point{}, draw.Src)

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(o.LabelSize)
	ctx.SetDst(sheet)
	ctx.SetSrc(image.NewUniform(color.Black))
	ctx.SetHinting(font.HintingFull)

	for i, alg := range algs {
		params := p
		params.Algorithm = alg
		out := img2dither.Dither(src, params)

		cell := image.Rect(0, 0, cellW, cellH).Add(image.Pt((i%cols)*cellW, (i/cols)*cellH))
		x0, y0 := cell.Min.X+o.Padding, cell.Min.Y+o.Padding
		dst := image.Rect(x0, y0, x0+out.Width(), y0+out.Height())
		draw.Draw(sheet, dst, out, image.Point{}, draw.Src)

		ctx.SetClip(cell)
		baseline := freetype.Pt(x0, y0+out.Height()+int(o.LabelSize*1.2))
		if _, err := ctx.DrawString(alg.String(), baseline); err != nil {
			return nil, fmt.Errorf("error drawing label %q: %w", alg.String(), err)
		}
		if o.Logger != nil {
			o.Logger.Debug("contact sheet cell", "algorithm", alg.Name(), "index", i)
		}
	}
	return sheet, nil
}
