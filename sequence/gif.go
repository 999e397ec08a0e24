package sequence

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"

	"github.com/wbrown/img2dither"
	"github.com/wbrown/img2dither/imageutil"
)

// ErrPaletteTooLarge is returned when the active palette cannot be stored
// in a GIF color table.
var ErrPaletteTooLarge = errors.New("palette has more than 256 colors")

// DecodeGIFFrames decodes an animated GIF and composites every frame onto
// the full logical screen, honouring each frame's disposal method. The
// returned frames are full-size snapshots; delays and loop count are kept
// in the returned *gif.GIF.
func DecodeGIFFrames(r io.Reader) ([]image.Image, *gif.GIF, error) {
	anim, err := gif.DecodeAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("error decoding GIF: %w", err)
	}
	bounds := image.Rect(0, 0, anim.Config.Width, anim.Config.Height)
	if bounds.Empty() && len(anim.Image) > 0 {
		bounds = anim.Image[0].Bounds()
	}

	canvas := image.NewRGBA(bounds)
	frames := make([]image.Image, 0, len(anim.Image))
	for i, frame := range anim.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(anim.Disposal) {
			disposal = anim.Disposal[i]
		}
		var saved *image.RGBA
		if disposal == gif.DisposalPrevious {
			saved = image.NewRGBA(bounds)
			draw.Draw(saved, bounds, canvas, bounds.Min, draw.Src)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		snapshot := image.NewRGBA(bounds)
		draw.Draw(snapshot, bounds, canvas, bounds.Min, draw.Src)
		frames = append(frames, snapshot)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = saved
		}
	}
	return frames, anim, nil
}

// EncodeGIF writes dithered frames as an animated GIF whose color table is
// the palette. delays and loopCount follow image/gif semantics.
func EncodeGIF(w io.Writer, frames []*imageutil.RGBAImage, palette img2dither.Palette, delays []int, loopCount int) error {
	if len(palette) > 256 {
		return ErrPaletteTooLarge
	}
	cp := palette.ColorPalette()
	index := make(map[imageutil.RGB]uint8, len(palette))
	for i := len(palette) - 1; i >= 0; i-- {
		index[palette[i]] = uint8(i)
	}

	anim := &gif.GIF{LoopCount: loopCount}
	for i, frame := range frames {
		pm := image.NewPaletted(frame.Bounds(), cp)
		for y := 0; y < frame.Height(); y++ {
			for x := 0; x < frame.Width(); x++ {
				idx, ok := index[frame.GetRGB(x, y)]
				if !ok {
					idx = uint8(cp.Index(frame.At(x, y)))
				}
				pm.SetColorIndex(x, y, idx)
			}
		}
		delay := 0
		if i < len(delays) {
			delay = delays[i]
		}
		anim.Image = append(anim.Image, pm)
		anim.Delay = append(anim.Delay, delay)
		anim.Disposal = append(anim.Disposal, gif.DisposalNone)
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("error encoding GIF: %w", err)
	}
	return nil
}

// DitherGIF reads an animated GIF from r, dithers every composited frame
// with p and writes the result to w with the original timing.
func DitherGIF(ctx context.Context, r io.Reader, w io.Writer, p img2dither.Params, opts ...Option) error {
	frames, anim, err := DecodeGIFFrames(r)
	if err != nil {
		return err
	}
	palette := p.ResolvePalette()
	if len(palette) > 256 {
		return ErrPaletteTooLarge
	}

	o := buildOptions(opts)
	if o.logger != nil {
		o.logger.Info("dithering GIF",
			"frames", len(frames),
			"width", anim.Config.Width,
			"height", anim.Config.Height,
			"algorithm", p.Algorithm.String())
	}

	dithered, err := DitherFrames(ctx, frames, p, opts...)
	if err != nil {
		return err
	}
	return EncodeGIF(w, dithered, palette, anim.Delay, anim.LoopCount)
}
