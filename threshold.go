package img2dither

import "github.com/wbrown/img2dither/imageutil"

// thresholdFunc yields t in [0, 1] for a pixel.
type thresholdFunc func(x, y int) float64

// OrderedDither perturbs every pixel by (t*255 - 127.5)*strength, where t
// comes from m with wraparound, and quantizes. No error is carried.
func OrderedDither(src *imageutil.RGBAImage, palette Palette, m ThresholdMatrix, strength float64) *imageutil.RGBAImage {
	return thresholdPass(src, palette, strength, m.At)
}

func thresholdPass(src *imageutil.RGBAImage, palette Palette, strength float64, t thresholdFunc) *imageutil.RGBAImage {
	width, height := src.Width(), src.Height()
	out := imageutil.NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			offset := (t(x, y)*255 - 127.5) * strength
			px := workingFrom(src.GetRGB(x, y))
			for i := range px {
				px[i] += offset
			}
			out.SetRGB(x, y, px.quantize(palette))
		}
	}
	return out
}

// whiteNoise draws one uniform value per pixel in row-major order. The
// threshold pass visits pixels in the same order, so the field is
// consumed lazily.
func whiteNoise(seed uint32) thresholdFunc {
	rng := newRNG(seed)
	return func(int, int) float64 { return rng.Float64() }
}

// dotDiffusion thresholds against the class matrix with amplitude 128.
// It reads an error accumulator that no step of this pass writes to.
func dotDiffusion(src *imageutil.RGBAImage, palette Palette, strength float64) *imageutil.RGBAImage {
	width, height := src.Width(), src.Height()
	out := imageutil.NewRGBAImage(width, height)
	classes := DotClassMatrix()
	errs := newErrorGrid(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			offset := (classes.At(x, y)*128 - 64) * strength
			acc := errs.at(x, y)
			px := workingFrom(src.GetRGB(x, y))
			for i := range px {
				px[i] += offset + acc[i]
			}
			out.SetRGB(x, y, px.quantize(palette))
		}
	}
	return out
}
