package img2dither

import "github.com/wbrown/img2dither/imageutil"

// riemersmaDecay is the fraction of error carried to the next pixel.
const riemersmaDecay = 0.8

// GradientDiffuse runs Floyd-Steinberg with a per-pixel strength of
// strength*(0.5 + 0.5*g), where g is the normalized Sobel magnitude of
// the grayscale image. Detailed regions diffuse more.
func GradientDiffuse(src *imageutil.RGBAImage, palette Palette, strength float64) *imageutil.RGBAImage {
	grad := imageutil.NormalizedGradient(src)
	return diffusion{
		palette: palette,
		taps: func(x, y int, _ working) (Kernel, float64) {
			return floydSteinbergKernel, strength * (0.5 + 0.5*grad.At(x, y))
		},
	}.run(src)
}

// VariableDiffuse runs Floyd-Steinberg with every weight of a pixel
// multiplied by one uniform factor in [0.7, 1.3], drawn in scan order.
func VariableDiffuse(src *imageutil.RGBAImage, palette Palette, strength float64, seed uint32) *imageutil.RGBAImage {
	rng := newRNG(seed)
	k := make(Kernel, len(floydSteinbergKernel))
	return diffusion{
		palette: palette,
		taps: func(int, int, working) (Kernel, float64) {
			factor := 0.7 + 0.6*rng.Float64()
			for i, t := range floydSteinbergKernel {
				k[i] = Tap{DX: t.DX, DY: t.DY, Weight: t.Weight * factor}
			}
			return k, strength
		},
	}.run(src)
}

// OstromoukhovDiffuse adapts the Floyd-Steinberg weights to intensity:
// the right and lower-left taps blend from 7:3 in shadows to 3:7 in
// highlights while the other two stay at 5 and 1, then all four are
// normalized.
func OstromoukhovDiffuse(src *imageutil.RGBAImage, palette Palette, strength float64) *imageutil.RGBAImage {
	k := make(Kernel, len(floydSteinbergKernel))
	return diffusion{
		palette: palette,
		taps: func(_, _ int, c working) (Kernel, float64) {
			i := (c[0] + c[1] + c[2]) / (3 * 255)
			w := [4]float64{7*(1-i) + 3*i, 3*(1-i) + 7*i, 5, 1}
			sum := w[0] + w[1] + w[2] + w[3]
			for n, t := range floydSteinbergKernel {
				k[n] = Tap{DX: t.DX, DY: t.DY, Weight: w[n] / sum}
			}
			return k, strength
		},
	}.run(src)
}

// carriedError walks pixels in a caller-defined order, carrying one
// decaying error per channel from each pixel to the next.
type carriedError struct {
	src     *imageutil.RGBAImage
	out     *imageutil.RGBAImage
	palette Palette
	err     working
	scale   float64
}

func newCarriedError(src *imageutil.RGBAImage, palette Palette, strength float64) *carriedError {
	return &carriedError{
		src:     src,
		out:     imageutil.NewRGBAImage(src.Width(), src.Height()),
		palette: palette,
		scale:   strength,
	}
}

func (c *carriedError) visit(x, y int) {
	px := workingFrom(c.src.GetRGB(x, y))
	for i := range px {
		px[i] += c.err[i] * c.scale
	}
	px = px.clamped()
	q := px.quantize(c.palette)
	c.out.SetRGB(x, y, q)
	e := px.sub(q)
	for i := range e {
		c.err[i] = e[i] * riemersmaDecay
	}
}

// RiemersmaDiffuse carries a decaying error along a serpentine scan.
// Rows always alternate direction, independent of any serpentine option.
func RiemersmaDiffuse(src *imageutil.RGBAImage, palette Palette, strength float64) *imageutil.RGBAImage {
	c := newCarriedError(src, palette, strength)
	width := src.Width()
	for y := 0; y < src.Height(); y++ {
		if y%2 == 1 {
			for x := width - 1; x >= 0; x-- {
				c.visit(x, y)
			}
			continue
		}
		for x := 0; x < width; x++ {
			c.visit(x, y)
		}
	}
	return c.out
}

// RiemersmaHilbertDiffuse carries the same decaying error along a Hilbert
// curve over the smallest power-of-two square covering the image.
// Curve points outside the image are skipped.
func RiemersmaHilbertDiffuse(src *imageutil.RGBAImage, palette Palette, strength float64) *imageutil.RGBAImage {
	c := newCarriedError(src, palette, strength)
	width, height := src.Width(), src.Height()
	n := 1
	for n < width || n < height {
		n <<= 1
	}
	for d := 0; d < n*n; d++ {
		x, y := hilbertPoint(n, d)
		if x < width && y < height {
			c.visit(x, y)
		}
	}
	return c.out
}

// hilbertPoint maps distance d along the Hilbert curve filling an n×n
// square (n a power of two) to its coordinates.
func hilbertPoint(n, d int) (x, y int) {
	t := d
	for s := 1; s < n; s <<= 1 {
		rx := 1 & (t / 2)
		ry := 1 & (t ^ rx)
		if ry == 0 {
			if rx == 1 {
				x, y = s-1-x, s-1-y
			}
			x, y = y, x
		}
		x += s * rx
		y += s * ry
		t /= 4
	}
	return x, y
}
