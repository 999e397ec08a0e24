package imageutil

import "math"

// Kernel represents a convolution kernel.
type Kernel struct {
	Values [][]float64
	Width  int
	Height int
}

// NewKernel creates a new kernel from a 2D slice.
func NewKernel(values [][]float64) *Kernel {
	height := len(values)
	width := 0
	if height > 0 {
		width = len(values[0])
	}
	return &Kernel{
		Values: values,
		Width:  width,
		Height: height,
	}
}

// BorderMode selects how samples outside the image are synthesized.
type BorderMode int

const (
	// BorderReplicate repeats the edge pixel: aaa|abcd|ddd.
	BorderReplicate BorderMode = iota
	// BorderReflect101 mirrors without repeating the edge: cb|abcd|cb.
	// This is OpenCV's default border for GaussianBlur and Sobel.
	BorderReflect101
)

// index maps a possibly out-of-range coordinate into [0, n).
func (m BorderMode) index(i, n int) int {
	if n == 1 {
		return 0
	}
	switch m {
	case BorderReflect101:
		for i < 0 || i >= n {
			if i < 0 {
				i = -i
			}
			if i >= n {
				i = 2*n - 2 - i
			}
		}
		return i
	default:
		return clampInt(i, 0, n-1)
	}
}

// SharpeningKernel returns a mild sharpening kernel.
func SharpeningKernel() *Kernel {
	return NewKernel([][]float64{
		{0, -0.5, 0},
		{-0.5, 3, -0.5},
		{0, -0.5, 0},
	})
}

// GaussianWeights returns a normalized 1D Gaussian of the given odd size.
// A non-positive sigma is derived from the size the way OpenCV does.
func GaussianWeights(size int, sigma float64) []float64 {
	if sigma <= 0 {
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}
	weights := make([]float64, size)
	center := float64(size-1) / 2
	var sum float64
	for i := range weights {
		d := float64(i) - center
		weights[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// GaussianKernel returns a size x size Gaussian kernel, the outer product
// of GaussianWeights with itself.
func GaussianKernel(size int, sigma float64) *Kernel {
	w := GaussianWeights(size, sigma)
	values := make([][]float64, size)
	for y := range values {
		values[y] = make([]float64, size)
		for x := range values[y] {
			values[y][x] = w[y] * w[x]
		}
	}
	return NewKernel(values)
}

// Convolve applies a convolution kernel to an RGBA image.
// Border pixels are handled by replicating edge values.
func Convolve(img *RGBAImage, kernel *Kernel) *RGBAImage {
	width, height := img.Width(), img.Height()
	dst := NewRGBAImage(width, height)

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sumR, sumG, sumB float64

			for ky := 0; ky < kernel.Height; ky++ {
				for kx := 0; kx < kernel.Width; kx++ {
					sx := clampInt(x+kx-halfKW, 0, width-1)
					sy := clampInt(y+ky-halfKH, 0, height-1)

					c := img.GetRGB(sx, sy)
					k := kernel.Values[ky][kx]

					sumR += float64(c.R) * k
					sumG += float64(c.G) * k
					sumB += float64(c.B) * k
				}
			}

			dst.SetRGB(x, y, RGB{
				R: clampUint8(sumR),
				G: clampUint8(sumG),
				B: clampUint8(sumB),
			})
		}
	}

	return dst
}

// ConvolvePlane applies a kernel to a float plane without clamping.
// The kernel is applied as a correlation, matching OpenCV's filter2D.
func ConvolvePlane(src *FloatPlane, kernel *Kernel, border BorderMode) *FloatPlane {
	width, height := src.Width, src.Height
	dst := NewFloatPlane(width, height)
	if width == 0 || height == 0 {
		return dst
	}

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for ky := 0; ky < kernel.Height; ky++ {
				sy := border.index(y+ky-halfKH, height)
				for kx := 0; kx < kernel.Width; kx++ {
					sx := border.index(x+kx-halfKW, width)
					sum += src.Values[sy*width+sx] * kernel.Values[ky][kx]
				}
			}
			dst.Values[y*width+x] = sum
		}
	}

	return dst
}

// GaussianBlurPlane blurs a float plane with a size x size Gaussian.
func GaussianBlurPlane(src *FloatPlane, size int, sigma float64, border BorderMode) *FloatPlane {
	return ConvolvePlane(src, GaussianKernel(size, sigma), border)
}

// Sharpen applies a mild sharpening filter to an RGBA image.
func Sharpen(img *RGBAImage) *RGBAImage {
	return Convolve(img, SharpeningKernel())
}

// clampInt clamps an integer to the given range.
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255] and converts to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
