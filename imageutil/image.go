// Package imageutil provides the pure Go image plumbing used by the
// dithering engine: 8-bit RGB buffers, grayscale conversion, convolution,
// gradients, color space conversion, resizing and file I/O.
package imageutil

import (
	"image"
	"image/color"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to color.RGBA for use with standard library.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBFromColor converts a color.Color to RGB. Alpha is discarded.
func RGBFromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
// Every pixel written through SetRGB is opaque.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage copies any image.Image into a zero-origin RGBAImage.
// The source is never modified.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	if src, ok := img.(*RGBAImage); ok {
		return src.Clone()
	}
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.SetRGB(x-bounds.Min.X, y-bounds.Min.Y, RGBFromColor(img.At(x, y)))
		}
	}
	return rgba
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y).
func (img *RGBAImage) GetRGB(x, y int) RGB {
	i := img.PixOffset(x, y)
	return RGB{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]}
}

// SetRGB sets the RGB value at (x, y).
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	i := img.PixOffset(x, y)
	img.Pix[i] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
	img.Pix[i+3] = 255
}

// Clone creates a deep copy of the image.
func (img *RGBAImage) Clone() *RGBAImage {
	clone := NewRGBAImage(img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		srcRow := img.Pix[img.PixOffset(img.Bounds().Min.X, img.Bounds().Min.Y+y):]
		copy(clone.Pix[y*clone.Stride:(y+1)*clone.Stride], srcRow[:clone.Stride])
	}
	return clone
}

// Equal reports whether two images have the same size and RGB content.
func (img *RGBAImage) Equal(other *RGBAImage) bool {
	if img.Width() != other.Width() || img.Height() != other.Height() {
		return false
	}
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			if img.GetRGB(x, y) != other.GetRGB(x, y) {
				return false
			}
		}
	}
	return true
}

// GrayImage wraps image.Gray for single-channel images (e.g., gradient maps).
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Bounds().Dy()
}

// GetGray returns the grayscale value at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.GrayAt(x, y).Y
}

// SetGrayValue sets the grayscale value at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Gray.SetGray(x, y, color.Gray{Y: v})
}

// FloatPlane is a single-channel float64 image stored row-major.
type FloatPlane struct {
	Width, Height int
	Values        []float64
}

// NewFloatPlane allocates a zeroed plane.
func NewFloatPlane(width, height int) *FloatPlane {
	return &FloatPlane{Width: width, Height: height, Values: make([]float64, width*height)}
}

// At returns the value at (x, y).
func (p *FloatPlane) At(x, y int) float64 {
	return p.Values[y*p.Width+x]
}

// Set stores v at (x, y).
func (p *FloatPlane) Set(x, y int, v float64) {
	p.Values[y*p.Width+x] = v
}

// MinMax returns the smallest and largest values of the plane.
func (p *FloatPlane) MinMax() (lo, hi float64) {
	if len(p.Values) == 0 {
		return 0, 0
	}
	lo, hi = p.Values[0], p.Values[0]
	for _, v := range p.Values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// NormalizeMinMax linearly maps the plane onto [0, 1] in place.
// A constant plane becomes all zeros, as OpenCV's NORM_MINMAX does.
func (p *FloatPlane) NormalizeMinMax() {
	lo, hi := p.MinMax()
	scale := 0.0
	if hi-lo > 1e-12 {
		scale = 1 / (hi - lo)
	}
	for i, v := range p.Values {
		p.Values[i] = (v - lo) * scale
	}
}
