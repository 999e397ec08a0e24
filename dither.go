package img2dither

import (
	"image"
	"slices"

	"github.com/wbrown/img2dither/imageutil"
)

// Ditherer holds a parameter set and can be reused across images. It is
// safe for concurrent use; every call owns its own state.
type Ditherer struct {
	params Params
}

// New returns a Ditherer configured from DefaultParams and opts.
func New(opts ...Option) *Ditherer {
	p := DefaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	return &Ditherer{params: p}
}

// Params returns a copy of the Ditherer's parameters.
func (d *Ditherer) Params() Params {
	p := d.params
	p.CustomPalette = slices.Clone(p.CustomPalette)
	return p
}

// Dither dithers img with the Ditherer's parameters.
func (d *Ditherer) Dither(img image.Image) *imageutil.RGBAImage {
	return Dither(img, d.params)
}

// Dither preprocesses img and dithers it with p.Algorithm. The result is
// a new image of the same size whose pixels all belong to the active
// palette. img is not modified. Unknown algorithms run Floyd-Steinberg.
func Dither(img image.Image, p Params) *imageutil.RGBAImage {
	src := Preprocess(imageutil.RGBAImageFromImage(img), p)
	palette := p.ResolvePalette()

	if k, ok := namedKernels[p.Algorithm]; ok {
		return ErrorDiffuse(src, palette, k, p.Strength, p.Serpentine)
	}

	switch p.Algorithm {
	case Bayer2x2, Bayer4x4, Bayer8x8, Bayer16x16:
		return OrderedDither(src, palette, BayerMatrix(p.ResolveBayerSize()), p.Strength)
	case BlueNoise:
		return OrderedDither(src, palette, BlueNoiseTexture(BlueNoiseSize, p.Seed), p.Strength)
	case WhiteNoise, RandomDither:
		return thresholdPass(src, palette, p.Strength, whiteNoise(p.Seed))
	case PatternDither:
		return OrderedDither(src, palette, PatternMatrix(), p.Strength)
	case DotDiffusion:
		return dotDiffusion(src, palette, p.Strength)
	case ClusteredDot:
		return OrderedDither(src, palette, ClusteredDotMatrix(), p.Strength)
	case HalftoneCircle:
		return thresholdPass(src, palette, p.Strength, func(x, y int) float64 {
			return HalftoneCircleScreen(x, y, p.PatternScale)
		})
	case HalftoneDiamond:
		return thresholdPass(src, palette, p.Strength, func(x, y int) float64 {
			return HalftoneDiamondScreen(x, y, p.PatternScale)
		})
	case SimpleThreshold:
		return thresholdPass(src, palette, p.Strength, func(int, int) float64 { return 0.5 })
	case Riemersma:
		return RiemersmaDiffuse(src, palette, p.Strength)
	case RiemersmaHilbert:
		return RiemersmaHilbertDiffuse(src, palette, p.Strength)
	case GradientBased:
		return GradientDiffuse(src, palette, p.Strength)
	case VariableErrorDiffusion:
		return VariableDiffuse(src, palette, p.Strength, p.Seed)
	case Ostromoukhov:
		return OstromoukhovDiffuse(src, palette, p.Strength)
	}
	return ErrorDiffuse(src, palette, floydSteinbergKernel, p.Strength, p.Serpentine)
}
