package img2dither

import (
	"slices"

	"github.com/wbrown/img2dither/imageutil"
)

// Params is the full parameter record of one dither call. The engine
// does not range-check any field.
type Params struct {
	Algorithm     Algorithm
	Palette       PaletteMode
	CustomPalette []imageutil.RGB

	// Strength scales diffused error and threshold offsets.
	Strength   float64
	Serpentine bool

	Gamma      float64
	Contrast   float64
	Brightness float64
	Saturation float64

	// BayerSize overrides the matrix size of the Bayer algorithms when it
	// is a power of two of at least 2. Zero keeps the size the algorithm
	// names.
	BayerSize int
	// PatternScale is the halftone cell size, at least 4.
	PatternScale int
	Seed         uint32
}

// DefaultParams returns Floyd-Steinberg on the monochrome palette with
// neutral adjustments.
func DefaultParams() Params {
	return Params{
		Algorithm:    FloydSteinberg,
		Palette:      Monochrome,
		Strength:     1,
		Serpentine:   true,
		Gamma:        1,
		Contrast:     1,
		Brightness:   0,
		Saturation:   1,
		BayerSize:    0,
		PatternScale: 4,
		Seed:         42,
	}
}

// ResolvePalette returns the active palette for p.
func (p Params) ResolvePalette() Palette {
	return PaletteFor(p.Palette, p.CustomPalette)
}

// ResolveBayerSize returns the Bayer matrix size used for p: BayerSize
// when it is a power of two of at least 2, otherwise the size named by
// p.Algorithm (0 for non-Bayer algorithms).
func (p Params) ResolveBayerSize() int {
	if n := p.BayerSize; n >= 2 && n&(n-1) == 0 {
		return n
	}
	return p.Algorithm.BayerSize()
}

// Option configures a Ditherer.
type Option func(*Params)

func WithAlgorithm(a Algorithm) Option { return func(p *Params) { p.Algorithm = a } }

func WithPalette(m PaletteMode) Option { return func(p *Params) { p.Palette = m } }

// WithCustomPalette selects the Custom mode with the given colors.
func WithCustomPalette(colors []imageutil.RGB) Option {
	return func(p *Params) {
		p.Palette = Custom
		p.CustomPalette = slices.Clone(colors)
	}
}

func WithStrength(s float64) Option { return func(p *Params) { p.Strength = s } }

func WithSerpentine(on bool) Option { return func(p *Params) { p.Serpentine = on } }

func WithGamma(g float64) Option { return func(p *Params) { p.Gamma = g } }

func WithContrast(c float64) Option { return func(p *Params) { p.Contrast = c } }

func WithBrightness(b float64) Option { return func(p *Params) { p.Brightness = b } }

func WithSaturation(s float64) Option { return func(p *Params) { p.Saturation = s } }

func WithBayerSize(n int) Option { return func(p *Params) { p.BayerSize = n } }

func WithPatternScale(n int) Option { return func(p *Params) { p.PatternScale = n } }

func WithSeed(seed uint32) Option { return func(p *Params) { p.Seed = seed } }

// WithParams replaces every field, e.g. with a loaded preset.
func WithParams(params Params) Option {
	return func(p *Params) {
		*p = params
		p.CustomPalette = slices.Clone(params.CustomPalette)
	}
}
