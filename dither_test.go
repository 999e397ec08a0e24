package img2dither

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/wbrown/img2dither/imageutil"
)

func TestPaletteClosure(t *testing.T) {
	t.Parallel()

	img := imageutil.CreateColorGradientImage(24, 16)
	custom := []imageutil.RGB{{R: 250, G: 10, B: 10}, {R: 10, G: 250, B: 10}, {R: 30, G: 30, B: 200}}
	palettes := []PaletteMode{Monochrome, Gray4, Gray16, CGA, EGA, GameBoy, PICO8, Custom}

	for _, a := range Algorithms() {
		for _, mode := range palettes {
			t.Run(a.Name()+"/"+mode.Name(), func(t *testing.T) {
				t.Parallel()
				p := DefaultParams()
				p.Algorithm = a
				p.Palette = mode
				p.CustomPalette = custom
				p.Saturation = 1.3
				pal := p.ResolvePalette()

				out := Dither(img, p)
				for y := 0; y < out.Height(); y++ {
					for x := 0; x < out.Width(); x++ {
						if c := out.GetRGB(x, y); !pal.Contains(c) {
							t.Fatalf("(%d,%d): %v is not in the %v palette", x, y, c, mode)
						}
					}
				}
			})
		}
	}
}

func TestDitherKeepsDimensions(t *testing.T) {
	t.Parallel()

	base := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			base.Set(x, y, color.RGBA{R: uint8(x * 12), G: uint8(y * 25), B: 90, A: 255})
		}
	}
	sub := base.SubImage(image.Rect(5, 3, 17, 10))

	out := Dither(sub, DefaultParams())
	if out.Width() != 12 || out.Height() != 7 {
		t.Errorf("Expected 12x7, got %dx%d", out.Width(), out.Height())
	}
	if out.Bounds().Min != (image.Point{}) {
		t.Errorf("Expected a zero-origin output, got %v", out.Bounds().Min)
	}
}

func TestDitherDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	img := imageutil.CreateColorBarsImage(16, 8)
	before := img.Clone()
	p := DefaultParams()
	p.Palette = CGA
	_ = Dither(img, p)
	if !img.Equal(before) {
		t.Error("Expected the input image to be unchanged")
	}
}

func TestUnknownAlgorithmRunsFloydSteinberg(t *testing.T) {
	t.Parallel()

	img := imageutil.CreateGradientImage(16, 16)
	p := DefaultParams()
	want := Dither(img, p)
	p.Algorithm = Algorithm(999)
	if got := Dither(img, p); !got.Equal(want) {
		t.Error("Expected unknown algorithm to fall back to Floyd-Steinberg")
	}
}

func TestEmptyCustomPaletteFallsBack(t *testing.T) {
	t.Parallel()

	img := imageutil.CreateGradientImage(16, 4)
	p := DefaultParams()
	want := Dither(img, p)
	p.Palette = Custom
	if got := Dither(img, p); !got.Equal(want) {
		t.Error("Expected an empty custom palette to behave like monochrome")
	}
}

func TestDithererOptions(t *testing.T) {
	t.Parallel()

	d := New(
		WithAlgorithm(Atkinson),
		WithPalette(GameBoy),
		WithStrength(0.8),
		WithSerpentine(false),
		WithGamma(1.1),
		WithContrast(1.2),
		WithBrightness(-0.05),
		WithSaturation(0.9),
		WithBayerSize(4),
		WithPatternScale(6),
		WithSeed(5),
	)
	p := d.Params()
	want := Params{
		Algorithm: Atkinson, Palette: GameBoy, Strength: 0.8, Serpentine: false,
		Gamma: 1.1, Contrast: 1.2, Brightness: -0.05, Saturation: 0.9,
		BayerSize: 4, PatternScale: 6, Seed: 5,
	}
	if p.Algorithm != want.Algorithm || p.Palette != want.Palette || p.Strength != want.Strength ||
		p.Serpentine != want.Serpentine || p.Gamma != want.Gamma || p.Contrast != want.Contrast ||
		p.Brightness != want.Brightness || p.Saturation != want.Saturation ||
		p.BayerSize != want.BayerSize || p.PatternScale != want.PatternScale || p.Seed != want.Seed {
		t.Errorf("Expected %+v, got %+v", want, p)
	}

	img := imageutil.CreateColorGradientImage(20, 20)
	if !d.Dither(img).Equal(Dither(img, p)) {
		t.Error("Expected Ditherer.Dither to match Dither with its params")
	}

	colors := []imageutil.RGB{{R: 1}, {G: 2}}
	c := New(WithCustomPalette(colors))
	colors[0] = imageutil.RGB{}
	if cp := c.Params(); cp.Palette != Custom || cp.CustomPalette[0] != (imageutil.RGB{R: 1}) {
		t.Errorf("Expected a private copy of the custom palette, got %+v", cp)
	}
}

func TestConcurrentCallsAgree(t *testing.T) {
	t.Parallel()

	img := imageutil.CreateNoiseImage(32, 32, 11)
	p := DefaultParams()
	p.Algorithm = BlueNoise
	p.Palette = PICO8
	want := Dither(img, p)

	var wg sync.WaitGroup
	results := make([]*imageutil.RGBAImage, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Dither(img, p)
		}(i)
	}
	wg.Wait()
	for i, got := range results {
		if !got.Equal(want) {
			t.Errorf("goroutine %d: Expected output identical to the serial call", i)
		}
	}
}
