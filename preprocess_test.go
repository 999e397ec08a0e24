package img2dither

import (
	"math"
	"testing"

	"github.com/wbrown/img2dither/imageutil"
)

func TestPreprocessDefaultsIdentity(t *testing.T) {
	t.Parallel()

	img := imageutil.CreateNoiseImage(32, 32, 3)
	out := Preprocess(img, DefaultParams())
	if !out.Equal(img) {
		t.Errorf("Expected identity at default parameters, max diff %d", imageutil.CalculateMaxDiff(img, out))
	}
	if out == img {
		t.Error("Expected a new image")
	}
}

func TestPreprocessAdjustments(t *testing.T) {
	t.Parallel()

	gray128 := imageutil.RGB{R: 128, G: 128, B: 128}
	tests := []struct {
		name   string
		in     imageutil.RGB
		adjust func(*Params)
		want   imageutil.RGB
	}{
		{"flatten to half", imageutil.RGB{R: 10, G: 200, B: 77},
			func(p *Params) { p.Contrast, p.Brightness = 0, 0.5 }, gray128},
		{"brightness saturates", gray128,
			func(p *Params) { p.Brightness = 1 }, white},
		{"negative brightness clamps", gray128,
			func(p *Params) { p.Brightness = -1 }, black},
		{"double contrast", imageutil.RGB{R: 100, G: 0, B: 200},
			func(p *Params) { p.Contrast = 2 }, imageutil.RGB{R: 200, G: 0, B: 255}},
		{"gamma 2", gray128,
			func(p *Params) { p.Gamma = 2 }, imageutil.RGB{R: 64, G: 64, B: 64}},
		{"gamma keeps extremes", white,
			func(p *Params) { p.Gamma = 2.2 }, white},
		{"desaturate red", imageutil.RGB{R: 255},
			func(p *Params) { p.Saturation = 0 }, white},
		{"gray ignores saturation", gray128,
			func(p *Params) { p.Saturation = 3 }, gray128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := DefaultParams()
			tt.adjust(&p)
			if got := adjustColor(tt.in, p); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPreprocessSaturationBoost(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.Saturation = 2
	got := adjustColor(imageutil.RGB{R: 200, G: 150, B: 150}, p)
	// s = 0.25 -> 0.5, v unchanged: min channel drops to 100.
	if want := (imageutil.RGB{R: 200, G: 100, B: 100}); got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestGammaPow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v, gamma, want float64
	}{
		{0.25, 0.5, 0.5},
		{-0.25, 0.5, 0.5},
		{-0.5, 2, 0.25},
		{-0.5, 3, -0.125},
	}
	for _, tt := range tests {
		got := gammaPow(tt.v, tt.gamma)
		if math.IsNaN(got) || math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("gammaPow(%v, %v): Expected %v, got %v", tt.v, tt.gamma, tt.want, got)
		}
	}
}

func TestPreprocessDoesNotMutate(t *testing.T) {
	t.Parallel()

	img := imageutil.CreateColorBarsImage(16, 4)
	before := img.Clone()
	p := DefaultParams()
	p.Contrast, p.Gamma, p.Saturation = 1.5, 0.8, 1.4
	_ = Preprocess(img, p)
	if !img.Equal(before) {
		t.Error("Expected the input image to be unchanged")
	}
}
