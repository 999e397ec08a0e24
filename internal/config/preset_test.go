package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wbrown/img2dither"
	"github.com/wbrown/img2dither/imageutil"
)

const gameboyPreset = `
name: handheld
algorithm: bayer-4x4
palette: gameboy
strength: 0.6
serpentine: false
pattern_scale: 6
`

func TestPresetApply(t *testing.T) {
	t.Parallel()

	pr, err := ParsePreset([]byte(gameboyPreset))
	if err != nil {
		t.Fatalf("ParsePreset: %v", err)
	}
	p := img2dither.DefaultParams()
	if err := pr.Apply(&p); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := img2dither.DefaultParams()
	want.Algorithm = img2dither.Bayer4x4
	want.Palette = img2dither.GameBoy
	want.Strength = 0.6
	want.Serpentine = false
	want.PatternScale = 6
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestPresetColorsSelectCustom(t *testing.T) {
	t.Parallel()

	pr, err := ParsePreset([]byte("name: duo\ncolors: ['#102030', '#f0f0f0']\n"))
	if err != nil {
		t.Fatal(err)
	}
	p := img2dither.DefaultParams()
	if err := pr.Apply(&p); err != nil {
		t.Fatal(err)
	}
	if p.Palette != img2dither.Custom {
		t.Errorf("Expected custom palette, got %v", p.Palette)
	}
	want := []imageutil.RGB{{R: 16, G: 32, B: 48}, {R: 240, G: 240, B: 240}}
	if diff := cmp.Diff(want, p.CustomPalette); diff != "" {
		t.Errorf("colors mismatch (-want +got):\n%s", diff)
	}
}

func TestPresetErrors(t *testing.T) {
	t.Parallel()

	if _, err := ParsePreset([]byte("name: x\nalgorithm_typo: fs\n")); err == nil {
		t.Error("Expected unknown keys to be rejected")
	}

	pr, err := ParsePreset([]byte("name: bad\nalgorithm: swirl\n"))
	if err != nil {
		t.Fatal(err)
	}
	p := img2dither.DefaultParams()
	if err := pr.Apply(&p); !errors.Is(err, img2dither.ErrUnknownAlgorithm) {
		t.Errorf("Expected ErrUnknownAlgorithm, got %v", err)
	}

	if _, err := LoadPreset(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("Expected error for a missing preset file")
	}
}

func TestPresetRoundTrip(t *testing.T) {
	t.Parallel()

	p := img2dither.DefaultParams()
	p.Algorithm = img2dither.Ostromoukhov
	p.Palette = img2dither.Custom
	p.CustomPalette = []imageutil.RGB{{R: 1, G: 2, B: 3}, {R: 250, G: 251, B: 252}}
	p.Gamma = 1.8
	p.Seed = 99

	data, err := PresetFromParams("saved", p).Marshal()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "saved.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadPreset(path)
	if err != nil {
		t.Fatal(err)
	}
	got := img2dither.DefaultParams()
	if err := loaded.Apply(&got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
