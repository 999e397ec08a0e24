package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wbrown/img2dither"
)

// Preset is a named, partial set of dither parameters stored as YAML.
// Unset fields leave the target Params untouched.
type Preset struct {
	Name         string   `yaml:"name"`
	Algorithm    string   `yaml:"algorithm,omitempty"`
	Palette      string   `yaml:"palette,omitempty"`
	PaletteFile  string   `yaml:"palette_file,omitempty"`
	Colors       []string `yaml:"colors,omitempty"`
	Strength     *float64 `yaml:"strength,omitempty"`
	Serpentine   *bool    `yaml:"serpentine,omitempty"`
	Gamma        *float64 `yaml:"gamma,omitempty"`
	Contrast     *float64 `yaml:"contrast,omitempty"`
	Brightness   *float64 `yaml:"brightness,omitempty"`
	Saturation   *float64 `yaml:"saturation,omitempty"`
	BayerSize    *int     `yaml:"bayer_size,omitempty"`
	PatternScale *int     `yaml:"pattern_scale,omitempty"`
	Seed         *uint32  `yaml:"seed,omitempty"`
}

// LoadPreset reads a YAML preset from path.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading preset: %w", err)
	}
	return ParsePreset(data)
}

// ParsePreset decodes a YAML preset. Unknown keys are rejected.
func ParsePreset(data []byte) (*Preset, error) {
	var p Preset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("error decoding preset: %w", err)
	}
	return &p, nil
}

// Apply overlays the preset onto params. Colors (or PaletteFile) imply the
// custom palette mode unless Palette names another mode.
func (pr *Preset) Apply(params *img2dither.Params) error {
	if pr.Algorithm != "" {
		a, err := img2dither.ParseAlgorithm(pr.Algorithm)
		if err != nil {
			return fmt.Errorf("preset %q: %w", pr.Name, err)
		}
		params.Algorithm = a
	}

	switch {
	case len(pr.Colors) > 0:
		colors, err := ParseColorList(strings.Join(pr.Colors, ","))
		if err != nil {
			return fmt.Errorf("preset %q: %w", pr.Name, err)
		}
		params.Palette, params.CustomPalette = img2dither.Custom, colors
	case pr.PaletteFile != "":
		pal, err := img2dither.LoadPaletteFile(pr.PaletteFile)
		if err != nil {
			return fmt.Errorf("preset %q: %w", pr.Name, err)
		}
		params.Palette, params.CustomPalette = img2dither.Custom, pal
	}
	if pr.Palette != "" {
		m, err := img2dither.ParsePaletteMode(pr.Palette)
		if err != nil {
			return fmt.Errorf("preset %q: %w", pr.Name, err)
		}
		params.Palette = m
	}

	setIf(&params.Strength, pr.Strength)
	setIf(&params.Serpentine, pr.Serpentine)
	setIf(&params.Gamma, pr.Gamma)
	setIf(&params.Contrast, pr.Contrast)
	setIf(&params.Brightness, pr.Brightness)
	setIf(&params.Saturation, pr.Saturation)
	setIf(&params.BayerSize, pr.BayerSize)
	setIf(&params.PatternScale, pr.PatternScale)
	setIf(&params.Seed, pr.Seed)
	return nil
}

// Marshal encodes the preset as YAML.
func (pr *Preset) Marshal() ([]byte, error) {
	return yaml.Marshal(pr)
}

// PresetFromParams captures every field of params.
func PresetFromParams(name string, params img2dither.Params) *Preset {
	pr := &Preset{
		Name:         name,
		Algorithm:    params.Algorithm.Name(),
		Palette:      params.Palette.Name(),
		Strength:     &params.Strength,
		Serpentine:   &params.Serpentine,
		Gamma:        &params.Gamma,
		Contrast:     &params.Contrast,
		Brightness:   &params.Brightness,
		Saturation:   &params.Saturation,
		BayerSize:    &params.BayerSize,
		PatternScale: &params.PatternScale,
		Seed:         &params.Seed,
	}
	if params.Palette == img2dither.Custom {
		pr.Colors = img2dither.Palette(params.CustomPalette).Hex()
	}
	return pr
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
