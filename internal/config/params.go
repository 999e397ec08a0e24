package config

import (
	"fmt"
	"strings"

	"github.com/wbrown/img2dither"
	"github.com/wbrown/img2dither/imageutil"
)

// ParamsFromEnv starts from img2dither.DefaultParams and overrides each
// field from prefix+"_ALGORITHM", prefix+"_PALETTE", prefix+"_STRENGTH" and
// so on. Unknown algorithm or palette names are reported in the returned
// warnings and leave the default in place.
func ParamsFromEnv(prefix string) (img2dither.Params, []error) {
	p := img2dither.DefaultParams()
	var warnings []error
	key := func(name string) string { return prefix + "_" + name }

	if name := Get(key("ALGORITHM"), ""); name != "" {
		if a, err := img2dither.ParseAlgorithm(name); err != nil {
			warnings = append(warnings, fmt.Errorf("%s: %w", key("ALGORITHM"), err))
		} else {
			p.Algorithm = a
		}
	}
	if name := Get(key("PALETTE"), ""); name != "" {
		if m, err := img2dither.ParsePaletteMode(name); err != nil {
			warnings = append(warnings, fmt.Errorf("%s: %w", key("PALETTE"), err))
		} else {
			p.Palette = m
		}
	}
	if colors := Get(key("CUSTOM_PALETTE"), ""); colors != "" {
		custom, err := ParseColorList(colors)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("%s: %w", key("CUSTOM_PALETTE"), err))
		} else {
			p.CustomPalette = custom
		}
	}

	p.Strength = GetFloat(key("STRENGTH"), p.Strength)
	p.Serpentine = GetBool(key("SERPENTINE"), p.Serpentine)
	p.Gamma = GetFloat(key("GAMMA"), p.Gamma)
	p.Contrast = GetFloat(key("CONTRAST"), p.Contrast)
	p.Brightness = GetFloat(key("BRIGHTNESS"), p.Brightness)
	p.Saturation = GetFloat(key("SATURATION"), p.Saturation)
	p.BayerSize = GetInt(key("BAYER_SIZE"), p.BayerSize)
	p.PatternScale = GetInt(key("PATTERN_SCALE"), p.PatternScale)
	p.Seed = uint32(GetInt(key("SEED"), int(p.Seed)))
	return p, warnings
}

// ParseColorList parses comma- or space-separated hex colors.
func ParseColorList(s string) ([]imageutil.RGB, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]imageutil.RGB, 0, len(fields))
	for _, f := range fields {
		c, err := img2dither.ParseHexColor(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
