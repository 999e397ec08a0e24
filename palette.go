package img2dither

import (
	"embed"
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/wbrown/img2dither/imageutil"
)

//go:embed palettes/*.json
var paletteFS embed.FS

// Palette is a non-empty ordered list of target colors. Order only
// matters as the quantization tie-break.
type Palette []imageutil.RGB

// PaletteMode selects a built-in palette or the custom one.
type PaletteMode int

const (
	Monochrome PaletteMode = iota
	Gray4
	Gray8
	Gray16
	CGA
	EGA
	VGA
	GameBoy
	PICO8
	Custom

	paletteModeCount
)

var paletteModes = [paletteModeCount]struct {
	display, name string
}{
	Monochrome: {"Monochrome", "monochrome"},
	Gray4:      {"Grayscale 4", "gray4"},
	Gray8:      {"Grayscale 8", "gray8"},
	Gray16:     {"Grayscale 16", "gray16"},
	CGA:        {"CGA", "cga"},
	EGA:        {"EGA", "ega"},
	VGA:        {"VGA", "vga"},
	GameBoy:    {"Game Boy", "gameboy"},
	PICO8:      {"PICO-8", "pico8"},
	Custom:     {"Custom", "custom"},
}

// String returns the human-readable palette name.
func (m PaletteMode) String() string {
	if m < 0 || m >= paletteModeCount {
		return fmt.Sprintf("PaletteMode(%d)", int(m))
	}
	return paletteModes[m].display
}

// Name returns the short name accepted by ParsePaletteMode.
func (m PaletteMode) Name() string {
	if m < 0 || m >= paletteModeCount {
		return ""
	}
	return paletteModes[m].name
}

// PaletteModes returns every palette mode in identifier order.
func PaletteModes() []PaletteMode {
	out := make([]PaletteMode, paletteModeCount)
	for i := range out {
		out[i] = PaletteMode(i)
	}
	return out
}

// ParsePaletteMode resolves a short or display name (case-insensitive).
func ParsePaletteMode(name string) (PaletteMode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, m := range paletteModes {
		if key == m.name || key == strings.ToLower(m.display) {
			return PaletteMode(i), nil
		}
	}
	switch key {
	case "mono", "bw":
		return Monochrome, nil
	case "pico-8":
		return PICO8, nil
	case "game-boy", "gb":
		return GameBoy, nil
	}
	return Monochrome, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
}

var (
	builtinOnce     sync.Once
	builtinPalettes map[PaletteMode]Palette
)

// loadBuiltins parses the embedded hardware palettes once. The embedded
// files are part of the binary, so a parse failure is a build defect.
func loadBuiltins() map[PaletteMode]Palette {
	builtinOnce.Do(func() {
		builtinPalettes = map[PaletteMode]Palette{
			Monochrome: {{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}},
			Gray4:      grayRamp(4),
			Gray8:      grayRamp(8),
			Gray16:     grayRamp(16),
			EGA:        egaGamut(),
		}
		for mode, file := range map[PaletteMode]string{
			CGA:     "cga",
			VGA:     "vga",
			GameBoy: "gameboy",
			PICO8:   "pico8",
		} {
			data, err := paletteFS.ReadFile("palettes/" + file + ".json")
			if err != nil {
				panic(fmt.Sprintf("img2dither: embedded palette %s: %v", file, err))
			}
			p, err := ParsePaletteJSON(data)
			if err != nil {
				panic(fmt.Sprintf("img2dither: embedded palette %s: %v", file, err))
			}
			builtinPalettes[mode] = p
		}
	})
	return builtinPalettes
}

// grayRamp returns n evenly spaced grays, i*255/(n-1) in integer math.
func grayRamp(n int) Palette {
	p := make(Palette, n)
	for i := range p {
		v := uint8(i * 255 / (n - 1))
		p[i] = imageutil.RGB{R: v, G: v, B: v}
	}
	return p
}

// egaGamut returns the 64 colors reachable with the EGA's two bits per
// channel, red-major.
func egaGamut() Palette {
	levels := [4]uint8{0, 85, 170, 255}
	p := make(Palette, 0, 64)
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				p = append(p, imageutil.RGB{R: r, G: g, B: b})
			}
		}
	}
	return p
}

// PaletteFor returns a fresh copy of the palette for mode. Custom uses
// custom, falling back to monochrome when it is empty; unknown modes also
// fall back to monochrome.
func PaletteFor(mode PaletteMode, custom Palette) Palette {
	if mode == Custom && len(custom) > 0 {
		return slices.Clone(custom)
	}
	if p, ok := loadBuiltins()[mode]; ok {
		return slices.Clone(p)
	}
	return slices.Clone(loadBuiltins()[Monochrome])
}

type paletteDocument struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

// ParsePaletteJSON decodes a palette document of the form
// {"name": "...", "colors": ["#rrggbb", ...]}.
func ParsePaletteJSON(data []byte) (Palette, error) {
	var doc paletteDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error unmarshalling palette JSON: %w", err)
	}
	if len(doc.Colors) == 0 {
		return nil, fmt.Errorf("%w: no colors", ErrInvalidPalette)
	}
	p := make(Palette, 0, len(doc.Colors))
	for _, hex := range doc.Colors {
		c, err := ParseHexColor(hex)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	return p, nil
}

// ParseHexColor parses "#rrggbb" or "rrggbb".
func ParseHexColor(s string) (imageutil.RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return imageutil.RGB{}, fmt.Errorf("%w: color %q", ErrInvalidPalette, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return imageutil.RGB{}, fmt.Errorf("%w: color %q: %v", ErrInvalidPalette, s, err)
	}
	return imageutil.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// LoadPaletteFile loads a palette by embedded name (e.g. "pico8") or,
// failing that, from a JSON file on disk.
func LoadPaletteFile(name string) (Palette, error) {
	data, vfsErr := paletteFS.ReadFile("palettes/" + name + ".json")
	if vfsErr != nil {
		var fsErr error
		data, fsErr = os.ReadFile(name)
		if fsErr != nil {
			return nil, fmt.Errorf("error reading palette: %w", fsErr)
		}
	}
	return ParsePaletteJSON(data)
}

// Hex formats the palette as "#rrggbb" strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return out
}

// ColorPalette converts p to a color.Palette, e.g. for GIF encoding.
func (p Palette) ColorPalette() color.Palette {
	out := make(color.Palette, len(p))
	for i, c := range p {
		out[i] = c.ToColor()
	}
	return out
}
