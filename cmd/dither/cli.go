package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/wbrown/img2dither"
	"github.com/wbrown/img2dither/internal/config"
)

// cliOptions holds the parsed command line. Params are resolved later so
// that presets and environment defaults can sit underneath the flags.
type cliOptions struct {
	algorithm    string
	palette      string
	paletteFile  string
	strength     float64
	gamma        float64
	contrast     float64
	brightness   float64
	saturation   float64
	serpentine   bool
	seed         uint
	bayer        int
	patternScale int
	preset       string
	width        int
	sharpen      bool
	sheet        bool
	list         bool
	workers      int

	input, output string
	// set records flags given on the command line, by long name.
	set map[string]bool
}

var errUsage = errors.New("usage: dither [flags] input output")

// shortFlags maps single-letter aliases to their long names.
var shortFlags = map[string]string{
	"a": "algorithm",
	"p": "palette",
	"s": "strength",
	"g": "gamma",
	"c": "contrast",
	"b": "brightness",
}

func parseArgs(args []string, stderr io.Writer) (*cliOptions, error) {
	d := img2dither.DefaultParams()
	o := &cliOptions{set: map[string]bool{}}

	fs := flag.NewFlagSet("dither", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, errUsage.Error())
		fs.PrintDefaults()
	}

	fs.StringVar(&o.algorithm, "algorithm", d.Algorithm.Name(), "Dithering algorithm (see -list)")
	fs.StringVar(&o.algorithm, "a", d.Algorithm.Name(), "Shorthand for -algorithm")
	fs.StringVar(&o.palette, "palette", d.Palette.Name(), "Palette (see -list)")
	fs.StringVar(&o.palette, "p", d.Palette.Name(), "Shorthand for -palette")
	fs.StringVar(&o.paletteFile, "palette-file", "",
		"Palette JSON file or embedded palette name; selects the custom palette")
	fs.Float64Var(&o.strength, "strength", d.Strength, "Error / threshold strength")
	fs.Float64Var(&o.strength, "s", d.Strength, "Shorthand for -strength")
	fs.Float64Var(&o.gamma, "gamma", d.Gamma, "Gamma exponent")
	fs.Float64Var(&o.gamma, "g", d.Gamma, "Shorthand for -gamma")
	fs.Float64Var(&o.contrast, "contrast", d.Contrast, "Contrast multiplier")
	fs.Float64Var(&o.contrast, "c", d.Contrast, "Shorthand for -contrast")
	fs.Float64Var(&o.brightness, "brightness", d.Brightness, "Brightness offset in [-1, 1]")
	fs.Float64Var(&o.brightness, "b", d.Brightness, "Shorthand for -brightness")
	fs.Float64Var(&o.saturation, "saturation", d.Saturation, "Saturation multiplier")
	fs.BoolVar(&o.serpentine, "serpentine", d.Serpentine, "Alternate scan direction on odd rows")
	fs.UintVar(&o.seed, "seed", uint(d.Seed), "Seed for the stochastic algorithms")
	fs.IntVar(&o.bayer, "bayer", d.BayerSize, "Bayer matrix size, overriding the bayer algorithm's own (0 keeps it)")
	fs.IntVar(&o.patternScale, "pattern-scale", d.PatternScale, "Halftone cell size")
	fs.StringVar(&o.preset, "preset", "", "YAML preset applied before flags")
	fs.IntVar(&o.width, "width", 0, "Resize to this width before dithering (0 keeps size)")
	fs.BoolVar(&o.sharpen, "sharpen", false, "Sharpen after resizing")
	fs.BoolVar(&o.sheet, "sheet", false, "Write a contact sheet of every algorithm")
	fs.BoolVar(&o.list, "list", false, "List algorithms and palettes")
	fs.IntVar(&o.workers, "workers", 0, "Parallel frames for animated GIFs (0 = all CPUs)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := shortFlags[name]; ok {
			name = long
		}
		o.set[name] = true
	})

	if o.list {
		return o, nil
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return nil, errUsage
	}
	o.input, o.output = fs.Arg(0), fs.Arg(1)
	return o, nil
}

// resolveParams layers DITHER_* environment defaults, the preset and the
// explicitly set flags, in that order. Unknown names are returned as
// warnings and fall back to floyd-steinberg / monochrome.
func (o *cliOptions) resolveParams() (img2dither.Params, []error, error) {
	p, warnings := config.ParamsFromEnv("DITHER")

	if o.preset != "" {
		pr, err := config.LoadPreset(o.preset)
		if err != nil {
			return p, warnings, err
		}
		if err := pr.Apply(&p); err != nil {
			return p, warnings, err
		}
	}

	if o.set["algorithm"] {
		a, err := img2dither.ParseAlgorithm(o.algorithm)
		if err != nil {
			warnings = append(warnings, err)
		}
		p.Algorithm = a
	}
	if o.set["palette"] {
		m, err := img2dither.ParsePaletteMode(o.palette)
		if err != nil {
			warnings = append(warnings, err)
		}
		p.Palette = m
	}
	if o.paletteFile != "" {
		custom, err := img2dither.LoadPaletteFile(o.paletteFile)
		if err != nil {
			return p, warnings, err
		}
		p.Palette = img2dither.Custom
		p.CustomPalette = custom
	}

	setFlag(o.set, "strength", &p.Strength, o.strength)
	setFlag(o.set, "gamma", &p.Gamma, o.gamma)
	setFlag(o.set, "contrast", &p.Contrast, o.contrast)
	setFlag(o.set, "brightness", &p.Brightness, o.brightness)
	setFlag(o.set, "saturation", &p.Saturation, o.saturation)
	setFlag(o.set, "serpentine", &p.Serpentine, o.serpentine)
	setFlag(o.set, "seed", &p.Seed, uint32(o.seed))
	setFlag(o.set, "pattern-scale", &p.PatternScale, o.patternScale)
	setFlag(o.set, "bayer", &p.BayerSize, o.bayer)

	if o.set["bayer"] && o.bayer != 0 && p.ResolveBayerSize() != o.bayer {
		warnings = append(warnings, fmt.Errorf("bayer size %d is not a power of two, using %d", o.bayer, p.ResolveBayerSize()))
	}
	return p, warnings, nil
}

func setFlag[T any](set map[string]bool, name string, dst *T, v T) {
	if set[name] {
		*dst = v
	}
}
