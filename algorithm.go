package img2dither

import (
	"fmt"
	"strings"
)

// Algorithm identifies one dithering algorithm.
type Algorithm int

const (
	FloydSteinberg Algorithm = iota
	Atkinson
	JarvisJudiceNinke
	Stucki
	Burkes
	Sierra
	SierraTwoRow
	SierraLite
	Bayer2x2
	Bayer4x4
	Bayer8x8
	Bayer16x16
	BlueNoise
	WhiteNoise
	RandomDither
	PatternDither
	DotDiffusion
	Riemersma
	GradientBased
	VariableErrorDiffusion
	Ostromoukhov
	Fan
	ShiauFan
	StevenPigeon
	FalseFloydSteinberg
	ClusteredDot
	HalftoneCircle
	HalftoneDiamond
	SimpleThreshold
	RiemersmaHilbert

	algorithmCount
)

type algorithmInfo struct {
	display string
	name    string
	aliases []string
}

var algorithms = [algorithmCount]algorithmInfo{
	FloydSteinberg:         {"Floyd-Steinberg", "floyd-steinberg", []string{"fs", "floyd"}},
	Atkinson:               {"Atkinson", "atkinson", nil},
	JarvisJudiceNinke:      {"Jarvis-Judice-Ninke", "jarvis", []string{"jjn", "jarvis-judice-ninke"}},
	Stucki:                 {"Stucki", "stucki", nil},
	Burkes:                 {"Burkes", "burkes", nil},
	Sierra:                 {"Sierra", "sierra", []string{"sierra3"}},
	SierraTwoRow:           {"Sierra Two-Row", "sierra-two", []string{"sierra2", "sierra-two-row"}},
	SierraLite:             {"Sierra Lite", "sierra-lite", nil},
	Bayer2x2:               {"Ordered Bayer 2x2", "bayer-2x2", nil},
	Bayer4x4:               {"Ordered Bayer 4x4", "bayer-4x4", nil},
	Bayer8x8:               {"Ordered Bayer 8x8", "bayer-8x8", []string{"bayer"}},
	Bayer16x16:             {"Ordered Bayer 16x16", "bayer-16x16", nil},
	BlueNoise:              {"Blue Noise", "blue-noise", nil},
	WhiteNoise:             {"White Noise", "white-noise", nil},
	RandomDither:           {"Random", "random", nil},
	PatternDither:          {"Pattern", "pattern", nil},
	DotDiffusion:           {"Dot Diffusion", "dot-diffusion", nil},
	Riemersma:              {"Riemersma", "riemersma", nil},
	GradientBased:          {"Gradient-Based", "gradient", []string{"gradient-based"}},
	VariableErrorDiffusion: {"Variable Error Diffusion", "variable", nil},
	Ostromoukhov:           {"Ostromoukhov", "ostromoukhov", nil},
	Fan:                    {"Fan", "fan", nil},
	ShiauFan:               {"Shiau-Fan", "shiau-fan", nil},
	StevenPigeon:           {"Steven Pigeon", "steven-pigeon", nil},
	FalseFloydSteinberg:    {"False Floyd-Steinberg", "false-floyd-steinberg", nil},
	ClusteredDot:           {"Clustered Dot", "clustered-dot", nil},
	HalftoneCircle:         {"Halftone Circle", "halftone-circle", nil},
	HalftoneDiamond:        {"Halftone Diamond", "halftone-diamond", nil},
	SimpleThreshold:        {"Threshold", "threshold", []string{"simple-threshold"}},
	RiemersmaHilbert:       {"Riemersma (Hilbert)", "riemersma-hilbert", nil},
}

// Valid reports whether a names a known algorithm.
func (a Algorithm) Valid() bool {
	return a >= 0 && a < algorithmCount
}

// String returns the human-readable algorithm name.
func (a Algorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithms[a].display
}

// Name returns the short name accepted by ParseAlgorithm.
func (a Algorithm) Name() string {
	if !a.Valid() {
		return ""
	}
	return algorithms[a].name
}

// BayerSize returns the matrix size of the ordered Bayer variants, or 0.
func (a Algorithm) BayerSize() int {
	switch a {
	case Bayer2x2:
		return 2
	case Bayer4x4:
		return 4
	case Bayer8x8:
		return 8
	case Bayer16x16:
		return 16
	}
	return 0
}

// Stochastic reports whether the output depends on Params.Seed.
func (a Algorithm) Stochastic() bool {
	switch a {
	case BlueNoise, WhiteNoise, RandomDither, VariableErrorDiffusion:
		return true
	}
	return false
}

// Algorithms returns every known algorithm in identifier order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, algorithmCount)
	for i := range out {
		out[i] = Algorithm(i)
	}
	return out
}

// ParseAlgorithm resolves a short name, alias or display name
// (case-insensitive) to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, info := range algorithms {
		if key == info.name || key == strings.ToLower(info.display) {
			return Algorithm(i), nil
		}
		for _, alias := range info.aliases {
			if key == alias {
				return Algorithm(i), nil
			}
		}
	}
	return FloydSteinberg, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}
