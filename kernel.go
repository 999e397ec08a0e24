package img2dither

import (
	"slices"

	"github.com/makeworld-the-better-one/dither/v2"
)

// Tap is one neighbour of an error-diffusion kernel, relative to the
// pixel being quantized. DX is mirrored on right-to-left rows.
type Tap struct {
	DX, DY int
	Weight float64
}

// Kernel is an ordered list of taps.
type Kernel []Tap

// Sum returns the total unscaled weight.
func (k Kernel) Sum() float64 {
	var s float64
	for _, t := range k {
		s += t.Weight
	}
	return s
}

// scaled builds a kernel from integer weights over a common divisor.
func scaled(div float64, taps ...Tap) Kernel {
	k := make(Kernel, len(taps))
	for i, t := range taps {
		k[i] = Tap{DX: t.DX, DY: t.DY, Weight: t.Weight / div}
	}
	return k
}

var (
	floydSteinbergKernel = scaled(16,
		Tap{1, 0, 7}, Tap{-1, 1, 3}, Tap{0, 1, 5}, Tap{1, 1, 1})

	atkinsonKernel = scaled(8,
		Tap{1, 0, 1}, Tap{2, 0, 1},
		Tap{-1, 1, 1}, Tap{0, 1, 1}, Tap{1, 1, 1},
		Tap{0, 2, 1})

	jarvisKernel = scaled(48,
		Tap{1, 0, 7}, Tap{2, 0, 5},
		Tap{-2, 1, 3}, Tap{-1, 1, 5}, Tap{0, 1, 7}, Tap{1, 1, 5}, Tap{2, 1, 3},
		Tap{-2, 2, 1}, Tap{-1, 2, 3}, Tap{0, 2, 5}, Tap{1, 2, 3}, Tap{2, 2, 1})

	stuckiKernel = scaled(42,
		Tap{1, 0, 8}, Tap{2, 0, 4},
		Tap{-2, 1, 2}, Tap{-1, 1, 4}, Tap{0, 1, 8}, Tap{1, 1, 4}, Tap{2, 1, 2},
		Tap{-2, 2, 1}, Tap{-1, 2, 2}, Tap{0, 2, 4}, Tap{1, 2, 2}, Tap{2, 2, 1})

	burkesKernel = scaled(32,
		Tap{1, 0, 8}, Tap{2, 0, 4},
		Tap{-2, 1, 2}, Tap{-1, 1, 4}, Tap{0, 1, 8}, Tap{1, 1, 4}, Tap{2, 1, 2})

	sierraKernel = scaled(32,
		Tap{1, 0, 5}, Tap{2, 0, 3},
		Tap{-2, 1, 2}, Tap{-1, 1, 4}, Tap{0, 1, 5}, Tap{1, 1, 4}, Tap{2, 1, 2},
		Tap{-1, 2, 2}, Tap{0, 2, 3}, Tap{1, 2, 2})

	sierraTwoRowKernel = scaled(16,
		Tap{1, 0, 4}, Tap{2, 0, 3},
		Tap{-2, 1, 1}, Tap{-1, 1, 2}, Tap{0, 1, 3}, Tap{1, 1, 2}, Tap{2, 1, 1})

	sierraLiteKernel = scaled(4,
		Tap{1, 0, 2}, Tap{-1, 1, 1}, Tap{0, 1, 1})

	fanKernel = scaled(16,
		Tap{1, 0, 7}, Tap{0, 1, 1}, Tap{1, 1, 5}, Tap{-1, 1, 3})

	shiauFanKernel = scaled(16,
		Tap{1, 0, 4}, Tap{2, 0, 1},
		Tap{-2, 1, 1}, Tap{-1, 1, 1}, Tap{0, 1, 2}, Tap{1, 1, 4}, Tap{2, 1, 2})

	stevenPigeonKernel = scaled(14,
		Tap{1, 0, 2}, Tap{2, 0, 1},
		Tap{-2, 1, 1}, Tap{-1, 1, 2}, Tap{0, 1, 2}, Tap{1, 1, 2}, Tap{2, 1, 1},
		Tap{-1, 2, 1}, Tap{0, 2, 1}, Tap{1, 2, 1})

	falseFloydSteinbergKernel = KernelFromMatrix(dither.FalseFloydSteinberg)
)

var namedKernels = map[Algorithm]Kernel{
	FloydSteinberg:      floydSteinbergKernel,
	Atkinson:            atkinsonKernel,
	JarvisJudiceNinke:   jarvisKernel,
	Stucki:              stuckiKernel,
	Burkes:              burkesKernel,
	Sierra:              sierraKernel,
	SierraTwoRow:        sierraTwoRowKernel,
	SierraLite:          sierraLiteKernel,
	Fan:                 fanKernel,
	ShiauFan:            shiauFanKernel,
	StevenPigeon:        stevenPigeonKernel,
	FalseFloydSteinberg: falseFloydSteinbergKernel,
}

// KernelFor returns a copy of the fixed kernel of a plain error-diffusion
// algorithm. ok is false for every other algorithm.
func KernelFor(a Algorithm) (k Kernel, ok bool) {
	k, ok = namedKernels[a]
	return slices.Clone(k), ok
}

// KernelFromMatrix converts a makeworld error-diffusion matrix into taps.
// The current pixel sits in the first row, one column left of the first
// non-zero entry; zero cells are skipped and taps keep row-major order.
func KernelFromMatrix(m dither.ErrorDiffusionMatrix) Kernel {
	if len(m) == 0 {
		return nil
	}
	cur := 0
	for i, v := range m[0] {
		if v != 0 {
			cur = i - 1
			break
		}
	}
	var k Kernel
	for dy, row := range m {
		for x, v := range row {
			if v == 0 {
				continue
			}
			k = append(k, Tap{DX: x - cur, DY: dy, Weight: float64(v)})
		}
	}
	return k
}
