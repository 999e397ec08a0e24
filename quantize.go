package img2dither

import "github.com/wbrown/img2dither/imageutil"

// Nearest returns the palette color closest to c by squared Euclidean
// distance. Ties go to the earliest entry. p must not be empty.
func (p Palette) Nearest(c imageutil.RGB) imageutil.RGB {
	best := p[0]
	bestDist := colorDistance(c, best)
	for _, candidate := range p[1:] {
		if d := colorDistance(c, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// Contains reports whether c is exactly one of the palette colors.
func (p Palette) Contains(c imageutil.RGB) bool {
	for _, pc := range p {
		if pc == c {
			return true
		}
	}
	return false
}

// colorDistance is the squared Euclidean distance in RGB.
func colorDistance(a, b imageutil.RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// working is a continuous-valued pixel used while dithering.
type working [3]float64

func workingFrom(c imageutil.RGB) working {
	return working{float64(c.R), float64(c.G), float64(c.B)}
}

func (w working) sub(c imageutil.RGB) working {
	return working{w[0] - float64(c.R), w[1] - float64(c.G), w[2] - float64(c.B)}
}

// clamped limits every channel to [0, 255].
func (w working) clamped() working {
	for i, v := range w {
		if v < 0 {
			w[i] = 0
		} else if v > 255 {
			w[i] = 255
		}
	}
	return w
}

// quantize clamps, truncates to 8 bits and maps to the nearest palette
// color.
func (w working) quantize(p Palette) imageutil.RGB {
	c := w.clamped()
	return p.Nearest(imageutil.RGB{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2])})
}
