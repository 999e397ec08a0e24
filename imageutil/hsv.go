package imageutil

import "math"

// hsvEpsilon is FLT_EPSILON, the guard OpenCV adds to its divisions.
const hsvEpsilon = 1.1920928955078125e-07

// RGBToHSV converts floating-point RGB to HSV with hue in degrees
// [0, 360) and saturation/value on the input's scale. Inputs outside
// [0, 1] are converted as-is, the way OpenCV's float conversion does.
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	v = math.Max(r, math.Max(g, b))
	vmin := math.Min(r, math.Min(g, b))
	diff := v - vmin

	s = diff / (math.Abs(v) + hsvEpsilon)
	diff = 60 / (diff + hsvEpsilon)

	switch v {
	case r:
		h = (g - b) * diff
	case g:
		h = (b-r)*diff + 120
	default:
		h = (r-g)*diff + 240
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// hsvSectors selects which of v, p, q, t feed b, g, r for each hue sector.
var hsvSectors = [6][3]int{
	{1, 3, 0}, {1, 0, 2}, {3, 0, 1}, {0, 2, 1}, {0, 1, 3}, {2, 1, 0},
}

// HSVToRGB is the inverse of RGBToHSV. Saturation above 1 is allowed and
// produces out-of-range channels; callers clamp.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	if s == 0 {
		return v, v, v
	}

	h /= 60
	for h < 0 {
		h += 6
	}
	for h >= 6 {
		h -= 6
	}
	sector := int(math.Floor(h))
	h -= float64(sector)
	if sector < 0 || sector >= 6 {
		sector, h = 0, 0
	}

	tab := [4]float64{
		v,
		v * (1 - s),
		v * (1 - s*h),
		v * (1 - s*(1-h)),
	}
	b = tab[hsvSectors[sector][0]]
	g = tab[hsvSectors[sector][1]]
	r = tab[hsvSectors[sector][2]]
	return r, g, b
}

// ScaleSaturation converts to HSV, multiplies saturation by factor and
// converts back.
func ScaleSaturation(r, g, b, factor float64) (float64, float64, float64) {
	h, s, v := RGBToHSV(r, g, b)
	return HSVToRGB(h, s*factor, v)
}
