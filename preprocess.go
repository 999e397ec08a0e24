package img2dither

import (
	"math"

	"github.com/wbrown/img2dither/imageutil"
)

// Preprocess applies contrast, brightness, gamma and saturation to a copy
// of img. With default parameters the result equals the input.
func Preprocess(img *imageutil.RGBAImage, p Params) *imageutil.RGBAImage {
	out := imageutil.NewRGBAImage(img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			out.SetRGB(x, y, adjustColor(img.GetRGB(x, y), p))
		}
	}
	return out
}

func adjustColor(c imageutil.RGB, p Params) imageutil.RGB {
	ch := [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
	for i, v := range ch {
		v = v*p.Contrast + p.Brightness
		if p.Gamma != 1 {
			v = gammaPow(v, p.Gamma)
		}
		ch[i] = v
	}
	if p.Saturation != 1 {
		ch[0], ch[1], ch[2] = imageutil.ScaleSaturation(ch[0], ch[1], ch[2], p.Saturation)
	}
	return imageutil.RGB{R: toByte(ch[0]), G: toByte(ch[1]), B: toByte(ch[2])}
}

// gammaPow raises v to gamma. Negative bases use their magnitude unless
// gamma is an integer, so the result is never NaN.
func gammaPow(v, gamma float64) float64 {
	if v < 0 && gamma != math.Trunc(gamma) {
		v = -v
	}
	return math.Pow(v, gamma)
}

// toByte clamps v to [0, 1] and scales to 8 bits, rounding half to even.
func toByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.RoundToEven(v * 255))
}
