package imageutil

import "math"

// SobelXKernel returns the 3x3 horizontal first-derivative Sobel kernel.
func SobelXKernel() *Kernel {
	return NewKernel([][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	})
}

// SobelYKernel returns the 3x3 vertical first-derivative Sobel kernel.
func SobelYKernel() *Kernel {
	return NewKernel([][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	})
}

// SobelGradients computes horizontal and vertical Sobel gradients of a
// grayscale image.
func SobelGradients(img *GrayImage, border BorderMode) (gx, gy *FloatPlane) {
	gray := GrayToPlane(img)
	gx = ConvolvePlane(gray, SobelXKernel(), border)
	gy = ConvolvePlane(gray, SobelYKernel(), border)
	return gx, gy
}

// GradientMagnitude returns sqrt(gx² + gy²) per pixel.
func GradientMagnitude(gx, gy *FloatPlane) *FloatPlane {
	mag := NewFloatPlane(gx.Width, gx.Height)
	for i := range mag.Values {
		mag.Values[i] = math.Hypot(gx.Values[i], gy.Values[i])
	}
	return mag
}

// NormalizedGradient returns the Sobel gradient magnitude of img mapped
// onto [0, 1]. Flat images yield an all-zero plane.
func NormalizedGradient(img *RGBAImage) *FloatPlane {
	gx, gy := SobelGradients(ToGrayscale(img), BorderReflect101)
	mag := GradientMagnitude(gx, gy)
	mag.NormalizeMinMax()
	return mag
}
