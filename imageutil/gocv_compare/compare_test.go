// Package gocv_compare contains tests that compare the pure Go image
// helpers used by the dithering engine against gocv (OpenCV). These tests
// require OpenCV to be installed.
//
// Run with: cd imageutil/gocv_compare && go test -v
package gocv_compare

import (
	"image"
	"testing"

	"github.com/wbrown/img2dither/imageutil"
	"gocv.io/x/gocv"
)

// gocvToRGBA converts a gocv.Mat (BGR) to RGBAImage (RGB).
func gocvToRGBA(mat gocv.Mat) *imageutil.RGBAImage {
	height, width := mat.Rows(), mat.Cols()
	img := imageutil.NewRGBAImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// gocv uses BGR format
			vec := mat.GetVecbAt(y, x)
			img.SetRGB(x, y, imageutil.RGB{R: vec[2], G: vec[1], B: vec[0]})
		}
	}
	return img
}

// gocvGrayToGray converts a gocv.Mat (grayscale) to GrayImage.
func gocvGrayToGray(mat gocv.Mat) *imageutil.GrayImage {
	height, width := mat.Rows(), mat.Cols()
	img := imageutil.NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Gray.Pix[y*img.Stride+x] = mat.GetUCharAt(y, x)
		}
	}
	return img
}

// rgbaToGocv converts an RGBAImage to gocv.Mat (BGR).
func rgbaToGocv(img *imageutil.RGBAImage) gocv.Mat {
	mat := gocv.NewMatWithSize(img.Height(), img.Width(), gocv.MatTypeCV8UC3)

	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			c := img.GetRGB(x, y)
			mat.SetUCharAt(y, x*3, c.B)
			mat.SetUCharAt(y, x*3+1, c.G)
			mat.SetUCharAt(y, x*3+2, c.R)
		}
	}
	return mat
}

// grayToGocv converts a GrayImage to gocv.Mat (grayscale).
func grayToGocv(img *imageutil.GrayImage) gocv.Mat {
	mat := gocv.NewMatWithSize(img.Height(), img.Width(), gocv.MatTypeCV8U)

	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			mat.SetUCharAt(y, x, img.GrayAt(x, y).Y)
		}
	}
	return mat
}

// planeToGocv converts a FloatPlane to a single-channel CV_32F Mat.
func planeToGocv(p *imageutil.FloatPlane) gocv.Mat {
	mat := gocv.NewMatWithSize(p.Height, p.Width, gocv.MatTypeCV32F)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			mat.SetFloatAt(y, x, float32(p.At(x, y)))
		}
	}
	return mat
}

// gocvToPlane converts a single-channel CV_32F Mat to a FloatPlane.
func gocvToPlane(mat gocv.Mat) *imageutil.FloatPlane {
	p := imageutil.NewFloatPlane(mat.Cols(), mat.Rows())
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			p.Set(x, y, float64(mat.GetFloatAt(y, x)))
		}
	}
	return p
}

func TestCompareGrayscaleConversion(t *testing.T) {
	img := imageutil.CreateColorBarsImage(256, 256)
	mat := rgbaToGocv(img)
	defer mat.Close()

	grayMat := gocv.NewMat()
	defer grayMat.Close()
	gocv.CvtColor(mat, &grayMat, gocv.ColorBGRToGray)
	gocvGray := gocvGrayToGray(grayMat)

	pureGoGray := imageutil.ToGrayscale(img)

	maxDiff := 0
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			d := int(gocvGray.GetGray(x, y)) - int(pureGoGray.GetGray(x, y))
			if d < 0 {
				d = -d
			}
			maxDiff = max(maxDiff, d)
		}
	}
	t.Logf("Grayscale conversion max diff: %d", maxDiff)

	if maxDiff != 0 {
		t.Errorf("Expected grayscale to match OpenCV exactly, max diff %d", maxDiff)
	}
}

func TestCompareGaussianBlur(t *testing.T) {
	noise := imageutil.CreateNoiseImage(64, 64, 3)
	plane := imageutil.GrayToPlane(imageutil.ToGrayscale(noise))
	for i := range plane.Values {
		plane.Values[i] /= 255
	}

	src := planeToGocv(plane)
	defer src.Close()
	dst := gocv.NewMat()
	defer dst.Close()
	gocv.GaussianBlur(src, &dst, image.Pt(5, 5), 1.0, 1.0, gocv.BorderReflect101)

	want := gocvToPlane(dst)
	got := imageutil.GaussianBlurPlane(plane, 5, 1.0, imageutil.BorderReflect101)

	diff := imageutil.CalculateMaxPlaneDiff(want, got)
	t.Logf("Gaussian blur max diff: %g", diff)
	if diff > 1e-5 {
		t.Errorf("Gaussian blur differs from OpenCV by %g", diff)
	}
}

func TestCompareSobel(t *testing.T) {
	img := imageutil.CreateCheckerboardImage(64, 64, 8)
	gray := imageutil.ToGrayscale(img)
	grayMat := grayToGocv(gray)
	defer grayMat.Close()

	gxMat := gocv.NewMat()
	defer gxMat.Close()
	gyMat := gocv.NewMat()
	defer gyMat.Close()
	gocv.Sobel(grayMat, &gxMat, gocv.MatTypeCV32F, 1, 0, 3, 1, 0, gocv.BorderReflect101)
	gocv.Sobel(grayMat, &gyMat, gocv.MatTypeCV32F, 0, 1, 3, 1, 0, gocv.BorderReflect101)

	gx, gy := imageutil.SobelGradients(gray, imageutil.BorderReflect101)

	if d := imageutil.CalculateMaxPlaneDiff(gocvToPlane(gxMat), gx); d > 1e-3 {
		t.Errorf("Sobel dx differs from OpenCV by %g", d)
	}
	if d := imageutil.CalculateMaxPlaneDiff(gocvToPlane(gyMat), gy); d > 1e-3 {
		t.Errorf("Sobel dy differs from OpenCV by %g", d)
	}
}

func TestCompareHSV(t *testing.T) {
	img := imageutil.CreateNoiseImage(32, 32, 11)
	mat := gocv.NewMatWithSize(32, 32, gocv.MatTypeCV32FC3)
	defer mat.Close()
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			c := img.GetRGB(x, y)
			mat.SetFloatAt(y, x*3, float32(c.B)/255)
			mat.SetFloatAt(y, x*3+1, float32(c.G)/255)
			mat.SetFloatAt(y, x*3+2, float32(c.R)/255)
		}
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)

	var maxDiff float64
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			c := img.GetRGB(x, y)
			h, s, v := imageutil.RGBToHSV(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
			diffs := []float64{
				h - float64(hsv.GetFloatAt(y, x*3)),
				(s - float64(hsv.GetFloatAt(y, x*3+1))) * 360,
				(v - float64(hsv.GetFloatAt(y, x*3+2))) * 360,
			}
			for _, d := range diffs {
				if d < 0 {
					d = -d
				}
				// Hue wraps at 360.
				if d > 180 {
					d = 360 - d
				}
				maxDiff = max(maxDiff, d)
			}
		}
	}
	t.Logf("HSV max diff (degrees scale): %g", maxDiff)
	if maxDiff > 0.01 {
		t.Errorf("HSV conversion differs from OpenCV by %g", maxDiff)
	}
}

func TestCompareResize(t *testing.T) {
	testCases := []struct {
		name      string
		srcWidth  int
		srcHeight int
		dstWidth  int
		dstHeight int
		threshold float64
	}{
		{"Downscale 2x", 256, 256, 128, 128, 10.0},
		{"Downscale 4x", 256, 256, 64, 64, 15.0},
		{"Upscale 2x", 64, 64, 128, 128, 10.0},
		{"Arbitrary", 256, 256, 100, 75, 15.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			img := imageutil.CreateGradientImage(tc.srcWidth, tc.srcHeight)
			mat := rgbaToGocv(img)
			defer mat.Close()

			resizedMat := gocv.NewMat()
			defer resizedMat.Close()
			gocv.Resize(mat, &resizedMat, image.Point{X: tc.dstWidth, Y: tc.dstHeight},
				0, 0, gocv.InterpolationArea)
			gocvResized := gocvToRGBA(resizedMat)

			pureGoResized := imageutil.Resize(img, tc.dstWidth, tc.dstHeight, imageutil.InterpolationArea)

			mse := imageutil.CalculateMSE(gocvResized, pureGoResized)
			t.Logf("%s resize MSE: %f", tc.name, mse)

			if mse > tc.threshold {
				t.Errorf("Resize MSE too high: %f (threshold: %f)", mse, tc.threshold)
			}
		})
	}
}

func TestCompareSharpening(t *testing.T) {
	img := imageutil.CreateColorBarsImage(256, 256)
	mat := rgbaToGocv(img)
	defer mat.Close()

	kernel := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	defer kernel.Close()
	k := imageutil.SharpeningKernel()
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			kernel.SetFloatAt(y, x, float32(k.Values[y][x]))
		}
	}

	sharpenedMat := gocv.NewMat()
	defer sharpenedMat.Close()
	gocv.Filter2D(mat, &sharpenedMat, -1, kernel, image.Point{-1, -1}, 0, gocv.BorderReplicate)
	gocvSharpened := gocvToRGBA(sharpenedMat)

	pureGoSharpened := imageutil.Sharpen(img)

	mse := imageutil.CalculateMSE(gocvSharpened, pureGoSharpened)
	maxDiff := imageutil.CalculateMaxDiff(gocvSharpened, pureGoSharpened)
	t.Logf("Sharpening MSE: %f, Max diff: %d", mse, maxDiff)

	if mse > 5.0 {
		t.Errorf("Sharpening MSE too high: %f (threshold: 5.0)", mse)
	}
}
