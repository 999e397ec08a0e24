package imageutil

// ToGrayscale converts an RGBA image to grayscale with BT.601 weights in
// the 14-bit fixed point of OpenCV's 8-bit COLOR_BGR2GRAY, so results
// match it exactly.
func ToGrayscale(img *RGBAImage) *GrayImage {
	width, height := img.Width(), img.Height()
	gray := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.GetRGB(x, y)
			lum := (4899*int(c.R) + 9617*int(c.G) + 1868*int(c.B) + 1<<13) >> 14
			gray.Pix[y*gray.Stride+x] = uint8(lum)
		}
	}

	return gray
}

// GrayToPlane widens a grayscale image into a float plane.
func GrayToPlane(gray *GrayImage) *FloatPlane {
	width, height := gray.Width(), gray.Height()
	plane := NewFloatPlane(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			plane.Values[y*width+x] = float64(gray.Pix[y*gray.Stride+x])
		}
	}
	return plane
}
