package imageutil

// PrepareForDither shapes a source image before dithering.
//
// When width is positive and differs from the source width, the image is
// resized to that width (aspect preserved) with area-quality interpolation.
// When sharpen is set, a mild sharpening pass restores edges softened by
// the resize. With width <= 0 and sharpen unset the result is a copy of img.
func PrepareForDither(img *RGBAImage, width int, sharpen bool) *RGBAImage {
	out := img
	if width > 0 && width != img.Width() {
		out = ResizeToWidth(img, width, InterpolationArea)
	}
	if sharpen {
		out = Sharpen(out)
	}
	if out == img {
		out = img.Clone()
	}
	return out
}
