// Package img2dither converts continuous-tone images to a small fixed
// palette using error diffusion, ordered and noise thresholds, and a few
// adaptive schemes.
//
// A call is pure and synchronous: the same image, Params and seed always
// produce the same output, and no state is shared between calls.
//
//	out := img2dither.Dither(img, img2dither.DefaultParams())
//
//	d := img2dither.New(
//		img2dither.WithAlgorithm(img2dither.Atkinson),
//		img2dither.WithPalette(img2dither.GameBoy),
//	)
//	out = d.Dither(img)
package img2dither
