package img2dither

import "github.com/wbrown/img2dither/imageutil"

// errorGrid accumulates diffused quantization error for one call.
type errorGrid struct {
	width, height int
	cells         []working
}

func newErrorGrid(width, height int) *errorGrid {
	return &errorGrid{width: width, height: height, cells: make([]working, width*height)}
}

func (g *errorGrid) at(x, y int) working {
	return g.cells[y*g.width+x]
}

// add accumulates e*scale at (x, y); out-of-bounds targets are dropped.
func (g *errorGrid) add(x, y int, e working, scale float64) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	cell := &g.cells[y*g.width+x]
	for i := range cell {
		cell[i] += e[i] * scale
	}
}

// spread distributes e over the kernel taps around (x, y). dir is -1 on
// right-to-left rows, mirroring every DX.
func (g *errorGrid) spread(x, y, dir int, e working, k Kernel, strength float64) {
	for _, t := range k {
		g.add(x+t.DX*dir, y+t.DY, e, t.Weight*strength)
	}
}

// tapSource picks the kernel and effective strength for one pixel. It is
// called in scan order with the clamped working value.
type tapSource func(x, y int, clamped working) (Kernel, float64)

// diffusion is one scanline error-diffusion pass.
type diffusion struct {
	palette    Palette
	serpentine bool
	taps       tapSource
}

// fixedKernel scans with one kernel and a constant strength.
func fixedKernel(k Kernel, strength float64) tapSource {
	return func(int, int, working) (Kernel, float64) { return k, strength }
}

// run dithers src. The quantization error is the unclamped working value
// minus the chosen palette color.
func (d diffusion) run(src *imageutil.RGBAImage) *imageutil.RGBAImage {
	width, height := src.Width(), src.Height()
	out := imageutil.NewRGBAImage(width, height)
	errs := newErrorGrid(width, height)

	for y := 0; y < height; y++ {
		start, end, dir := 0, width, 1
		if d.serpentine && y%2 == 1 {
			start, end, dir = width-1, -1, -1
		}
		for x := start; x != end; x += dir {
			acc := errs.at(x, y)
			px := workingFrom(src.GetRGB(x, y))
			for i := range px {
				px[i] += acc[i]
			}
			q := px.quantize(d.palette)
			out.SetRGB(x, y, q)

			k, strength := d.taps(x, y, px.clamped())
			errs.spread(x, y, dir, px.sub(q), k, strength)
		}
	}
	return out
}

// ErrorDiffuse runs a plain error-diffusion pass with any kernel.
func ErrorDiffuse(src *imageutil.RGBAImage, palette Palette, k Kernel, strength float64, serpentine bool) *imageutil.RGBAImage {
	return diffusion{
		palette:    palette,
		serpentine: serpentine,
		taps:       fixedKernel(k, strength),
	}.run(src)
}
