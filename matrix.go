package img2dither

import (
	"math"
	"slices"

	"github.com/makeworld-the-better-one/dither/v2"

	"github.com/wbrown/img2dither/imageutil"
)

// ThresholdMatrix is a square grid of threshold values in [0, 1],
// addressed with wraparound.
type ThresholdMatrix struct {
	Size   int
	Values []float64
}

// At returns the value at (x mod Size, y mod Size).
func (m ThresholdMatrix) At(x, y int) float64 {
	return m.Values[(y%m.Size)*m.Size+x%m.Size]
}

// Rows returns the matrix as a fresh slice of rows.
func (m ThresholdMatrix) Rows() [][]float64 {
	rows := make([][]float64, m.Size)
	for y := range rows {
		rows[y] = slices.Clone(m.Values[y*m.Size : (y+1)*m.Size])
	}
	return rows
}

func matrixFromRows(rows [][]float64) ThresholdMatrix {
	m := ThresholdMatrix{Size: len(rows), Values: make([]float64, 0, len(rows)*len(rows))}
	for _, row := range rows {
		m.Values = append(m.Values, row...)
	}
	return m
}

// BayerMatrix builds the n×n ordered-dither matrix. Sizes of 2 or less
// return the 2×2 base case; larger sizes should be powers of two.
//
// Each level places 4B, 4B+2, 4B+3 and 4B+1 in the four quadrants, where
// B is the normalized matrix of half the size, and divides by n².
func BayerMatrix(n int) ThresholdMatrix {
	if n <= 2 {
		return ThresholdMatrix{Size: 2, Values: []float64{0, 2.0 / 4, 3.0 / 4, 1.0 / 4}}
	}
	half := n / 2
	smaller := BayerMatrix(half)
	size := 2 * smaller.Size
	denom := float64(size * size)
	m := ThresholdMatrix{Size: size, Values: make([]float64, size*size)}
	for y := 0; y < smaller.Size; y++ {
		for x := 0; x < smaller.Size; x++ {
			b := 4 * smaller.At(x, y)
			m.Values[y*size+x] = (b + 0) / denom
			m.Values[y*size+x+smaller.Size] = (b + 2) / denom
			m.Values[(y+smaller.Size)*size+x] = (b + 3) / denom
			m.Values[(y+smaller.Size)*size+x+smaller.Size] = (b + 1) / denom
		}
	}
	return m
}

var patternRows = [4][4]float64{
	{0, 0.5, 0.125, 0.625},
	{0.75, 0.25, 0.875, 0.375},
	{0.1875, 0.6875, 0.0625, 0.5625},
	{0.9375, 0.4375, 0.8125, 0.3125},
}

// PatternMatrix returns the fixed 4×4 ordered pattern.
func PatternMatrix() ThresholdMatrix {
	rows := make([][]float64, len(patternRows))
	for i := range patternRows {
		rows[i] = patternRows[i][:]
	}
	return matrixFromRows(rows)
}

var dotClassRows = [8][8]int{
	{39, 23, 15, 31, 38, 22, 14, 30},
	{24, 7, 1, 9, 25, 8, 2, 10},
	{16, 3, 47, 43, 17, 4, 48, 44},
	{32, 11, 41, 27, 33, 12, 42, 28},
	{37, 21, 13, 29, 40, 26, 18, 34},
	{26, 6, 0, 8, 27, 5, 61, 13},
	{19, 2, 46, 42, 20, 1, 49, 45},
	{35, 10, 40, 26, 36, 9, 43, 25},
}

// DotClassMatrix returns the 8×8 dot-diffusion class matrix scaled by
// 1/64.
func DotClassMatrix() ThresholdMatrix {
	m := ThresholdMatrix{Size: 8, Values: make([]float64, 0, 64)}
	for _, row := range dotClassRows {
		for _, class := range row {
			m.Values = append(m.Values, float64(class)/64)
		}
	}
	return m
}

// ClusteredDotMatrix converts the 4×4 clustered-dot matrix from
// makeworld's dither package into thresholds in [0, 1).
func ClusteredDotMatrix() ThresholdMatrix {
	return fromOrdered(dither.ClusteredDot4x4)
}

func fromOrdered(o dither.OrderedDitherMatrix) ThresholdMatrix {
	rows := make([][]float64, len(o.Matrix))
	for y, row := range o.Matrix {
		rows[y] = make([]float64, len(row))
		for x, v := range row {
			rows[y][x] = float64(v) / float64(o.Max)
		}
	}
	return matrixFromRows(rows)
}

// BlueNoiseSize is the edge length of the blue-noise texture.
const BlueNoiseSize = 256

// BlueNoiseTexture approximates blue noise: a seeded uniform field drawn
// in row-major order, blurred with a 5×5 Gaussian (sigma 1, reflect-101
// border) and renormalized to [0, 1].
func BlueNoiseTexture(size int, seed uint32) ThresholdMatrix {
	rng := newRNG(seed)
	return blueNoise(size, func() float64 { return rng.Float64() })
}

func blueNoise(size int, draw func() float64) ThresholdMatrix {
	field := imageutil.NewFloatPlane(size, size)
	for i := range field.Values {
		field.Values[i] = draw()
	}
	blurred := imageutil.GaussianBlurPlane(field, 5, 1, imageutil.BorderReflect101)
	blurred.NormalizeMinMax()
	return ThresholdMatrix{Size: size, Values: blurred.Values}
}

// halftoneCell returns the cell size used by the halftone screens.
func halftoneCell(scale int) int {
	return max(scale, 4)
}

// HalftoneCircleScreen returns the radial screen value at (x, y) for a cell of
// the given scale: the distance from the cell center over half the cell.
func HalftoneCircleScreen(x, y, scale int) float64 {
	s := halftoneCell(scale)
	cx := float64(x%s) - float64(s)/2
	cy := float64(y%s) - float64(s)/2
	return math.Sqrt(cx*cx+cy*cy) / (float64(s) / 2)
}

// HalftoneDiamondScreen returns the Manhattan screen value at (x, y).
func HalftoneDiamondScreen(x, y, scale int) float64 {
	s := halftoneCell(scale)
	cx := float64(x%s) - float64(s)/2
	cy := float64(y%s) - float64(s)/2
	return (math.Abs(cx) + math.Abs(cy)) / float64(s)
}
