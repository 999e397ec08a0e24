package img2dither

import "errors"

var (
	// ErrUnknownAlgorithm is returned when an algorithm name is not recognised.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	// ErrUnknownPalette is returned when a palette name is not recognised.
	ErrUnknownPalette = errors.New("unknown palette")
	// ErrInvalidPalette is returned for malformed or empty palette data.
	ErrInvalidPalette = errors.New("invalid palette")
)
