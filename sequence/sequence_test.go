package sequence

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/wbrown/img2dither"
	"github.com/wbrown/img2dither/imageutil"
)

func testFrames(n int) []image.Image {
	frames := make([]image.Image, n)
	for i := range frames {
		frames[i] = imageutil.CreateNoiseImage(16, 12, uint64(i+1))
	}
	return frames
}

func TestDitherFramesOrderAndEquivalence(t *testing.T) {
	t.Parallel()

	frames := testFrames(6)
	p := img2dither.DefaultParams()
	p.Palette = img2dither.CGA

	var (
		mu    sync.Mutex
		calls []int
	)
	out, err := DitherFrames(context.Background(), frames, p,
		WithWorkers(3),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithProgress(func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			if total != 6 {
				t.Errorf("Expected total 6, got %d", total)
			}
			calls = append(calls, done)
		}))
	if err != nil {
		t.Fatalf("DitherFrames: %v", err)
	}
	if len(out) != len(frames) {
		t.Fatalf("Expected %d frames, got %d", len(frames), len(out))
	}
	for i, frame := range frames {
		if want := img2dither.Dither(frame, p); !out[i].Equal(want) {
			t.Errorf("frame %d: Expected output identical to a single Dither call", i)
		}
	}
	for i, done := range calls {
		if done != i+1 {
			t.Errorf("Expected progress %d, got %d", i+1, done)
		}
	}
	if len(calls) != 6 {
		t.Errorf("Expected 6 progress calls, got %d", len(calls))
	}
}

func TestDitherFramesCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DitherFrames(ctx, testFrames(4), img2dither.DefaultParams())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestDitherFramesEmpty(t *testing.T) {
	t.Parallel()

	out, err := DitherFrames(context.Background(), nil, img2dither.DefaultParams())
	if err != nil || len(out) != 0 {
		t.Errorf("Expected no frames and no error, got %d frames, %v", len(out), err)
	}
}

func makeGIF(t *testing.T) []byte {
	t.Helper()
	pal := color.Palette{color.Black, color.White, color.RGBA{R: 200, G: 30, B: 30, A: 255}}
	anim := &gif.GIF{LoopCount: 0}
	for i := 0; i < 3; i++ {
		frame := image.NewPaletted(image.Rect(0, 0, 10, 8), pal)
		for y := 0; y < 8; y++ {
			for x := 0; x < 10; x++ {
				frame.SetColorIndex(x, y, uint8((x+y+i)%3))
			}
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 5*(i+1))
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDitherGIF(t *testing.T) {
	t.Parallel()

	p := img2dither.DefaultParams()
	p.Palette = img2dither.GameBoy
	var out bytes.Buffer
	if err := DitherGIF(context.Background(), bytes.NewReader(makeGIF(t)), &out, p, WithWorkers(2)); err != nil {
		t.Fatalf("DitherGIF: %v", err)
	}

	anim, err := gif.DecodeAll(&out)
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(anim.Image) != 3 {
		t.Fatalf("Expected 3 frames, got %d", len(anim.Image))
	}
	for i, want := range []int{5, 10, 15} {
		if anim.Delay[i] != want {
			t.Errorf("frame %d: Expected delay %d, got %d", i, want, anim.Delay[i])
		}
	}

	gb := img2dither.PaletteFor(img2dither.GameBoy, nil)
	for i, frame := range anim.Image {
		b := frame.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if c := imageutil.RGBFromColor(frame.At(x, y)); !gb.Contains(c) {
					t.Fatalf("frame %d (%d,%d): %v is not a Game Boy color", i, x, y, c)
				}
			}
		}
	}
}

func TestEncodeGIFRejectsLargePalette(t *testing.T) {
	t.Parallel()

	big := make(img2dither.Palette, 300)
	err := EncodeGIF(&bytes.Buffer{}, nil, big, nil, 0)
	if !errors.Is(err, ErrPaletteTooLarge) {
		t.Errorf("Expected ErrPaletteTooLarge, got %v", err)
	}
}

func TestDecodeGIFFramesComposites(t *testing.T) {
	t.Parallel()

	pal := color.Palette{color.Black, color.White}
	full := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
	patch := image.NewPaletted(image.Rect(1, 1, 3, 3), pal)
	for y := 1; y < 3; y++ {
		for x := 1; x < 3; x++ {
			patch.SetColorIndex(x, y, 1)
		}
	}
	var buf bytes.Buffer
	err := gif.EncodeAll(&buf, &gif.GIF{
		Image:  []*image.Paletted{full, patch},
		Delay:  []int{0, 0},
		Config: image.Config{ColorModel: pal, Width: 4, Height: 4},
	})
	if err != nil {
		t.Fatal(err)
	}

	frames, _, err := DecodeGIFFrames(&buf)
	if err != nil {
		t.Fatal(err)
	}
	second := frames[1]
	if second.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Fatalf("Expected full-canvas frame, got %v", second.Bounds())
	}
	if c := imageutil.RGBFromColor(second.At(0, 0)); c != (imageutil.RGB{}) {
		t.Errorf("Expected black from the first frame at (0,0), got %v", c)
	}
	if c := imageutil.RGBFromColor(second.At(2, 2)); c != (imageutil.RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("Expected white patch at (2,2), got %v", c)
	}
}
