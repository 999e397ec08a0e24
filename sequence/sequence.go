// Package sequence dithers ordered frame sequences, such as the frames of
// an animated GIF, with one independent engine call per frame.
package sequence

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wbrown/img2dither"
	"github.com/wbrown/img2dither/imageutil"
)

// ProgressFunc is called after each finished frame with the number of
// frames done so far. Calls are serialized.
type ProgressFunc func(done, total int)

type options struct {
	workers  int
	progress ProgressFunc
	logger   *slog.Logger
}

// Option configures DitherFrames and DitherGIF.
type Option func(*options)

// WithWorkers bounds how many frames are dithered at once. Values below
// one mean runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

// WithLogger enables debug records per frame.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.NumCPU()
	}
	return o
}

// DitherFrames dithers every frame with p and returns the results in
// input order. Frames are independent; a canceled ctx stops work between
// frames and its error is returned.
func DitherFrames(ctx context.Context, frames []image.Image, p img2dither.Params, opts ...Option) ([]*imageutil.RGBAImage, error) {
	o := buildOptions(opts)
	out := make([]*imageutil.RGBAImage, len(frames))

	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, frame := range frames {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			out[i] = img2dither.Dither(frame, p)
			if o.logger != nil {
				o.logger.Debug("frame dithered", "frame", i, "elapsed", time.Since(start))
			}
			if o.progress != nil {
				mu.Lock()
				done++
				o.progress(done, len(frames))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error dithering frames: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("error dithering frames: %w", err)
	}
	return out, nil
}
