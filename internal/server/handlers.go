package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wbrown/img2dither"
	"github.com/wbrown/img2dither/imageutil"
	"github.com/wbrown/img2dither/internal/config"
	"github.com/wbrown/img2dither/sequence"
)

const (
	algorithmHeader = "X-Dither-Algorithm"
	paletteHeader   = "X-Dither-Palette"
)

var contentTypes = map[string]string{
	"png": "image/png",
	"gif": "image/gif",
	"bmp": "image/bmp",
}

// ditherRequest is the multipart form of POST /v1/dither. Pointer fields
// distinguish "not sent" from zero.
type ditherRequest struct {
	Image        *multipart.FileHeader `form:"image" binding:"required"`
	Algorithm    string                `form:"algorithm" binding:"omitempty,algorithm"`
	Palette      string                `form:"palette" binding:"omitempty,palette"`
	Colors       string                `form:"colors"`
	Strength     *float64              `form:"strength" binding:"omitempty,gte=0,lte=4"`
	Serpentine   *bool                 `form:"serpentine"`
	Gamma        *float64              `form:"gamma" binding:"omitempty,gt=0,lte=10"`
	Contrast     *float64              `form:"contrast" binding:"omitempty,gte=0,lte=10"`
	Brightness   *float64              `form:"brightness" binding:"omitempty,gte=-1,lte=1"`
	Saturation   *float64              `form:"saturation" binding:"omitempty,gte=0,lte=10"`
	BayerSize    *int                  `form:"bayer_size" binding:"omitempty,oneof=2 4 8 16"`
	PatternScale *int                  `form:"pattern_scale" binding:"omitempty,gte=1,lte=256"`
	Seed         *uint32               `form:"seed"`
	Width        int                   `form:"width" binding:"omitempty,gte=1"`
	Format       string                `form:"format" binding:"omitempty,oneof=png gif bmp"`
}

// params layers the request over defaults. Names were checked by the
// binding validators.
func (r *ditherRequest) params(defaults img2dither.Params) (img2dither.Params, error) {
	p := defaults
	if r.Algorithm != "" {
		p.Algorithm, _ = img2dither.ParseAlgorithm(r.Algorithm)
	}
	if r.Palette != "" {
		p.Palette, _ = img2dither.ParsePaletteMode(r.Palette)
	}
	if r.Colors != "" {
		colors, err := config.ParseColorList(r.Colors)
		if err != nil {
			return p, err
		}
		p.Palette = img2dither.Custom
		p.CustomPalette = colors
	}
	if p.Palette == img2dither.Custom && len(p.CustomPalette) == 0 {
		return p, fmt.Errorf("%w: custom palette needs colors", img2dither.ErrInvalidPalette)
	}
	setIf(&p.Strength, r.Strength)
	setIf(&p.Serpentine, r.Serpentine)
	setIf(&p.Gamma, r.Gamma)
	setIf(&p.Contrast, r.Contrast)
	setIf(&p.Brightness, r.Brightness)
	setIf(&p.Saturation, r.Saturation)
	setIf(&p.BayerSize, r.BayerSize)
	setIf(&p.PatternScale, r.PatternScale)
	setIf(&p.Seed, r.Seed)
	return p, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type algorithmInfo struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Display    string `json:"display"`
	Stochastic bool   `json:"stochastic"`
}

func (s *Server) handleAlgorithms(c *gin.Context) {
	algs := img2dither.Algorithms()
	out := make([]algorithmInfo, 0, len(algs))
	for _, a := range algs {
		out = append(out, algorithmInfo{
			ID:         int(a),
			Name:       a.Name(),
			Display:    a.String(),
			Stochastic: a.Stochastic(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"algorithms": out})
}

type paletteInfo struct {
	Name    string   `json:"name"`
	Display string   `json:"display"`
	Colors  []string `json:"colors,omitempty"`
}

func (s *Server) handlePalettes(c *gin.Context) {
	modes := img2dither.PaletteModes()
	out := make([]paletteInfo, 0, len(modes))
	for _, m := range modes {
		info := paletteInfo{Name: m.Name(), Display: m.String()}
		if m != img2dither.Custom {
			info.Colors = img2dither.PaletteFor(m, nil).Hex()
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, gin.H{"palettes": out})
}

func (s *Server) handleDither(c *gin.Context) {
	var req ditherRequest
	if err := c.ShouldBind(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request payload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}
	if req.Format == "" {
		req.Format = c.DefaultQuery("format", "png")
	}
	contentType, ok := contentTypes[req.Format]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported format %q", req.Format)})
		return
	}
	if s.cfg.MaxWidth > 0 && req.Width > s.cfg.MaxWidth {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("width exceeds %d", s.cfg.MaxWidth)})
		return
	}

	p, err := req.params(s.cfg.Defaults)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := readUpload(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	var body bytes.Buffer
	frames := 1
	if bytes.HasPrefix(data, []byte("GIF8")) {
		frames, err = s.ditherAnimation(c, data, req.Width, p, &body)
		if err == nil && frames > 1 {
			contentType = contentTypes["gif"]
		}
	}
	if frames <= 1 && err == nil {
		body.Reset()
		err = s.ditherStill(data, req.Width, p, req.Format, &body)
	}
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, sequence.ErrPaletteTooLarge) {
			status = http.StatusBadRequest
		}
		s.log.Warn("Dither failed",
			"error", err,
			"request_id", c.GetString(requestIDKey))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	s.log.Info("Dithered image",
		"algorithm", p.Algorithm.Name(),
		"palette", p.Palette.Name(),
		"frames", frames,
		"bytes", body.Len(),
		"duration", time.Since(start),
		"request_id", c.GetString(requestIDKey))
	c.Header(algorithmHeader, p.Algorithm.Name())
	c.Header(paletteHeader, p.Palette.Name())
	c.Data(http.StatusOK, contentType, body.Bytes())
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("error reading upload: %w", err)
	}
	return data, nil
}

// outputWidth picks the resize target: the requested width, or MaxWidth
// when the source is wider, or 0 for no resize.
func (s *Server) outputWidth(requested, source int) int {
	if requested > 0 {
		return requested
	}
	if s.cfg.MaxWidth > 0 && source > s.cfg.MaxWidth {
		return s.cfg.MaxWidth
	}
	return 0
}

func (s *Server) ditherStill(data []byte, width int, p img2dither.Params, format string, w io.Writer) error {
	img, err := imageutil.DecodeImage(bytes.NewReader(data))
	if err != nil {
		return err
	}
	img = imageutil.PrepareForDither(img, s.outputWidth(width, img.Width()), false)
	return imageutil.EncodeImage(w, img2dither.Dither(img, p), format)
}

// ditherAnimation handles multi-frame GIF uploads and reports the frame
// count. Single-frame GIFs return 1 without writing anything.
func (s *Server) ditherAnimation(c *gin.Context, data []byte, width int, p img2dither.Params, w io.Writer) (int, error) {
	frames, anim, err := sequence.DecodeGIFFrames(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	if len(frames) <= 1 {
		return len(frames), nil
	}
	palette := p.ResolvePalette()
	if len(palette) > 256 {
		return len(frames), sequence.ErrPaletteTooLarge
	}

	target := s.outputWidth(width, anim.Config.Width)
	if target > 0 {
		for i, f := range frames {
			frames[i] = imageutil.PrepareForDither(imageutil.RGBAImageFromImage(f), target, false)
		}
	}
	dithered, err := sequence.DitherFrames(c.Request.Context(), frames, p,
		sequence.WithLogger(s.log.With("request_id", c.GetString(requestIDKey))))
	if err != nil {
		return len(frames), err
	}
	return len(frames), sequence.EncodeGIF(w, dithered, palette, anim.Delay, anim.LoopCount)
}
