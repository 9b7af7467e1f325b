package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// DefaultMaxPixels bounds the decoded size of a source image (25 megapixels).
const DefaultMaxPixels = 25_000_000

// Renderer produces a copy of an encoded image scaled to width.
type Renderer interface {
	Render(src []byte, width int) ([]byte, error)
}

// ScaleRenderer resizes with Catmull-Rom resampling, keeps the aspect ratio
// and re-encodes in the source format. Images are never upscaled: a target
// wider than the source yields a copy at the source size.
type ScaleRenderer struct {
	JPEGQuality int
	// MaxPixels caps width*height of the source, read from the header
	// before any pixel data is decoded.
	MaxPixels int64
}

// RendererOption configures a ScaleRenderer.
type RendererOption func(*ScaleRenderer)

// WithMaxPixels sets the source pixel budget. Non-positive values are ignored.
func WithMaxPixels(n int64) RendererOption {
	return func(r *ScaleRenderer) {
		if n > 0 {
			r.MaxPixels = n
		}
	}
}

// WithJPEGQuality sets the quality used when re-encoding JPEG sources.
func WithJPEGQuality(q int) RendererOption {
	return func(r *ScaleRenderer) {
		if q > 0 && q <= 100 {
			r.JPEGQuality = q
		}
	}
}

// NewScaleRenderer returns a renderer with default JPEG quality and pixel budget.
func NewScaleRenderer(opts ...RendererOption) *ScaleRenderer {
	r := &ScaleRenderer{
		JPEGQuality: jpeg.DefaultQuality,
		MaxPixels:   DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render implements Renderer.
func (r *ScaleRenderer) Render(src []byte, width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrUnsupportedFormat, cfg.Width, cfg.Height)
	}
	budget := r.MaxPixels
	if budget <= 0 {
		budget = DefaultMaxPixels
	}
	if int64(cfg.Width)*int64(cfg.Height) > budget {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, budget)
	}

	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(targetRect(bounds.Dx(), bounds.Dy(), width))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	case "jpeg":
		quality := r.JPEGQuality
		if quality <= 0 {
			quality = jpeg.DefaultQuality
		}
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality})
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	return buf.Bytes(), nil
}

// targetRect scales srcW x srcH down to width, keeping the aspect ratio.
// The result never exceeds the source in either dimension.
func targetRect(srcW, srcH, width int) image.Rectangle {
	w := min(width, max(srcW, 1))
	h := int(int64(srcH) * int64(w) / int64(max(srcW, 1)))
	return image.Rect(0, 0, w, max(min(h, srcH), 1))
}
