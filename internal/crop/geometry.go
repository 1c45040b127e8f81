package crop

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"
)

var ErrTooSmall = errors.New("image too small to crop")

// Geometry is the fraction of the height removed from each edge. The top band
// is rounded up and the bottom band down.
type Geometry struct {
	TopRatio    float64
	BottomRatio float64
}

// Rect returns the region of b kept after cropping.
func (g Geometry) Rect(b image.Rectangle) (image.Rectangle, error) {
	h := b.Dy()
	top := int(math.Ceil(g.TopRatio * float64(h)))
	bottom := int(g.BottomRatio * float64(h))
	kept := h - top - bottom
	if kept <= 0 || b.Dx() <= 0 {
		return image.Rectangle{}, fmt.Errorf("%dx%d: %w", b.Dx(), h, ErrTooSmall)
	}
	minY := b.Min.Y + top
	return image.Rect(b.Min.X, minY, b.Max.X, minY+kept), nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Apply crops img to the geometry.
func (g Geometry) Apply(img image.Image) (image.Image, error) {
	r, err := g.Rect(img.Bounds())
	if err != nil {
		return nil, err
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(r), nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst, nil
}
