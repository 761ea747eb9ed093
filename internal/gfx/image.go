package gfx

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Crop returns a copy of the top-left w x h region of src.
// The result is clipped to the source bounds.
func Crop(src image.Image, w, h int) *image.NRGBA {
	b := src.Bounds()
	return imaging.Crop(src, image.Rect(b.Min.X, b.Min.Y, b.Min.X+w, b.Min.Y+h))
}

// Rotate180 returns a copy of src turned upside down.
func Rotate180(src image.Image) *image.NRGBA {
	return imaging.Rotate180(src)
}

// Scale resizes src by factor using nearest-neighbor sampling so pixel art
// stays crisp. Dimensions never drop below one pixel.
func Scale(src image.Image, factor float64) *image.NRGBA {
	b := src.Bounds()
	w := max(int(float64(b.Dx())*factor), 1)
	h := max(int(float64(b.Dy())*factor), 1)
	return imaging.Resize(src, w, h, imaging.NearestNeighbor)
}

// Fit resizes src to exactly w x h with nearest-neighbor sampling.
func Fit(src image.Image, w, h int) *image.NRGBA {
	return imaging.Resize(src, max(w, 1), max(h, 1), imaging.NearestNeighbor)
}

// Tile repeats src horizontally and vertically to fill a w x h image.
func Tile(src image.Image, w, h int) *image.NRGBA {
	dst := imaging.New(max(w, 1), max(h, 1), color.NRGBA{})
	b := src.Bounds()
	if b.Empty() {
		return dst
	}
	for y := 0; y < h; y += b.Dy() {
		for x := 0; x < w; x += b.Dx() {
			dst = imaging.Paste(dst, src, image.Pt(x, y))
		}
	}
	return dst
}

// ExtendDown returns src lengthened to height h by repeating its last row.
// Sources already at least h tall are returned as an unmodified copy.
func ExtendDown(src image.Image, h int) *image.NRGBA {
	b := src.Bounds()
	if b.Dy() >= h || b.Empty() {
		return imaging.Clone(src)
	}
	dst := imaging.New(b.Dx(), h, color.NRGBA{})
	dst = imaging.Paste(dst, src, image.Pt(0, 0))
	row := imaging.Crop(src, image.Rect(b.Min.X, b.Max.Y-1, b.Max.X, b.Max.Y))
	for y := b.Dy(); y < h; y++ {
		dst = imaging.Paste(dst, row, image.Pt(0, y))
	}
	return dst
}
