// Package gfx defines the drawing surface and bitmap resources the game
// renders with. Implementations exist for the terminal (half-block pixels
// on a core.Screen) and for an Ebiten window; the simulation only sees the
// interfaces in this package.
package gfx

import (
	"errors"
	"image"
)

var (
	// ErrReleased is returned when a texture is released more than once.
	ErrReleased = errors.New("gfx: texture already released")

	// ErrEmptyImage is returned when loading an image with no pixels.
	ErrEmptyImage = errors.New("gfx: empty image")
)

// Texture is a loaded bitmap owned by exactly one holder.
// Release must be called exactly once when the holder is done with it.
type Texture interface {
	// Size returns the texture dimensions in pixels.
	Size() (w, h int)

	// Release frees the texture. A second call returns ErrReleased.
	Release() error
}

// Loader turns a decoded image into a Texture for a particular backend.
type Loader interface {
	Load(img image.Image) (Texture, error)
}

// unwrapper is implemented by textures that decorate another texture.
type unwrapper interface {
	Unwrap() Texture
}

// Underlying strips decorators (such as Pool tracking) from a texture so a
// backend canvas can reach its own concrete type.
func Underlying(tex Texture) Texture {
	for {
		u, ok := tex.(unwrapper)
		if !ok {
			return tex
		}
		tex = u.Unwrap()
	}
}
