// Package window runs the game in a desktop window using Ebiten.
package window

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/tui-flappy/internal/gfx"
)

// Texture is a GPU image owned by the game.
type Texture struct {
	img      *ebiten.Image
	released bool
}

// Size returns the texture dimensions in pixels.
func (t *Texture) Size() (int, int) {
	if t.img == nil {
		return 0, 0
	}
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// Release deallocates the GPU image.
func (t *Texture) Release() error {
	if t.released {
		return gfx.ErrReleased
	}
	t.released = true
	t.img.Deallocate()
	return nil
}

// Loader uploads images as Ebiten textures.
type Loader struct{}

// Load creates a texture from img.
func (Loader) Load(img image.Image) (gfx.Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, gfx.ErrEmptyImage
	}
	return &Texture{img: ebiten.NewImageFromImage(img)}, nil
}
