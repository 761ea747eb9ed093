package window

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // basicfont faces are font.Face
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/gfx"
)

// overlayFace is the font for FPS and status text.
var overlayFace font.Face = basicfont.Face7x13

// canvas draws game textures onto a logical-size image and overlay text
// directly onto the scaled window image so it stays readable.
type canvas struct {
	world   *ebiten.Image
	overlay *ebiten.Image
	scale   float64
	op      ebiten.DrawImageOptions
}

// DrawTexture draws the src region of an Ebiten texture, rotated
// clockwise about its top-left corner.
func (c *canvas) DrawTexture(tex gfx.Texture, src image.Rectangle, at core.Vec2, angle float64) {
	t, ok := gfx.Underlying(tex).(*Texture)
	if !ok || t.released {
		return
	}
	sub, ok := t.img.SubImage(src).(*ebiten.Image)
	if !ok {
		return
	}

	c.op.GeoM.Reset()
	if angle != 0 {
		c.op.GeoM.Rotate(angle * math.Pi / 180)
	}
	c.op.GeoM.Translate(at.X, at.Y)
	c.world.DrawImage(sub, &c.op)
}

// DrawText draws text at a logical pixel position.
func (c *canvas) DrawText(x, y int, s string, col core.Color) {
	ascent := overlayFace.Metrics().Ascent.Ceil()
	px := int(float64(x) * c.scale)
	py := int(float64(y)*c.scale) + ascent
	text.Draw(c.overlay, s, overlayFace, px, py, col)
}
