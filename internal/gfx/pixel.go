package gfx

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Half-block glyphs used to pack two vertical pixels into one cell.
const (
	upperHalf = '▀'
	lowerHalf = '▄'
)

// PixelTexture is an in-memory texture for the terminal backend.
type PixelTexture struct {
	img *image.NRGBA
}

// Size returns the texture dimensions in pixels.
func (t *PixelTexture) Size() (int, int) {
	if t.img == nil {
		return 0, 0
	}
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// Release drops the pixel data.
func (t *PixelTexture) Release() error {
	if t.img == nil {
		return ErrReleased
	}
	t.img = nil
	return nil
}

// PixelLoader creates PixelTextures.
type PixelLoader struct{}

// Load copies img into a new texture anchored at the origin.
func (PixelLoader) Load(img image.Image) (Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return &PixelTexture{img: imaging.Clone(img)}, nil
}

// textOp is overlay text queued until Present.
type textOp struct {
	x, y  int
	text  string
	color core.Color
}

// PixelCanvas rasterizes textures into a pixel buffer that is presented to
// a core.Screen two pixels per cell using half-block glyphs.
type PixelCanvas struct {
	width  int
	height int
	pix    []core.Color
	texts  []textOp
}

// NewPixelCanvas creates a canvas of w x h pixels.
func NewPixelCanvas(w, h int) *PixelCanvas {
	c := &PixelCanvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the pixel buffer and clears it.
func (c *PixelCanvas) Resize(w, h int) {
	c.width = max(w, 0)
	c.height = max(h, 0)
	c.pix = make([]core.Color, c.width*c.height)
	c.texts = c.texts[:0]
}

// Size returns the canvas dimensions in pixels.
func (c *PixelCanvas) Size() (int, int) {
	return c.width, c.height
}

// Clear resets all pixels to the default color and drops queued text.
func (c *PixelCanvas) Clear() {
	for i := range c.pix {
		c.pix[i] = core.ColorDefault
	}
	c.texts = c.texts[:0]
}

// At returns the pixel color at (x, y), or the default color out of bounds.
func (c *PixelCanvas) At(x, y int) core.Color {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return core.ColorDefault
	}
	return c.pix[y*c.width+x]
}

func (c *PixelCanvas) set(x, y int, col core.Color) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height || !col.Set {
		return
	}
	c.pix[y*c.width+x] = col
}

// DrawTexture draws a PixelTexture. Textures of other backends and released
// textures draw nothing.
func (c *PixelCanvas) DrawTexture(tex Texture, src image.Rectangle, at core.Vec2, angle float64) {
	t, ok := Underlying(tex).(*PixelTexture)
	if !ok || t.img == nil {
		return
	}
	src = src.Intersect(t.img.Bounds())
	if src.Empty() {
		return
	}

	if angle == 0 {
		ox := int(math.Floor(at.X))
		oy := int(math.Floor(at.Y))
		for sy := src.Min.Y; sy < src.Max.Y; sy++ {
			for sx := src.Min.X; sx < src.Max.X; sx++ {
				c.set(ox+sx-src.Min.X, oy+sy-src.Min.Y, core.FromColor(t.img.NRGBAAt(sx, sy)))
			}
		}
		return
	}

	// Inverse mapping: walk the rotated bounding box and sample the source
	// at each destination pixel center.
	w, h := float64(src.Dx()), float64(src.Dy())
	corners := []core.Vec2{
		core.V(0, 0).Rotate(angle),
		core.V(w, 0).Rotate(angle),
		core.V(0, h).Rotate(angle),
		core.V(w, h).Rotate(angle),
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	x0 := int(math.Floor(at.X + minX))
	x1 := int(math.Ceil(at.X + maxX))
	y0 := int(math.Floor(at.Y + minY))
	y1 := int(math.Ceil(at.Y + maxY))
	for dy := y0; dy < y1; dy++ {
		for dx := x0; dx < x1; dx++ {
			local := core.V(float64(dx)+0.5-at.X, float64(dy)+0.5-at.Y).Rotate(-angle)
			if local.X < 0 || local.Y < 0 || local.X >= w || local.Y >= h {
				continue
			}
			sx := src.Min.X + int(local.X)
			sy := src.Min.Y + int(local.Y)
			c.set(dx, dy, core.FromColor(t.img.NRGBAAt(sx, sy)))
		}
	}
}

// DrawText queues overlay text. It is written over the pixels on Present,
// on the cell row containing pixel row y.
func (c *PixelCanvas) DrawText(x, y int, text string, col core.Color) {
	c.texts = append(c.texts, textOp{x: x, y: y, text: text, color: col})
}

// Present writes the pixel buffer and queued text into dst.
// Pixel rows 2r and 2r+1 become cell row r.
func (c *PixelCanvas) Present(dst *core.Screen) {
	for row := 0; row < dst.Height(); row++ {
		for x := 0; x < dst.Width(); x++ {
			top := c.At(x, row*2)
			bottom := c.At(x, row*2+1)

			var cell core.Cell
			switch {
			case !top.Set && !bottom.Set:
				cell = core.Cell{Rune: ' '}
			case !top.Set:
				cell = core.Cell{Rune: lowerHalf, Fg: bottom}
			default:
				cell = core.Cell{Rune: upperHalf, Fg: top, Bg: bottom}
			}
			dst.SetCell(x, row, cell)
		}
	}

	for _, t := range c.texts {
		dst.DrawTextColored(t.x, t.y/2, t.text, t.color)
	}
}
