// Package assets decodes the embedded sprite sheet into images.
// Sprites are stored as YAML text art so the sheet stays reviewable in diffs.
package assets

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sprites.yaml
var defaultSheetYAML []byte

// Sprite names every sheet must provide.
const (
	SpriteBackground = "background"
	SpriteGround     = "ground"
	SpritePipe       = "pipe"
	SpriteBirdUp     = "bird_up"
	SpriteBirdMid    = "bird_mid"
	SpriteBirdDown   = "bird_down"
)

// transparent is the palette key that is never drawn.
const transparent = '.'

// YAMLSheet is the on-disk layout of a sprite sheet.
type YAMLSheet struct {
	Palette map[string]string   `yaml:"palette"`
	Sprites map[string][]string `yaml:"sprites"`
}

// Sheet holds the decoded source images. Images are never mutated after
// decoding; every consumer derives its own copies.
type Sheet struct {
	Background image.Image
	Ground     image.Image
	Pipe       image.Image
	BirdUp     image.Image
	BirdMid    image.Image
	BirdDown   image.Image
}

// Load decodes the embedded default sheet.
func Load() (*Sheet, error) {
	return Parse(defaultSheetYAML)
}

// Parse decodes a YAML sprite sheet and checks that every sprite the game
// needs is present.
func Parse(data []byte) (*Sheet, error) {
	var ys YAMLSheet
	if err := yaml.Unmarshal(data, &ys); err != nil {
		return nil, fmt.Errorf("assets: yaml unmarshal: %w", err)
	}

	palette, err := parsePalette(ys.Palette)
	if err != nil {
		return nil, err
	}

	images := make(map[string]image.Image, len(ys.Sprites))
	for name, rows := range ys.Sprites {
		img, err := decodeSprite(rows, palette)
		if err != nil {
			return nil, fmt.Errorf("assets: sprite %q: %w", name, err)
		}
		images[name] = img
	}

	get := func(name string) (image.Image, error) {
		img, ok := images[name]
		if !ok {
			return nil, fmt.Errorf("assets: missing sprite %q", name)
		}
		return img, nil
	}

	sheet := &Sheet{}
	for _, f := range []struct {
		name string
		dst  *image.Image
	}{
		{SpriteBackground, &sheet.Background},
		{SpriteGround, &sheet.Ground},
		{SpritePipe, &sheet.Pipe},
		{SpriteBirdUp, &sheet.BirdUp},
		{SpriteBirdMid, &sheet.BirdMid},
		{SpriteBirdDown, &sheet.BirdDown},
	} {
		img, err := get(f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = img
	}
	return sheet, nil
}

// parsePalette converts "#rrggbb" entries keyed by single characters.
func parsePalette(entries map[string]string) (map[rune]color.NRGBA, error) {
	palette := make(map[rune]color.NRGBA, len(entries))
	for key, hex := range entries {
		runes := []rune(key)
		if len(runes) != 1 || runes[0] == transparent {
			return nil, fmt.Errorf("assets: invalid palette key %q", key)
		}
		c, err := parseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("assets: palette %q: %w", key, err)
		}
		palette[runes[0]] = c
	}
	return palette, nil
}

// parseHex parses "#rrggbb".
func parseHex(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// decodeSprite turns rows of palette keys into an image.
func decodeSprite(rows []string, palette map[rune]color.NRGBA) (*image.NRGBA, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows")
	}
	width := len([]rune(rows[0]))
	if width == 0 {
		return nil, fmt.Errorf("empty row")
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, len(rows)))
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("row %d has width %d, want %d", y, len(runes), width)
		}
		for x, r := range runes {
			if r == transparent {
				continue
			}
			c, ok := palette[r]
			if !ok {
				return nil, fmt.Errorf("row %d: unknown palette key %q", y, r)
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img, nil
}
