package core

import "strings"

// Cell is one terminal character with its colors.
type Cell struct {
	Rune rune
	Fg   Color
	Bg   Color
}

// blank is the cell used when clearing the screen.
var blank = Cell{Rune: ' '}

// Screen is a row-major cell buffer the terminal frontend presents.
type Screen struct {
	width  int
	height int
	cells  []Cell
}

// NewScreen creates a blank screen of width x height cells.
func NewScreen(width, height int) *Screen {
	s := &Screen{}
	s.Resize(width, height)
	return s
}

// Width returns the screen width in cells.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in cells.
func (s *Screen) Height() int {
	return s.height
}

// Resize changes the dimensions. Content is not preserved; the frontend
// redraws every frame.
func (s *Screen) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	s.width, s.height = width, height
	if n := width * height; cap(s.cells) >= n {
		s.cells = s.cells[:n]
	} else {
		s.cells = make([]Cell, n)
	}
	s.Clear()
}

// Clear fills the screen with default-colored spaces.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = blank
	}
}

func (s *Screen) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return 0, false
	}
	return y*s.width + x, true
}

// SetCell replaces the cell at (x, y). Out-of-bounds writes are ignored.
func (s *Screen) SetCell(x, y int, c Cell) {
	if i, ok := s.index(x, y); ok {
		s.cells[i] = c
	}
}

// GetCell returns the cell at (x, y), or a blank cell out of bounds.
func (s *Screen) GetCell(x, y int) Cell {
	if i, ok := s.index(x, y); ok {
		return s.cells[i]
	}
	return blank
}

// DrawTextColored writes text starting at (x, y) in fg, keeping the
// background of the cells underneath. Text past the edge is clipped.
func (s *Screen) DrawTextColored(x, y int, text string, fg Color) {
	for i, r := range []rune(text) {
		c := s.GetCell(x+i, y)
		s.SetCell(x+i, y, Cell{Rune: r, Fg: fg, Bg: c.Bg})
	}
}

// String returns the runes of the screen without colors, one line per row.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(len(s.cells) + s.height)
	for y := range s.height {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range s.cells[y*s.width : (y+1)*s.width] {
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}
