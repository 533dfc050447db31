// seehuhn.de/go/maptiles - render vector map tiles
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package label

import (
	"image/color"

	"seehuhn.de/go/geom/vec"
)

// Metrics describes the extent of a piece of text.  All values are in tile
// pixels.  Ascent and Descent are both non-negative, measured from the
// baseline upwards and downwards.
type Metrics struct {
	Width   float64
	Ascent  float64
	Descent float64
}

// Height returns the total height of the text.
func (m Metrics) Height() float64 {
	return m.Ascent + m.Descent
}

// Glyph is one shaped glyph.  Advance includes the letter spacing.
type Glyph struct {
	ID      uint16
	Text    string
	Advance float64
}

// Shaped is the result of shaping a piece of text.
type Shaped struct {
	Glyphs  []Glyph
	Metrics Metrics
}

// A Shaper converts text into glyphs.
type Shaper interface {
	// Measure returns the extent of text when set in the given font.
	Measure(text string, font Font) (Metrics, error)

	// Shape converts text into a sequence of glyphs.  The sum of the
	// glyph advances equals the width reported by Measure.
	Shape(text string, font Font) (*Shaped, error)
}

// PlacedGlyph is a glyph at its final position.  Origin is the left end of
// the glyph baseline, Angle is the rotation of the baseline in radians.
type PlacedGlyph struct {
	ID     uint16
	Origin vec.Vec2
	Angle  float64
}

// GlyphRun is a sequence of glyphs drawn together.  The halo of all
// glyphs is drawn first, then the glyphs are filled.
type GlyphRun struct {
	Font   Font
	Glyphs []PlacedGlyph
	Color  color.Color
	Halo   Halo
}

// A Painter draws glyph runs onto a tile.
type Painter interface {
	DrawGlyphRun(run *GlyphRun) error
}
