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

// Package canvas defines the drawing surface used by the tile renderer and
// implements it on top of an RGBA image.
package canvas

import (
	"image/color"
	"io"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/maptiles/label"
	"seehuhn.de/go/maptiles/raster"
)

// FillStyle describes how the interior of a path is painted.
type FillStyle struct {
	Color color.Color
	Rule  raster.FillRule
}

// StrokeStyle describes how the outline of a path is painted.
type StrokeStyle struct {
	Color     color.Color
	Width     float64
	Cap       graphics.LineCapStyle
	Join      graphics.LineJoinStyle
	Dash      []float64
	DashPhase float64
}

// A Surface receives the geometry and the labels of one tile.
// All coordinates are tile pixels, with y pointing down.
type Surface interface {
	label.Painter

	FillPath(p *path.Data, style FillStyle) error
	StrokePath(p *path.Data, style StrokeStyle) error

	// Encode writes the finished tile.
	Encode(w io.Writer) error

	// ContentType is the media type written by Encode.
	ContentType() string
}

// An Outliner provides glyph outlines, scaled to the font size, with the
// origin at the left end of the baseline and y pointing down.
type Outliner interface {
	Outline(font label.Font, gid uint16) (*path.Data, error)
}

// WithOpacity returns c with its alpha multiplied by opacity.
func WithOpacity(c color.Color, opacity float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A)*max(0, min(1, opacity)) + 0.5)
	return n
}

// GlyphMatrix maps glyph outline coordinates to tile pixels.
func GlyphMatrix(g label.PlacedGlyph) matrix.Matrix {
	sin, cos := math.Sincos(g.Angle)
	return matrix.Matrix{cos, sin, -sin, cos, g.Origin.X, g.Origin.Y}
}
