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

// Package label places text labels on a map tile without overlaps.
//
// A [PointPlacer] puts a label next to an anchor point, trying a list of
// vertical offsets in order.  A [PathPlacer] lays out text along a path,
// one glyph at a time, and optionally repeats it.  Both register the
// space taken by the label in a [collision.Index] shared by all layers of
// the tile.  The first candidate which fits is drawn; a label which does
// not fit anywhere is silently dropped.
package label

import (
	"image/color"
	"math"
)

// Alignment selects where along a path a label is placed.
type Alignment int

// Supported alignments.
const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
)

func (a Alignment) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return "Alignment(?)"
	}
}

// Distribution selects how occurrences of a label are spread along a path.
type Distribution int

const (
	// AlignedRepeat places one occurrence according to the alignment.  If
	// Style.Gap is positive, further occurrences are added at intervals of
	// max(Gap, label width) and the whole group is aligned as a block.
	AlignedRepeat Distribution = iota

	// FixedSpacing places occurrences at arc length 0, Gap, 2·Gap, ...,
	// independent of the alignment.
	FixedSpacing
)

// Font selects a font face and size.
type Font struct {
	Face string  // e.g. "regular", "italic", "bold"
	Size float64 // in tile pixels

	// LetterSpacing is added to the advance of every glyph but the last.
	LetterSpacing float64
}

// Halo describes the outline drawn around text to separate it from the
// map underneath.
type Halo struct {
	Color   color.Color
	Opacity float64
	Width   float64
}

// DefaultHalo is used by most map layers.
var DefaultHalo = Halo{
	Color:   color.White,
	Opacity: 0.75,
	Width:   1.5,
}

// DefaultOffsets are the vertical offsets tried for the labels of map
// features, nearest first.
var DefaultOffsets = []float64{0, 3, -3, 6, -6, 9, -9}

// DefaultMaxBend is the largest change of path direction under a single
// glyph, in radians.
const DefaultMaxBend = 60 * math.Pi / 180

// Style collects all settings which affect placement and drawing of a
// label.
type Style struct {
	Font  Font
	Color color.Color
	Halo  Halo

	// Offsets are the vertical displacements tried for point labels, in
	// order.  An empty list means []float64{0}.
	Offsets []float64

	// VAlignByOffset attaches the top of the text to the anchor for
	// positive offsets and the bottom of the text for negative ones.
	// Otherwise the text is vertically centered.
	VAlignByOffset bool

	Alignment    Alignment
	Distribution Distribution

	// Gap is the repeat gap for AlignedRepeat and the spacing for
	// FixedSpacing.
	Gap float64

	// PathOffset moves path labels sideways, using a parallel curve of
	// the path.  Positive values move to the right of the direction of
	// travel.
	PathOffset float64

	// MaxBend limits the change of direction under a single glyph.
	// Zero selects DefaultMaxBend.
	MaxBend float64
}

func (s *Style) offsets() []float64 {
	if len(s.Offsets) == 0 {
		return []float64{0}
	}
	return s.Offsets
}

func (s *Style) maxBend() float64 {
	if s.MaxBend > 0 {
		return s.MaxBend
	}
	return DefaultMaxBend
}

func (s *Style) color() color.Color {
	if s.Color == nil {
		return color.Black
	}
	return s.Color
}
