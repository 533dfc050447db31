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

// Package collision keeps track of the space taken up by labels on a tile.
//
// Every placed label, or every glyph of a label which follows a path, is
// represented by a [Footprint].  An [Index] collects the footprints accepted
// so far and guarantees that no two of them overlap.
package collision

import (
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// touchTolerance is the amount by which two rectangles must interpenetrate
// before they count as overlapping.  This absorbs rounding noise for glyphs
// which are placed edge to edge along a path.
const touchTolerance = 1e-6

// Footprint is an oriented rectangle in tile-pixel space.
type Footprint struct {
	Center     vec.Vec2
	HalfWidth  float64
	HalfHeight float64

	// Angle is the rotation of the width axis, in radians, measured from
	// the positive x-axis towards the positive y-axis.
	Angle float64
}

// Box returns the axis-aligned footprint covering the given rectangle.
func Box(r rect.Rect) Footprint {
	return Footprint{
		Center:     vec.Vec2{X: (r.LLx + r.URx) / 2, Y: (r.LLy + r.URy) / 2},
		HalfWidth:  (r.URx - r.LLx) / 2,
		HalfHeight: (r.URy - r.LLy) / 2,
	}
}

// IsDegenerate reports whether the footprint has zero (or undefined) area.
// Degenerate footprints never overlap anything.
func (f Footprint) IsDegenerate() bool {
	return !(f.HalfWidth > 0 && f.HalfHeight > 0) ||
		math.IsInf(f.HalfWidth, 0) || math.IsInf(f.HalfHeight, 0) ||
		math.IsNaN(f.Center.X) || math.IsNaN(f.Center.Y) || math.IsNaN(f.Angle)
}

// axes returns the unit vectors along the width and the height of f.
func (f Footprint) axes() (u, v vec.Vec2) {
	s, c := math.Sincos(f.Angle)
	return vec.Vec2{X: c, Y: s}, vec.Vec2{X: -s, Y: c}
}

// Corners returns the four corners of f in counter-clockwise order
// (for a y-up coordinate system), starting with the corner at -u-v.
func (f Footprint) Corners() [4]vec.Vec2 {
	u, v := f.axes()
	du := u.Mul(f.HalfWidth)
	dv := v.Mul(f.HalfHeight)
	return [4]vec.Vec2{
		f.Center.Sub(du).Sub(dv),
		f.Center.Add(du).Sub(dv),
		f.Center.Add(du).Add(dv),
		f.Center.Sub(du).Add(dv),
	}
}

// Bounds returns the axis-aligned bounding box of f.
func (f Footprint) Bounds() rect.Rect {
	u, v := f.axes()
	ex := f.HalfWidth*math.Abs(u.X) + f.HalfHeight*math.Abs(v.X)
	ey := f.HalfWidth*math.Abs(u.Y) + f.HalfHeight*math.Abs(v.Y)
	return rect.Rect{
		LLx: f.Center.X - ex,
		LLy: f.Center.Y - ey,
		URx: f.Center.X + ex,
		URy: f.Center.Y + ey,
	}
}

// radius returns half the length of the projection of f onto the unit
// vector n.
func (f Footprint) radius(u, v, n vec.Vec2) float64 {
	return f.HalfWidth*math.Abs(u.Dot(n)) + f.HalfHeight*math.Abs(v.Dot(n))
}

// Overlaps reports whether the interiors of f and g intersect.
//
// The test uses the separating axis theorem with the edge normals of both
// rectangles as candidate axes.  Rectangles which only touch along an edge
// or at a corner do not overlap.
func (f Footprint) Overlaps(g Footprint) bool {
	if f.IsDegenerate() || g.IsDegenerate() {
		return false
	}

	fu, fv := f.axes()
	gu, gv := g.axes()
	d := g.Center.Sub(f.Center)
	for _, n := range [4]vec.Vec2{fu, fv, gu, gv} {
		dist := math.Abs(d.Dot(n))
		if dist >= f.radius(fu, fv, n)+g.radius(gu, gv, n)-touchTolerance {
			return false
		}
	}
	return true
}
