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

// Package project maps geographic coordinates into the pixel space of a
// single map tile.
//
// Tile pixels are measured from the top-left corner of the tile, with y
// pointing down. Coordinates are scaled by the device scale, so that a
// 256 pixel tile rendered at scale 2 spans 512 pixels.
package project

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/project"
	"github.com/paulmach/orb/simplify"
	"seehuhn.de/go/geom/vec"
)

// Tile projects WGS84 longitude/latitude pairs into tile pixels.
type Tile struct {
	Tile maptile.Tile

	// Size is the tile size in CSS pixels, usually 256.
	Size float64

	// Scale is the device pixel ratio.
	Scale float64

	// Buffer is the distance, in device pixels, by which geometry may
	// extend beyond the tile edges. Features are loaded and clipped
	// against the buffered tile, so that labels and wide strokes near
	// the edge are drawn consistently.
	Buffer float64

	// Tolerance is the Douglas-Peucker simplification threshold in device
	// pixels. Zero disables simplification.
	Tolerance float64
}

// New returns a projector for tile t with the given size and scale, with
// no buffer and no simplification.
func New(t maptile.Tile, size, scale float64) *Tile {
	return &Tile{Tile: t, Size: size, Scale: scale}
}

// Pixels returns the width and height of the tile in device pixels.
func (p *Tile) Pixels() int {
	return int(p.Size*p.Scale + 0.5)
}

// Point returns the position of ll in tile pixels.
func (p *Tile) Point(ll orb.Point) vec.Vec2 {
	q := p.project(ll)
	return vec.Vec2{X: q[0], Y: q[1]}
}

func (p *Tile) project(ll orb.Point) orb.Point {
	f := maptile.Fraction(ll, p.Tile.Z)
	k := p.Size * p.Scale
	return orb.Point{
		(f[0] - float64(p.Tile.X)) * k,
		(f[1] - float64(p.Tile.Y)) * k,
	}
}

// QueryBound returns the geographic bound of the buffered tile.
func (p *Tile) QueryBound() orb.Bound {
	return p.Tile.Bound(p.Buffer / (p.Size * p.Scale))
}

// PixelBound returns the buffered tile in tile pixels.
func (p *Tile) PixelBound() orb.Bound {
	k := p.Size * p.Scale
	return orb.Bound{
		Min: orb.Point{-p.Buffer, -p.Buffer},
		Max: orb.Point{k + p.Buffer, k + p.Buffer},
	}
}

// Project projects g into tile pixels, without clipping.  The argument is
// not modified.
func (p *Tile) Project(g orb.Geometry) orb.Geometry {
	if g == nil {
		return nil
	}
	return project.Geometry(orb.Clone(g), p.project)
}

// Geometry projects g into tile pixels, clips it to the buffered tile and
// simplifies it. The argument is not modified. The result is nil if
// nothing of g is inside the buffered tile.
func (p *Tile) Geometry(g orb.Geometry) orb.Geometry {
	g = p.Project(g)
	g = clip.Geometry(p.PixelBound(), g)
	if g == nil {
		return nil
	}
	if p.Tolerance > 0 {
		g = simplify.DouglasPeucker(p.Tolerance).Simplify(g)
	}
	return g
}
