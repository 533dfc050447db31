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

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// edge is a non-horizontal line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64
}

// subpathEnd describes a subpath when the walk leaves it.
type subpathEnd struct {
	start   vec.Vec2
	current vec.Vec2
	closed  bool // the subpath ended in ClosePath
	drawn   bool // a drawing command followed the MoveTo
}

// walk replaces all curves in p by line segments and passes every segment
// to line. When a subpath ends, end is called. ClosePath reports the
// closing segment to line before calling end.
func (r *Rasterizer) walk(p *path.Data, line func(a, b vec.Vec2), end func(subpathEnd)) {
	var sp subpathEnd
	open := false
	k := 0
	for _, cmd := range p.Cmds {
		if cmd != path.CmdMoveTo && cmd != path.CmdClose && !open {
			// drawing continues from the end of the previous subpath
			sp = subpathEnd{start: sp.current, current: sp.current}
			open = true
		}
		switch cmd {
		case path.CmdMoveTo:
			if open {
				end(sp)
			}
			sp = subpathEnd{start: p.Coords[k], current: p.Coords[k]}
			open = true
			k++
		case path.CmdLineTo:
			line(sp.current, p.Coords[k])
			sp.current = p.Coords[k]
			sp.drawn = true
			k++
		case path.CmdQuadTo:
			r.flattenQuad(sp.current, p.Coords[k], p.Coords[k+1], line)
			sp.current = p.Coords[k+1]
			sp.drawn = true
			k += 2
		case path.CmdCubeTo:
			r.flattenCube(sp.current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], line)
			sp.current = p.Coords[k+2]
			sp.drawn = true
			k += 3
		case path.CmdClose:
			if !open {
				continue
			}
			if sp.current != sp.start {
				line(sp.current, sp.start)
			}
			sp.current = sp.start
			sp.closed = true
			end(sp)
			open = false
		}
	}
	if open {
		end(sp)
	}
}

// flattenQuad approximates a quadratic Bézier curve by line segments.
// The number of segments follows from the device-space size of the second
// difference of the control points.
func (r *Rasterizer) flattenQuad(p0, p1, p2 vec.Vec2, line func(a, b vec.Vec2)) {
	dev := r.linear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)).Length()
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		q := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		line(prev, q)
		prev = q
	}
}

// flattenCube approximates a cubic Bézier curve by line segments, using
// Wang's bound for the number of segments.
func (r *Rasterizer) flattenCube(p0, p1, p2, p3 vec.Vec2, line func(a, b vec.Vec2)) {
	dd1 := r.linear(p0.Sub(p1.Mul(2)).Add(p2)).Length()
	dd2 := r.linear(p1.Sub(p2.Mul(2)).Add(p3)).Length()
	n := 1
	if m := max(dd1, dd2); m > 0 {
		if f := math.Sqrt(3 * m / (4 * r.Flatness)); f > 1 {
			n = int(math.Ceil(f))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		q := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		line(prev, q)
		prev = q
	}
}

func (r *Rasterizer) startEdges() {
	r.edges = r.edges[:0]
	r.haveBBox = false
}

// addEdge maps the segment from a to b into device space and records it.
// Horizontal edges are dropped, since they never change the winding number.
func (r *Rasterizer) addEdge(a, b vec.Vec2) {
	m := r.CTM
	x0 := m[0]*a.X + m[2]*a.Y + m[4]
	y0 := m[1]*a.X + m[3]*a.Y + m[5]
	x1 := m[0]*b.X + m[2]*b.Y + m[4]
	y1 := m[1]*b.X + m[3]*b.Y + m[5]

	dy := y1 - y0
	if math.Abs(dy) < flatEdge {
		return
	}
	r.edges = append(r.edges, edge{x0: x0, y0: y0, x1: x1, y1: y1, dxdy: (x1 - x0) / dy})

	if !r.haveBBox {
		r.bbox.LLx, r.bbox.URx = x0, x0
		r.bbox.LLy, r.bbox.URy = y0, y0
		r.haveBBox = true
	}
	r.bbox.LLx = min(r.bbox.LLx, x0, x1)
	r.bbox.URx = max(r.bbox.URx, x0, x1)
	r.bbox.LLy = min(r.bbox.LLy, y0, y1)
	r.bbox.URy = max(r.bbox.URy, y0, y1)
}

// pixelBounds returns the range of pixels touched by the collected edges,
// restricted to the clip rectangle. The upper bounds are exclusive.
func (r *Rasterizer) pixelBounds() (xMin, xMax, yMin, yMax int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}
	xMin = max(int(math.Floor(r.bbox.LLx)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.bbox.URx))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.bbox.LLy)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.bbox.URy))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}
