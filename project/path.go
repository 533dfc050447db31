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

package project

import (
	"github.com/paulmach/orb"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Path converts the lines and polygons of a projected geometry into a
// path. Polygon rings become closed subpaths; points are skipped.
func Path(g orb.Geometry) *path.Data {
	p := &path.Data{}
	appendPath(p, g)
	return p
}

func appendPath(p *path.Data, g orb.Geometry) {
	switch g := g.(type) {
	case orb.LineString:
		appendLine(p, g, false)
	case orb.MultiLineString:
		for _, ls := range g {
			appendLine(p, ls, false)
		}
	case orb.Ring:
		appendLine(p, orb.LineString(g), true)
	case orb.Polygon:
		for _, r := range g {
			appendLine(p, orb.LineString(r), true)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			appendPath(p, poly)
		}
	case orb.Collection:
		for _, h := range g {
			appendPath(p, h)
		}
	}
}

func appendLine(p *path.Data, ls orb.LineString, closed bool) {
	if len(ls) < 2 {
		return
	}
	p.MoveTo(toVec(ls[0]))
	for _, q := range ls[1:] {
		p.LineTo(toVec(q))
	}
	if closed {
		p.Close()
	}
}

// Lines returns the line strings of a projected geometry as point
// sequences. With rings set, the rings of polygons are included as
// closed sequences, whose last point repeats the first.
func Lines(g orb.Geometry, rings bool) [][]vec.Vec2 {
	var res [][]vec.Vec2
	var walk func(orb.Geometry)
	walk = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.LineString:
			res = appendPoints(res, g)
		case orb.MultiLineString:
			for _, ls := range g {
				res = appendPoints(res, ls)
			}
		case orb.Ring:
			if rings {
				res = appendPoints(res, orb.LineString(g))
			}
		case orb.Polygon:
			if rings {
				for _, r := range g {
					res = appendPoints(res, orb.LineString(r))
				}
			}
		case orb.MultiPolygon:
			for _, poly := range g {
				walk(poly)
			}
		case orb.Collection:
			for _, h := range g {
				walk(h)
			}
		}
	}
	walk(g)
	return res
}

func appendPoints(res [][]vec.Vec2, ls orb.LineString) [][]vec.Vec2 {
	if len(ls) < 2 {
		return res
	}
	pts := make([]vec.Vec2, len(ls))
	for i, q := range ls {
		pts[i] = toVec(q)
	}
	return append(res, pts)
}

// Points returns the points of a projected point or multi-point geometry.
func Points(g orb.Geometry) []vec.Vec2 {
	switch g := g.(type) {
	case orb.Point:
		return []vec.Vec2{toVec(g)}
	case orb.MultiPoint:
		res := make([]vec.Vec2, len(g))
		for i, q := range g {
			res[i] = toVec(q)
		}
		return res
	}
	return nil
}

func toVec(q orb.Point) vec.Vec2 {
	return vec.Vec2{X: q[0], Y: q[1]}
}
