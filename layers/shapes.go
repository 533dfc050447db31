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

package layers

import (
	"github.com/paulmach/orb"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// kappa places the control points of a cubic Bézier quarter circle.
const kappa = 0.5522847498307936

// circle returns a closed path approximating a circle.
func circle(c vec.Vec2, r float64) *path.Data {
	k := kappa * r
	p := &path.Data{}
	p.MoveTo(vec.Vec2{X: c.X + r, Y: c.Y})
	p.CubeTo(vec.Vec2{X: c.X + r, Y: c.Y + k}, vec.Vec2{X: c.X + k, Y: c.Y + r}, vec.Vec2{X: c.X, Y: c.Y + r})
	p.CubeTo(vec.Vec2{X: c.X - k, Y: c.Y + r}, vec.Vec2{X: c.X - r, Y: c.Y + k}, vec.Vec2{X: c.X - r, Y: c.Y})
	p.CubeTo(vec.Vec2{X: c.X - r, Y: c.Y - k}, vec.Vec2{X: c.X - k, Y: c.Y - r}, vec.Vec2{X: c.X, Y: c.Y - r})
	p.CubeTo(vec.Vec2{X: c.X + k, Y: c.Y - r}, vec.Vec2{X: c.X + r, Y: c.Y - k}, vec.Vec2{X: c.X + r, Y: c.Y})
	p.Close()
	return p
}

// squareAround returns the square with half side length r centred at p.
func squareAround(p orb.Point, r float64) rect.Rect {
	return rect.Rect{LLx: p[0] - r, LLy: p[1] - r, URx: p[0] + r, URy: p[1] + r}
}

func toVec(p orb.Point) vec.Vec2 {
	return vec.Vec2{X: p[0], Y: p[1]}
}
