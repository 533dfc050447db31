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
	"math"
	"sort"

	"seehuhn.de/go/geom/vec"
)

// arcPath gives access to a polyline by arc length.
type arcPath struct {
	pts []vec.Vec2
	cum []float64  // cum[i] is the arc length from pts[0] to pts[i]
	tan []vec.Vec2 // tan[i] is the unit tangent of pts[i] -> pts[i+1], or zero

	first, last int // first and last non-degenerate segment
}

// newArcPath returns nil if the path has zero length.
func newArcPath(pts []vec.Vec2) *arcPath {
	if len(pts) < 2 {
		return nil
	}
	a := &arcPath{
		pts:   pts,
		cum:   make([]float64, len(pts)),
		tan:   make([]vec.Vec2, len(pts)-1),
		first: -1,
	}
	for i := 1; i < len(pts); i++ {
		d := pts[i].Sub(pts[i-1])
		l := d.Length()
		a.cum[i] = a.cum[i-1] + l
		if l > 0 {
			a.tan[i-1] = d.Mul(1 / l)
			if a.first < 0 {
				a.first = i - 1
			}
			a.last = i - 1
		}
	}
	if a.first < 0 {
		return nil
	}
	return a
}

// Length returns the total arc length.
func (a *arcPath) Length() float64 {
	return a.cum[len(a.cum)-1]
}

// reversed returns the same path, traversed in the opposite direction.
func (a *arcPath) reversed() *arcPath {
	n := len(a.pts)
	rev := make([]vec.Vec2, n)
	for i, p := range a.pts {
		rev[n-1-i] = p
	}
	return newArcPath(rev)
}

// segment returns the index of the non-degenerate segment which contains
// arc length s.  Values outside the path map to the end segments.
func (a *arcPath) segment(s float64) int {
	if s <= 0 {
		return a.first
	}
	if s >= a.Length() {
		return a.last
	}
	k := sort.Search(len(a.cum), func(i int) bool { return a.cum[i] > s }) - 1
	return k
}

// At returns the point at arc length s.  Beyond the ends of the path, the
// end segments are extended in a straight line.
func (a *arcPath) At(s float64) vec.Vec2 {
	k := a.segment(s)
	return a.pts[k].Add(a.tan[k].Mul(s - a.cum[k]))
}

// Tangent returns the unit tangent at arc length s.
func (a *arcPath) Tangent(s float64) vec.Vec2 {
	return a.tan[a.segment(s)]
}

// SpanTangent returns the average direction of the path between arc
// lengths s0 and s1, where every segment is weighted by the length of its
// overlap with the span.
func (a *arcPath) SpanTangent(s0, s1 float64) vec.Vec2 {
	if s1 <= s0 {
		return a.Tangent(s0)
	}

	var sum vec.Vec2
	k0, k1 := a.segment(s0), a.segment(s1)
	for k := k0; k <= k1; k++ {
		lo, hi := a.cum[k], a.cum[k+1]
		if k == a.first {
			lo = math.Inf(-1)
		}
		if k == a.last {
			hi = math.Inf(1)
		}
		w := min(hi, s1) - max(lo, s0)
		if w > 0 {
			sum = sum.Add(a.tan[k].Mul(w))
		}
	}

	l := sum.Length()
	if l == 0 {
		return a.Tangent((s0 + s1) / 2)
	}
	return sum.Mul(1 / l)
}

// MaxTurn returns the largest change of direction, in radians, at a
// vertex strictly between arc lengths s0 and s1.
func (a *arcPath) MaxTurn(s0, s1 float64) float64 {
	k0, k1 := a.segment(s0), a.segment(s1)
	res := 0.0
	prev := k0
	for k := k0 + 1; k <= k1; k++ {
		if a.tan[k] == (vec.Vec2{}) {
			continue
		}
		cos := max(-1, min(1, a.tan[prev].Dot(a.tan[k])))
		res = max(res, math.Acos(cos))
		prev = k
	}
	return res
}
