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

// Package offset computes parallel curves of polylines.
//
// A parallel curve keeps a constant distance from its source path.  This
// is used to move labels away from the line they annotate.
package offset

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// DefaultTolerance is the default maximal distance between a round join
// and the chords which approximate it, in tile pixels.
const DefaultTolerance = 3

const (
	// zeroLengthThreshold is the length below which segments are
	// considered degenerate.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold is the |sin θ| below which consecutive
	// segments are treated as collinear.
	collinearityThreshold = 1e-6

	// cuspCosineThreshold is the cos θ below which the path is taken to
	// reverse direction.
	cuspCosineThreshold = -0.9999
)

// Offsetter computes parallel curves.  The zero value is not ready to use;
// create instances with [New].
//
// An Offsetter reuses internal buffers between calls and must not be used
// concurrently.
type Offsetter struct {
	// Tolerance is the maximal sagitta of the chords used to approximate
	// round joins.
	Tolerance float64

	segs  []segment
	raw   []vec.Vec2
	slack []float64 // slack[k] belongs to the edge raw[k] -> raw[k+1]
	conn  []bool    // conn[k] marks connector edges
}

// New returns an Offsetter using [DefaultTolerance].
func New() *Offsetter {
	return &Offsetter{Tolerance: DefaultTolerance}
}

// segment is one non-degenerate segment of the source path.
type segment struct {
	A, B vec.Vec2
	T    vec.Vec2 // unit tangent
	N    vec.Vec2 // unit normal, T rotated by +90 degrees
	Len  float64
}

// Offset returns the parallel curve of the polyline pts at signed distance
// d.  Positive d moves the curve to the side of N = (-T.Y, T.X), which is
// the right-hand side of the direction of travel when y points down.
//
// Convex corners are rounded with an arc of radius |d|, concave corners are
// trimmed.  Where the resulting curve intersects itself it is cut into
// pieces, and pieces which come closer to the source than |d| are removed.
// Each remaining piece is returned as a separate polyline.
//
// For d == 0 the result is a copy of pts with repeated vertices removed.
func (o *Offsetter) Offset(pts []vec.Vec2, d float64) [][]vec.Vec2 {
	clean := dedup(pts)
	if d == 0 {
		if len(clean) == 0 {
			return nil
		}
		return [][]vec.Vec2{clean}
	}
	if len(clean) < 2 || math.IsNaN(d) || math.IsInf(d, 0) {
		return nil
	}

	o.collectSegments(clean)
	o.buildRaw(d)
	pieces := o.cut()

	near := newNearTest(o.segs)
	r := math.Abs(d)
	var res [][]vec.Vec2
	for _, p := range pieces {
		if near.tooClose(p.checks, r) {
			continue
		}
		q := dedup(p.pts)
		if len(q) >= 2 {
			res = append(res, q)
		}
	}
	return res
}

func (o *Offsetter) collectSegments(pts []vec.Vec2) {
	o.segs = o.segs[:0]
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		v := b.Sub(a)
		l := v.Length()
		if l < zeroLengthThreshold {
			continue
		}
		t := v.Mul(1 / l)
		o.segs = append(o.segs, segment{
			A:   a,
			B:   b,
			T:   t,
			N:   vec.Vec2{X: -t.Y, Y: t.X},
			Len: l,
		})
	}
}

// buildRaw constructs the untrimmed offset polyline in o.raw.
func (o *Offsetter) buildRaw(d float64) {
	o.raw = o.raw[:0]
	o.slack = o.slack[:0]
	o.conn = o.conn[:0]

	first := o.segs[0]
	o.raw = append(o.raw, first.A.Add(first.N.Mul(d)))
	for k := 1; k < len(o.segs); k++ {
		o.addJoin(o.segs[k-1], o.segs[k], d)
	}
	last := o.segs[len(o.segs)-1]
	o.lineTo(last.B.Add(last.N.Mul(d)), 0, false)
}

func (o *Offsetter) lineTo(p vec.Vec2, slack float64, conn bool) {
	o.raw = append(o.raw, p)
	o.slack = append(o.slack, slack)
	o.conn = append(o.conn, conn)
}

// addJoin finishes the offset of s1 and connects it to the offset of s2.
func (o *Offsetter) addJoin(s1, s2 segment, d float64) {
	P := s1.B
	cosTheta := s1.T.Dot(s2.T)
	sinTheta := s1.T.X*s2.T.Y - s1.T.Y*s2.T.X

	end1 := P.Add(s1.N.Mul(d))
	switch {
	case cosTheta < cuspCosineThreshold:
		// The path turns back: go around the vertex on the outside.
		o.lineTo(end1, 0, false)
		o.addArc(P, d, s1.N, -math.Copysign(math.Pi, d))

	case math.Abs(sinTheta) < collinearityThreshold:
		o.lineTo(end1, 0, false)

	case (sinTheta > 0) != (d > 0):
		// convex
		o.lineTo(end1, 0, false)
		sweep := math.Acos(max(-1, min(1, cosTheta)))
		if sinTheta < 0 {
			sweep = -sweep
		}
		o.addArc(P, d, s1.N, sweep)

	default:
		// concave
		if X, ok := innerCorner(s1, s2, cosTheta, sinTheta, d); ok {
			o.lineTo(X, 0, false)
		} else {
			o.lineTo(end1, 0, false)
			o.lineTo(P.Add(s2.N.Mul(d)), 0, true)
		}
	}
}

// innerCorner returns the point where the offsets of s1 and s2 meet on the
// inner side of their common vertex.  If one of the segments is too short
// to reach this point, ok is false.
func innerCorner(s1, s2 segment, cosTheta, sinTheta, d float64) (vec.Vec2, bool) {
	if 1+cosTheta < 1e-9 {
		return vec.Vec2{}, false
	}
	trim := math.Abs(d) * math.Abs(sinTheta) / (1 + cosTheta) // |d|·tan(θ/2)
	if trim > s1.Len || trim > s2.Len {
		return vec.Vec2{}, false
	}
	return s1.B.Add(s1.N.Add(s2.N).Mul(d / (1 + cosTheta))), true
}

// addArc appends a flattened arc around center, starting at
// center + d·n1 (already present in o.raw) and turning by sweep radians.
func (o *Offsetter) addArc(center vec.Vec2, d float64, n1 vec.Vec2, sweep float64) {
	r := math.Abs(d)
	start := n1.Mul(math.Copysign(1, d))

	n := 1
	if tol := o.Tolerance; tol > 0 && r > tol {
		step := 2 * math.Acos(1-tol/r)
		n = max(int(math.Ceil(math.Abs(sweep)/step)), 1)
	} else if tol <= 0 {
		n = max(int(math.Ceil(math.Abs(sweep)/(math.Pi/16))), 1)
	}

	dt := sweep / float64(n)
	sagitta := r * (1 - math.Cos(dt/2))
	for i := 1; i <= n; i++ {
		sin, cos := math.Sincos(float64(i) * dt)
		dir := vec.Vec2{
			X: start.X*cos - start.Y*sin,
			Y: start.X*sin + start.Y*cos,
		}
		o.lineTo(center.Add(dir.Mul(r)), sagitta, false)
	}
}

// dedup returns a copy of pts without consecutive repeated vertices.
func dedup(pts []vec.Vec2) []vec.Vec2 {
	var res []vec.Vec2
	for _, p := range pts {
		if len(res) > 0 && p.Sub(res[len(res)-1]).Length() < zeroLengthThreshold {
			continue
		}
		res = append(res, p)
	}
	return res
}
