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
	"seehuhn.de/go/pdf/graphics"
)

// segment is a piece of a flattened path, in path coordinates.
type segment struct {
	A, B vec.Vec2
	T    vec.Vec2 // unit direction from A to B
	N    vec.Vec2 // T turned by 90 degrees, (-T.Y, T.X)
}

// reversed returns the segment traversed from B to A.
func (s segment) reversed() segment {
	return segment{A: s.B, B: s.A, T: s.T.Mul(-1), N: s.N.Mul(-1)}
}

// run is a sequence of connected segments, lines[start:end].
type run struct {
	start, end int
	closed     bool
}

// Stroke computes the coverage of the outline of p, drawn with the current
// Width, Cap, Join, MiterLimit and dash pattern.
//
// The outline of each subpath is built as one or two polygons, and all
// polygons are filled together with the nonzero rule, so that overlapping
// parts of the stroke are painted only once.
func (r *Rasterizer) Stroke(p *path.Data, emit EmitFunc) {
	r.collectSegments(p)
	r.outline = r.outline[:0]
	r.polyStart = r.polyStart[:0]
	d := r.Width / 2

	if r.Cap == graphics.LineCapRound {
		for _, c := range r.dots {
			r.beginPoly()
			r.addArc(c, d, vec.Vec2{X: 1}, 2*math.Pi, true)
			r.endPoly()
		}
	}

	lines, runs := r.lines, r.runs
	if r.dashed() {
		r.applyDash()
		lines, runs = r.dashLines, r.dashRuns
	}
	for _, ru := range runs {
		segs := lines[ru.start:ru.end]
		if len(segs) == 1 && segs[0].A == segs[0].B {
			r.strokeDot(segs[0], d)
			continue
		}
		r.strokeRun(segs, ru.closed, d)
	}

	r.startEdges()
	for i, start := range r.polyStart {
		end := len(r.outline)
		if i+1 < len(r.polyStart) {
			end = r.polyStart[i+1]
		}
		poly := r.outline[start:end]
		for j := range poly {
			r.addEdge(poly[j], poly[(j+1)%len(poly)])
		}
	}
	r.scan(NonZero, emit)
}

// collectSegments flattens p into r.lines. Each subpath with at least one
// segment becomes a run. Subpaths without extent are recorded in r.dots.
func (r *Rasterizer) collectSegments(p *path.Data) {
	r.lines = r.lines[:0]
	r.runs = r.runs[:0]
	r.dots = r.dots[:0]

	first := 0
	r.walk(p, r.addLine, func(s subpathEnd) {
		switch {
		case len(r.lines) > first:
			r.runs = append(r.runs, run{start: first, end: len(r.lines), closed: s.closed})
		case s.drawn || s.closed:
			r.dots = append(r.dots, s.start)
		}
		first = len(r.lines)
	})
}

func (r *Rasterizer) addLine(a, b vec.Vec2) {
	v := b.Sub(a)
	l := v.Length()
	if l < zeroLength {
		return
	}
	t := v.Mul(1 / l)
	r.lines = append(r.lines, segment{A: a, B: b, T: t, N: vec.Vec2{X: -t.Y, Y: t.X}})
}

func (r *Rasterizer) beginPoly() {
	r.polyStart = append(r.polyStart, len(r.outline))
}

// endPoly drops the current polygon if it has no area.
func (r *Rasterizer) endPoly() {
	last := len(r.polyStart) - 1
	if len(r.outline)-r.polyStart[last] < 3 {
		r.outline = r.outline[:r.polyStart[last]]
		r.polyStart = r.polyStart[:last]
	}
}

// strokeRun builds the outline of one run of segments.
//
// Both sides of the stroke are produced by the same code: the right-hand
// side is the +N side of the reversed run.
func (r *Rasterizer) strokeRun(segs []segment, closed bool, d float64) {
	r.back = r.back[:0]
	for i := len(segs) - 1; i >= 0; i-- {
		r.back = append(r.back, segs[i].reversed())
	}

	if closed {
		r.beginPoly()
		r.side(segs, true, d)
		r.endPoly()
		r.beginPoly()
		r.side(r.back, true, d)
		r.endPoly()
		return
	}

	first, last := segs[0], segs[len(segs)-1]
	r.beginPoly()
	r.addCap(first.A, first.T.Mul(-1), d)
	r.side(segs, false, d)
	r.addCap(last.B, last.T, d)
	r.side(r.back, false, d)
	r.endPoly()
}

// side appends the +N offset of segs at distance d to the outline. A
// closed run also gets the corner between its last and its first segment,
// and the result is a closed loop.
func (r *Rasterizer) side(segs []segment, closed bool, d float64) {
	n := len(segs)
	corners := n - 1
	if closed {
		corners = n
	} else {
		r.outline = append(r.outline, segs[0].A.Add(segs[0].N.Mul(d)))
	}
	for i := range corners {
		r.corner(&segs[i], &segs[(i+1)%n], d)
	}
	if !closed {
		last := &segs[n-1]
		r.outline = append(r.outline, last.B.Add(last.N.Mul(d)))
	}
}

// corner appends the +N side of the corner where s1 meets s2, from the
// end of the offset of s1 to the start of the offset of s2.
func (r *Rasterizer) corner(s1, s2 *segment, d float64) {
	P := s1.B
	end1 := P.Add(s1.N.Mul(d))
	start2 := s2.A.Add(s2.N.Mul(d))

	sin := s1.T.X*s2.T.Y - s1.T.Y*s2.T.X
	switch {
	case math.Abs(sin) < straightSin:
		r.outline = append(r.outline, end1, start2)
	case sin > 0:
		// the path turns towards +N, so this is the inside of the corner
		if q, ok := innerPoint(P, s1, s2, d); ok {
			r.outline = append(r.outline, q)
		} else {
			r.outline = append(r.outline, end1, start2)
		}
	default:
		r.outline = append(r.outline, end1)
		r.addJoin(P, s1, s2, d)
		r.outline = append(r.outline, start2)
	}
}

// innerPoint returns the intersection of the +N offsets of s1 and s2.
func innerPoint(P vec.Vec2, s1, s2 *segment, d float64) (vec.Vec2, bool) {
	cos := s1.T.Dot(s2.T)
	if cos > 1-1e-9 || cos < cuspCos {
		return vec.Vec2{}, false
	}
	cosHalf := math.Sqrt((1 + cos) / 2)
	bis := s1.N.Add(s2.N)
	l := bis.Length()
	if cosHalf < 1e-9 || l < 1e-9 {
		return vec.Vec2{}, false
	}
	return P.Add(bis.Mul(d / (cosHalf * l))), true
}

// addJoin appends the join geometry on the outside of the corner at P,
// between the offset points of s1 and s2.
func (r *Rasterizer) addJoin(P vec.Vec2, s1, s2 *segment, d float64) {
	cos := s1.T.Dot(s2.T)
	if cos < cuspCos {
		// the path doubles back; go round the tip like a line end
		r.addCap(P, s1.T, d)
		return
	}

	switch r.Join {
	case graphics.LineJoinMiter:
		// The miter length relative to the line width is 1/cos(θ/2),
		// where θ is the turning angle.
		cosHalf := math.Sqrt((1 + cos) / 2)
		if cosHalf <= 0 || 1/cosHalf > r.MiterLimit+1e-10 {
			return // bevel
		}
		bis := s1.N.Add(s2.N)
		if l := bis.Length(); l > zeroLength {
			r.outline = append(r.outline, P.Add(bis.Mul(d/(cosHalf*l))))
		}
	case graphics.LineJoinRound:
		angle := math.Acos(max(-1, min(1, cos)))
		r.addArc(P, d, s1.N, -angle, false)
	}
}

// addCap appends the line cap at P, where T points away from the line.
// The cap starts on the side of N = (-T.Y, T.X).
func (r *Rasterizer) addCap(P, T vec.Vec2, d float64) {
	N := vec.Vec2{X: -T.Y, Y: T.X}
	switch r.Cap {
	case graphics.LineCapSquare:
		tip := P.Add(T.Mul(d))
		r.outline = append(r.outline, tip.Add(N.Mul(d)), tip.Sub(N.Mul(d)))
	case graphics.LineCapRound:
		r.addArc(P, d, N, -math.Pi, true)
	}
}

// strokeDot draws a dash of length zero, which still has a direction.
func (r *Rasterizer) strokeDot(s segment, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.beginPoly()
		r.addArc(s.A, d, vec.Vec2{X: 1}, 2*math.Pi, true)
		r.endPoly()
	case graphics.LineCapSquare:
		t, n := s.T.Mul(d), s.N.Mul(d)
		r.beginPoly()
		r.outline = append(r.outline,
			s.A.Add(t).Add(n),
			s.A.Add(t).Sub(n),
			s.A.Sub(t).Sub(n),
			s.A.Sub(t).Add(n))
		r.endPoly()
	}
}

// addArc appends points on the circle of the given radius around center,
// starting in direction from and turning by sweep radians. The number of
// points is chosen so that the chords stay within Flatness of the circle
// in device space.
func (r *Rasterizer) addArc(center vec.Vec2, radius float64, from vec.Vec2, sweep float64, withStart bool) {
	devR := max(r.linear(vec.Vec2{X: radius}).Length(), r.linear(vec.Vec2{Y: radius}).Length())

	n := 1
	if devR >= r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/devR)
		if !(step > 0) {
			step = math.Pi / 4
		}
		n = max(int(math.Ceil(math.Abs(sweep)/step)), 1)
	}

	i := 1
	if withStart {
		i = 0
	}
	for ; i <= n; i++ {
		sin, cos := math.Sincos(sweep * float64(i) / float64(n))
		dir := vec.Vec2{X: from.X*cos - from.Y*sin, Y: from.X*sin + from.Y*cos}
		r.outline = append(r.outline, center.Add(dir.Mul(radius)))
	}
}
