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

package offset

import (
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"
	"seehuhn.de/go/geom/vec"
)

// boxPad enlarges segment bounding boxes, so that horizontal and vertical
// segments have a non-empty interior in the R-tree.
const boxPad = 1e-9

// crossingEps excludes intersections at the very ends of edges.
const crossingEps = 1e-9

// piece is a part of the raw offset curve between two self-intersections.
type piece struct {
	pts    []vec.Vec2
	checks []check
}

// check is a point of a piece which must keep the offset distance from the
// source path, up to the given slack.
type check struct {
	p     vec.Vec2
	slack float64
}

// crossing is a point where an edge of the raw curve is cut.
type crossing struct {
	t     float64
	slack float64
}

type edgeBox struct {
	k   int
	box rtreego.Rect
}

func (e *edgeBox) Bounds() rtreego.Rect {
	return e.box
}

func boxOf(a, b vec.Vec2, pad float64) rtreego.Rect {
	r, err := rtreego.NewRectFromPoints(
		rtreego.Point{min(a.X, b.X) - pad, min(a.Y, b.Y) - pad},
		rtreego.Point{max(a.X, b.X) + pad, max(a.Y, b.Y) + pad},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// cut splits the raw offset curve at all points where it intersects
// itself.
func (o *Offsetter) cut() []piece {
	raw := o.raw
	nEdges := len(raw) - 1

	tree := rtreego.NewTree(2, 4, 16)
	for k := range nEdges {
		tree.Insert(&edgeBox{k: k, box: boxOf(raw[k], raw[k+1], boxPad)})
	}

	cuts := make([][]crossing, nEdges)
	for i := range nEdges {
		for _, obj := range tree.SearchIntersect(boxOf(raw[i], raw[i+1], boxPad)) {
			j := obj.(*edgeBox).k
			if j <= i+1 {
				continue // adjacent edges share a vertex
			}
			ti, tj, ok := intersect(raw[i], raw[i+1], raw[j], raw[j+1])
			if !ok {
				continue
			}
			slack := max(o.slack[i], o.slack[j])
			cuts[i] = append(cuts[i], crossing{t: ti, slack: slack})
			cuts[j] = append(cuts[j], crossing{t: tj, slack: slack})
		}
	}

	var pieces []piece
	cur := piece{
		pts:    []vec.Vec2{raw[0]},
		checks: []check{{p: raw[0], slack: o.slack[0]}},
	}
	for k := range nEdges {
		a, b := raw[k], raw[k+1]
		slices.SortFunc(cuts[k], func(x, y crossing) int {
			switch {
			case x.t < y.t:
				return -1
			case x.t > y.t:
				return 1
			}
			return 0
		})

		from := a
		for _, c := range cuts[k] {
			X := a.Add(b.Sub(a).Mul(c.t))
			cur.addEdge(from, X, o.slack[k], c.slack)
			pieces = append(pieces, cur)
			cur = piece{
				pts:    []vec.Vec2{X},
				checks: []check{{p: X, slack: c.slack}},
			}
			from = X
		}

		endSlack := o.slack[k]
		if k+1 < nEdges {
			endSlack = max(endSlack, o.slack[k+1])
		}
		cur.addEdge(from, b, o.slack[k], endSlack)
	}
	pieces = append(pieces, cur)
	return pieces
}

// addEdge appends the straight edge from -> to.  Midpoints are only checked
// on edges without slack: the chords of a flattened arc dip towards the
// source by up to the sagitta.
func (p *piece) addEdge(from, to vec.Vec2, edgeSlack, endSlack float64) {
	if edgeSlack == 0 {
		p.checks = append(p.checks, check{p: from.Add(to).Mul(0.5)})
	}
	p.pts = append(p.pts, to)
	p.checks = append(p.checks, check{p: to, slack: endSlack})
}

// intersect returns the parameters where the segments a0-a1 and b0-b1
// cross.  Touching at the end points and parallel segments do not count.
func intersect(a0, a1, b0, b1 vec.Vec2) (ta, tb float64, ok bool) {
	r := a1.Sub(a0)
	s := b1.Sub(b0)
	denom := r.X*s.Y - r.Y*s.X
	if math.Abs(denom) <= 1e-12*r.Length()*s.Length() {
		return 0, 0, false
	}
	q := b0.Sub(a0)
	ta = (q.X*s.Y - q.Y*s.X) / denom
	tb = (q.X*r.Y - q.Y*r.X) / denom
	if ta <= crossingEps || ta >= 1-crossingEps || tb <= crossingEps || tb >= 1-crossingEps {
		return 0, 0, false
	}
	return ta, tb, true
}

// nearTest finds points which are too close to the source path.
type nearTest struct {
	segs []segment
	tree *rtreego.Rtree
}

func newNearTest(segs []segment) *nearTest {
	tree := rtreego.NewTree(2, 4, 16)
	for k, s := range segs {
		tree.Insert(&edgeBox{k: k, box: boxOf(s.A, s.B, boxPad)})
	}
	return &nearTest{segs: segs, tree: tree}
}

// tooClose reports whether any of the check points is closer than r to the
// source path, allowing for the slack of each point.
func (n *nearTest) tooClose(checks []check, r float64) bool {
	eps := 1e-6 * max(1, r)
	for _, c := range checks {
		limit := r - c.slack - eps
		if limit <= 0 {
			continue
		}
		for _, obj := range n.tree.SearchIntersect(boxOf(c.p, c.p, limit)) {
			s := n.segs[obj.(*edgeBox).k]
			if distToSegment(c.p, s) < limit {
				return true
			}
		}
	}
	return false
}

func distToSegment(p vec.Vec2, s segment) float64 {
	t := p.Sub(s.A).Dot(s.T)
	t = max(0, min(s.Len, t))
	return p.Sub(s.A.Add(s.T.Mul(t))).Length()
}
