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
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

const epsilon = 1e-5

// grid collects the coverage of one operation.
type grid struct {
	w, h int
	pix  []float32
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, pix: make([]float32, w*h)}
}

func (g *grid) emit(y, xMin int, coverage []float32) {
	copy(g.pix[y*g.w+xMin:], coverage)
}

func (g *grid) at(x, y int) float64 {
	return float64(g.pix[y*g.w+x])
}

func (g *grid) sum() float64 {
	var s float64
	for _, c := range g.pix {
		s += float64(c)
	}
	return s
}

func newTestRasterizer(w, h int) *Rasterizer {
	return New(rect.Rect{URx: float64(w), URy: float64(h)})
}

func square(p *path.Data, x0, y0, x1, y1 float64) *path.Data {
	return p.MoveTo(vec.Vec2{X: x0, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y1}).
		LineTo(vec.Vec2{X: x0, Y: y1}).
		Close()
}

// TestTriangleCoverage checks exact coverage values for a thin triangle
// whose diagonal edge is y = x/10. Pixel x must be covered to (2x+1)/20.
func TestTriangleCoverage(t *testing.T) {
	triangle := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 1}).
		Close()

	for _, limit := range []int{1 << 30, 0} {
		r := newTestRasterizer(10, 1)
		r.denseLimit = limit
		g := newGrid(10, 1)
		r.Fill(triangle, NonZero, g.emit)

		for x := range 10 {
			expected := float64(2*x+1) / 20
			if got := g.at(x, 0); math.Abs(got-expected) > epsilon {
				t.Errorf("limit %d, pixel %d: expected coverage %.4f, got %.4f", limit, x, expected, got)
			}
		}
	}
}

func TestFillRules(t *testing.T) {
	p := square(&path.Data{}, 0, 0, 10, 10)
	p = square(p, 3, 3, 7, 7)

	cases := []struct {
		rule   FillRule
		center float64
		total  float64
	}{
		{NonZero, 1, 100},
		{EvenOdd, 0, 84},
	}
	for _, c := range cases {
		t.Run(c.rule.String(), func(t *testing.T) {
			g := newGrid(10, 10)
			newTestRasterizer(10, 10).Fill(p, c.rule, g.emit)
			if got := g.at(5, 5); math.Abs(got-c.center) > epsilon {
				t.Errorf("pixel (5,5): expected coverage %.4f, got %.4f", c.center, got)
			}
			if got := g.at(1, 1); math.Abs(got-1) > epsilon {
				t.Errorf("pixel (1,1): expected coverage 1, got %.4f", got)
			}
			if got := g.sum(); math.Abs(got-c.total) > 1e-3 {
				t.Errorf("expected total coverage %.2f, got %.2f", c.total, got)
			}
		})
	}
}

func TestImplicitClose(t *testing.T) {
	open := (&path.Data{}).
		MoveTo(vec.Vec2{X: 1, Y: 1}).
		LineTo(vec.Vec2{X: 9, Y: 2}).
		LineTo(vec.Vec2{X: 4, Y: 9})
	closed := (&path.Data{}).
		MoveTo(vec.Vec2{X: 1, Y: 1}).
		LineTo(vec.Vec2{X: 9, Y: 2}).
		LineTo(vec.Vec2{X: 4, Y: 9}).
		Close()

	r := newTestRasterizer(10, 10)
	g1 := newGrid(10, 10)
	g2 := newGrid(10, 10)
	r.Fill(open, NonZero, g1.emit)
	r.Fill(closed, NonZero, g2.emit)
	for i := range g1.pix {
		if g1.pix[i] != g2.pix[i] {
			t.Fatalf("pixel %d: expected coverage %.4f, got %.4f", i, g2.pix[i], g1.pix[i])
		}
	}
	// shoelace area of the triangle
	if got := g1.sum(); math.Abs(got-30.5) > 1e-3 {
		t.Errorf("expected total coverage 30.5, got %.4f", got)
	}
}

// TestStrategiesAgree renders the same curved shape with both scan
// strategies.
func TestStrategiesAgree(t *testing.T) {
	p := ring(50, 50, 45, 30)

	dense := newTestRasterizer(100, 100)
	dense.denseLimit = 1 << 30
	sparse := newTestRasterizer(100, 100)
	sparse.denseLimit = 0

	g1 := newGrid(100, 100)
	g2 := newGrid(100, 100)
	dense.Fill(p, EvenOdd, g1.emit)
	sparse.Fill(p, EvenOdd, g2.emit)
	for i := range g1.pix {
		if math.Abs(float64(g1.pix[i]-g2.pix[i])) > epsilon {
			t.Fatalf("pixel %d: expected coverage %.4f, got %.4f", i, g1.pix[i], g2.pix[i])
		}
	}

	want := math.Pi * (45*45 - 30*30)
	if got := g1.sum(); math.Abs(got-want) > 0.01*want {
		t.Errorf("expected total coverage %.1f, got %.1f", want, got)
	}
}

func TestCTMAndClip(t *testing.T) {
	r := newTestRasterizer(20, 20)
	r.CTM = matrix.Scale(10, 10)
	g := newGrid(20, 20)
	r.Fill(square(&path.Data{}, 0.5, 0.5, 1.5, 1.5), NonZero, g.emit)
	if got := g.sum(); math.Abs(got-100) > 1e-3 {
		t.Errorf("expected total coverage 100, got %.4f", got)
	}

	// the square reaches beyond the clip rectangle
	r.Reset()
	g = newGrid(20, 20)
	r.Fill(square(&path.Data{}, 15, -5, 25, 5), NonZero, g.emit)
	if got := g.sum(); math.Abs(got-25) > 1e-3 {
		t.Errorf("expected total coverage 25, got %.4f", got)
	}
}

func TestStrokeCaps(t *testing.T) {
	line := (&path.Data{}).
		MoveTo(vec.Vec2{X: 2, Y: 5}).
		LineTo(vec.Vec2{X: 18, Y: 5})

	cases := []struct {
		cap      graphics.LineCapStyle
		min, max float64
	}{
		{graphics.LineCapButt, 64 - 1e-3, 64 + 1e-3},
		{graphics.LineCapSquare, 80 - 1e-3, 80 + 1e-3},
		{graphics.LineCapRound, 64 + 11, 64 + 4*math.Pi},
	}
	for _, c := range cases {
		r := newTestRasterizer(20, 10)
		r.Width = 4
		r.Cap = c.cap
		g := newGrid(20, 10)
		r.Stroke(line, g.emit)
		if got := g.sum(); got < c.min || got > c.max {
			t.Errorf("cap %v: expected total coverage in [%.2f, %.2f], got %.4f", c.cap, c.min, c.max, got)
		}
		if got := g.at(10, 3); math.Abs(got-1) > epsilon {
			t.Errorf("cap %v: expected pixel (10,3) covered, got %.4f", c.cap, got)
		}
		if got := g.at(10, 7); got != 0 {
			t.Errorf("cap %v: expected pixel (10,7) empty, got %.4f", c.cap, got)
		}
	}
}

func TestStrokeJoins(t *testing.T) {
	corner := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 10}).
		LineTo(vec.Vec2{X: 10, Y: 10}).
		LineTo(vec.Vec2{X: 10, Y: 20})

	total := func(join graphics.LineJoinStyle) float64 {
		r := newTestRasterizer(20, 20)
		r.Width = 4
		r.Join = join
		g := newGrid(20, 20)
		r.Stroke(corner, g.emit)
		return g.sum()
	}

	bevel := total(graphics.LineJoinBevel)
	round := total(graphics.LineJoinRound)
	miter := total(graphics.LineJoinMiter)
	if math.Abs(bevel-78) > 1e-3 {
		t.Errorf("bevel: expected total coverage 78, got %.4f", bevel)
	}
	if math.Abs(miter-80) > 1e-3 {
		t.Errorf("miter: expected total coverage 80, got %.4f", miter)
	}
	if round <= bevel || round >= 76+math.Pi {
		t.Errorf("round: expected total coverage in (%.2f, %.2f), got %.4f", bevel, 76+math.Pi, round)
	}
}

func TestStrokeClosed(t *testing.T) {
	r := newTestRasterizer(20, 20)
	r.Width = 2
	g := newGrid(20, 20)
	r.Stroke(square(&path.Data{}, 5, 5, 15, 15), g.emit)

	if got := g.sum(); math.Abs(got-80) > 1e-3 {
		t.Errorf("expected total coverage 80, got %.4f", got)
	}
	if got := g.at(10, 10); got != 0 {
		t.Errorf("pixel (10,10): expected coverage 0, got %.4f", got)
	}
	if got := g.at(4, 4); math.Abs(got-1) > epsilon {
		t.Errorf("pixel (4,4): expected coverage 1, got %.4f", got)
	}
}

func TestDash(t *testing.T) {
	line := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 5}).
		LineTo(vec.Vec2{X: 20, Y: 5})

	cases := []struct {
		phase   float64
		on, off int
	}{
		{0, 2, 4},
		{1, 5, 3},
	}
	for _, c := range cases {
		r := newTestRasterizer(20, 10)
		r.Width = 2
		r.Dash = []float64{4, 2}
		r.DashPhase = c.phase
		g := newGrid(20, 10)
		r.Stroke(line, g.emit)

		if got := g.sum(); math.Abs(got-28) > 1e-3 {
			t.Errorf("phase %g: expected total coverage 28, got %.4f", c.phase, got)
		}
		if got := g.at(c.on, 4); math.Abs(got-1) > epsilon {
			t.Errorf("phase %g, pixel %d: expected coverage 1, got %.4f", c.phase, c.on, got)
		}
		if got := g.at(c.off, 4); got != 0 {
			t.Errorf("phase %g, pixel %d: expected coverage 0, got %.4f", c.phase, c.off, got)
		}
	}
}

func TestDashDots(t *testing.T) {
	line := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 10}).
		LineTo(vec.Vec2{X: 20, Y: 10})

	r := newTestRasterizer(20, 20)
	r.Width = 4
	r.Dash = []float64{0, 5}

	g := newGrid(20, 20)
	r.Stroke(line, g.emit)
	if got := g.sum(); got != 0 {
		t.Errorf("butt caps: expected no coverage, got %.4f", got)
	}

	r.Cap = graphics.LineCapRound
	g = newGrid(20, 20)
	r.Stroke(line, g.emit)
	if got := g.at(10, 10); math.Abs(got-1) > epsilon {
		t.Errorf("pixel (10,10): expected coverage 1, got %.4f", got)
	}
	if got := g.at(19, 10); got != 0 {
		t.Errorf("pixel (19,10): expected coverage 0, got %.4f", got)
	}
}

func TestAllZeroDashIsSolid(t *testing.T) {
	line := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 5}).
		LineTo(vec.Vec2{X: 20, Y: 5})
	r := newTestRasterizer(20, 10)
	r.Width = 2
	r.Dash = []float64{0, 0}
	g := newGrid(20, 10)
	r.Stroke(line, g.emit)
	if got := g.sum(); math.Abs(got-40) > 1e-3 {
		t.Errorf("expected total coverage 40, got %.4f", got)
	}
}

// ring returns an annulus: the outer circle runs clockwise on screen and
// the inner one counter-clockwise.
func ring(cx, cy, outer, inner float64) *path.Data {
	p := &path.Data{}
	circle(p, cx, cy, outer, false)
	circle(p, cx, cy, inner, true)
	return p
}

// circle appends a circle made of four cubic Bézier arcs.
func circle(p *path.Data, cx, cy, r float64, reverse bool) {
	const k = 0.5522847498
	kr := k * r
	s := 1.0
	if reverse {
		s = -1
	}
	p.MoveTo(vec.Vec2{X: cx, Y: cy - r})
	p.CubeTo(vec.Vec2{X: cx + s*kr, Y: cy - r}, vec.Vec2{X: cx + s*r, Y: cy - kr}, vec.Vec2{X: cx + s*r, Y: cy})
	p.CubeTo(vec.Vec2{X: cx + s*r, Y: cy + kr}, vec.Vec2{X: cx + s*kr, Y: cy + r}, vec.Vec2{X: cx, Y: cy + r})
	p.CubeTo(vec.Vec2{X: cx - s*kr, Y: cy + r}, vec.Vec2{X: cx - s*r, Y: cy + kr}, vec.Vec2{X: cx - s*r, Y: cy})
	p.CubeTo(vec.Vec2{X: cx - s*r, Y: cy - kr}, vec.Vec2{X: cx - s*kr, Y: cy - r}, vec.Vec2{X: cx, Y: cy - r})
	p.Close()
}
