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

package collision

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

const epsilon = 1e-9

func TestOverlaps(t *testing.T) {
	unit := Footprint{HalfWidth: 1, HalfHeight: 1}
	at := func(x, y, angle float64) Footprint {
		return Footprint{Center: vec.Vec2{X: x, Y: y}, HalfWidth: 1, HalfHeight: 1, Angle: angle}
	}

	cases := []struct {
		name string
		a, b Footprint
		want bool
	}{
		{"identical", unit, unit, true},
		{"shifted", unit, at(1.5, 0, 0), true},
		{"touching edge", unit, at(2, 0, 0), false},
		{"touching corner", unit, at(2, 2, 0), false},
		{"separate", unit, at(3, 0, 0), false},
		// A square rotated by 45 degrees reaches sqrt(2) from its center.
		{"diamond close", unit, at(2.3, 0, math.Pi/4), true},
		{"diamond far", unit, at(2.5, 0, math.Pi/4), false},
		// Both AABBs overlap, but a separating axis exists.
		{"diagonal gap", at(0, 0, math.Pi/4), at(2.3, 2.3, math.Pi/4), false},
		{"zero width", unit, Footprint{HalfWidth: 0, HalfHeight: 5}, false},
		{"zero height", Footprint{HalfWidth: 5}, unit, false},
		{"nan", unit, Footprint{Center: vec.Vec2{X: math.NaN()}, HalfWidth: 1, HalfHeight: 1}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.a.Overlaps(c.b); got != c.want {
				t.Errorf("a.Overlaps(b): expected %t, got %t", c.want, got)
			}
			if got := c.b.Overlaps(c.a); got != c.want {
				t.Errorf("b.Overlaps(a): expected %t, got %t", c.want, got)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	f := Footprint{
		Center:     vec.Vec2{X: 10, Y: 20},
		HalfWidth:  3,
		HalfHeight: 1,
		Angle:      math.Pi / 2,
	}
	want := rect.Rect{LLx: 9, LLy: 17, URx: 11, URy: 23}
	got := f.Bounds()
	if math.Abs(got.LLx-want.LLx) > epsilon || math.Abs(got.LLy-want.LLy) > epsilon ||
		math.Abs(got.URx-want.URx) > epsilon || math.Abs(got.URy-want.URy) > epsilon {
		t.Errorf("expected %v, got %v", want, got)
	}

	for i, c := range f.Corners() {
		if c.X < got.LLx-epsilon || c.X > got.URx+epsilon || c.Y < got.LLy-epsilon || c.Y > got.URy+epsilon {
			t.Errorf("corner %d (%v) outside of bounds %v", i, c, got)
		}
	}
}

func TestBox(t *testing.T) {
	f := Box(rect.Rect{LLx: 2, LLy: 4, URx: 8, URy: 6})
	if f.Center != (vec.Vec2{X: 5, Y: 5}) || f.HalfWidth != 3 || f.HalfHeight != 1 || f.Angle != 0 {
		t.Errorf("unexpected footprint %v", f)
	}
}
