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
	"math/rand"
	"testing"

	"seehuhn.de/go/geom/vec"
)

func square(x, y, r float64) Footprint {
	return Footprint{Center: vec.Vec2{X: x, Y: y}, HalfWidth: r, HalfHeight: r}
}

func TestTestAndInsert(t *testing.T) {
	x := NewIndex()

	if !x.TestAndInsert(square(0, 0, 1)) {
		t.Fatal("first footprint rejected")
	}
	if x.TestAndInsert(square(1, 0, 1)) {
		t.Error("overlapping footprint accepted")
	}
	if !x.TestAndInsert(square(2, 0, 1)) {
		t.Error("touching footprint rejected")
	}
	if x.Len() != 2 {
		t.Errorf("expected 2 footprints, got %d", x.Len())
	}
}

func TestAtomicRejection(t *testing.T) {
	x := NewIndex()
	x.TestAndInsert(square(10, 10, 1))
	before := x.Footprints()

	// The first two candidates are free, the last one collides.
	ok := x.TestAndInsert(square(0, 0, 1), square(4, 0, 1), square(10.5, 10, 1))
	if ok {
		t.Fatal("colliding candidate set accepted")
	}
	after := x.Footprints()
	if len(after) != len(before) {
		t.Fatalf("index changed after rejection: %d -> %d", len(before), len(after))
	}
	if !x.TestAndInsert(square(0, 0, 1)) {
		t.Error("footprint of a rejected set was kept")
	}
}

func TestPairwiseWithinCall(t *testing.T) {
	x := NewIndex()
	if x.TestAndInsert(square(0, 0, 1), square(0.5, 0, 1)) {
		t.Error("mutually overlapping candidates accepted")
	}
	if x.Len() != 0 {
		t.Errorf("expected empty index, got %d footprints", x.Len())
	}
	if !x.TestAndInsert(square(0, 0, 1), square(2, 0, 1)) {
		t.Error("touching candidates rejected")
	}
}

func TestDegenerate(t *testing.T) {
	x := NewIndex()
	x.TestAndInsert(square(0, 0, 5))

	point := Footprint{Center: vec.Vec2{X: 1, Y: 1}}
	if !x.TestAndInsert(point) {
		t.Error("degenerate footprint rejected")
	}
	if x.Len() != 2 {
		t.Errorf("expected 2 footprints, got %d", x.Len())
	}
	if !x.TestAndInsert(square(20, 20, 1)) {
		t.Error("footprint after degenerate one rejected")
	}
}

func TestExclusion(t *testing.T) {
	x := NewIndex()
	x.TestAndInsert(square(-10, 0, 1))

	icon := x.Len()
	x.TestAndInsert(square(0, 0, 2))

	label := square(0, 2.5, 1)
	if !x.Collides(label) {
		t.Fatal("label does not touch the icon, test setup broken")
	}
	if x.TestAndInsert(label) {
		t.Error("label overlapping the icon accepted without exclusion")
	}
	if !x.TestAndInsertExcluding(icon, label) {
		t.Error("label rejected despite excluding the icon")
	}
	if x.TestAndInsertExcluding(icon, square(-10, 0.5, 1)) {
		t.Error("exclusion applied to the wrong footprint")
	}
}

func TestNilIndex(t *testing.T) {
	var x *Index
	if !x.TestAndInsert(square(0, 0, 1), square(0, 0, 1)) {
		t.Error("nil index rejected a candidate")
	}
	if x.Len() != 0 || x.Footprints() != nil || x.Collides(square(0, 0, 1)) {
		t.Error("nil index is not empty")
	}
}

// TestRandomSequence compares the index with a brute force scan over all
// accepted footprints, and checks that the final set is pairwise disjoint.
func TestRandomSequence(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	x := NewIndex()
	var naive []Footprint

	random := func() Footprint {
		return Footprint{
			Center:     vec.Vec2{X: rng.Float64() * 256, Y: rng.Float64() * 256},
			HalfWidth:  1 + rng.Float64()*20,
			HalfHeight: 1 + rng.Float64()*6,
			Angle:      (rng.Float64() - 0.5) * math.Pi,
		}
	}

	for step := range 2000 {
		n := 1 + rng.Intn(4)
		fps := make([]Footprint, n)
		for i := range fps {
			fps[i] = random()
		}

		want := true
	check:
		for i, f := range fps {
			for _, g := range naive {
				if f.Overlaps(g) {
					want = false
					break check
				}
			}
			for _, g := range fps[:i] {
				if f.Overlaps(g) {
					want = false
					break check
				}
			}
		}

		got := x.TestAndInsert(fps...)
		if got != want {
			t.Fatalf("step %d: expected %t, got %t", step, want, got)
		}
		if got {
			naive = append(naive, fps...)
		}
		if x.Len() != len(naive) {
			t.Fatalf("step %d: expected %d footprints, got %d", step, len(naive), x.Len())
		}
	}

	all := x.Footprints()
	for i := range all {
		for j := range i {
			if all[i].Overlaps(all[j]) {
				t.Errorf("footprints %d and %d overlap", j, i)
			}
		}
	}
}

func BenchmarkTestAndInsert(b *testing.B) {
	rng := rand.New(rand.NewSource(2))
	fps := make([]Footprint, 500)
	for i := range fps {
		fps[i] = square(rng.Float64()*512, rng.Float64()*512, 2+rng.Float64()*8)
	}
	for b.Loop() {
		x := NewIndex()
		for _, f := range fps {
			x.TestAndInsert(f)
		}
	}
}
