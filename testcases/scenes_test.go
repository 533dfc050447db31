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

package testcases

import (
	"regexp"
	"testing"

	"github.com/paulmach/orb"
)

func TestSceneNames(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z_]+$`)
	seen := make(map[string]bool)
	for category, scenes := range All {
		for _, sc := range scenes {
			if !valid.MatchString(sc.Name) {
				t.Errorf("%s: invalid scene name %q", category, sc.Name)
			}
			if seen[sc.Name] {
				t.Errorf("duplicate scene name %q", sc.Name)
			}
			seen[sc.Name] = true
		}
	}
}

// TestPointsInsideTile checks that point features are placed inside the
// tile of their scene, so that their labels can be drawn.
func TestPointsInsideTile(t *testing.T) {
	for _, scenes := range All {
		for _, sc := range scenes {
			bound := sc.Tile().Bound()
			for layer, fs := range sc.Layers {
				for i, f := range fs {
					p, ok := f.Geometry.(orb.Point)
					if ok && !bound.Contains(p) {
						t.Errorf("%s/%s: feature %d at %v is outside the tile", sc.Name, layer, i, p)
					}
				}
			}
		}
	}
}

func TestAt(t *testing.T) {
	const epsilon = 1e-9
	p := at(center, 0, 0)
	if p != center {
		t.Errorf("expected %v, got %v", center, p)
	}
	q := at(center, 0, mPerDegLat)
	if d := q.Lat() - center.Lat() - 1; d > epsilon || d < -epsilon {
		t.Errorf("expected one degree north, got %v", q)
	}
}

func TestBox(t *testing.T) {
	poly := box(center, -100, -50, 100, 50)
	if len(poly) != 1 {
		t.Fatalf("expected one ring, got %d", len(poly))
	}
	ring := poly[0]
	if len(ring) != 5 || !ring.Closed() {
		t.Errorf("expected a closed ring of 5 points, got %v", ring)
	}
	if !poly.Bound().Contains(center) {
		t.Errorf("%v does not cover its centre %v", poly.Bound(), center)
	}
}
