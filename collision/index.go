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
	"github.com/dhconnelly/rtreego"
)

// broadPhasePad enlarges the query boxes of the broad phase slightly, so
// that rounding in the bounding box computation cannot hide an overlap.
const broadPhasePad = 1e-9

// Index is the set of footprints accepted for one tile.
//
// Footprints are only ever added, never removed.  Each accepted footprint
// is identified by its position in insertion order.
//
// A nil *Index disables collision checking: every candidate is accepted
// and nothing is recorded.
type Index struct {
	accepted []Footprint
	tree     *rtreego.Rtree
}

type entry struct {
	id  int
	box rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect {
	return e.box
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		tree: rtreego.NewTree(2, 8, 32),
	}
}

// Len returns the number of accepted footprints.  This is also the id which
// the next accepted footprint will receive.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.accepted)
}

// Footprints returns a copy of the accepted footprints, in insertion order.
func (x *Index) Footprints() []Footprint {
	if x == nil {
		return nil
	}
	res := make([]Footprint, len(x.accepted))
	copy(res, x.accepted)
	return res
}

// TestAndInsert adds all given footprints to the index, if none of them
// overlaps an already accepted footprint or another footprint of the same
// call.  Otherwise the index is left unchanged.  The return value reports
// whether the footprints were added.
func (x *Index) TestAndInsert(fps ...Footprint) bool {
	return x.TestAndInsertExcluding(-1, fps...)
}

// TestAndInsertExcluding works like [Index.TestAndInsert], but ignores
// overlaps with the accepted footprint with the given id.
// Use a negative id to exclude nothing.
func (x *Index) TestAndInsertExcluding(exclude int, fps ...Footprint) bool {
	if x == nil {
		return true
	}

	for i, f := range fps {
		if f.IsDegenerate() {
			continue
		}
		if x.collides(f, exclude) {
			return false
		}
		for _, g := range fps[:i] {
			if f.Overlaps(g) {
				return false
			}
		}
	}

	for _, f := range fps {
		id := len(x.accepted)
		x.accepted = append(x.accepted, f)
		if f.IsDegenerate() {
			continue
		}
		x.tree.Insert(&entry{id: id, box: toRect(f, 0)})
	}
	return true
}

// Collides reports whether f overlaps any accepted footprint.
func (x *Index) Collides(f Footprint) bool {
	if x == nil || f.IsDegenerate() {
		return false
	}
	return x.collides(f, -1)
}

func (x *Index) collides(f Footprint, exclude int) bool {
	for _, obj := range x.tree.SearchIntersect(toRect(f, broadPhasePad)) {
		e := obj.(*entry)
		if e.id == exclude {
			continue
		}
		if f.Overlaps(x.accepted[e.id]) {
			return true
		}
	}
	return false
}

func toRect(f Footprint, pad float64) rtreego.Rect {
	b := f.Bounds()
	r, err := rtreego.NewRectFromPoints(
		rtreego.Point{b.LLx - pad, b.LLy - pad},
		rtreego.Point{b.URx + pad, b.URy + pad},
	)
	if err != nil {
		// only happens for mismatched dimensions
		panic(err)
	}
	return r
}
