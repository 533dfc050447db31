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
	"seehuhn.de/go/geom/vec"
)

// joinTolerance is the largest distance between two end points, in tile
// pixels, for which lines are joined.
const joinTolerance = 1e-6

// mergeLines joins lines which share an end point, reversing lines where
// needed.  Map data splits roads and rivers at every junction; merging
// gives the labels room to be repeated along the whole way.
//
// Lines are merged greedily, in order.  The result preserves the
// direction of the first line of every merged group.
func mergeLines(lines [][]vec.Vec2) [][]vec.Vec2 {
	used := make([]bool, len(lines))
	var res [][]vec.Vec2
	for i, l := range lines {
		if used[i] || len(l) < 2 {
			continue
		}
		used[i] = true
		cur := append([]vec.Vec2(nil), l...)
		for {
			j, rev, atEnd := findJoin(lines, used, cur)
			if j < 0 {
				break
			}
			used[j] = true
			next := lines[j]
			if rev {
				next = reversed(next)
			}
			if atEnd {
				cur = append(cur, next[1:]...)
			} else {
				cur = append(next[:len(next)-1:len(next)-1], cur...)
			}
		}
		res = append(res, cur)
	}
	return res
}

// findJoin looks for an unused line which continues cur at its end or at
// its start.  The line must be reversed if rev is set.
func findJoin(lines [][]vec.Vec2, used []bool, cur []vec.Vec2) (j int, rev, atEnd bool) {
	first, last := cur[0], cur[len(cur)-1]
	if same(first, last) {
		return -1, false, false
	}
	for j, l := range lines {
		if used[j] || len(l) < 2 {
			continue
		}
		a, b := l[0], l[len(l)-1]
		switch {
		case same(last, a):
			return j, false, true
		case same(last, b):
			return j, true, true
		case same(first, b):
			return j, false, false
		case same(first, a):
			return j, true, false
		}
	}
	return -1, false, false
}

func same(a, b vec.Vec2) bool {
	return a.Sub(b).Length() <= joinTolerance
}

func reversed(l []vec.Vec2) []vec.Vec2 {
	res := make([]vec.Vec2, len(l))
	for i, p := range l {
		res[len(l)-1-i] = p
	}
	return res
}
