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
	"slices"

	"seehuhn.de/go/geom/vec"
)

// dashed reports whether the dash pattern has positive total length.
func (r *Rasterizer) dashed() bool {
	for _, l := range r.Dash {
		if l > 0 {
			return true
		}
	}
	return false
}

// dashState tracks the position inside the dash pattern.
type dashState struct {
	pattern []float64
	idx     int
	left    float64 // length remaining in the current element
}

func (s *dashState) on() bool {
	return s.idx%2 == 0
}

func (s *dashState) advance() {
	s.idx++
	s.left = s.pattern[s.idx%len(s.pattern)]
}

// startDash returns the pattern state at the start of every subpath.
func (r *Rasterizer) startDash() dashState {
	pat := r.Dash
	period := 0.0
	for _, l := range pat {
		period += l
	}
	if len(pat)%2 == 1 {
		// an odd pattern swaps on and off in its second repetition
		period *= 2
	}

	pos := math.Mod(r.DashPhase, period)
	if pos < 0 {
		pos += period
	}
	idx := 0
	for {
		l := pat[idx%len(pat)]
		if pos < l || (l == 0 && pos == 0) {
			break
		}
		pos -= l
		idx++
	}
	return dashState{pattern: pat, idx: idx, left: pat[idx%len(pat)] - pos}
}

// applyDash splits the runs in r.lines into dashes, stored as runs in
// r.dashLines. Dashes are never closed. On a closed subpath, a dash
// running through the starting point is joined with the first dash.
func (r *Rasterizer) applyDash() {
	r.dashLines = r.dashLines[:0]
	r.dashRuns = r.dashRuns[:0]
	initial := r.startDash()
	for _, ru := range r.runs {
		r.dashRun(r.lines[ru.start:ru.end], ru.closed, initial)
	}
}

func (r *Rasterizer) dashRun(segs []segment, closed bool, st dashState) {
	startsOn := st.on() && st.left > 0
	open := len(r.dashLines) // first segment of the dash under construction
	head := -1               // index of the first dash in r.dashRuns

	finish := func() {
		if len(r.dashLines) == open {
			return
		}
		if head < 0 {
			head = len(r.dashRuns)
		}
		r.dashRuns = append(r.dashRuns, run{start: open, end: len(r.dashLines)})
		open = len(r.dashLines)
	}

	for _, s := range segs {
		length := s.B.Sub(s.A).Length()
		pos := 0.0
		for st.left < length-pos {
			end := pos + st.left
			if st.on() {
				a := lerp(s, pos/length)
				b := lerp(s, end/length)
				switch {
				case b.Sub(a).Length() > zeroLength:
					r.dashLines = append(r.dashLines, segment{A: a, B: b, T: s.T, N: s.N})
				case len(r.dashLines) == open:
					// a dash of length zero keeps the direction of the path
					r.dashLines = append(r.dashLines, segment{A: a, B: a, T: s.T, N: s.N})
				}
				finish()
			}
			pos = end
			st.advance()
		}
		if st.on() {
			if pos > 0 {
				r.dashLines = append(r.dashLines, segment{A: lerp(s, pos/length), B: s.B, T: s.T, N: s.N})
			} else {
				r.dashLines = append(r.dashLines, s)
			}
		}
		st.left -= length - pos
	}

	if len(r.dashLines) == open {
		return
	}
	if closed && startsOn && st.on() && head >= 0 {
		h := r.dashRuns[head]
		r.dashLines = append(r.dashLines, r.dashLines[h.start:h.end]...)
		r.dashRuns = slices.Delete(r.dashRuns, head, head+1)
	}
	r.dashRuns = append(r.dashRuns, run{start: open, end: len(r.dashLines)})
}

func lerp(s segment, t float64) vec.Vec2 {
	return s.A.Add(s.B.Sub(s.A).Mul(t))
}
