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
	"cmp"
	"math"
	"slices"
)

// Coverage is accumulated per pixel in two buffers. For every piece of an
// edge inside a pixel, cover receives the signed height of the piece
// (positive for edges pointing down) and area receives that height times
// the fraction of the pixel to the right of the piece. Summing cover from
// the left edge of the row gives the winding number at each pixel; adding
// area corrects it for the partially covered pixel itself.
//
// Edges left of the buffer are folded into column 0, edges right of it are
// dropped.

// scan converts the collected edges into coverage, picking the strategy by
// the size of the bounding box.
func (r *Rasterizer) scan(rule FillRule, emit EmitFunc) {
	xMin, xMax, yMin, yMax, ok := r.pixelBounds()
	if !ok {
		return
	}
	if (xMax-xMin)*(yMax-yMin) < r.denseLimit {
		r.scanDense(xMin, xMax, yMin, yMax, rule, emit)
	} else {
		r.scanSparse(xMin, xMax, yMin, yMax, rule, emit)
	}
}

// deposit adds the part of e inside scanline y to the buffers, which hold
// pixel columns x0, ..., x1-1.
func deposit(e *edge, y int, cover, area []float32, x0, x1 int) {
	top := max(float64(y), min(e.y0, e.y1))
	bot := min(float64(y+1), max(e.y0, e.y1))
	if bot <= top {
		return
	}
	dir := float32(1)
	if e.y1 < e.y0 {
		dir = -1
	}

	xa := e.x0 + e.dxdy*(top-e.y0)
	xb := e.x0 + e.dxdy*(bot-e.y0)
	colLo := int(math.Floor(min(xa, xb)))
	colHi := int(math.Floor(max(xa, xb)))

	switch {
	case colHi < x0:
		c := dir * float32(bot-top)
		cover[0] += c
		area[0] += c
	case colLo >= x1:
		// no effect inside the buffer
	case colLo == colHi:
		depositPiece(e, colLo, top, bot, dir, cover, area, x0, x1)
	default:
		dydx := 1 / e.dxdy
		for col := colLo; col <= colHi; col++ {
			ya := e.y0 + dydx*(float64(col)-e.x0)
			yb := e.y0 + dydx*(float64(col+1)-e.x0)
			depositPiece(e, col, max(min(ya, yb), top), min(max(ya, yb), bot), dir, cover, area, x0, x1)
		}
	}
}

// depositPiece records the part of e between heights top and bot, which
// lies inside pixel column col.
func depositPiece(e *edge, col int, top, bot float64, dir float32, cover, area []float32, x0, x1 int) {
	if bot <= top || col >= x1 {
		return
	}
	c := dir * float32(bot-top)
	if col < x0 {
		cover[0] += c
		area[0] += c
		return
	}
	xMid := e.x0 + e.dxdy*((top+bot)/2-e.y0)
	i := col - x0
	cover[i] += c
	area[i] += c * float32(1-(xMid-float64(col)))
}

// resolve turns one row of accumulated values into coverage, in place in
// cover.
func resolve(rule FillRule, cover, area []float32) {
	var winding float32
	for i := range cover {
		v := winding + area[i]
		winding += cover[i]
		if v < 0 {
			v = -v
		}
		if rule == EvenOdd {
			v -= 2 * float32(int(v/2))
			if v > 1 {
				v = 2 - v
			}
		} else if v > 1 {
			v = 1
		}
		cover[i] = v
	}
}

// emitRow passes the non-zero part of a resolved row to emit.
func emitRow(y, x0 int, row []float32, emit EmitFunc) {
	lo, hi := 0, len(row)
	for lo < hi && row[lo] == 0 {
		lo++
	}
	for hi > lo && row[hi-1] == 0 {
		hi--
	}
	if lo < hi {
		emit(y, x0+lo, row[lo:hi])
	}
}

// scanDense accumulates all edges into buffers covering the whole bounding
// box and then resolves the rows one by one.
func (r *Rasterizer) scanDense(xMin, xMax, yMin, yMax int, rule FillRule, emit EmitFunc) {
	w := xMax - xMin
	h := yMax - yMin
	n := w * h
	r.cover = slices.Grow(r.cover[:0], n)[:n]
	r.area = slices.Grow(r.area[:0], n)[:n]
	r.rowUsed = slices.Grow(r.rowUsed[:0], h)[:h]
	clear(r.cover)
	clear(r.area)
	clear(r.rowUsed)

	for i := range r.edges {
		e := &r.edges[i]
		first := max(int(math.Floor(min(e.y0, e.y1))), yMin)
		last := min(int(math.Floor(max(e.y0, e.y1)))+1, yMax)
		for y := first; y < last; y++ {
			row := y - yMin
			off := row * w
			deposit(e, y, r.cover[off:off+w], r.area[off:off+w], xMin, xMax)
			r.rowUsed[row] = true
		}
	}

	for row, used := range r.rowUsed {
		if !used {
			continue
		}
		off := row * w
		cov := r.cover[off : off+w]
		resolve(rule, cov, r.area[off:off+w])
		emitRow(yMin+row, xMin, cov, emit)
	}
}

// scanSparse walks the scanlines from top to bottom, keeping a list of the
// edges which cross the current scanline. Only one row of buffers is used.
func (r *Rasterizer) scanSparse(xMin, xMax, yMin, yMax int, rule FillRule, emit EmitFunc) {
	w := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], w)[:w]
	r.area = slices.Grow(r.area[:0], w)[:w]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(min(a.y0, a.y1), min(b.y0, b.y1))
	})

	r.activeIdx = r.activeIdx[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		top := float64(y)
		bot := float64(y + 1)

		for next < len(r.edges) && min(r.edges[next].y0, r.edges[next].y1) < bot {
			r.activeIdx = append(r.activeIdx, next)
			next++
		}
		if len(r.activeIdx) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.activeIdx); {
			e := &r.edges[r.activeIdx[i]]
			if max(e.y0, e.y1) <= top {
				last := len(r.activeIdx) - 1
				r.activeIdx[i] = r.activeIdx[last]
				r.activeIdx = r.activeIdx[:last]
				continue
			}
			deposit(e, y, r.cover, r.area, xMin, xMax)
			if min(bot, max(e.y0, e.y1)) > max(top, min(e.y0, e.y1)) {
				touched = true
			}
			i++
		}
		if !touched {
			continue
		}

		resolve(rule, r.cover, r.area)
		emitRow(y, xMin, r.cover, emit)
	}
}
