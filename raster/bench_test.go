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
	"fmt"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// BenchmarkRingFill fills an annulus, reusing one Rasterizer.
func BenchmarkRingFill(b *testing.B) {
	for _, size := range []int{20, 256, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			clip := rect.Rect{URx: float64(size), URy: float64(size)}
			r := New(clip)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			c := float64(size) / 2
			p := ring(c, c, 0.45*float64(size), 0.30*float64(size))
			emit := func(y, xMin int, coverage []float32) {
				row := dst.Pix[y*dst.Stride+xMin:]
				for i, v := range coverage {
					row[i] = uint8(v * 255)
				}
			}

			b.ReportAllocs()
			for b.Loop() {
				r.Fill(p, EvenOdd, emit)
			}
		})
	}
}

// BenchmarkVectorRing draws the same annulus with golang.org/x/image/vector.
func BenchmarkVectorRing(b *testing.B) {
	for _, size := range []int{20, 256, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			z := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{A: 255})
			c := float32(size) / 2

			b.ReportAllocs()
			for b.Loop() {
				z.Reset(size, size)
				vectorCircle(z, c, c, 0.45*float32(size), false)
				vectorCircle(z, c, c, 0.30*float32(size), true)
				z.Draw(dst, dst.Bounds(), src, image.Point{})
			}
		})
	}
}

// BenchmarkRoadStroke strokes a long zig-zag line with round joins, like a
// road at high zoom.
func BenchmarkRoadStroke(b *testing.B) {
	r := New(rect.Rect{URx: 512, URy: 512})
	r.Width = 9
	r.Join = graphics.LineJoinRound
	r.Cap = graphics.LineCapRound
	p := zigzag(512, 40)
	emit := func(y, xMin int, coverage []float32) {}

	b.ReportAllocs()
	for b.Loop() {
		r.Stroke(p, emit)
	}
}

func vectorCircle(z *vector.Rasterizer, cx, cy, r float32, reverse bool) {
	const k = float32(0.5522847498)
	kr := k * r
	s := float32(1)
	if reverse {
		s = -1
	}
	z.MoveTo(cx, cy-r)
	z.CubeTo(cx+s*kr, cy-r, cx+s*r, cy-kr, cx+s*r, cy)
	z.CubeTo(cx+s*r, cy+kr, cx+s*kr, cy+r, cx, cy+r)
	z.CubeTo(cx-s*kr, cy+r, cx-s*r, cy+kr, cx-s*r, cy)
	z.CubeTo(cx-s*r, cy-kr, cx-s*kr, cy-r, cx, cy-r)
	z.ClosePath()
}

func zigzag(size float64, step int) *path.Data {
	p := (&path.Data{}).MoveTo(vec.Vec2{X: 10, Y: 10})
	for i := 1; float64(i*step) < size-20; i++ {
		y := 10.0
		if i%2 == 1 {
			y = size - 10
		}
		p.LineTo(vec.Vec2{X: 10 + float64(i*step), Y: y})
	}
	return p
}
