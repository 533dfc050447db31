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

// Package raster converts paths into anti-aliased pixel coverage.
//
// Coverage is the fraction of a pixel's area inside the painted shape, from 0
// to 1. A [Rasterizer] reports it one scanline at a time through an
// [EmitFunc]; compositing the coverage onto an image is left to the caller.
package raster

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage of pixels xMin, xMin+1, ... in row y.
// The slice is only valid for the duration of the call.
type EmitFunc func(y, xMin int, coverage []float32)

// FillRule decides which points are inside a self-overlapping path.
type FillRule int

// Supported fill rules.
const (
	NonZero FillRule = iota
	EvenOdd
)

func (r FillRule) String() string {
	if r == EvenOdd {
		return "even-odd"
	}
	return "nonzero"
}

// Rasterizer computes pixel coverage for filled and stroked paths.
//
// A Rasterizer keeps its scratch buffers between calls, so that a renderer
// which reuses one instance for all tiles stops allocating once the buffers
// have grown to the largest path seen. It is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps path coordinates to device pixels. It must be invertible.
	CTM matrix.Matrix

	// Clip limits the output to this device rectangle. The coordinates
	// must be integers.
	Clip rect.Rect

	// Flatness is the maximal distance, in device pixels, between a curve
	// and the line segments which replace it.
	Flatness float64

	// Width is the stroke width in path units.
	Width float64

	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64

	// Dash lists alternating on and off lengths in path units. Nil means a
	// solid line. A pattern whose lengths are all zero is ignored.
	Dash      []float64
	DashPhase float64

	// denseLimit is the largest bounding box area, in pixels, for which
	// all scanlines are accumulated at once.
	denseLimit int

	// edge accumulation
	edges     []edge
	bbox      rect.Rect
	haveBBox  bool
	cover     []float32
	area      []float32
	rowUsed   []bool
	activeIdx []int

	// stroking
	lines     []segment
	runs      []run
	dots      []vec.Vec2
	dashLines []segment
	dashRuns  []run
	back      []segment
	outline   []vec.Vec2
	polyStart []int
}

// New returns a Rasterizer for the given clip rectangle. All other
// parameters are set to the PDF defaults.
func New(clip rect.Rect) *Rasterizer {
	r := &Rasterizer{
		Clip:       clip,
		denseLimit: denseAreaLimit,
	}
	r.Reset()
	return r
}

// Reset restores the transformation and the stroke parameters to their
// defaults. The clip rectangle and the scratch buffers are kept.
func (r *Rasterizer) Reset() {
	r.CTM = matrix.Identity
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit
	r.Dash = nil
	r.DashPhase = 0
}

// Fill computes the coverage of the area enclosed by p. Open subpaths are
// closed by a straight line back to their start.
func (r *Rasterizer) Fill(p *path.Data, rule FillRule, emit EmitFunc) {
	r.startEdges()
	r.walk(p, r.addEdge, r.closeFill)
	r.scan(rule, emit)
}

func (r *Rasterizer) closeFill(s subpathEnd) {
	if !s.closed && s.current != s.start {
		r.addEdge(s.current, s.start)
	}
}

// linear applies the CTM to a direction vector.
func (r *Rasterizer) linear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

const (
	defaultFlatness   = 0.25
	defaultMiterLimit = 10.0

	// denseAreaLimit selects between the two scan strategies.
	denseAreaLimit = 1 << 16

	// Edges with a smaller vertical extent, in pixels, add no coverage.
	flatEdge = 1e-10

	// Stroke segments shorter than this have no direction.
	zeroLength = 1e-10

	// Corners with |sin| below this are treated as straight.
	straightSin = 1e-6

	// Corners with a cosine below this reverse the direction of the path.
	cuspCos = -0.9999
)
