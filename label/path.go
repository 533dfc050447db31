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

package label

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maptiles/collision"
	"seehuhn.de/go/maptiles/errors"
	"seehuhn.de/go/maptiles/offset"
)

// nudgeSteps is the number of steps in which a glyph is moved forward to
// clear its predecessor on the inside of a bend.  The total distance is
// bounded by twice the footprint height.
const nudgeSteps = 16

// PathPlacer lays out labels along paths.
type PathPlacer struct {
	Shaper  Shaper
	Painter Painter

	// Offsetter computes the parallel curves for Style.PathOffset.
	// If nil, an Offsetter with the default tolerance is used.
	Offsetter *offset.Offsetter
}

// PathResult reports the outcome of a path label placement.
type PathResult struct {
	// Starts lists the arc length at which each drawn occurrence begins,
	// measured along the (offset) path in its given direction.
	Starts []float64
}

// Placed returns the number of drawn occurrences.
func (r *PathResult) Placed() int {
	return len(r.Starts)
}

// Place lays out text along path, distributing occurrences according to
// style.  Every occurrence is tried separately; the ones whose glyphs are
// all free in idx are drawn.  If idx is nil, collisions are not checked.
//
// Failure to place any occurrence is not an error.
func (p *PathPlacer) Place(idx *collision.Index, path []vec.Vec2, text string, style *Style) (*PathResult, error) {
	res := &PathResult{}
	if text == "" || len(path) < 2 {
		return res, nil
	}

	shaped, err := p.Shaper.Shape(text, style.Font)
	if err != nil {
		return nil, errors.Backend(err, "shaping %q", text)
	}
	if len(shaped.Glyphs) == 0 {
		return res, nil
	}

	components := [][]vec.Vec2{path}
	if style.PathOffset != 0 {
		o := p.Offsetter
		if o == nil {
			o = offset.New()
			p.Offsetter = o
		}
		components = o.Offset(path, style.PathOffset)
	}

	for _, c := range components {
		ap := newArcPath(c)
		if ap == nil {
			continue
		}
		l := &layout{
			fwd:    ap,
			glyphs: shaped.Glyphs,
			m:      shaped.Metrics,
			halo:   style.Halo.Width,
			bend:   style.maxBend(),
		}
		for _, start := range candidateStarts(ap.Length(), l.width(), style) {
			placed, fps, ok := l.place(start)
			if !ok || !idx.TestAndInsert(fps...) {
				continue
			}
			run := &GlyphRun{
				Font:   style.Font,
				Glyphs: placed,
				Color:  style.color(),
				Halo:   style.Halo,
			}
			if err := p.Painter.DrawGlyphRun(run); err != nil {
				return nil, errors.Backend(err, "drawing %q", text)
			}
			res.Starts = append(res.Starts, start)
		}
	}
	return res, nil
}

// candidateStarts returns the arc lengths at which occurrences of a label
// of width w may start, on a path of length total.
func candidateStarts(total, w float64, style *Style) []float64 {
	if total <= 0 {
		return nil
	}

	if style.Distribution == FixedSpacing {
		spacing := style.Gap
		if total < w {
			return nil
		}
		if spacing <= 0 {
			spacing = max(w, 1)
		}
		n := max(1, int(math.Floor((total-w)/spacing)))
		starts := make([]float64, n)
		for k := range starts {
			starts[k] = float64(k) * spacing
		}
		return starts
	}

	count := 1
	step := 0.0
	if style.Gap > 0 && total >= w {
		step = max(style.Gap, w)
		count = int(math.Floor((total-w)/step)) + 1
	}
	block := float64(count-1)*step + w

	var base float64
	switch style.Alignment {
	case AlignCenter:
		base = (total - block) / 2
	case AlignEnd:
		base = total - block
	}

	starts := make([]float64, count)
	for k := range starts {
		starts[k] = base + float64(k)*step
	}
	return starts
}

// layout computes glyph positions of one label along one path.
type layout struct {
	fwd, rev *arcPath
	glyphs   []Glyph
	m        Metrics
	halo     float64
	bend     float64
}

func (l *layout) width() float64 {
	w := 0.0
	for _, g := range l.glyphs {
		w += g.Advance
	}
	return w
}

// place lays out one occurrence starting at arc length start.  If the text
// would be upside down, the occurrence is laid out on the reversed path
// instead, covering the same stretch of the path.
func (l *layout) place(start float64) ([]PlacedGlyph, []collision.Footprint, bool) {
	ap := l.fwd
	if !l.readsForward(ap, start) {
		if l.rev == nil {
			l.rev = l.fwd.reversed()
		}
		ap = l.rev
		start = ap.Length() - l.width() - start
	}
	return l.walk(ap, start)
}

// readsForward reports whether text laid out at start reads from left to
// right on screen.
func (l *layout) readsForward(ap *arcPath, start float64) bool {
	firstAdv := l.glyphs[0].Advance
	lastAdv := l.glyphs[len(l.glyphs)-1].Advance
	w := l.width()

	a := ap.At(start + firstAdv/2)
	b := ap.At(start + w - lastAdv/2)
	dir := b.Sub(a)
	if dir.Length() < 1e-9 {
		dir = ap.SpanTangent(start, start+w)
	}
	return dir.X >= 0
}

// walk places every glyph along ap.  A glyph which overlaps its
// predecessor, on the inside of a bend, is moved forward in small steps.
// The result is false if the path bends too sharply under one of the
// glyphs, or if a glyph cannot be cleared from its predecessor.
func (l *layout) walk(ap *arcPath, start float64) ([]PlacedGlyph, []collision.Footprint, bool) {
	n := len(l.glyphs)
	placed := make([]PlacedGlyph, 0, n)
	fps := make([]collision.Footprint, 0, n)

	halfHeight := l.m.Height()/2 + l.halo
	baseline := (l.m.Ascent - l.m.Descent) / 2

	nudge := 2 * halfHeight / nudgeSteps

	pos := start
	for _, g := range l.glyphs {
		adv := g.Advance
		var fp collision.Footprint
		var angle float64
		ok := false
		for step := 0; step <= nudgeSteps; step++ {
			s0 := pos + float64(step)*nudge
			if ap.MaxTurn(s0, s0+adv) > l.bend {
				return nil, nil, false
			}
			t := ap.SpanTangent(s0, s0+adv)
			angle = math.Atan2(t.Y, t.X)
			fp = collision.Footprint{
				Center:     ap.At(s0 + adv/2),
				HalfWidth:  adv / 2,
				HalfHeight: halfHeight,
				Angle:      angle,
			}
			if len(fps) > 0 && fp.Overlaps(fps[len(fps)-1]) {
				continue
			}
			pos = s0
			ok = true
			break
		}
		if !ok {
			return nil, nil, false
		}

		sin, cos := math.Sincos(angle)
		// glyph origin relative to the footprint center: (-adv/2, baseline)
		origin := fp.Center.Add(vec.Vec2{
			X: -adv/2*cos - baseline*sin,
			Y: -adv/2*sin + baseline*cos,
		})
		placed = append(placed, PlacedGlyph{ID: g.ID, Origin: origin, Angle: angle})
		fps = append(fps, fp)
		pos += adv
	}
	return placed, fps, true
}
