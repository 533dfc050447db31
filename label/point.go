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
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maptiles/collision"
	"seehuhn.de/go/maptiles/errors"
)

// PointPlacer places labels at anchor points.
type PointPlacer struct {
	Shaper  Shaper
	Painter Painter
}

// PointResult reports the outcome of a point label placement.
type PointResult struct {
	Placed bool
	Offset float64 // the vertical offset used, if Placed
}

// Place tries the offsets of style in order and draws the label at the
// first position which does not collide with a label in idx.  If idx is
// nil, no collision checks are performed and the first offset is used.
//
// Failure to find a free position is not an error.
func (p *PointPlacer) Place(idx *collision.Index, anchor vec.Vec2, text string, style *Style) (PointResult, error) {
	return p.PlaceExcluding(idx, -1, anchor, text, style)
}

// PlaceExcluding works like [PointPlacer.Place], but ignores collisions
// with the footprint with the given id.  This allows the label of an icon
// to touch the icon.
func (p *PointPlacer) PlaceExcluding(idx *collision.Index, exclude int, anchor vec.Vec2, text string, style *Style) (PointResult, error) {
	if text == "" {
		return PointResult{}, nil
	}

	shaped, err := p.Shaper.Shape(text, style.Font)
	if err != nil {
		return PointResult{}, errors.Backend(err, "shaping %q", text)
	}
	m := shaped.Metrics

	for _, offset := range style.offsets() {
		box := textBox(anchor, offset, m, style.VAlignByOffset)
		fp := collision.Box(pad(box, style.Halo.Width))
		if !idx.TestAndInsertExcluding(exclude, fp) {
			continue
		}

		if err := p.draw(box, shaped, style); err != nil {
			return PointResult{}, errors.Backend(err, "drawing %q", text)
		}
		return PointResult{Placed: true, Offset: offset}, nil
	}
	return PointResult{}, nil
}

func (p *PointPlacer) draw(box rect.Rect, shaped *Shaped, style *Style) error {
	run := &GlyphRun{
		Font:   style.Font,
		Glyphs: make([]PlacedGlyph, len(shaped.Glyphs)),
		Color:  style.color(),
		Halo:   style.Halo,
	}
	pen := vec.Vec2{X: box.LLx, Y: box.LLy + shaped.Metrics.Ascent}
	for i, g := range shaped.Glyphs {
		run.Glyphs[i] = PlacedGlyph{ID: g.ID, Origin: pen}
		pen.X += g.Advance
	}
	return p.Painter.DrawGlyphRun(run)
}

// textBox returns the box covered by the text, centered horizontally on
// the anchor.  Since y points down, LLy is the top of the text.
func textBox(anchor vec.Vec2, offset float64, m Metrics, byOffset bool) rect.Rect {
	h := m.Height()
	y := anchor.Y + offset
	var top float64
	switch {
	case byOffset && offset > 0:
		top = y
	case byOffset && offset < 0:
		top = y - h
	default:
		top = y - h/2
	}
	left := anchor.X - m.Width/2
	return rect.Rect{LLx: left, LLy: top, URx: left + m.Width, URy: top + h}
}

func pad(r rect.Rect, d float64) rect.Rect {
	return rect.Rect{LLx: r.LLx - d, LLy: r.LLy - d, URx: r.URx + d, URy: r.URy + d}
}
