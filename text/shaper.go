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

package text

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maptiles/label"
)

// Shaper implements [label.Shaper] for the fonts of a library.
// A Shaper must not be used concurrently.
type Shaper struct {
	lib *Library
	buf sfnt.Buffer

	outlines map[outlineKey]*path.Data
}

type outlineKey struct {
	face string
	size float64
	gid  uint16
}

// NewShaper returns a new shaper for the fonts in lib.
func (lib *Library) NewShaper() *Shaper {
	return &Shaper{
		lib:      lib,
		outlines: make(map[outlineKey]*path.Data),
	}
}

func ppem(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

func fromFixed(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

// Measure implements [label.Shaper].
func (s *Shaper) Measure(text string, f label.Font) (label.Metrics, error) {
	shaped, err := s.Shape(text, f)
	if err != nil {
		return label.Metrics{}, err
	}
	return shaped.Metrics, nil
}

// Shape implements [label.Shaper].  Glyphs are taken one per rune, with
// kerning applied between neighbouring glyphs.
func (s *Shaper) Shape(text string, f label.Font) (*label.Shaped, error) {
	sf, err := s.lib.face(f.Face)
	if err != nil {
		return nil, err
	}
	size := ppem(f.Size)

	m, err := sf.Metrics(&s.buf, size, font.HintingNone)
	if err != nil {
		return nil, err
	}
	res := &label.Shaped{
		Metrics: label.Metrics{
			Ascent:  fromFixed(m.Ascent),
			Descent: fromFixed(m.Descent),
		},
	}

	var prev sfnt.GlyphIndex
	for i, r := range []rune(text) {
		gid, err := sf.GlyphIndex(&s.buf, r)
		if err != nil {
			return nil, err
		}
		adv, err := sf.GlyphAdvance(&s.buf, gid, size, font.HintingNone)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			// Fonts without kerning information report an error here.
			if k, err := sf.Kern(&s.buf, prev, gid, size, font.HintingNone); err == nil {
				res.Glyphs[i-1].Advance += fromFixed(k)
			}
			res.Glyphs[i-1].Advance += f.LetterSpacing
		}
		res.Glyphs = append(res.Glyphs, label.Glyph{
			ID:      uint16(gid),
			Text:    string(r),
			Advance: fromFixed(adv),
		})
		prev = gid
	}

	for _, g := range res.Glyphs {
		res.Metrics.Width += g.Advance
	}
	return res, nil
}

// Outline returns the outline of a glyph, with the origin at the left end
// of the baseline and y pointing down.  The returned path must not be
// modified.
func (s *Shaper) Outline(f label.Font, gid uint16) (*path.Data, error) {
	key := outlineKey{face: f.Face, size: f.Size, gid: gid}
	if p, ok := s.outlines[key]; ok {
		return p, nil
	}

	sf, err := s.lib.face(f.Face)
	if err != nil {
		return nil, err
	}
	segs, err := sf.LoadGlyph(&s.buf, sfnt.GlyphIndex(gid), ppem(f.Size), nil)
	if err != nil {
		return nil, err
	}

	p := &path.Data{}
	open := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				p.Close()
			}
			p.MoveTo(toVec(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			p.LineTo(toVec(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			p.QuadTo(toVec(seg.Args[0]), toVec(seg.Args[1]))
		case sfnt.SegmentOpCubeTo:
			p.CubeTo(toVec(seg.Args[0]), toVec(seg.Args[1]), toVec(seg.Args[2]))
		}
	}
	if open {
		p.Close()
	}

	s.outlines[key] = p
	return p, nil
}

func toVec(p fixed.Point26_6) vec.Vec2 {
	return vec.Vec2{X: fromFixed(p.X), Y: fromFixed(p.Y)}
}
