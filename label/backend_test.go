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
	"fmt"
	"unicode/utf8"
)

// testShaper is a Shaper with fixed glyph sizes: "E" is 10 pixels wide,
// all other characters 5 pixels.  Ascent and descent are 8 and 2 pixels.
type testShaper struct {
	fail bool
}

func (s *testShaper) advance(r rune) float64 {
	if r == 'E' {
		return 10
	}
	return 5
}

func (s *testShaper) Measure(text string, font Font) (Metrics, error) {
	shaped, err := s.Shape(text, font)
	if err != nil {
		return Metrics{}, err
	}
	return shaped.Metrics, nil
}

func (s *testShaper) Shape(text string, font Font) (*Shaped, error) {
	if s.fail {
		return nil, fmt.Errorf("font %q not available", font.Face)
	}
	res := &Shaped{
		Metrics: Metrics{Ascent: 8, Descent: 2},
	}
	n := utf8.RuneCountInString(text)
	i := 0
	for _, r := range text {
		adv := s.advance(r)
		if i < n-1 {
			adv += font.LetterSpacing
		}
		res.Glyphs = append(res.Glyphs, Glyph{ID: uint16(r), Text: string(r), Advance: adv})
		res.Metrics.Width += adv
		i++
	}
	return res, nil
}

// testPainter records all glyph runs.
type testPainter struct {
	runs []*GlyphRun
	fail bool
}

func (p *testPainter) DrawGlyphRun(run *GlyphRun) error {
	if p.fail {
		return fmt.Errorf("surface closed")
	}
	p.runs = append(p.runs, run)
	return nil
}
