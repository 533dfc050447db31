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

// Package proof implements a tile surface which writes a PDF proof sheet.
//
// A proof sheet shows the same geometry and labels as the raster tile, as
// vector graphics in shades of gray. It can also show the collision
// footprints of all placed labels, which is useful when tuning label
// styles.
package proof

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/maptiles/canvas"
	"seehuhn.de/go/maptiles/collision"
	"seehuhn.de/go/maptiles/label"
	"seehuhn.de/go/maptiles/raster"
)

// Surface records drawing operations and writes them as a one-page PDF.
type Surface struct {
	Width, Height float64

	glyphs     canvas.Outliner
	items      []item
	footprints []collision.Footprint
}

var _ canvas.Surface = (*Surface)(nil)

type item struct {
	p      *path.Data
	gray   float64
	fill   bool
	rule   raster.FillRule
	stroke canvas.StrokeStyle
}

// New returns an empty proof sheet of the given size in tile pixels. One
// pixel becomes one PDF point.
func New(width, height float64, glyphs canvas.Outliner) *Surface {
	return &Surface{Width: width, Height: height, glyphs: glyphs}
}

// FillPath implements [canvas.Surface].
func (s *Surface) FillPath(p *path.Data, style canvas.FillStyle) error {
	if len(p.Cmds) == 0 {
		return nil
	}
	s.items = append(s.items, item{p: p, gray: gray(style.Color, 1), fill: true, rule: style.Rule})
	return nil
}

// StrokePath implements [canvas.Surface].
func (s *Surface) StrokePath(p *path.Data, style canvas.StrokeStyle) error {
	if len(p.Cmds) == 0 || style.Width <= 0 {
		return nil
	}
	s.items = append(s.items, item{p: p, gray: gray(style.Color, 1), stroke: style})
	return nil
}

// DrawGlyphRun implements [label.Painter]. The glyph outlines are placed
// into the page as paths. PDF transparency is not used: the halo is
// blended with white paper instead.
func (s *Surface) DrawGlyphRun(run *label.GlyphRun) error {
	body := &path.Data{}
	for _, g := range run.Glyphs {
		p, err := s.glyphs.Outline(run.Font, g.ID)
		if err != nil {
			return fmt.Errorf("outline of glyph %d: %w", g.ID, err)
		}
		appendTransformed(body, p, canvas.GlyphMatrix(g))
	}
	if len(body.Cmds) == 0 {
		return nil
	}

	if h := run.Halo; h.Width > 0 && h.Opacity > 0 {
		c := h.Color
		if c == nil {
			c = color.White
		}
		g := 1 - h.Opacity*(1-gray(c, 1))
		s.items = append(s.items, item{
			p:    body,
			gray: g,
			stroke: canvas.StrokeStyle{
				Width: 2 * h.Width,
				Join:  graphics.LineJoinRound,
				Cap:   graphics.LineCapRound,
			},
		})
	}
	s.items = append(s.items, item{p: body, gray: gray(run.Color, 0), fill: true})
	return nil
}

// ShowFootprints adds the outlines of the given footprints on top of the
// page.
func (s *Surface) ShowFootprints(fps []collision.Footprint) {
	s.footprints = append(s.footprints, fps...)
}

// ContentType implements [canvas.Surface].
func (s *Surface) ContentType() string {
	return "application/pdf"
}

// Save writes the proof sheet to a file.
func (s *Surface) Save(fileName string) error {
	paper := &pdf.Rectangle{URx: s.Width, URy: s.Height}
	page, err := document.CreateSinglePage(fileName, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(pdfcolor.DeviceGray(1))
	page.Rectangle(0, 0, s.Width, s.Height)
	page.Fill()

	// tile pixels have y pointing down
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, s.Height})

	dashed := false
	for _, it := range s.items {
		if it.fill {
			page.SetFillColor(pdfcolor.DeviceGray(it.gray))
			drawPath(page, it.p)
			if it.rule == raster.EvenOdd {
				page.FillEvenOdd()
			} else {
				page.Fill()
			}
			continue
		}

		st := it.stroke
		page.SetStrokeColor(pdfcolor.DeviceGray(it.gray))
		page.SetLineWidth(st.Width)
		page.SetLineCap(st.Cap)
		page.SetLineJoin(st.Join)
		switch {
		case len(st.Dash) > 0:
			page.SetLineDash(st.Dash, st.DashPhase)
			dashed = true
		case dashed:
			page.SetLineDash(nil, 0)
			dashed = false
		}
		drawPath(page, it.p)
		page.Stroke()
	}

	if len(s.footprints) > 0 {
		if dashed {
			page.SetLineDash(nil, 0)
		}
		page.SetStrokeColor(pdfcolor.DeviceGray(0.5))
		page.SetLineWidth(0.25)
		for _, f := range s.footprints {
			c := f.Corners()
			page.MoveTo(c[0].X, c[0].Y)
			for _, q := range c[1:] {
				page.LineTo(q.X, q.Y)
			}
			page.ClosePath()
		}
		page.Stroke()
	}

	return page.Close()
}

// Encode writes the proof sheet to w.
func (s *Surface) Encode(w io.Writer) error {
	tmp, err := os.CreateTemp("", "proof-*.pdf")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer os.Remove(name)
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := s.Save(name); err != nil {
		return err
	}
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// pathBuilder is the part of the PDF content stream writer used for paths.
type pathBuilder interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CurveTo(x1, y1, x2, y2, x3, y3 float64)
	ClosePath()
}

func drawPath(page pathBuilder, p *path.Data) {
	for cmd, pts := range p.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			page.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			page.ClosePath()
		}
	}
}

// appendTransformed appends the image of p under m to dst.
func appendTransformed(dst, p *path.Data, m matrix.Matrix) {
	dst.Cmds = append(dst.Cmds, p.Cmds...)
	for _, q := range p.Coords {
		dst.Coords = append(dst.Coords, vec.Vec2{
			X: m[0]*q.X + m[2]*q.Y + m[4],
			Y: m[1]*q.X + m[3]*q.Y + m[5],
		})
	}
}

// gray returns the luminance of c in the range 0 (black) to 1 (white).
func gray(c color.Color, def float64) float64 {
	if c == nil {
		return def
	}
	return float64(color.GrayModel.Convert(c).(color.Gray).Y) / 255
}
