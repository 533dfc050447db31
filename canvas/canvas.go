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

package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/maptiles/label"
	"seehuhn.de/go/maptiles/raster"
)

// Canvas is a [Surface] which paints into an RGBA image.
//
// Every paint operation first collects coverage in an alpha mask and then
// composites the mask in a single color. Glyph runs use one mask for all
// halos and one for all glyph bodies, so that overlapping glyphs do not
// darken each other.
//
// A Canvas is meant to be reused for many tiles of the same size. It is not
// safe for concurrent use.
type Canvas struct {
	// Flatness is the curve approximation tolerance in pixels.
	// Zero selects the rasterizer default.
	Flatness float64

	img    *image.RGBA
	mask   *image.Alpha
	dirty  image.Rectangle
	r      *raster.Rasterizer
	glyphs Outliner
	emit   raster.EmitFunc
}

var _ Surface = (*Canvas)(nil)

// New allocates a transparent canvas. Glyph outlines are taken from glyphs.
func New(width, height int, glyphs Outliner) *Canvas {
	bounds := image.Rect(0, 0, width, height)
	c := &Canvas{
		img:    image.NewRGBA(bounds),
		mask:   image.NewAlpha(bounds),
		r:      raster.New(rect.Rect{URx: float64(width), URy: float64(height)}),
		glyphs: glyphs,
	}
	c.emit = c.collect
	return c
}

// Clear fills the whole canvas with bg.
func (c *Canvas) Clear(bg color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

// Image returns the image the canvas paints into.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// ContentType implements [Surface].
func (c *Canvas) ContentType() string {
	return "image/png"
}

// Encode writes the canvas as a PNG image.
func (c *Canvas) Encode(w io.Writer) error {
	return png.Encode(w, c.img)
}

// FillPath implements [Surface].
func (c *Canvas) FillPath(p *path.Data, style FillStyle) error {
	c.prepare()
	c.r.Fill(p, style.Rule, c.emit)
	c.flush(orBlack(style.Color))
	return nil
}

// StrokePath implements [Surface].
func (c *Canvas) StrokePath(p *path.Data, style StrokeStyle) error {
	if style.Width <= 0 {
		return nil
	}
	c.prepare()
	c.r.Width = style.Width
	c.r.Cap = style.Cap
	c.r.Join = style.Join
	c.r.Dash = style.Dash
	c.r.DashPhase = style.DashPhase
	c.r.Stroke(p, c.emit)
	c.flush(orBlack(style.Color))
	return nil
}

// DrawGlyphRun implements [label.Painter]. The halo is the outline of the
// glyphs stroked with twice the halo width and round joins.
func (c *Canvas) DrawGlyphRun(run *label.GlyphRun) error {
	outlines := make([]*path.Data, len(run.Glyphs))
	for i, g := range run.Glyphs {
		p, err := c.glyphs.Outline(run.Font, g.ID)
		if err != nil {
			return fmt.Errorf("outline of glyph %d: %w", g.ID, err)
		}
		outlines[i] = p
	}

	if run.Halo.Width > 0 && run.Halo.Opacity > 0 {
		c.prepare()
		c.r.Width = 2 * run.Halo.Width
		c.r.Join = graphics.LineJoinRound
		c.r.Cap = graphics.LineCapRound
		for i, g := range run.Glyphs {
			c.r.CTM = GlyphMatrix(g)
			c.r.Stroke(outlines[i], c.emit)
		}
		haloColor := run.Halo.Color
		if haloColor == nil {
			haloColor = color.White
		}
		c.flush(WithOpacity(haloColor, run.Halo.Opacity))
	}

	c.prepare()
	for i, g := range run.Glyphs {
		c.r.CTM = GlyphMatrix(g)
		c.r.Fill(outlines[i], raster.NonZero, c.emit)
	}
	c.flush(orBlack(run.Color))
	return nil
}

func (c *Canvas) prepare() {
	c.r.Reset()
	if c.Flatness > 0 {
		c.r.Flatness = c.Flatness
	}
}

// collect merges one row of coverage into the mask.
func (c *Canvas) collect(y, xMin int, coverage []float32) {
	row := c.mask.Pix[y*c.mask.Stride+xMin:]
	for i, v := range coverage {
		if a := uint8(v*255 + 0.5); a > row[i] {
			row[i] = a
		}
	}
	c.dirty = c.dirty.Union(image.Rect(xMin, y, xMin+len(coverage), y+1))
}

// flush composites the mask onto the image and clears it.
func (c *Canvas) flush(col color.Color) {
	if c.dirty.Empty() {
		return
	}
	draw.DrawMask(c.img, c.dirty, image.NewUniform(col), image.Point{}, c.mask, c.dirty.Min, draw.Over)
	for y := c.dirty.Min.Y; y < c.dirty.Max.Y; y++ {
		off := y * c.mask.Stride
		clear(c.mask.Pix[off+c.dirty.Min.X : off+c.dirty.Max.X])
	}
	c.dirty = image.Rectangle{}
}

func orBlack(c color.Color) color.Color {
	if c == nil {
		return color.Black
	}
	return c
}
