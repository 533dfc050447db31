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
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"math"
	"testing"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/maptiles/label"
	"seehuhn.de/go/maptiles/raster"
)

// boxGlyphs returns every glyph as a 5x8 box standing on the baseline.
type boxGlyphs struct {
	fail bool
}

func (b boxGlyphs) Outline(font label.Font, gid uint16) (*path.Data, error) {
	if b.fail {
		return nil, errors.New("no such glyph")
	}
	p := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: -8}).
		LineTo(vec.Vec2{X: 5, Y: -8}).
		LineTo(vec.Vec2{X: 5, Y: 0}).
		LineTo(vec.Vec2{X: 0, Y: 0}).
		Close()
	return p, nil
}

var blue = color.NRGBA{B: 255, A: 255}

func rgba(c *Canvas, x, y int) color.RGBA {
	return c.Image().RGBAAt(x, y)
}

func near(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d >= -tol && d <= tol
}

func TestFillPath(t *testing.T) {
	c := New(20, 20, boxGlyphs{})
	c.Clear(color.White)
	p := (&path.Data{}).
		MoveTo(vec.Vec2{X: 5, Y: 5}).
		LineTo(vec.Vec2{X: 15, Y: 5}).
		LineTo(vec.Vec2{X: 15, Y: 15}).
		LineTo(vec.Vec2{X: 5, Y: 15}).
		Close()
	if err := c.FillPath(p, FillStyle{Color: color.NRGBA{R: 255, A: 255}, Rule: raster.NonZero}); err != nil {
		t.Fatal(err)
	}

	if got := rgba(c, 10, 10); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel (10,10): expected red, got %v", got)
	}
	if got := rgba(c, 2, 2); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("pixel (2,2): expected white, got %v", got)
	}
	for i, a := range c.mask.Pix {
		if a != 0 {
			t.Fatalf("mask byte %d not cleared", i)
		}
	}
}

func TestStrokePath(t *testing.T) {
	c := New(20, 20, boxGlyphs{})
	c.Clear(color.White)
	p := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 10}).
		LineTo(vec.Vec2{X: 20, Y: 10})
	style := StrokeStyle{
		Color: color.Black,
		Width: 4,
		Cap:   graphics.LineCapButt,
		Join:  graphics.LineJoinRound,
		Dash:  []float64{5, 5},
	}
	if err := c.StrokePath(p, style); err != nil {
		t.Fatal(err)
	}

	if got := rgba(c, 2, 9); got != (color.RGBA{A: 255}) {
		t.Errorf("pixel (2,9): expected black, got %v", got)
	}
	if got := rgba(c, 7, 9); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("pixel (7,9): expected white, got %v", got)
	}
	if got := rgba(c, 2, 14); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("pixel (2,14): expected white, got %v", got)
	}
}

func TestGlyphRunHalo(t *testing.T) {
	c := New(40, 40, boxGlyphs{})
	c.Clear(blue)
	run := &label.GlyphRun{
		Glyphs: []label.PlacedGlyph{{ID: 1, Origin: vec.Vec2{X: 10, Y: 20}}},
		Color:  color.Black,
		Halo:   label.Halo{Color: color.White, Opacity: 0.75, Width: 1.5},
	}
	if err := c.DrawGlyphRun(run); err != nil {
		t.Fatal(err)
	}

	// inside the glyph
	if got := rgba(c, 12, 15); got != (color.RGBA{A: 255}) {
		t.Errorf("pixel (12,15): expected black, got %v", got)
	}
	// covered by the halo only
	halo := rgba(c, 15, 15)
	if !near(halo.R, 191, 6) || !near(halo.G, 191, 6) || halo.B < 250 {
		t.Errorf("pixel (15,15): expected halo color, got %v", halo)
	}
	// outside the halo
	if got := rgba(c, 18, 15); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel (18,15): expected background, got %v", got)
	}
}

func TestGlyphRunRotated(t *testing.T) {
	c := New(40, 40, boxGlyphs{})
	c.Clear(color.White)
	run := &label.GlyphRun{
		Glyphs: []label.PlacedGlyph{{ID: 1, Origin: vec.Vec2{X: 20, Y: 10}, Angle: math.Pi / 2}},
		Color:  color.Black,
	}
	if err := c.DrawGlyphRun(run); err != nil {
		t.Fatal(err)
	}

	// The baseline runs downwards from (20,10); the glyph body lies to the
	// right of it, in x range 20..28.
	if got := rgba(c, 23, 12); got != (color.RGBA{A: 255}) {
		t.Errorf("pixel (23,12): expected black, got %v", got)
	}
	if got := rgba(c, 17, 12); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("pixel (17,12): expected white, got %v", got)
	}
}

func TestGlyphRunOutlineError(t *testing.T) {
	c := New(10, 10, boxGlyphs{fail: true})
	run := &label.GlyphRun{Glyphs: []label.PlacedGlyph{{ID: 3}}}
	if err := c.DrawGlyphRun(run); err == nil {
		t.Error("expected an error for a missing outline")
	}
}

func TestEncode(t *testing.T) {
	c := New(32, 16, boxGlyphs{})
	c.Clear(color.White)
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Errorf("expected a 32x16 image, got %v", b)
	}
	if c.ContentType() != "image/png" {
		t.Errorf("unexpected content type %q", c.ContentType())
	}
}

func TestWithOpacity(t *testing.T) {
	got := WithOpacity(color.White, 0.5)
	if got.R != 255 || !near(got.A, 128, 1) {
		t.Errorf("expected half transparent white, got %v", got)
	}
}
