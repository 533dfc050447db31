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

package proof

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maptiles/canvas"
	"seehuhn.de/go/maptiles/collision"
	"seehuhn.de/go/maptiles/label"
	"seehuhn.de/go/maptiles/raster"
)

type boxGlyphs struct{}

func (boxGlyphs) Outline(font label.Font, gid uint16) (*path.Data, error) {
	p := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: -8}).
		LineTo(vec.Vec2{X: 5, Y: -8}).
		LineTo(vec.Vec2{X: 5, Y: 0}).
		Close()
	return p, nil
}

func sheet(t *testing.T) *Surface {
	t.Helper()
	s := New(256, 256, boxGlyphs{})
	road := (&path.Data{}).
		MoveTo(vec.Vec2{X: 10, Y: 200}).
		LineTo(vec.Vec2{X: 240, Y: 30})
	lake := (&path.Data{}).
		MoveTo(vec.Vec2{X: 20, Y: 20}).
		LineTo(vec.Vec2{X: 80, Y: 20}).
		LineTo(vec.Vec2{X: 50, Y: 70}).
		Close()
	if err := s.FillPath(lake, canvas.FillStyle{Color: color.NRGBA{R: 170, G: 211, B: 223, A: 255}, Rule: raster.NonZero}); err != nil {
		t.Fatal(err)
	}
	if err := s.StrokePath(road, canvas.StrokeStyle{Color: color.Black, Width: 3, Dash: []float64{6, 2}}); err != nil {
		t.Fatal(err)
	}
	run := &label.GlyphRun{
		Glyphs: []label.PlacedGlyph{
			{ID: 1, Origin: vec.Vec2{X: 100, Y: 100}},
			{ID: 2, Origin: vec.Vec2{X: 106, Y: 100}},
		},
		Color: color.Black,
		Halo:  label.DefaultHalo,
	}
	if err := s.DrawGlyphRun(run); err != nil {
		t.Fatal(err)
	}
	s.ShowFootprints([]collision.Footprint{{Center: vec.Vec2{X: 105, Y: 96}, HalfWidth: 6, HalfHeight: 5}})
	return s
}

func TestDisplayList(t *testing.T) {
	s := sheet(t)
	if len(s.items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(s.items))
	}
	halo := s.items[2]
	if halo.fill || halo.stroke.Width != 3 {
		t.Errorf("expected a halo stroke of width 3, got %+v", halo.stroke)
	}
	if halo.gray != 1 {
		t.Errorf("expected a white halo, got gray %.2f", halo.gray)
	}
	body := s.items[3]
	if !body.fill || body.gray != 0 {
		t.Errorf("expected a black glyph fill, got %+v", body)
	}
	if got := len(body.p.Cmds); got != 8 {
		t.Errorf("expected 8 path commands for two glyphs, got %d", got)
	}
	if q := body.p.Coords[3]; q != (vec.Vec2{X: 106, Y: 92}) {
		t.Errorf("second glyph starts at %v", q)
	}
}

func TestSave(t *testing.T) {
	s := sheet(t)
	name := filepath.Join(t.TempDir(), "tile.pdf")
	if err := s.Save(name); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header")
	}

	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("encoded output does not start with a PDF header")
	}
}

func TestEmptyPathsIgnored(t *testing.T) {
	s := New(10, 10, boxGlyphs{})
	if err := s.FillPath(&path.Data{}, canvas.FillStyle{}); err != nil {
		t.Fatal(err)
	}
	if err := s.StrokePath(&path.Data{}, canvas.StrokeStyle{Width: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.DrawGlyphRun(&label.GlyphRun{}); err != nil {
		t.Fatal(err)
	}
	if len(s.items) != 0 {
		t.Errorf("expected no items, got %d", len(s.items))
	}
}
