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

package layers

import (
	"image/color"
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/maptiles/canvas"
	"seehuhn.de/go/maptiles/errors"
	"seehuhn.de/go/maptiles/project"
	"seehuhn.de/go/maptiles/raster"
	"seehuhn.de/go/maptiles/source"
)

// shape returns the clipped outline of a feature in tile pixels, or nil if
// nothing of the feature is visible.
func (c *Context) shape(f *source.Feature) *path.Data {
	g := c.Proj.Geometry(f.Geometry)
	if g == nil {
		return nil
	}
	p := project.Path(g)
	if len(p.Cmds) == 0 {
		return nil
	}
	return p
}

func (c *Context) fill(p *path.Data, col color.Color) error {
	err := c.Surface.FillPath(p, canvas.FillStyle{Color: col, Rule: raster.EvenOdd})
	return errors.Backend(err, "filling")
}

func (c *Context) stroke(p *path.Data, style canvas.StrokeStyle) error {
	style.Width = c.px(style.Width)
	if len(style.Dash) > 0 {
		dash := make([]float64, len(style.Dash))
		for i, d := range style.Dash {
			dash[i] = c.px(d)
		}
		style.Dash = dash
		style.DashPhase = c.px(style.DashPhase)
	}
	return errors.Backend(c.Surface.StrokePath(p, style), "stroking")
}

// fillLayer returns a drawer which fills every feature in a single colour.
func fillLayer(col color.Color) func(c *Context, fs []*source.Feature) error {
	return func(c *Context, fs []*source.Feature) error {
		return c.each(fs, func(f *source.Feature) error {
			if p := c.shape(f); p != nil {
				return c.fill(p, col)
			}
			return nil
		})
	}
}

var waterAreas = &Layer{
	Name:    "water_areas",
	Source:  "water_areas",
	MinZoom: 8,
	draw:    fillLayer(colWater),
}

var buildings = &Layer{
	Name:    "buildings",
	Source:  "buildings",
	MinZoom: 15,
	draw:    fillLayer(colBuilding),
}

// isNationalPark reports whether a protected area is drawn and labelled
// like a national park.
func isNationalPark(f *source.Feature) (bool, error) {
	typ, err := f.Str("type")
	if err != nil {
		return false, err
	}
	class, err := f.StrOr("protect_class", "")
	if err != nil {
		return false, err
	}
	return typ == "national_park" || typ == "protected_area" && class == "2", nil
}

var protectedAreas = &Layer{
	Name:    "protected_areas",
	Source:  "protected_areas",
	MinZoom: 8,
	draw: func(c *Context, fs []*source.Feature) error {
		wb := 2.0
		if c.Zoom > 10 {
			wb += 0.5 * float64(c.Zoom-10)
		}
		return c.each(fs, func(f *source.Feature) error {
			np, err := isNationalPark(f)
			if err != nil {
				return err
			}
			p := c.shape(f)
			if p == nil {
				return nil
			}
			if np {
				return c.stroke(p, canvas.StrokeStyle{
					Color: canvas.WithOpacity(colProtected, 0.66),
					Width: wb * 0.75,
					Join:  graphics.LineJoinRound,
				})
			}
			return c.stroke(p, canvas.StrokeStyle{
				Color: colProtected,
				Width: 0.8,
				Dash:  []float64{4, 2},
			})
		})
	},
}

// waterLineWidth returns the stroke width of a waterway in CSS pixels, or
// 0 if the waterway is not drawn at zoom level z.
func waterLineWidth(typ string, z int) float64 {
	if typ == "river" {
		switch {
		case z <= 8:
			return math.Pow(1.5, float64(z-8))
		case z == 9:
			return 1.5
		default:
			return 2.2
		}
	}
	switch {
	case z < 12:
		return 0
	case z == 12:
		return 1
	default:
		return 1.2
	}
}

var waterLines = &Layer{
	Name:    "water_lines",
	Source:  "water_lines",
	MinZoom: 10,
	draw: func(c *Context, fs []*source.Feature) error {
		return c.each(fs, func(f *source.Feature) error {
			typ, err := f.StrOr("type", "stream")
			if err != nil {
				return err
			}
			w := waterLineWidth(typ, c.Zoom)
			if w == 0 {
				return nil
			}
			p := c.shape(f)
			if p == nil {
				return nil
			}
			return c.stroke(p, canvas.StrokeStyle{
				Color: colWater,
				Width: w,
				Cap:   graphics.LineCapRound,
				Join:  graphics.LineJoinRound,
			})
		})
	},
}

// roadClass describes how a class of roads is drawn.
type roadClass struct {
	rank    int // drawing order, higher on top
	minZoom int
	width   float64
	color   color.Color
	casing  bool
	dash    []float64
}

var roadClasses = map[string]roadClass{
	"motorway":      {rank: 9, minZoom: 8, width: 2.5, color: colSuperroad, casing: true},
	"trunk":         {rank: 8, minZoom: 8, width: 2.5, color: colSuperroad, casing: true},
	"primary":       {rank: 7, minZoom: 8, width: 2.2, color: colRoad, casing: true},
	"secondary":     {rank: 6, minZoom: 9, width: 2, color: colRoad, casing: true},
	"tertiary":      {rank: 5, minZoom: 10, width: 1.8, color: colRoad, casing: true},
	"unclassified":  {rank: 4, minZoom: 12, width: 1.5, color: colWhite, casing: true},
	"residential":   {rank: 4, minZoom: 12, width: 1.5, color: colWhite, casing: true},
	"living_street": {rank: 4, minZoom: 12, width: 1.5, color: colWhite, casing: true},
	"service":       {rank: 3, minZoom: 14, width: 1, color: colWhite, casing: true},
	"track":         {rank: 2, minZoom: 12, width: 1.2, color: colTrack, dash: []float64{6, 2}},
	"path":          {rank: 1, minZoom: 13, width: 1, color: colTrack, dash: []float64{3, 3}},
	"footway":       {rank: 1, minZoom: 14, width: 1, color: colTrack, dash: []float64{1, 2}},
	"cycleway":      {rank: 1, minZoom: 13, width: 1, color: colTrack, dash: []float64{4, 2}},
}

// roadRank returns the drawing rank of a road feature, used to order the
// roads and their names.
func roadRank(f *source.Feature) float64 {
	typ, _ := f.StrOr("type", "")
	return float64(roadClasses[typ].rank)
}

// roadScale widens roads at high zoom levels.
func roadScale(z int) float64 {
	if z <= 14 {
		return 1
	}
	return math.Pow(1.3, float64(z-14))
}

var roads = &Layer{
	Name:    "roads",
	Source:  "roads",
	MinZoom: 8,
	draw: func(c *Context, fs []*source.Feature) error {
		type item struct {
			p     *path.Data
			class roadClass
		}
		var items []item
		err := c.each(fs, func(f *source.Feature) error {
			typ, err := f.Str("type")
			if err != nil {
				return err
			}
			class, ok := roadClasses[typ]
			if !ok || c.Zoom < class.minZoom {
				return nil
			}
			if p := c.shape(f); p != nil {
				items = append(items, item{p, class})
			}
			return nil
		})
		if err != nil {
			return err
		}
		slices.SortStableFunc(items, func(a, b item) int {
			return a.class.rank - b.class.rank
		})

		k := roadScale(c.Zoom)
		for _, it := range items {
			if !it.class.casing {
				continue
			}
			err := c.stroke(it.p, canvas.StrokeStyle{
				Color: colBlack,
				Width: it.class.width*k + 1,
				Cap:   graphics.LineCapRound,
				Join:  graphics.LineJoinRound,
			})
			if err != nil {
				return err
			}
		}
		for _, it := range items {
			style := canvas.StrokeStyle{
				Color: it.class.color,
				Width: it.class.width * k,
				Join:  graphics.LineJoinRound,
				Dash:  it.class.dash,
			}
			if it.class.dash == nil {
				style.Cap = graphics.LineCapRound
			}
			if err := c.stroke(it.p, style); err != nil {
				return err
			}
		}
		return nil
	},
}

var aerialways = &Layer{
	Name:    "aerialways",
	Source:  "aerialways",
	MinZoom: 12,
	draw: func(c *Context, fs []*source.Feature) error {
		return c.each(fs, func(f *source.Feature) error {
			p := c.shape(f)
			if p == nil {
				return nil
			}
			err := c.stroke(p, canvas.StrokeStyle{Color: colBlack, Width: 1})
			if err != nil {
				return err
			}
			return c.stroke(p, canvas.StrokeStyle{
				Color: colBlack,
				Width: 5,
				Dash:  []float64{1, 25},
			})
		})
	},
}
