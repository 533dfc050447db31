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

// Package layers defines the map layers of a tile and how each layer is
// drawn.
//
// The layers are drawn in the order of [All]: geometry first, then the
// labels.  All label layers of a tile share one collision index, so a
// label placed by an earlier layer keeps later labels away.
//
// Features are read from the source layers listed below.  Property names
// follow the OpenStreetMap tags they are derived from.
//
//	water_areas      polygons   name, type, water
//	water_lines      lines      name, type (river, stream, canal, ditch)
//	protected_areas  polygons   name, type, protect_class
//	buildings        polygons   name, type
//	landcover        polygons   name, type
//	roads            lines      name, type
//	aerialways       lines      name, type
//	places           points     name, type, population
//	features         points     name, type, ele, access
//	housenumbers     points     housenumber
package layers

import (
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"seehuhn.de/go/maptiles/canvas"
	"seehuhn.de/go/maptiles/collision"
	"seehuhn.de/go/maptiles/errors"
	"seehuhn.de/go/maptiles/label"
	"seehuhn.de/go/maptiles/project"
	"seehuhn.de/go/maptiles/source"
)

// Context holds everything a layer needs to draw its features onto one
// tile.
type Context struct {
	Zoom    int
	Proj    *project.Tile
	Surface canvas.Surface

	// Index is the collision index shared by the label layers.
	Index *collision.Index

	Points *label.PointPlacer
	Paths  *label.PathPlacer

	// Skip is called for every feature which is left out because its data
	// is malformed.  It may be nil.
	Skip func(f *source.Feature, err error)

	// Placed counts the labels drawn so far.
	Placed int
}

// Layer is one entry of the layer table.
type Layer struct {
	// Name identifies the layer in logs and error messages.
	Name string

	// Source is the name of the source layer the features are read from.
	Source string

	// MinZoom and MaxZoom give the range of zoom levels where the layer
	// is drawn.  MaxZoom 0 means no upper limit.
	MinZoom, MaxZoom int

	// NoCollision draws the labels of the layer without checking or
	// updating the collision index.
	NoCollision bool

	// Priority orders the features before drawing, highest first.
	// Features with equal priority keep the source order.  If nil, the
	// source order is used.
	Priority func(f *source.Feature) float64

	draw func(c *Context, fs []*source.Feature) error
}

// Visible reports whether the layer is drawn at zoom level z.
func (l *Layer) Visible(z int) bool {
	return z >= l.MinZoom && (l.MaxZoom == 0 || z <= l.MaxZoom)
}

// Draw draws the given features onto the tile.  Features with malformed
// data are passed to c.Skip and left out; any other error stops the
// layer.
func (l *Layer) Draw(c *Context, fs []*source.Feature) error {
	if l.Priority != nil {
		fs = slices.Clone(fs)
		prio := make(map[*source.Feature]float64, len(fs))
		for _, f := range fs {
			prio[f] = l.Priority(f)
		}
		slices.SortStableFunc(fs, func(a, b *source.Feature) int {
			pa, pb := prio[a], prio[b]
			switch {
			case pa > pb:
				return -1
			case pa < pb:
				return 1
			default:
				return 0
			}
		})
	}

	idx := c.Index
	if l.NoCollision {
		c.Index = nil
		defer func() { c.Index = idx }()
	}
	return l.draw(c, fs)
}

// each calls fn for every feature, skipping features with malformed data.
func (c *Context) each(fs []*source.Feature, fn func(f *source.Feature) error) error {
	for _, f := range fs {
		err := fn(f)
		if errors.Is(err, errors.CodeData) {
			if c.Skip != nil {
				c.Skip(f, err)
			}
			continue
		} else if err != nil {
			return err
		}
	}
	return nil
}

// px converts CSS pixels to device pixels.
func (c *Context) px(v float64) float64 {
	return v * c.Proj.Scale
}

// anchor returns the label position of a feature in tile pixels: the
// point itself, or the centroid of a line or polygon.  The centroid is
// computed from the unclipped geometry, so that neighbouring tiles agree
// on the label position.  The second return value is the area in square
// CSS pixels.
func (c *Context) anchor(f *source.Feature) (orb.Point, float64, error) {
	g := c.Proj.Project(f.Geometry)
	if g == nil {
		return orb.Point{}, 0, errors.Data("%s: no geometry", f)
	}
	if mp, ok := g.(orb.MultiPoint); ok && len(mp) > 0 {
		g = mp[0]
	}
	p, area := planar.CentroidArea(g)
	if math.IsNaN(p[0]) || math.IsNaN(p[1]) {
		return orb.Point{}, 0, errors.Data("%s: degenerate geometry", f)
	}
	s := c.Proj.Scale
	return p, math.Abs(area) / (s * s), nil
}

// inside reports whether p is within the buffered tile.
func (c *Context) inside(p orb.Point) bool {
	return c.Proj.PixelBound().Contains(p)
}

// All returns the layer table, in drawing order.
func All() []*Layer {
	return []*Layer{
		waterAreas,
		protectedAreas,
		buildings,
		waterLines,
		roads,
		aerialways,
		placeNames,
		nationalParkNames,
		features,
		waterAreaNames,
		buildingNames,
		protectedAreaNames,
		landcoverNames,
		localityNames,
		housenumbers,
		highwayNames,
		aerialwayNames,
		waterLineNames,
		placeNamesNoCollision,
	}
}

// Sources returns the names of the source layers used by the given layers,
// without duplicates.
func Sources(ls []*Layer) []string {
	var res []string
	for _, l := range ls {
		if !slices.Contains(res, l.Source) {
			res = append(res, l.Source)
		}
	}
	return res
}
