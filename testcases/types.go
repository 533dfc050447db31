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

// Package testcases provides map scenes shared by the tests of several
// packages, and by the export and genpdf tools.
//
// A scene is a small set of source layers around one point, together with
// the tile which shows them and lower bounds for the number of labels drawn.
package testcases

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"

	"seehuhn.de/go/maptiles/source"
)

// Scene defines a single rendering test.
type Scene struct {
	Name   string    // lowercase a-z and _ only
	Center orb.Point // longitude, latitude of the tile center
	Zoom   maptile.Zoom

	// Layers maps source layer names to their features.
	Layers map[string][]*geojson.Feature

	MinLabels  int // the tile has at least this many labels
	MinSkipped int // at least this many features have malformed data
}

// Tile returns the tile containing the scene center.
func (s *Scene) Tile() maptile.Tile {
	return maptile.At(s.Center, s.Zoom)
}

// Source returns an in-memory source holding the layers of the scene.
func (s *Scene) Source() *source.Memory {
	src := source.NewMemory()
	for name, fs := range s.Layers {
		fc := geojson.NewFeatureCollection()
		fc.Features = fs
		src.SetCollection(name, fc)
	}
	return src
}

// Collection returns the features of one layer as a GeoJSON feature
// collection.
func (s *Scene) Collection(layer string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Features = s.Layers[layer]
	return fc
}

// Metres per degree of latitude, and of longitude at the equator.
const (
	mPerDegLat = 110_540
	mPerDegLon = 111_320
)

// at returns the point east and north metres away from c.
func at(c orb.Point, east, north float64) orb.Point {
	lat := c.Lat() + north/mPerDegLat
	lon := c.Lon() + east/(mPerDegLon*math.Cos(c.Lat()*math.Pi/180))
	return orb.Point{lon, lat}
}

// line returns a line string through the points at the given offsets in
// metres from c.
func line(c orb.Point, offsets ...[2]float64) orb.LineString {
	ls := make(orb.LineString, len(offsets))
	for i, o := range offsets {
		ls[i] = at(c, o[0], o[1])
	}
	return ls
}

// box returns a closed rectangular polygon with corners at the given
// offsets in metres from c.
func box(c orb.Point, west, south, east, north float64) orb.Polygon {
	return orb.Polygon{orb.Ring(line(c,
		[2]float64{west, south}, [2]float64{east, south},
		[2]float64{east, north}, [2]float64{west, north},
		[2]float64{west, south}))}
}

// wave returns a line along the x-axis through c, from -half to +half
// metres, with a sinusoidal north-south displacement.
func wave(c orb.Point, half, amplitude, wavelength float64, n int) orb.LineString {
	ls := make(orb.LineString, n+1)
	for i := range ls {
		x := -half + 2*half*float64(i)/float64(n)
		ls[i] = at(c, x, amplitude*math.Sin(2*math.Pi*x/wavelength))
	}
	return ls
}

// feature creates a GeoJSON feature with properties given as key/value
// pairs.
func feature(g orb.Geometry, kv ...any) *geojson.Feature {
	f := geojson.NewFeature(g)
	for i := 0; i+1 < len(kv); i += 2 {
		f.Properties[kv[i].(string)] = kv[i+1]
	}
	return f
}
