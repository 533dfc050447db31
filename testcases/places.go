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

package testcases

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
)

// Bratislava, old town.
var center = orb.Point{17.1077, 48.1486}

// Centers of the tiles containing center, per zoom level.  Features are
// placed relative to these, so that they stay inside their tile.
var (
	mid10 = middle(10)
	mid12 = middle(12)
	mid14 = middle(14)
	mid15 = middle(15)
	mid16 = middle(16)
	mid17 = middle(17)
	mid18 = middle(18)
)

func middle(z maptile.Zoom) orb.Point {
	return maptile.At(center, z).Center()
}

var placeScenes = []Scene{
	{
		Name:   "single_city",
		Center: mid10,
		Zoom:   10,
		Layers: map[string][]*geojson.Feature{
			"places": {
				feature(mid10, "name", "Bratislava", "type", "city", "population", 475503.0),
			},
		},
		MinLabels: 1,
	},
	{
		// Many villages on top of each other: at most a few of them fit.
		Name:   "crowded_villages",
		Center: mid12,
		Zoom:   12,
		Layers: map[string][]*geojson.Feature{
			"places": crowd(mid12, 12),
		},
		MinLabels: 1,
	},
	{
		Name:   "localities",
		Center: mid16,
		Zoom:   16,
		Layers: map[string][]*geojson.Feature{
			"places": {
				feature(at(mid16, -60, 40), "name", "Staré Mesto", "type", "borough", "population", 40000.0),
				feature(at(mid16, 80, -50), "name", "Zámocké schody", "type", "locality"),
				feature(at(mid16, -90, -70), "name", "Podhradie", "type", "neighbourhood"),
			},
		},
		MinLabels: 2,
	},
}

// crowd returns n villages within a few metres of c, with decreasing
// population.
func crowd(c orb.Point, n int) []*geojson.Feature {
	names := []string{
		"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot",
		"Golf", "Hotel", "India", "Juliett", "Kilo", "Lima",
	}
	res := make([]*geojson.Feature, n)
	for i := range res {
		p := at(c, float64(i%4)*15, float64(i/4)*10)
		res[i] = feature(p,
			"name", names[i%len(names)],
			"type", "village",
			"population", float64(1000*(n-i)))
	}
	return res
}
