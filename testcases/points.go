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

import "github.com/paulmach/orb/geojson"

var pointScenes = []Scene{
	{
		Name:   "peaks",
		Center: mid15,
		Zoom:   15,
		Layers: map[string][]*geojson.Feature{
			"features": {
				feature(mid15, "name", "Kamzík", "type", "peak", "ele", 439.0),
				feature(at(mid15, 200, -150), "name", "Studnička", "type", "spring"),
				feature(at(mid15, -250, 100), "name", "Vyhliadka", "type", "viewpoint", "ele", "420"),
				feature(at(mid15, -100, -250), "name", "Jaskyňa", "type", "cave_entrance", "access", "private"),
			},
		},
		MinLabels: 1,
	},
	{
		Name:   "city_centre",
		Center: mid17,
		Zoom:   17,
		Layers: map[string][]*geojson.Feature{
			"features": {
				feature(mid17, "name", "Kostol svätého Martina", "type", "church"),
				feature(at(mid17, 60, 20), "name", "Hotel Carlton", "type", "hotel"),
				feature(at(mid17, -50, -40), "name", "Lekáreň Salvator", "type", "pharmacy"),
			},
			"places": {
				feature(at(mid17, 0, 80), "name", "Bratislava", "type", "city", "population", 475503.0),
			},
		},
		MinLabels: 2,
	},
	{
		Name:   "amenities",
		Center: mid17,
		Zoom:   17,
		Layers: map[string][]*geojson.Feature{
			"features": {
				feature(at(mid17, -80, 60), "name", "Univerzitná nemocnica", "type", "hospital"),
				feature(at(mid17, 70, 50), "name", "Kino Lumière", "type", "cinema"),
				feature(at(mid17, -60, -60), "name", "Kaviareň Mayer", "type", "cafe"),
				feature(at(mid17, 50, -70), "name", "Pošta 1", "type", "post_office"),
				feature(at(mid17, 0, 0), "name", "Stará radnica", "type", "townhall"),
				feature(at(mid17, 60, 0), "type", "toilets"),
			},
		},
		MinLabels: 2,
	},
}

// malformedScenes contain features with broken data next to good ones.
// The broken features are skipped and the good ones are still drawn.
var malformedScenes = []Scene{
	{
		Name:   "bad_properties",
		Center: mid14,
		Zoom:   14,
		Layers: map[string][]*geojson.Feature{
			"places": {
				feature(at(mid14, -200, 0), "name", "Typeless"),
				feature(at(mid14, 0, 0), "name", true, "type", "city"),
				feature(at(mid14, 200, 0), "name", "Petržalka", "type", "town", "population", 100000.0),
			},
			"features": {
				feature(at(mid14, 0, 200), "name", "Nameless Peak", "type", "peak", "ele", "high"),
			},
		},
		MinLabels:  1,
		MinSkipped: 2,
	},
}
