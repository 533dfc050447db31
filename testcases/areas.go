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

var areaScenes = []Scene{
	{
		Name:   "national_park",
		Center: mid10,
		Zoom:   10,
		Layers: map[string][]*geojson.Feature{
			"protected_areas": {
				feature(box(mid10, -15000, -10000, 15000, 10000),
					"name", "Národný park Malé Karpaty", "type", "national_park", "area", 6.0e8),
				feature(box(mid10, 2000, 2000, 6000, 5000),
					"name", "Sitina", "type", "nature_reserve", "protect_class", "4"),
			},
		},
		MinLabels: 1,
	},
	{
		Name:   "lake",
		Center: mid14,
		Zoom:   14,
		Layers: map[string][]*geojson.Feature{
			"water_areas": {
				feature(box(mid14, -300, -200, 300, 200), "name", "Kuchajda", "type", "water"),
				feature(box(mid14, 400, 300, 410, 305), "name", "Tiny Pond", "type", "water"),
			},
		},
		MinLabels: 1,
	},
	{
		Name:   "buildings",
		Center: mid18,
		Zoom:   18,
		Layers: map[string][]*geojson.Feature{
			"buildings": {
				feature(box(mid18, -40, -20, 0, 20), "name", "Primaciálny palác", "type", "civic"),
				feature(box(mid18, 10, -20, 40, 20), "type", "house"),
			},
			"housenumbers": {
				feature(at(mid18, 25, 0), "housenumber", "12"),
				feature(at(mid18, 25, 30), "housenumber", "14a"),
			},
		},
		MinLabels: 2,
	},
}
