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

var lineScenes = []Scene{
	{
		Name:   "river",
		Center: mid14,
		Zoom:   14,
		Layers: map[string][]*geojson.Feature{
			"water_lines": {
				feature(wave(mid14, 2500, 60, 3000, 60), "name", "Dunaj", "type", "river"),
				feature(line(mid14, [2]float64{-300, 400}, [2]float64{0, 200}, [2]float64{250, 380}),
					"name", "Vydrica", "type", "stream"),
			},
		},
		MinLabels: 1,
	},
	{
		// The street is split into two features, which are merged before
		// labelling.
		Name:   "streets",
		Center: mid16,
		Zoom:   16,
		Layers: map[string][]*geojson.Feature{
			"roads": {
				feature(line(mid16, [2]float64{-400, 0}, [2]float64{0, 0}),
					"name", "Obchodná", "type", "residential"),
				feature(line(mid16, [2]float64{0, 0}, [2]float64{400, 10}),
					"name", "Obchodná", "type", "residential"),
				feature(line(mid16, [2]float64{30, -400}, [2]float64{30, 400}),
					"name", "Štúrova", "type", "secondary"),
				feature(line(mid16, [2]float64{-400, -120}, [2]float64{400, -150}),
					"type", "footway"),
			},
		},
		MinLabels: 2,
	},
	{
		Name:   "chairlift",
		Center: mid16,
		Zoom:   16,
		Layers: map[string][]*geojson.Feature{
			"aerialways": {
				feature(line(mid16, [2]float64{-350, -200}, [2]float64{350, 150}),
					"name", "Lanovka Kamzík", "type", "chair_lift"),
			},
		},
		MinLabels: 1,
	},
}
