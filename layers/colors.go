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
)

// hsl converts a colour given by hue (degrees), saturation and lightness
// (percent) into RGB.
func hsl(h, s, l float64) color.NRGBA {
	h = math.Mod(h, 360) / 360
	s /= 100
	l /= 100

	var r, g, b float64
	if s == 0 {
		r, g, b = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		r = hue(p, q, h+1.0/3)
		g = hue(p, q, h)
		b = hue(p, q, h-1.0/3)
	}
	return color.NRGBA{R: to8(r), G: to8(g), B: to8(b), A: 255}
}

func hue(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func to8(x float64) uint8 {
	return uint8(math.Round(max(0, min(1, x)) * 255))
}

var (
	colAreaLabel     = hsl(0, 0, 33)
	colBlack         = hsl(0, 0, 0)
	colBuilding      = hsl(0, 0, 50)
	colLocalityLabel = hsl(0, 0, 40)
	colProtected     = hsl(120, 75, 25)
	colRoad          = hsl(40, 60, 50)
	colSuperroad     = hsl(10, 60, 60)
	colTrack         = hsl(0, 33, 25)
	colWater         = hsl(216, 65, 70)
	colWaterLabel    = hsl(216, 100, 50)
	colWaterHalo     = hsl(216, 30, 100)
	colWhite         = hsl(0, 100, 100)
)
