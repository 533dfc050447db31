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

package errors

import (
	"math"
	"testing"
)

func TestValidateLayerName(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"roads", true},
		{"water_area_names", true},
		{"level-2", true},
		{"", false},
		{"../etc/passwd", false},
		{"Roads", false},
		{"_hidden", false},
		{"a/b", false},
	}
	for _, c := range cases {
		err := ValidateLayerName(c.name)
		if (err == nil) != c.ok {
			t.Errorf("%q: expected ok=%t, got %v", c.name, c.ok, err)
		}
		if err != nil && !Is(err, CodeInvalidInput) {
			t.Errorf("%q: expected an input error, got %v", c.name, err)
		}
	}
}

func TestValidateTile(t *testing.T) {
	cases := []struct {
		z, x, y int
		scale   float64
		code    Code
	}{
		{0, 0, 0, 1, ""},
		{14, 8529, 5975, 2, ""},
		{-1, 0, 0, 1, CodeInvalidInput},
		{25, 0, 0, 1, CodeInvalidInput},
		{2, 4, 0, 1, CodeNotFound},
		{2, 0, -1, 1, CodeNotFound},
		{2, 1, 1, 0.5, CodeInvalidInput},
		{2, 1, 1, math.NaN(), CodeInvalidInput},
	}
	for i, c := range cases {
		err := ValidateTile(c.z, c.x, c.y, c.scale)
		if got := GetCode(err); got != c.code {
			t.Errorf("%d: expected code %q, got %q (%v)", i, c.code, got, err)
		}
	}
}
