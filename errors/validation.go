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
	"regexp"
)

// MaxZoom is the largest zoom level accepted for tile requests.
const MaxZoom = 24

// MaxScale is the largest device scale accepted for tile requests.
const MaxScale = 4

var layerNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateLayerName checks that name can be used as a layer name.  Layer
// names are used as file names, so only lower case letters, digits,
// underscores and dashes are allowed.
func ValidateLayerName(name string) error {
	if name == "" {
		return New(CodeInvalidInput, "layer name cannot be empty")
	}
	if len(name) > 64 {
		return New(CodeInvalidInput, "layer name too long (max 64 characters)")
	}
	if !layerNameRegex.MatchString(name) {
		return New(CodeInvalidInput, "invalid layer name %q", name)
	}
	return nil
}

// ValidateTile checks tile coordinates and the device scale of a tile
// request.
func ValidateTile(z, x, y int, scale float64) error {
	if z < 0 || z > MaxZoom {
		return New(CodeInvalidInput, "zoom %d out of range [0, %d]", z, MaxZoom)
	}
	n := 1 << z
	if x < 0 || x >= n || y < 0 || y >= n {
		return New(CodeNotFound, "tile %d/%d/%d does not exist", z, x, y)
	}
	if !(scale >= 1 && scale <= MaxScale) {
		return New(CodeInvalidInput, "scale %g out of range [1, %d]", scale, MaxScale)
	}
	return nil
}
