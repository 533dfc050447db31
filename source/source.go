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

// Package source provides the map features drawn on a tile.
//
// Features are read from GeoJSON files, one file per layer, and kept in
// memory with a spatial index.  Property values are accessed through typed
// accessors, which report malformed features as data errors.
package source

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/maptiles/errors"
)

// A Source returns the features of a map layer.
type Source interface {
	// Features returns the features of the given layer whose bounding
	// box intersects bound.  Bounds are in WGS84 longitude/latitude.
	// An unknown layer has no features.
	Features(ctx context.Context, layer string, bound orb.Bound) ([]*Feature, error)
}

// Feature is a single map feature in WGS84 coordinates.
type Feature struct {
	ID         any
	Geometry   orb.Geometry
	Properties geojson.Properties
}

// FromGeoJSON converts a GeoJSON feature.  The geometry and properties
// are shared with f.
func FromGeoJSON(f *geojson.Feature) *Feature {
	return &Feature{
		ID:         f.ID,
		Geometry:   f.Geometry,
		Properties: f.Properties,
	}
}

func (f *Feature) String() string {
	if f.ID != nil {
		return fmt.Sprintf("feature %v", f.ID)
	}
	return "feature"
}

// Has reports whether the property key is set to a non-null value.
func (f *Feature) Has(key string) bool {
	return f.Properties[key] != nil
}

// Str returns the string property key.  Numbers are converted to their
// shortest decimal form, since tags like protect_class are exported either
// way.
func (f *Feature) Str(key string) (string, error) {
	v, ok := f.Properties[key]
	if !ok || v == nil {
		return "", errors.Data("%s: missing property %q", f, key)
	}
	switch v := v.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	}
	return "", errors.Data("%s: property %q is a %T, not a string", f, key, v)
}

// StrOr returns the string property key, or def if the property is not
// set.  A value of the wrong type is still an error.
func (f *Feature) StrOr(key, def string) (string, error) {
	if !f.Has(key) {
		return def, nil
	}
	return f.Str(key)
}

// Float returns the numeric property key.  Numbers given as strings, as
// some exporters do, are accepted.
func (f *Feature) Float(key string) (float64, error) {
	v, ok := f.Properties[key]
	if !ok || v == nil {
		return 0, errors.Data("%s: missing property %q", f, key)
	}
	var x float64
	switch v := v.(type) {
	case float64:
		x = v
	case int:
		x = float64(v)
	case string:
		var err error
		x, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, errors.Data("%s: property %q: %q is not a number", f, key, v)
		}
	default:
		return 0, errors.Data("%s: property %q is a %T, not a number", f, key, v)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, errors.Data("%s: property %q is not finite", f, key)
	}
	return x, nil
}

// FloatOr returns the numeric property key, or def if the property is not
// set.
func (f *Feature) FloatOr(key string, def float64) (float64, error) {
	if !f.Has(key) {
		return def, nil
	}
	return f.Float(key)
}

// Int returns the integer property key.
func (f *Feature) Int(key string) (int, error) {
	x, err := f.Float(key)
	if err != nil {
		return 0, err
	}
	if x != float64(int(x)) {
		return 0, errors.Data("%s: property %q: %g is not an integer", f, key, x)
	}
	return int(x), nil
}

// Name returns the label text of the feature, from the property key.
// The text is trimmed and converted to Unicode normal form C.  An empty
// name is returned without error; a missing one is a data error.
func (f *Feature) Name(key string) (string, error) {
	s, err := f.Str(key)
	if err != nil {
		return "", err
	}
	return norm.NFC.String(strings.TrimSpace(s)), nil
}
