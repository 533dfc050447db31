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

package source

import (
	"context"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// boxPad enlarges the stored feature boxes, so that point features and
// features touching the query bound are found.
const boxPad = 1e-9

// layerIndex holds the features of one layer.
type layerIndex struct {
	features []*Feature
	tree     *rtreego.Rtree
}

type indexed struct {
	f   *Feature
	pos int
	box rtreego.Rect
}

func (e *indexed) Bounds() rtreego.Rect {
	return e.box
}

// newLayerIndex builds the index for the given features.  Features
// without geometry are dropped.
func newLayerIndex(features []*Feature) *layerIndex {
	idx := &layerIndex{}
	var objs []rtreego.Spatial
	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}
		box := toRect(f.Geometry.Bound(), boxPad)
		objs = append(objs, &indexed{f: f, pos: len(idx.features), box: box})
		idx.features = append(idx.features, f)
	}
	idx.tree = rtreego.NewTree(2, 8, 32, objs...)
	return idx
}

// Len returns the number of indexed features.
func (idx *layerIndex) Len() int {
	return len(idx.features)
}

// query returns the features intersecting bound, in file order.
func (idx *layerIndex) query(ctx context.Context, bound orb.Bound) ([]*Feature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hits := idx.tree.SearchIntersect(toRect(bound, 0))
	if len(hits) == 0 {
		return nil, nil
	}

	// SearchIntersect returns the features in tree order.  Restore the
	// file order, which decides label priority within the layer.
	found := make([]bool, len(idx.features))
	for _, h := range hits {
		found[h.(*indexed).pos] = true
	}
	res := make([]*Feature, 0, len(hits))
	for i, ok := range found {
		if ok {
			res = append(res, idx.features[i])
		}
	}
	return res, nil
}

func toRect(b orb.Bound, pad float64) rtreego.Rect {
	r, err := rtreego.NewRectFromPoints(
		rtreego.Point{b.Min[0] - pad, b.Min[1] - pad},
		rtreego.Point{b.Max[0] + pad, b.Max[1] + pad},
	)
	if err != nil {
		// only possible for mismatched dimensions
		panic(err)
	}
	return r
}
