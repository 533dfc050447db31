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
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"seehuhn.de/go/maptiles/errors"
)

// Ext is the file name extension of layer files.
const Ext = ".geojson"

// Dir is a Source which reads the layers from GeoJSON files in a
// directory.  The features of layer "roads" are read from the file
// "roads.geojson", the first time the layer is used.  Missing files
// are treated as empty layers.
//
// A Dir is safe for concurrent use.
type Dir struct {
	dir string

	mu     sync.Mutex
	layers map[string]*dirLayer
}

type dirLayer struct {
	once sync.Once
	idx  *layerIndex
	err  error
}

// NewDir returns a Source reading from the given directory.
func NewDir(dir string) (*Dir, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.CodeSource, err, "opening source directory")
	}
	if !fi.IsDir() {
		return nil, errors.New(errors.CodeSource, "%s is not a directory", dir)
	}
	return &Dir{
		dir:    dir,
		layers: make(map[string]*dirLayer),
	}, nil
}

// Features implements the [Source] interface.
func (d *Dir) Features(ctx context.Context, layer string, bound orb.Bound) ([]*Feature, error) {
	if err := errors.ValidateLayerName(layer); err != nil {
		return nil, err
	}

	d.mu.Lock()
	l, ok := d.layers[layer]
	if !ok {
		l = &dirLayer{}
		d.layers[layer] = l
	}
	d.mu.Unlock()

	l.once.Do(func() {
		l.idx, l.err = d.load(layer)
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.idx.query(ctx, bound)
}

func (d *Dir) load(layer string) (*layerIndex, error) {
	data, err := os.ReadFile(filepath.Join(d.dir, layer+Ext))
	if os.IsNotExist(err) {
		return newLayerIndex(nil), nil
	} else if err != nil {
		return nil, errors.Wrap(errors.CodeSource, err, "reading layer %q", layer)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(errors.CodeSource, err, "decoding layer %q", layer)
	}
	features := make([]*Feature, len(fc.Features))
	for i, f := range fc.Features {
		features[i] = FromGeoJSON(f)
	}
	return newLayerIndex(features), nil
}

// Layers lists the layer files present in the directory.
func (d *Dir) Layers() ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, errors.Wrap(errors.CodeSource, err, "listing layers")
	}
	var res []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), Ext)
		if !ok || e.IsDir() || errors.ValidateLayerName(name) != nil {
			continue
		}
		res = append(res, name)
	}
	slices.Sort(res)
	return res, nil
}

// Memory is a Source holding features in memory.  It is mostly useful
// for tests.  A Memory is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	layers map[string]*layerIndex
}

// NewMemory returns an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{layers: make(map[string]*layerIndex)}
}

// Set replaces the features of a layer.
func (m *Memory) Set(layer string, features ...*Feature) {
	idx := newLayerIndex(features)
	m.mu.Lock()
	m.layers[layer] = idx
	m.mu.Unlock()
}

// SetCollection replaces the features of a layer by the features of a
// GeoJSON feature collection.
func (m *Memory) SetCollection(layer string, fc *geojson.FeatureCollection) {
	features := make([]*Feature, len(fc.Features))
	for i, f := range fc.Features {
		features[i] = FromGeoJSON(f)
	}
	m.Set(layer, features...)
}

// Features implements the [Source] interface.
func (m *Memory) Features(ctx context.Context, layer string, bound orb.Bound) ([]*Feature, error) {
	m.mu.RLock()
	idx := m.layers[layer]
	m.mu.RUnlock()
	if idx == nil {
		return nil, nil
	}
	return idx.query(ctx, bound)
}
