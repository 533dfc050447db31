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

// Command export writes the test scenes as GeoJSON source directories,
// one directory per scene, for use with "maptiles render -s".
// Run from the module root directory.
package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/maptiles/source"
	"seehuhn.de/go/maptiles/testcases"
)

const outDir = "testdata/scenes"

func main() {
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			name := category + "_" + sc.Name
			if err := export(filepath.Join(outDir, name), &sc); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
		}
	}
}

func export(dir string, sc *testcases.Scene) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, layer := range slices.Sorted(maps.Keys(sc.Layers)) {
		data, err := json.MarshalIndent(sc.Collection(layer), "", "  ")
		if err != nil {
			return err
		}
		err = os.WriteFile(filepath.Join(dir, layer+source.Ext), data, 0o644)
		if err != nil {
			return err
		}
	}

	// The tile to render, in the form accepted by "maptiles render".
	tile := sc.Tile()
	ref := fmt.Sprintf("%d/%d/%d.png\n", tile.Z, tile.X, tile.Y)
	return os.WriteFile(filepath.Join(dir, "TILE"), []byte(ref), 0o644)
}
