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

// Command genpdf renders the test scenes as PDF proof sheets, with the
// collision footprints of all labels drawn in, and converts them to PNG
// previews using Ghostscript.
// Run from the module root directory.
package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"seehuhn.de/go/maptiles/render"
	"seehuhn.de/go/maptiles/testcases"
	"seehuhn.de/go/maptiles/text"
)

const refDir = "testdata/proof"

func main() {
	if err := os.MkdirAll(refDir, 0o755); err != nil {
		panic(err)
	}
	lib, err := text.GoFonts()
	if err != nil {
		panic(err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})

	opts := render.DefaultOptions()
	opts.DebugFootprints = true

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			name := category + "_" + sc.Name
			pdfPath := filepath.Join(refDir, name+".pdf")
			pngPath := filepath.Join(refDir, name+".png")

			r := render.New(sc.Source(), lib, opts, logger)
			req := render.Request{Tile: sc.Tile(), Scale: 2, Format: render.PDF}
			tile, err := r.Render(context.Background(), req)
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			if err := os.WriteFile(pdfPath, tile.Data, 0o644); err != nil {
				panic(err)
			}
			if err := renderPNG(pdfPath, pngPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			fmt.Printf("%-32s %3d labels\n", name, tile.Labels)
		}
	}
}

func renderPNG(pdfPath, pngPath string) error {
	// -sDEVICE=pnggray: the proof sheets are grayscale
	// -r72: 72 DPI (1 point = 1 pixel)
	// -dGraphicsAlphaBits=4 -dTextAlphaBits=4: anti-aliasing
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-dTextAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
