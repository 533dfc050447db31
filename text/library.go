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

// Package text shapes label text with OpenType fonts.
//
// A [Library] holds parsed fonts and can be shared between goroutines.
// Each goroutine creates its own [Shaper] from the library.
package text

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// Face names of the built-in fonts.
const (
	Regular    = "regular"
	Italic     = "italic"
	Bold       = "bold"
	BoldItalic = "bolditalic"
)

// Library maps face names to fonts.
type Library struct {
	faces map[string]*sfnt.Font
}

// GoFonts returns a library containing the Go fonts, under the names
// [Regular], [Italic], [Bold] and [BoldItalic].
func GoFonts() (*Library, error) {
	lib := &Library{faces: make(map[string]*sfnt.Font)}
	builtin := []struct {
		name string
		data []byte
	}{
		{Regular, goregular.TTF},
		{Italic, goitalic.TTF},
		{Bold, gobold.TTF},
		{BoldItalic, gobolditalic.TTF},
	}
	for _, b := range builtin {
		if err := lib.Add(b.name, b.data); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// LoadDir returns a library containing the Go fonts, together with all
// .ttf and .otf files from dir.  The face name of a font file is the file
// name without extension, in lower case.  Fonts from dir replace built-in
// fonts of the same name.
func LoadDir(dir string) (*Library, error) {
	lib, err := GoFonts()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return lib, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading font directory: %w", err)
	}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		name := strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		if err := lib.Add(name, data); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// Add parses an OpenType font and adds it under the given face name.
func (lib *Library) Add(name string, data []byte) error {
	f, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("font %q: %w", name, err)
	}
	lib.faces[name] = f
	return nil
}

// Faces returns the number of fonts in the library.
func (lib *Library) Faces() int {
	return len(lib.faces)
}

func (lib *Library) face(name string) (*sfnt.Font, error) {
	if name == "" {
		name = Regular
	}
	f, ok := lib.faces[name]
	if !ok {
		return nil, fmt.Errorf("unknown font face %q", name)
	}
	return f, nil
}
