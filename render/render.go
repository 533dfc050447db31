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

// Package render draws single map tiles.
//
// A [Renderer] reads the features of every visible layer from a
// [source.Source], draws them in the order of the layer table and encodes
// the result as PNG or PDF.  The label layers of a tile share one
// collision index.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb/maptile"

	"seehuhn.de/go/maptiles/canvas"
	"seehuhn.de/go/maptiles/collision"
	"seehuhn.de/go/maptiles/errors"
	"seehuhn.de/go/maptiles/label"
	"seehuhn.de/go/maptiles/layers"
	"seehuhn.de/go/maptiles/offset"
	"seehuhn.de/go/maptiles/proof"
	"seehuhn.de/go/maptiles/project"
	"seehuhn.de/go/maptiles/source"
	"seehuhn.de/go/maptiles/text"
)

// Format selects the output format of a tile.
type Format string

// Supported formats.
const (
	PNG Format = "png"
	PDF Format = "pdf"
)

// ParseFormat converts a file name extension into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case PNG, PDF:
		return Format(s), nil
	}
	return "", errors.New(errors.CodeInvalidInput, "unsupported format %q", s)
}

// Options control how tiles are drawn.
type Options struct {
	// TileSize is the tile width in CSS pixels.
	TileSize float64

	// Buffer is the distance in CSS pixels by which features are loaded
	// beyond the tile edges.
	Buffer float64

	// Flatness is the curve approximation tolerance in device pixels.
	Flatness float64

	// Simplify is the line simplification tolerance in CSS pixels.
	// Zero disables simplification.
	Simplify float64

	// DebugFootprints draws the collision footprints of all labels onto
	// PDF tiles.
	DebugFootprints bool

	// Background is the colour of PNG tiles before drawing.
	Background color.Color

	// Layers is the layer table.  If nil, [layers.All] is used.
	Layers []*layers.Layer
}

// DefaultOptions returns the options used when nothing else is
// configured.
func DefaultOptions() Options {
	return Options{
		TileSize:   256,
		Buffer:     64,
		Flatness:   0.25,
		Simplify:   0.5,
		Background: color.NRGBA{R: 0xf2, G: 0xef, B: 0xe9, A: 0xff},
	}
}

// Request identifies one tile.
type Request struct {
	Tile   maptile.Tile
	Scale  float64
	Format Format
}

func (r Request) String() string {
	s := fmt.Sprintf("%d/%d/%d", r.Tile.Z, r.Tile.X, r.Tile.Y)
	if r.Scale != 1 {
		s += fmt.Sprintf("@%gx", r.Scale)
	}
	return s + "." + string(r.Format)
}

var requestPattern = regexp.MustCompile(`^/?(\d+)/(\d+)/(\d+)(?:@(\d+(?:\.\d+)?)x)?\.([a-z]+)$`)

// ParseRequest parses a tile path of the form z/x/y.png, z/x/y@2x.png or
// z/x/y.pdf.  A leading slash is allowed.  Malformed paths give a
// CodeInvalidInput error, tiles outside the map give CodeNotFound.
func ParseRequest(s string) (Request, error) {
	var req Request

	m := requestPattern.FindStringSubmatch(s)
	if m == nil {
		return req, errors.New(errors.CodeInvalidInput, "malformed tile path %q", s)
	}
	var zxy [3]int
	for i := range zxy {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return req, errors.New(errors.CodeInvalidInput, "malformed tile path %q", s)
		}
		zxy[i] = v
	}
	scale := 1.0
	if m[4] != "" {
		var err error
		scale, err = strconv.ParseFloat(m[4], 64)
		if err != nil {
			return req, errors.New(errors.CodeInvalidInput, "malformed scale %q", m[4])
		}
	}
	format, err := ParseFormat(m[5])
	if err != nil {
		return req, err
	}
	z, x, y := zxy[0], zxy[1], zxy[2]
	if err := errors.ValidateTile(z, x, y, scale); err != nil {
		return req, err
	}

	req.Tile = maptile.New(uint32(x), uint32(y), maptile.Zoom(z))
	req.Scale = scale
	req.Format = format
	return req, nil
}

// Tile is a rendered tile.
type Tile struct {
	Data        []byte
	ContentType string

	Labels  int // number of labels drawn
	Skipped int // number of features left out because of malformed data
	Elapsed time.Duration
}

// Renderer draws tiles.  A Renderer keeps buffers between tiles and is not
// safe for concurrent use; use one Renderer per goroutine.
type Renderer struct {
	src    source.Source
	shaper *text.Shaper
	opts   Options
	logger *log.Logger

	raster    *canvas.Canvas
	offsetter *offset.Offsetter
}

// New returns a renderer which reads features from src and text outlines
// from lib.
func New(src source.Source, lib *text.Library, opts Options, logger *log.Logger) *Renderer {
	if opts.TileSize <= 0 {
		opts.TileSize = 256
	}
	if opts.Layers == nil {
		opts.Layers = layers.All()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{
		src:       src,
		shaper:    lib.NewShaper(),
		opts:      opts,
		logger:    logger,
		offsetter: offset.New(),
	}
}

// Render draws the requested tile.
func (r *Renderer) Render(ctx context.Context, req Request) (*Tile, error) {
	start := time.Now()
	z, x, y := int(req.Tile.Z), int(req.Tile.X), int(req.Tile.Y)
	if err := errors.ValidateTile(z, x, y, req.Scale); err != nil {
		return nil, err
	}

	proj := project.New(req.Tile, r.opts.TileSize, req.Scale)
	proj.Buffer = r.opts.Buffer * req.Scale
	proj.Tolerance = r.opts.Simplify * req.Scale

	var surface canvas.Surface
	var sheet *proof.Surface
	switch req.Format {
	case PNG:
		surface = r.canvas(proj.Pixels())
	case PDF:
		size := r.opts.TileSize * req.Scale
		sheet = proof.New(size, size, r.shaper)
		surface = sheet
	default:
		return nil, errors.New(errors.CodeInvalidInput, "unsupported format %q", req.Format)
	}

	res := &Tile{ContentType: surface.ContentType()}
	idx := collision.NewIndex()
	lc := &layers.Context{
		Zoom:    z,
		Proj:    proj,
		Surface: surface,
		Index:   idx,
		Points:  &label.PointPlacer{Shaper: r.shaper, Painter: surface},
		Paths:   &label.PathPlacer{Shaper: r.shaper, Painter: surface, Offsetter: r.offsetter},
	}

	cache := make(map[string][]*source.Feature)
	for _, l := range r.opts.Layers {
		if !l.Visible(z) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fs, ok := cache[l.Source]
		if !ok {
			var err error
			fs, err = r.src.Features(ctx, l.Source, proj.QueryBound())
			if err != nil {
				return nil, errors.InLayer(l.Name, err)
			}
			cache[l.Source] = fs
		}

		lc.Skip = func(f *source.Feature, err error) {
			res.Skipped++
			r.logger.Debug("skipping feature", "layer", l.Name, "tile", req, "err", err)
		}
		before := lc.Placed
		if err := l.Draw(lc, fs); err != nil {
			return nil, errors.InLayer(l.Name, err)
		}
		r.logger.Debug("layer done", "layer", l.Name, "tile", req,
			"features", len(fs), "labels", lc.Placed-before)
	}

	if sheet != nil && r.opts.DebugFootprints {
		sheet.ShowFootprints(idx.Footprints())
	}

	buf := &bytes.Buffer{}
	if err := surface.Encode(buf); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "encoding %s", req)
	}
	res.Data = buf.Bytes()
	res.Labels = lc.Placed
	res.Elapsed = time.Since(start)

	r.logger.Info("rendered tile", "tile", req, "labels", res.Labels,
		"skipped", res.Skipped, "bytes", len(res.Data), "elapsed", res.Elapsed)
	return res, nil
}

// canvas returns the raster canvas, cleared to the background colour.  The
// canvas is reused as long as the tile size does not change.
func (r *Renderer) canvas(size int) *canvas.Canvas {
	if r.raster == nil || r.raster.Image().Bounds().Dx() != size {
		r.raster = canvas.New(size, size, r.shaper)
		r.raster.Flatness = r.opts.Flatness
	}
	bg := r.opts.Background
	if bg == nil {
		bg = color.Transparent
	}
	r.raster.Clear(bg)
	return r.raster
}
