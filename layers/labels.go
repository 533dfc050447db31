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
	"strconv"

	"github.com/paulmach/orb"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/maptiles/canvas"
	"seehuhn.de/go/maptiles/collision"
	"seehuhn.de/go/maptiles/label"
	"seehuhn.de/go/maptiles/project"
	"seehuhn.de/go/maptiles/source"
	"seehuhn.de/go/maptiles/text"
)

// minLabelArea is the smallest area, in square CSS pixels, of a polygon
// which gets a label below zoom level 17.
const minLabelArea = 34

// baseStyle returns the label style shared by most layers.  All lengths
// are in CSS pixels.
func baseStyle() label.Style {
	return label.Style{
		Font:  label.Font{Face: text.Regular, Size: 12},
		Color: colBlack,
		Halo:  label.DefaultHalo,
	}
}

// scaled returns a copy of s with all lengths converted to device pixels.
func (c *Context) scaled(s label.Style) *label.Style {
	k := c.Proj.Scale
	s.Font.Size *= k
	s.Font.LetterSpacing *= k
	s.Halo.Width *= k
	s.Gap *= k
	s.PathOffset *= k
	if len(s.Offsets) > 0 {
		offsets := make([]float64, len(s.Offsets))
		for i, o := range s.Offsets {
			offsets[i] = o * k
		}
		s.Offsets = offsets
	}
	return &s
}

// pointLabel places a label at an anchor point in tile pixels.  Anchors
// outside the buffered tile are ignored.
func (c *Context) pointLabel(anchor orb.Point, name string, style *label.Style) error {
	if name == "" || !c.inside(anchor) {
		return nil
	}
	res, err := c.Points.Place(c.Index, toVec(anchor), name, style)
	if err != nil {
		return err
	}
	if res.Placed {
		c.Placed++
	}
	return nil
}

// pathLabels places a label along every given line.
func (c *Context) pathLabels(lines [][]vec.Vec2, name string, style *label.Style) error {
	if name == "" {
		return nil
	}
	for _, l := range lines {
		res, err := c.Paths.Place(c.Index, l, name, style)
		if err != nil {
			return err
		}
		c.Placed += res.Placed()
	}
	return nil
}

// centroidLabels returns a drawer which labels every feature accepted by
// sel at its centroid.  Polygons smaller than minLabelArea are skipped
// below zoom level 17, if minArea is set.
func centroidLabels(sel func(f *source.Feature) (bool, error), minArea bool, style func(c *Context) label.Style, abbrev []replacement) func(c *Context, fs []*source.Feature) error {
	return func(c *Context, fs []*source.Feature) error {
		st := c.scaled(style(c))
		return c.each(fs, func(f *source.Feature) error {
			if sel != nil {
				ok, err := sel(f)
				if err != nil || !ok {
					return err
				}
			}
			name, err := f.Name("name")
			if err != nil {
				return err
			}
			p, area, err := c.anchor(f)
			if err != nil {
				return err
			}
			if minArea && c.Zoom < 17 && area < minLabelArea {
				return nil
			}
			return c.pointLabel(p, abbreviate(name, abbrev), st)
		})
	}
}

// namedLines collects the visible lines of features accepted by sel,
// merged per name.  Groups are returned in the order of their first
// feature.
func (c *Context) namedLines(fs []*source.Feature, sel func(f *source.Feature) (bool, error), rings bool) ([]string, map[string][][]vec.Vec2, error) {
	var names []string
	lines := make(map[string][][]vec.Vec2)
	err := c.each(fs, func(f *source.Feature) error {
		if sel != nil {
			ok, err := sel(f)
			if err != nil || !ok {
				return err
			}
		}
		name, err := f.Name("name")
		if err != nil || name == "" {
			return err
		}
		g := c.Proj.Geometry(f.Geometry)
		if g == nil {
			return nil
		}
		ls := project.Lines(g, rings)
		if len(ls) == 0 {
			return nil
		}
		if _, seen := lines[name]; !seen {
			names = append(names, name)
		}
		lines[name] = append(lines[name], ls...)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	for name, ls := range lines {
		lines[name] = mergeLines(ls)
	}
	return names, lines, nil
}

// placeStyle describes the labels of one type of settlement.
type placeStyle struct {
	minZoom   int
	size      float64 // relative to the zoom dependent base size
	uppercase bool
	halo      float64
}

var placeStyles = map[string]placeStyle{
	"city":              {6, 1.2, true, 2},
	"town":              {9, 0.8, true, 2},
	"village":           {11, 0.55, true, 1.5},
	"hamlet":            {12, 0.5, false, 1.5},
	"allotments":        {12, 0.5, false, 1.5},
	"suburb":            {12, 0.5, false, 1.5},
	"isolated_dwelling": {14, 0.45, false, 1.5},
	"quarter":           {14, 0.45, false, 1.5},
	"neighbourhood":     {15, 0.4, false, 1.5},
	"farm":              {16, 0.35, false, 1.5},
	"borough":           {16, 0.35, false, 1.5},
	"square":            {16, 0.35, false, 1.5},
}

// placeTypeVisible reports whether places of the given type are labelled
// at zoom level z.
func placeTypeVisible(typ string, z int) bool {
	switch {
	case z < 8:
		return false
	case z == 8:
		return typ == "city"
	case z <= 10:
		return typ == "city" || typ == "town"
	case z == 11:
		return typ == "city" || typ == "town" || typ == "village"
	default:
		return typ != "locality"
	}
}

func population(f *source.Feature) float64 {
	p, _ := f.FloatOr("population", 0)
	return p
}

func drawPlaceNames(c *Context, fs []*source.Feature) error {
	base := 2.5 * math.Pow(1.2, float64(c.Zoom))
	opacity := 1.0
	if c.Zoom > 14 {
		opacity = 0.5
	}
	return c.each(fs, func(f *source.Feature) error {
		typ, err := f.Str("type")
		if err != nil {
			return err
		}
		ps, ok := placeStyles[typ]
		if !ok || c.Zoom < ps.minZoom || !placeTypeVisible(typ, c.Zoom) {
			return nil
		}
		name, err := f.Name("name")
		if err != nil {
			return err
		}
		if ps.uppercase {
			// a Caser must not be shared between goroutines
			name = cases.Upper(language.Und).String(name)
		}
		p, _, err := c.anchor(f)
		if err != nil {
			return err
		}

		st := baseStyle()
		st.Font = label.Font{Face: text.Bold, Size: ps.size * base, LetterSpacing: 1}
		st.Color = canvas.WithOpacity(colBlack, opacity)
		st.Halo.Width = ps.halo
		st.Halo.Opacity = 0.9
		return c.pointLabel(p, name, c.scaled(st))
	})
}

var placeNames = &Layer{
	Name:     "place_names",
	Source:   "places",
	MinZoom:  8,
	MaxZoom:  14,
	Priority: population,
	draw:     drawPlaceNames,
}

// placeNamesNoCollision draws the settlement names at high zoom levels,
// over everything else.
var placeNamesNoCollision = &Layer{
	Name:        "place_names",
	Source:      "places",
	MinZoom:     15,
	NoCollision: true,
	Priority:    population,
	draw:        drawPlaceNames,
}

func areaRank(f *source.Feature) float64 {
	a, _ := f.FloatOr("area", 0)
	return a
}

var nationalParkNames = &Layer{
	Name:     "national_park_names",
	Source:   "protected_areas",
	MinZoom:  8,
	Priority: areaRank,
	draw: centroidLabels(isNationalPark, false, func(c *Context) label.Style {
		st := baseStyle()
		st.Font = label.Font{Face: text.Italic, Size: 9 + math.Pow(2, float64(c.Zoom-7))}
		st.Color = colProtected
		return st
	}, protectedAbbrev),
}

func isNamedWaterArea(f *source.Feature) (bool, error) {
	typ, err := f.StrOr("type", "")
	if err != nil {
		return false, err
	}
	water, err := f.StrOr("water", "")
	if err != nil {
		return false, err
	}
	if typ == "riverbank" {
		return false, nil
	}
	switch water {
	case "river", "stream", "canal", "ditch":
		return false, nil
	}
	return true, nil
}

var waterAreaNames = &Layer{
	Name:    "water_area_names",
	Source:  "water_areas",
	MinZoom: 12,
	draw: centroidLabels(isNamedWaterArea, true, func(c *Context) label.Style {
		st := baseStyle()
		st.Font.Face = text.Italic
		st.Color = colWaterLabel
		st.Halo.Color = colWaterHalo
		return st
	}, waterAreaAbbrev),
}

var buildingNames = &Layer{
	Name:    "building_names",
	Source:  "buildings",
	MinZoom: 17,
	draw: centroidLabels(nil, false, func(c *Context) label.Style {
		st := baseStyle()
		st.Offsets = label.DefaultOffsets
		return st
	}, nil),
}

var protectedAreaNames = &Layer{
	Name:     "protected_area_names",
	Source:   "protected_areas",
	MinZoom:  10,
	Priority: areaRank,
	draw: func(c *Context, fs []*source.Feature) error {
		// nature reserves are labelled at their centroid
		points := centroidLabels(func(f *source.Feature) (bool, error) {
			np, err := isNationalPark(f)
			return !np, err
		}, false, func(c *Context) label.Style {
			st := baseStyle()
			st.Font.Face = text.Italic
			st.Color = colProtected
			return st
		}, protectedAbbrev)
		if err := points(c, fs); err != nil {
			return err
		}

		// national parks along the inside of their boundary
		st := baseStyle()
		st.Font.Face = text.Italic
		st.Color = canvas.WithOpacity(colProtected, 0.66)
		st.PathOffset = -14
		st.Alignment = label.AlignCenter
		st.Gap = 600
		style := c.scaled(st)

		names, lines, err := c.namedLines(fs, isNationalPark, true)
		if err != nil {
			return err
		}
		for _, name := range names {
			err := c.pathLabels(lines[name], abbreviate(name, protectedAbbrev), style)
			if err != nil {
				return err
			}
		}
		return nil
	},
}

var landcoverNames = &Layer{
	Name:     "landcover_names",
	Source:   "landcover",
	MinZoom:  12,
	Priority: areaRank,
	draw: centroidLabels(nil, true, func(c *Context) label.Style {
		st := baseStyle()
		st.Font.Face = text.Italic
		st.Color = colAreaLabel
		return st
	}, nil),
}

var localityNames = &Layer{
	Name:     "locality_names",
	Source:   "places",
	MinZoom:  15,
	Priority: population,
	draw: centroidLabels(func(f *source.Feature) (bool, error) {
		typ, err := f.Str("type")
		if err != nil {
			return false, err
		}
		return typ == "locality" || typ == "city_block" || typ == "plot", nil
	}, false, func(c *Context) label.Style {
		st := baseStyle()
		st.Font.Size = 11
		st.Color = colLocalityLabel
		st.Halo.Opacity = 0.2
		return st
	}, nil),
}

var housenumbers = &Layer{
	Name:    "housenumbers",
	Source:  "housenumbers",
	MinZoom: 18,
	draw: func(c *Context, fs []*source.Feature) error {
		st := baseStyle()
		st.Font.Size = 8
		st.Color = colAreaLabel
		st.Halo.Opacity = 0.5
		st.Offsets = []float64{0, 3, -3}
		style := c.scaled(st)
		return c.each(fs, func(f *source.Feature) error {
			num, err := f.Name("housenumber")
			if err != nil {
				return err
			}
			p, _, err := c.anchor(f)
			if err != nil {
				return err
			}
			return c.pointLabel(p, num, style)
		})
	},
}

var highwayNames = &Layer{
	Name:     "highway_names",
	Source:   "roads",
	MinZoom:  15,
	Priority: roadRank,
	draw: func(c *Context, fs []*source.Feature) error {
		st := baseStyle()
		st.Color = colTrack
		st.Alignment = label.AlignCenter
		st.Gap = 200
		style := c.scaled(st)

		names, lines, err := c.namedLines(fs, nil, false)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := c.pathLabels(lines[name], name, style); err != nil {
				return err
			}
		}
		return nil
	},
}

var aerialwayNames = &Layer{
	Name:    "aerialway_names",
	Source:  "aerialways",
	MinZoom: 16,
	draw: func(c *Context, fs []*source.Feature) error {
		st := baseStyle()
		st.PathOffset = 10
		st.Alignment = label.AlignCenter
		st.Gap = 200
		style := c.scaled(st)

		names, lines, err := c.namedLines(fs, nil, false)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := c.pathLabels(lines[name], name, style); err != nil {
				return err
			}
		}
		return nil
	},
}

func isRiver(f *source.Feature) bool {
	typ, _ := f.StrOr("type", "")
	return typ == "river"
}

var waterLineNames = &Layer{
	Name:    "water_line_names",
	Source:  "water_lines",
	MinZoom: 12,
	Priority: func(f *source.Feature) float64 {
		if isRiver(f) {
			return 1
		}
		return 0
	},
	draw: func(c *Context, fs []*source.Feature) error {
		sel := func(f *source.Feature) (bool, error) {
			return c.Zoom >= 14 || isRiver(f), nil
		}
		names, lines, err := c.namedLines(fs, sel, false)
		if err != nil {
			return err
		}

		rivers := make(map[string]bool)
		for _, f := range fs {
			if isRiver(f) {
				if name, err := f.Name("name"); err == nil {
					rivers[name] = true
				}
			}
		}

		st := baseStyle()
		st.Font = label.Font{Face: text.Italic, Size: 12, LetterSpacing: 2}
		st.Color = colWaterLabel
		st.Halo.Color = colWaterHalo
		st.Alignment = label.AlignCenter
		for _, name := range names {
			st.Gap = 300
			if rivers[name] {
				st.Gap = 400
			}
			err := c.pathLabels(lines[name], abbreviate(name, waterLineAbbrev), c.scaled(st))
			if err != nil {
				return err
			}
		}
		return nil
	},
}

// poi describes how one type of point feature is drawn.
type poi struct {
	minZoom     int // icon
	minTextZoom int // label
	natural     bool
	withEle     bool
	icon        color.Color
	text        color.Color
	abbrev      []replacement
}

// noText marks point features which are drawn without a label.
const noText = 99

var pois = map[string]poi{
	"peak":                {minZoom: 14, minTextZoom: 14, natural: true, withEle: true, icon: colTrack},
	"saddle":              {minZoom: 14, minTextZoom: 15, natural: true, withEle: true, icon: colTrack},
	"arch":                {minZoom: 14, minTextZoom: 15, natural: true, withEle: true, icon: colTrack},
	"castle":              {minZoom: 14, minTextZoom: 14, icon: colBlack, abbrev: replacements(`^[Hh]rad\s+`, "")},
	"cave_entrance":       {minZoom: 14, minTextZoom: 15, natural: true, withEle: true, icon: colBlack},
	"spring":              {minZoom: 14, minTextZoom: 15, natural: true, withEle: true, icon: colWaterLabel, text: colWaterLabel, abbrev: springAbbrev},
	"waterfall":           {minZoom: 14, minTextZoom: 15, natural: true, icon: colWaterLabel, text: colWaterLabel},
	"drinking_water":      {minZoom: 14, minTextZoom: 15, icon: colWaterLabel, text: colWaterLabel},
	"water_point":         {minZoom: 14, minTextZoom: 15, icon: colWaterLabel, text: colWaterLabel},
	"water_well":          {minZoom: 14, minTextZoom: 15, icon: colWaterLabel, text: colWaterLabel},
	"viewpoint":           {minZoom: 14, minTextZoom: 15, natural: true, withEle: true, icon: colBlack},
	"monument":            {minZoom: 14, minTextZoom: 15, withEle: true, icon: colBlack},
	"mine":                {minZoom: 14, minTextZoom: 15, withEle: true, icon: colBlack},
	"adit":                {minZoom: 14, minTextZoom: 15, withEle: true, icon: colBlack},
	"alpine_hut":          {minZoom: 14, minTextZoom: 15, withEle: true, icon: colTrack},
	"wilderness_hut":      {minZoom: 14, minTextZoom: 15, withEle: true, icon: colTrack},
	"camp_site":           {minZoom: 14, minTextZoom: 15, withEle: true, icon: colTrack},
	"tower_observation":   {minZoom: 14, minTextZoom: 15, withEle: true, icon: colBlack},
	"archaeological_site": {minZoom: 14, minTextZoom: 15, withEle: true, icon: colBlack},
	"attraction":          {minZoom: 14, minTextZoom: 15, icon: colBlack},
	"hospital":            {minZoom: 14, minTextZoom: 15, icon: colSuperroad, abbrev: replacements(`^[Nn]emocnica(\s|$)`, "Nem.${1}")},
	"townhall":            {minZoom: 14, minTextZoom: noText, icon: colAreaLabel},
	"station":             {minZoom: 14, minTextZoom: 15, icon: colBlack},
	"halt":                {minZoom: 14, minTextZoom: 15, icon: colBlack},
	"museum":              {minZoom: 14, minTextZoom: 15, icon: colAreaLabel},
	"shelter":             {minZoom: 14, minTextZoom: 15, icon: colTrack},
	"lean_to":             {minZoom: 15, minTextZoom: 16, withEle: true, icon: colTrack},
	"basic_hut":           {minZoom: 15, minTextZoom: 16, withEle: true, icon: colTrack},
	"ruins":               {minZoom: 15, minTextZoom: 16, icon: colBlack},
	"church":              {minZoom: 15, minTextZoom: 16, icon: colBlack, abbrev: churchAbbrev},
	"cathedral":           {minZoom: 15, minTextZoom: 16, icon: colBlack, abbrev: churchAbbrev},
	"chapel":              {minZoom: 15, minTextZoom: 17, icon: colBlack, abbrev: chapelAbbrev},
	"school":              {minZoom: 15, minTextZoom: 16, icon: colAreaLabel, abbrev: schoolAbbrev},
	"college":             {minZoom: 15, minTextZoom: 16, icon: colAreaLabel, abbrev: collegeAbbrev},
	"university":          {minZoom: 15, minTextZoom: 16, icon: colAreaLabel, abbrev: universityAbbrev},
	"hotel":               {minZoom: 15, minTextZoom: 16, icon: colAreaLabel, abbrev: replacements(`^[Hh]otel\s+`, "")},
	"fire_station":        {minZoom: 15, minTextZoom: 16, icon: colSuperroad, abbrev: replacements(`^([Hh]asičská zbrojnica|[Pp]ožiarna stanica)\s*`, "")},
	"police":              {minZoom: 15, minTextZoom: 16, icon: colAreaLabel, abbrev: replacements(`^[Pp]olícia\s*`, "")},
	"post_office":         {minZoom: 15, minTextZoom: 16, icon: colAreaLabel},
	"cinema":              {minZoom: 15, minTextZoom: 16, icon: colAreaLabel, abbrev: replacements(`^[Kk]ino\s+`, "")},
	"theatre":             {minZoom: 15, minTextZoom: 16, icon: colAreaLabel, abbrev: replacements(`^[Dd]ivadlo\s+`, "")},
	"memorial":            {minZoom: 15, minTextZoom: 16, icon: colBlack, abbrev: replacements(`^[Pp]amätník\s+`, "")},
	"fuel":                {minZoom: 15, minTextZoom: 16, icon: colAreaLabel},
	"dam":                 {minZoom: 15, minTextZoom: 16, icon: colWaterLabel, text: colWaterLabel},
	"pharmacy":            {minZoom: 16, minTextZoom: 17, icon: colSuperroad, abbrev: replacements(`^[Ll]ekáreň\s+`, "")},
	"cafe":                {minZoom: 16, minTextZoom: 17, icon: colAreaLabel, abbrev: replacements(`^[Kk]aviareň\s+`, "")},
	"pub":                 {minZoom: 16, minTextZoom: 17, icon: colAreaLabel},
	"bar":                 {minZoom: 16, minTextZoom: 17, icon: colAreaLabel},
	"fast_food":           {minZoom: 16, minTextZoom: 17, icon: colAreaLabel},
	"supermarket":         {minZoom: 16, minTextZoom: 17, icon: colAreaLabel},
	"convenience":         {minZoom: 16, minTextZoom: 17, icon: colAreaLabel},
	"bus_stop":            {minZoom: 16, minTextZoom: 17, icon: colBlack},
	"picnic_site":         {minZoom: 16, minTextZoom: 17, icon: colTrack},
	"fountain":            {minZoom: 16, minTextZoom: 17, icon: colWaterLabel, text: colWaterLabel},
	"rock":                {minZoom: 16, minTextZoom: 17, natural: true, icon: colTrack},
	"restaurant":          {minZoom: 17, minTextZoom: 18, icon: colAreaLabel, abbrev: replacements(`^[Rr]eštaurácia\s+`, "")},
	"wayside_shrine":      {minZoom: 17, minTextZoom: 18, icon: colBlack},
	"toilets":             {minZoom: 17, minTextZoom: noText, icon: colAreaLabel},
	"parking":             {minZoom: 17, minTextZoom: 19, icon: colAreaLabel, text: colAreaLabel},
}

// iconRadius is the radius of a feature icon in CSS pixels.
const iconRadius = 3

// iconOffsets returns the vertical label offsets tried for an icon with
// half height d: above and below the icon, moving away step by step.
func iconOffsets(d float64) []float64 {
	return []float64{-d - 3, d - 3, -d - 5, d - 1, -d - 7, d + 1}
}

var features = &Layer{
	Name:    "features",
	Source:  "features",
	MinZoom: 14,
	draw: func(c *Context, fs []*source.Feature) error {
		type pending struct {
			anchor orb.Point
			name   string
			icon   int
			def    poi
		}
		var labels []pending

		// icons first, so that no label can displace an icon
		r := c.px(iconRadius)
		err := c.each(fs, func(f *source.Feature) error {
			typ, err := f.Str("type")
			if err != nil {
				return err
			}
			def, ok := pois[typ]
			if !ok || c.Zoom < def.minZoom {
				return nil
			}
			p, _, err := c.anchor(f)
			if err != nil || !c.inside(p) {
				return err
			}

			// decode the whole row before the icon claims its space
			access, err := f.StrOr("access", "")
			if err != nil {
				return err
			}
			withText := c.Zoom >= def.minTextZoom && f.Has("name")
			var name string
			if withText {
				name, err = f.Name("name")
				if err != nil {
					return err
				}
				name = abbreviate(name, def.abbrev)
				if def.withEle && f.Has("ele") {
					ele, err := f.Float("ele")
					if err != nil {
						return err
					}
					name += " " + formatEle(ele)
				}
			}

			id := c.Index.Len()
			box := collision.Box(squareAround(p, r))
			if !c.Index.TestAndInsert(box) {
				return nil
			}
			col := def.icon
			if typ != "cave_entrance" && (access == "private" || access == "no") {
				col = canvas.WithOpacity(col, 0.33)
			}
			if err := c.fill(circle(toVec(p), r), col); err != nil {
				return err
			}

			if !withText || name == "" {
				return nil
			}
			labels = append(labels, pending{p, name, id, def})
			return nil
		})
		if err != nil {
			return err
		}

		for _, l := range labels {
			st := baseStyle()
			if l.def.natural {
				st.Font.Face = text.Italic
			}
			if l.def.text != nil {
				st.Color = l.def.text
			}
			st.VAlignByOffset = true
			st.Offsets = iconOffsets(iconRadius)
			res, err := c.Points.PlaceExcluding(c.Index, l.icon, toVec(l.anchor), l.name, c.scaled(st))
			if err != nil {
				return err
			}
			if res.Placed {
				c.Placed++
			}
		}
		return nil
	},
}

func formatEle(ele float64) string {
	return strconv.Itoa(int(math.Round(ele))) + " m"
}
