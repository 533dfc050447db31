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
	"regexp"
	"strings"
)

// replacement abbreviates part of a name.
type replacement struct {
	re   *regexp.Regexp
	with string
}

// replacements compiles pairs of patterns and replacement texts.
// Note that \b in Go regular expressions only recognises ASCII word
// characters, so patterns must not rely on it next to accented letters.
func replacements(pairs ...string) []replacement {
	res := make([]replacement, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		res = append(res, replacement{
			re:   regexp.MustCompile(pairs[i]),
			with: pairs[i+1],
		})
	}
	return res
}

// abbreviate applies the replacements to s, in order.
func abbreviate(s string, rs []replacement) string {
	for _, r := range rs {
		s = r.re.ReplaceAllString(s, r.with)
	}
	return strings.TrimSpace(s)
}

var (
	waterAreaAbbrev = replacements(
		`[Vv]odná [Nn]ádrž`, "v. n.",
	)
	waterLineAbbrev = replacements(
		`\s[Pp]otok$`, " p.",
		`^[Pp]otok\s+`, "",
	)
	protectedAbbrev = replacements(
		`[Oo]chranné [Pp]ásmo`, "OP",
		`[Nn]árodn(ého|ý) [Pp]arku?\b`, "NP",
	)
	churchAbbrev = replacements(
		`^[Kk]ostol\s+`, "",
		`(^|\s)([Ss]vät\pL*|Sv\.)`, "${1}sv.",
	)
	chapelAbbrev = replacements(
		`^[Kk]aplnka\s+`, "",
		`(^|\s)([Ss]vät\pL*|Sv\.)`, "${1}sv.",
	)
	springAbbrev = replacements(
		`(^|\s)[Mm]inerálny(\s|$)`, "${1}min.${2}",
		`(^|\s)[Pp]rameň(\s|$)`, "${1}prm.${2}",
		`(^|\s)[Ss]tud(ničk|ň)a(\s|$)`, "${1}stud.${3}",
		`(^|\s)[Vv]yvieračka(\s|$)`, "${1}vyv.${2}",
	)
	schoolAbbrev = replacements(
		`[Zz]ákladná [Uu]melecká [Šš]kola`, "ZUŠ",
		`[Zz]ákladná [Šš]kola`, "ZŠ",
		`[Ss]tredná [Oo]dborná [Šš]kola`, "SOŠ",
		`[Gg]ymnázium `, "gym. ",
		` [Gg]ymnázium`, " gym.",
		`[V]ysoká [Šš]kola`, "VŠ",
	)
	collegeAbbrev = replacements(
		`[Ss]tredná [Oo]dborná [Šš]kola`, "SOŠ",
		`[Gg]ymnázium `, "gym. ",
		` [Gg]ymnázium`, " gym.",
		`[V]ysoká [Šš]kola`, "VŠ",
	)
	universityAbbrev = replacements(
		`[V]ysoká [Šš]kola`, "VŠ",
	)
)
