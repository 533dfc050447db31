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

package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"seehuhn.de/go/maptiles/layers"
	"seehuhn.de/go/maptiles/source"
)

func (c *CLI) layersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layers",
		Short: "List the layers in drawing order",
		Long: `Layers prints the layer table in drawing order, with zoom ranges and
the source layer each one reads.  Source layers without a file in the
source directory are marked as missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var present []string
			if src, err := source.NewDir(c.cfg.Source.Dir); err == nil {
				present, err = src.Layers()
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for _, l := range layers.All() {
				zoom := fmt.Sprintf("%d-", l.MinZoom)
				if l.MaxZoom > 0 {
					zoom += fmt.Sprint(l.MaxZoom)
				}
				note := ""
				if !slices.Contains(present, l.Source) {
					note = " (missing)"
				}
				fmt.Fprintf(out, "%-24s %-6s %s%s\n", l.Name, zoom, l.Source, note)
			}
			return nil
		},
	}
}
