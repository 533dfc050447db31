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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"seehuhn.de/go/maptiles/render"
)

func (c *CLI) renderCommand() *cobra.Command {
	var (
		out       string
		sourceDir string
		scale     float64
		footprint bool
	)
	cmd := &cobra.Command{
		Use:   "render z/x/y[@Sx].png|pdf ...",
		Short: "Render tiles into files",
		Long: `Render draws the given tiles and writes them into the output directory.
The file name of each tile is its path with the slashes replaced by dashes,
for example 14-8971-5680@2x.png.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("source") {
				c.cfg.Source.Dir = sourceDir
			}
			if cmd.Flags().Changed("debug-footprints") {
				c.cfg.Render.DebugFootprints = footprint
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}

			reqs := make([]render.Request, len(args))
			for i, arg := range args {
				req, err := render.ParseRequest(arg)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("scale") {
					req.Scale = scale
				}
				reqs[i] = req
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			src, lib, err := c.openSource()
			if err != nil {
				return err
			}
			r := render.New(src, lib, c.renderOptions(), logger)

			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
			p := newProgress(logger)
			for _, req := range reqs {
				tile, err := r.Render(ctx, req)
				if err != nil {
					return fmt.Errorf("tile %s: %w", req, err)
				}
				name := filepath.Join(out, strings.ReplaceAll(req.String(), "/", "-"))
				if err := os.WriteFile(name, tile.Data, 0o644); err != nil {
					return err
				}
				logger.Debug("wrote tile", "file", name, "labels", tile.Labels, "skipped", tile.Skipped)
			}
			p.done("rendered tiles", "count", len(reqs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&sourceDir, "source", "s", "", "directory with the GeoJSON layers (overrides source.dir)")
	cmd.Flags().Float64Var(&scale, "scale", 1, "device scale for all tiles (overrides @Sx in the tile path)")
	cmd.Flags().BoolVar(&footprint, "debug-footprints", false, "draw label footprints into PDF tiles")
	return cmd
}
