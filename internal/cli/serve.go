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
	"github.com/spf13/cobra"

	"seehuhn.de/go/maptiles/render"
	"seehuhn.de/go/maptiles/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen    string
		workers   int
		sourceDir string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP tile server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("listen") {
				c.cfg.Server.Listen = listen
			}
			if flags.Changed("workers") {
				c.cfg.Server.Workers = workers
			}
			if flags.Changed("source") {
				c.cfg.Source.Dir = sourceDir
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			src, lib, err := c.openSource()
			if err != nil {
				return err
			}
			tiles, err := c.openCache(ctx)
			if err != nil {
				return err
			}
			defer tiles.Close()

			opts := c.renderOptions()
			pool := server.NewPool(c.cfg.Server.Workers, c.cfg.Server.Queue, func() server.Renderer {
				return render.New(src, lib, opts, logger)
			}, logger)
			defer pool.Close()

			srv := server.New(pool, tiles, server.Options{
				Timeout: c.cfg.Server.Timeout.Duration,
				TTL:     c.cfg.Cache.TTL.Duration,
				Version: c.renderVersion(),
			}, logger)
			logger.Info("starting server", "workers", c.cfg.Server.Workers, "cache", c.cfg.Cache.Kind)
			return srv.ListenAndServe(ctx, c.cfg.Server.Listen)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "address to listen on (overrides server.listen)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of render workers (overrides server.workers)")
	cmd.Flags().StringVarP(&sourceDir, "source", "s", "", "directory with the GeoJSON layers (overrides source.dir)")
	return cmd
}
