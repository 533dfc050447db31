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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"seehuhn.de/go/maptiles/cache"
	"seehuhn.de/go/maptiles/config"
	"seehuhn.de/go/maptiles/render"
	"seehuhn.de/go/maptiles/source"
	"seehuhn.de/go/maptiles/text"
)

const appName = "maptiles"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds the state shared by all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a CLI which logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with all subcommands registered.
// The configuration file is read before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Render vector map tiles",
		Long:         `maptiles draws map tiles from GeoJSON layers, placing labels so that they never overlap.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML configuration file")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.layersCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

func (c *CLI) loadConfig() error {
	if c.configPath == "" {
		c.cfg = config.Default()
	} else {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.cfg = cfg
	}
	level, err := log.ParseLevel(c.cfg.Log.Level)
	if err != nil {
		return err
	}
	c.SetLogLevel(level)
	c.Logger.Debug("configuration loaded", "file", c.configPath)
	return nil
}

// renderOptions converts the configuration into renderer options.
func (c *CLI) renderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.TileSize = c.cfg.Render.TileSize
	opts.Buffer = c.cfg.Source.Buffer
	opts.Flatness = c.cfg.Render.Flatness
	opts.Simplify = c.cfg.Render.Simplify
	opts.DebugFootprints = c.cfg.Render.DebugFootprints
	return opts
}

// renderVersion identifies the configuration values which change the
// rendered tiles.  It is part of every cache key.
func (c *CLI) renderVersion() string {
	return cache.VersionOf(struct {
		Render config.Render
		Buffer float64
	}{c.cfg.Render, c.cfg.Source.Buffer})
}

// openSource opens the feature directory and loads the fonts.
func (c *CLI) openSource() (*source.Dir, *text.Library, error) {
	src, err := source.NewDir(c.cfg.Source.Dir)
	if err != nil {
		return nil, nil, err
	}
	lib, err := text.LoadDir(c.cfg.Render.FontDir)
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("source opened", "dir", c.cfg.Source.Dir, "fonts", lib.Faces())
	return src, lib, nil
}

// openCache opens the tile cache selected in the configuration.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	switch c.cfg.Cache.Kind {
	case "file":
		dir, err := c.cacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, c.cfg.Cache.RedisAddr, c.cfg.Cache.RedisDB)
	default:
		return cache.NewNullCache(), nil
	}
}

// cacheDir returns the directory of the file cache.  Unless configured
// otherwise, this is $XDG_CACHE_HOME/maptiles or ~/.cache/maptiles.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}
