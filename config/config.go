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

// Package config reads the TOML configuration of the tile server and the
// command line tools.
//
// An example configuration, with the default values:
//
//	[server]
//	listen = ":8080"
//	workers = 4
//	queue = 64
//	timeout = "30s"
//
//	[source]
//	dir = "data"
//	buffer = 64
//
//	[render]
//	tile_size = 256
//	scale = 1
//	flatness = 0.25
//	simplify = 0.5
//	font_dir = ""
//	debug_footprints = false
//
//	[cache]
//	kind = "none"        # "none", "file" or "redis"
//	dir = ""             # default: $XDG_CACHE_HOME/maptiles
//	redis_addr = "localhost:6379"
//	redis_db = 0
//	ttl = "24h"
//
//	[log]
//	level = "info"
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"seehuhn.de/go/maptiles/errors"
)

// Config is the complete configuration.
type Config struct {
	Server Server `toml:"server"`
	Source Source `toml:"source"`
	Render Render `toml:"render"`
	Cache  Cache  `toml:"cache"`
	Log    Log    `toml:"log"`
}

// Server configures the HTTP tile server.
type Server struct {
	Listen  string   `toml:"listen"`
	Workers int      `toml:"workers"`
	Queue   int      `toml:"queue"`
	Timeout Duration `toml:"timeout"`
}

// Source configures where map features are read from.
type Source struct {
	Dir    string  `toml:"dir"`
	Buffer float64 `toml:"buffer"`
}

// Render configures tile drawing.
type Render struct {
	TileSize        float64 `toml:"tile_size"`
	Scale           float64 `toml:"scale"`
	Flatness        float64 `toml:"flatness"`
	Simplify        float64 `toml:"simplify"`
	FontDir         string  `toml:"font_dir"`
	DebugFootprints bool    `toml:"debug_footprints"`
}

// Cache configures the tile cache.
type Cache struct {
	Kind      string   `toml:"kind"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	TTL       Duration `toml:"ttl"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string like "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used for keys not set in the file.
func Default() *Config {
	return &Config{
		Server: Server{
			Listen:  ":8080",
			Workers: runtime.NumCPU(),
			Queue:   64,
			Timeout: Duration{30 * time.Second},
		},
		Source: Source{
			Dir:    "data",
			Buffer: 64,
		},
		Render: Render{
			TileSize: 256,
			Scale:    1,
			Flatness: 0.25,
			Simplify: 0.5,
		},
		Cache: Cache{
			Kind:      "none",
			RedisAddr: "localhost:6379",
			TTL:       Duration{24 * time.Hour},
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads the configuration file at path.  Keys missing from the file
// keep their default values.  Unknown keys are an error, so that typos do
// not go unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.CodeConfig, err, "reading %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.CodeConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all values are in range.
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(c.Server.Workers > 0, "server.workers must be positive")
	check(c.Server.Queue >= 0, "server.queue must not be negative")
	check(c.Server.Timeout.Duration > 0, "server.timeout must be positive")
	check(c.Source.Dir != "", "source.dir must be set")
	check(c.Source.Buffer >= 0, "source.buffer must not be negative")
	check(c.Render.TileSize >= 64 && c.Render.TileSize <= 1024,
		"render.tile_size %g out of range [64, 1024]", c.Render.TileSize)
	check(c.Render.Scale >= 1 && c.Render.Scale <= errors.MaxScale,
		"render.scale %g out of range [1, %d]", c.Render.Scale, errors.MaxScale)
	check(c.Render.Flatness > 0, "render.flatness must be positive")
	check(c.Render.Simplify >= 0, "render.simplify must not be negative")

	switch c.Cache.Kind {
	case "none":
	case "file":
	case "redis":
		check(c.Cache.RedisAddr != "", "cache.redis_addr must be set for the redis cache")
		check(c.Cache.RedisDB >= 0, "cache.redis_db must not be negative")
	default:
		check(false, "cache.kind %q must be one of none, file, redis", c.Cache.Kind)
	}
	check(c.Cache.TTL.Duration >= 0, "cache.ttl must not be negative")

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		check(false, "log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}

	if len(problems) > 0 {
		return errors.New(errors.CodeConfig, "invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
