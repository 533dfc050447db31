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

// Package cache stores rendered tiles.
//
// Three implementations are provided: [FileCache] keeps tiles in a local
// directory, [RedisCache] shares tiles between several server processes,
// and [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiry.
type Cache interface {
	// Get returns the data stored under key.  The second return value is
	// false on a cache miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key.  A ttl of zero means the entry does not
	// expire.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the entry for key.  Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases the resources held by the cache.
	Close() error
}
