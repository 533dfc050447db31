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

package server

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"seehuhn.de/go/maptiles/render"
)

// Renderer draws single tiles.  It is implemented by [render.Renderer].
type Renderer interface {
	Render(ctx context.Context, req render.Request) (*render.Tile, error)
}

// Pool is a fixed set of workers, each owning one Renderer.
// Renderers keep raster buffers between tiles and must not be shared, so
// every tile is drawn by exactly one worker.
type Pool struct {
	jobs   chan *job
	quit   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
	logger *log.Logger
}

type job struct {
	ctx   context.Context
	id    string
	req   render.Request
	reply chan result
}

type result struct {
	tile *render.Tile
	err  error
}

// NewPool starts n workers.  The renderer for each worker is created by
// calling newRenderer.  At most queue requests wait for a free worker;
// further callers block in [Pool.Render].
func NewPool(n, queue int, newRenderer func() Renderer, logger *log.Logger) *Pool {
	if n < 1 {
		n = 1
	}
	if queue < 0 {
		queue = 0
	}
	if logger == nil {
		logger = log.Default()
	}
	p := &Pool{
		jobs:   make(chan *job, queue),
		quit:   make(chan struct{}),
		logger: logger,
	}
	for i := range n {
		p.wg.Add(1)
		go p.work(i, newRenderer())
	}
	logger.Debug("worker pool started", "workers", n, "queue", queue)
	return p
}

func (p *Pool) work(worker int, r Renderer) {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case j := <-p.jobs:
			if err := j.ctx.Err(); err != nil {
				// The client went away while the job was queued.
				j.reply <- result{err: err}
				continue
			}
			p.logger.Debug("rendering", "worker", worker, "tile", j.req, "id", j.id)
			tile, err := r.Render(j.ctx, j.req)
			j.reply <- result{tile: tile, err: err}
		}
	}
}

// Render queues req and waits for the result.  It returns early if ctx is
// cancelled or the pool is closed.
func (p *Pool) Render(ctx context.Context, req render.Request) (*render.Tile, error) {
	select {
	case <-p.quit:
		return nil, ErrClosed
	default:
	}

	id, _ := RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	j := &job{
		ctx:   ctx,
		id:    id,
		req:   req,
		reply: make(chan result, 1),
	}

	select {
	case p.jobs <- j:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.quit:
		return nil, ErrClosed
	}

	select {
	case res := <-j.reply:
		return res.tile, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.quit:
		return nil, ErrClosed
	}
}

// Close stops the workers and waits for the tiles in progress to finish.
// Queued jobs which have not started are abandoned.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.quit)
		p.wg.Wait()
		p.logger.Debug("worker pool stopped")
	})
}
