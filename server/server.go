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

// Package server serves map tiles over HTTP.
//
// Tiles are addressed as
//
//	GET /{z}/{x}/{y}.png
//	GET /{z}/{x}/{y}@{s}x.png
//	GET /{z}/{x}/{y}.pdf
//
// where s is the scale factor.  GET /healthz reports whether the server is
// up.  Rendering is done by a [Pool] of workers; finished tiles are kept in
// a [cache.Cache].
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"seehuhn.de/go/maptiles/cache"
	"seehuhn.de/go/maptiles/errors"
	"seehuhn.de/go/maptiles/render"
)

// ErrClosed is returned by [Pool.Render] after the pool has been closed.
var ErrClosed = stderrors.New("worker pool closed")

// Options configure a Server.
type Options struct {
	// Timeout bounds the time spent rendering one tile.
	Timeout time.Duration

	// TTL is the lifetime of cached tiles.  It also sets the max-age of
	// the Cache-Control header.
	TTL time.Duration

	// Version identifies the render configuration.  It is part of every
	// cache key.
	Version string
}

// Server is the HTTP front end of the tile renderer.
type Server struct {
	pool   *Pool
	cache  cache.Cache
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New returns a server which renders tiles using pool.
// If c is nil, tiles are not cached.
func New(pool *Pool, c cache.Cache, opts Options, logger *log.Logger) *Server {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	s := &Server{
		pool:   pool,
		cache:  c,
		opts:   opts,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/{z}/{x}/{name}", s.handleTile)
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves requests on addr until ctx is cancelled.
// Requests in progress are given a few seconds to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	req, err := render.ParseRequest(chi.URLParam(r, "z") + "/" + chi.URLParam(r, "x") + "/" + chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx := r.Context()
	logger := s.logger.With("id", requestIDOrEmpty(ctx), "tile", req)

	key := cache.TileKey(int(req.Tile.Z), int(req.Tile.X), int(req.Tile.Y),
		req.Scale, string(req.Format), s.opts.Version)
	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache lookup failed", "err", err)
	}
	if hit {
		s.writeTile(w, contentType(req.Format), data, "HIT")
		return
	}

	renderCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	tile, err := s.pool.Render(renderCtx, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.cache.Set(ctx, key, tile.Data, s.opts.TTL); err != nil {
		logger.Warn("cache store failed", "err", err)
	}
	s.writeTile(w, tile.ContentType, tile.Data, "MISS")
}

func (s *Server) writeTile(w http.ResponseWriter, ct string, data []byte, cacheState string) {
	h := w.Header()
	h.Set("Content-Type", ct)
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("X-Cache", cacheState)
	if s.opts.TTL > 0 {
		h.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(s.opts.TTL.Seconds())))
	} else {
		h.Set("Cache-Control", "no-cache")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// fail writes an error response with the status given by [StatusCode].
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	if r.Context().Err() != nil {
		// The client is gone, nobody will read the response.
		return
	}
	switch status {
	case http.StatusInternalServerError:
		s.logger.Error("render failed", "id", requestIDOrEmpty(r.Context()), "path", r.URL.Path, "err", err)
	case http.StatusGatewayTimeout, http.StatusServiceUnavailable:
		s.logger.Warn("render abandoned", "id", requestIDOrEmpty(r.Context()), "path", r.URL.Path, "err", err)
	}
	http.Error(w, err.Error(), status)
}

// StatusCode maps an error to an HTTP status code.  Invalid requests give
// 400 and tiles outside the map give 404.  A render which ran out of time
// gives 504, and 503 means the worker pool is shutting down.  Everything
// else is a 500.
func StatusCode(err error) int {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, ErrClosed):
		return http.StatusServiceUnavailable
	}
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func contentType(f render.Format) string {
	if f == render.PDF {
		return "application/pdf"
	}
	return "image/png"
}

type ctxKey struct{}

// RequestID returns the request id stored in ctx.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}

func requestIDOrEmpty(ctx context.Context) string {
	id, _ := RequestID(ctx)
	return id
}

// requestID gives every request a uuid.  An X-Request-Id header sent by
// the client is kept if it is a valid uuid.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), ctxKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", requestIDOrEmpty(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start))
	})
}
