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
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"

	"seehuhn.de/go/maptiles/cache"
	"seehuhn.de/go/maptiles/errors"
	"seehuhn.de/go/maptiles/render"
	"seehuhn.de/go/maptiles/source"
	"seehuhn.de/go/maptiles/text"
)

// fakeRenderer returns the request string as tile data.
type fakeRenderer struct {
	calls *atomic.Int32
	err   error
	block chan struct{}
}

func (f *fakeRenderer) Render(ctx context.Context, req render.Request) (*render.Tile, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	ct := "image/png"
	if req.Format == render.PDF {
		ct = "application/pdf"
	}
	return &render.Tile{Data: []byte(req.String()), ContentType: ct}, nil
}

func newFakeServer(t *testing.T, f *fakeRenderer, c cache.Cache) *Server {
	t.Helper()
	if f.calls == nil {
		f.calls = &atomic.Int32{}
	}
	logger := log.New(io.Discard)
	pool := NewPool(2, 4, func() Renderer { return f }, logger)
	t.Cleanup(pool.Close)
	return New(pool, c, Options{TTL: time.Hour, Version: "test"}, logger)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestTileCaching(t *testing.T) {
	f := &fakeRenderer{}
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := newFakeServer(t, f, c)

	for i, state := range []string{"MISS", "HIT"} {
		rec := get(t, s, "/4/3/5@2x.png")
		if rec.Code != http.StatusOK {
			t.Fatalf("%d: expected status 200, got %d", i, rec.Code)
		}
		if got := rec.Body.String(); got != "4/3/5@2x.png" {
			t.Errorf("%d: unexpected body %q", i, got)
		}
		if got := rec.Header().Get("X-Cache"); got != state {
			t.Errorf("%d: expected X-Cache %s, got %s", i, state, got)
		}
		if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600" {
			t.Errorf("%d: unexpected Cache-Control %q", i, got)
		}
		if got := rec.Header().Get("Content-Type"); got != "image/png" {
			t.Errorf("%d: unexpected Content-Type %q", i, got)
		}
	}
	if n := f.calls.Load(); n != 1 {
		t.Errorf("expected one render, got %d", n)
	}
}

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		path string
		err  error
		want int
	}{
		{"/4/3/5.png", nil, http.StatusOK},
		{"/4/3/5.pdf", nil, http.StatusOK},
		{"/4/3/5.gif", nil, http.StatusBadRequest},
		{"/4/3/5@9x.png", nil, http.StatusBadRequest},
		{"/4/3/99.png", nil, http.StatusNotFound},
		{"/4/3/5.png", errors.InLayer("roads", errors.Backend(io.ErrUnexpectedEOF, "shaping")), http.StatusInternalServerError},
		{"/4/3/5.png", errors.InLayer("roads", errors.New(errors.CodeSource, "disk gone")), http.StatusInternalServerError},
		{"/healthz", nil, http.StatusOK},
		{"/nothing", nil, http.StatusNotFound},
	}
	for _, c := range cases {
		s := newFakeServer(t, &fakeRenderer{err: c.err}, nil)
		rec := get(t, s, c.path)
		if rec.Code != c.want {
			t.Errorf("%s (%v): expected status %d, got %d", c.path, c.err, c.want, rec.Code)
		}
	}
}

func TestRenderTimeout(t *testing.T) {
	f := &fakeRenderer{calls: &atomic.Int32{}, block: make(chan struct{})}
	defer close(f.block)
	logger := log.New(io.Discard)
	pool := NewPool(1, 1, func() Renderer { return f }, logger)
	defer pool.Close()
	s := New(pool, nil, Options{Timeout: 20 * time.Millisecond}, logger)

	rec := get(t, s, "/4/3/5.png")
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected status %d, got %d", http.StatusGatewayTimeout, rec.Code)
	}

	pool.Close()
	rec = get(t, s, "/4/3/5.png")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("closed pool: expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	s := newFakeServer(t, &fakeRenderer{}, nil)

	rec := get(t, s, "/healthz")
	if _, err := uuid.Parse(rec.Header().Get("X-Request-Id")); err != nil {
		t.Errorf("response has no valid request id: %v", err)
	}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", id)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != id {
		t.Errorf("expected request id %s to be kept, got %s", id, got)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "<script>")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got == "<script>" {
		t.Error("invalid request id was echoed")
	}
}

func TestPoolCancel(t *testing.T) {
	f := &fakeRenderer{calls: &atomic.Int32{}, block: make(chan struct{})}
	pool := NewPool(1, 0, func() Renderer { return f }, log.New(io.Discard))
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := render.Request{Tile: maptile.New(0, 0, 0), Scale: 1, Format: render.PNG}
	if _, err := pool.Render(ctx, req); err != context.DeadlineExceeded {
		t.Errorf("expected deadline exceeded, got %v", err)
	}

	close(f.block)
	tile, err := pool.Render(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if string(tile.Data) != "0/0/0.png" {
		t.Errorf("unexpected tile %q", tile.Data)
	}
}

func TestPoolConcurrent(t *testing.T) {
	var mu sync.Mutex
	inUse := make(map[Renderer]bool)
	calls := &atomic.Int32{}
	pool := NewPool(3, 8, func() Renderer {
		return &exclusiveRenderer{mu: &mu, inUse: inUse, calls: calls}
	}, log.New(io.Discard))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := render.Request{Tile: maptile.New(uint32(i%4), 0, 2), Scale: 1, Format: render.PNG}
			if _, err := pool.Render(context.Background(), req); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if n := calls.Load(); n != 20 {
		t.Errorf("expected 20 renders, got %d", n)
	}

	pool.Close()
	req := render.Request{Tile: maptile.New(0, 0, 0), Scale: 1, Format: render.PNG}
	if _, err := pool.Render(context.Background(), req); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

// exclusiveRenderer fails if it is used by two goroutines at once.
type exclusiveRenderer struct {
	mu    *sync.Mutex
	inUse map[Renderer]bool
	calls *atomic.Int32
}

func (e *exclusiveRenderer) Render(ctx context.Context, req render.Request) (*render.Tile, error) {
	e.mu.Lock()
	if e.inUse[e] {
		e.mu.Unlock()
		return nil, errors.New(errors.CodeInternal, "renderer used concurrently")
	}
	e.inUse[e] = true
	e.mu.Unlock()

	time.Sleep(time.Millisecond)
	e.calls.Add(1)

	e.mu.Lock()
	e.inUse[e] = false
	e.mu.Unlock()
	return &render.Tile{Data: []byte(req.String()), ContentType: "image/png"}, nil
}

func TestServeRealTiles(t *testing.T) {
	lib, err := text.GoFonts()
	if err != nil {
		t.Fatal(err)
	}
	src := source.NewMemory()
	place := orb.Point{17.1077, 48.1486}
	src.Set("places", &source.Feature{
		Geometry:   place,
		Properties: geojson.Properties{"name": "Bratislava", "type": "city"},
	})

	logger := log.New(io.Discard)
	pool := NewPool(2, 2, func() Renderer {
		return render.New(src, lib, render.DefaultOptions(), logger)
	}, logger)
	defer pool.Close()
	s := httptest.NewServer(New(pool, nil, Options{}, logger))
	defer s.Close()

	tile := maptile.At(place, 10)
	for _, suffix := range []string{".png", "@2x.png", ".pdf"} {
		url := s.URL + "/10/" + itoa(tile.X) + "/" + itoa(tile.Y) + suffix
		resp, err := http.Get(url)
		if err != nil {
			t.Fatal(err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d: %s", suffix, resp.StatusCode, body)
		}
		magic := []byte("\x89PNG")
		if suffix == ".pdf" {
			magic = []byte("%PDF")
		}
		if !bytes.HasPrefix(body, magic) {
			t.Errorf("%s: unexpected data %q", suffix, body[:min(len(body), 8)])
		}
		if got := resp.Header.Get("Cache-Control"); got != "no-cache" {
			t.Errorf("%s: unexpected Cache-Control %q", suffix, got)
		}
	}
}

func itoa(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}
