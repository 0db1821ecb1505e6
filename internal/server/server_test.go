package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"reelsync/internal/server"
	"reelsync/internal/services"
	"reelsync/internal/testsupport"
)

type mapSource map[string]string

func (m mapSource) NASPath(_ context.Context, pageID string) (string, error) {
	path, ok := m[pageID]
	if !ok {
		return "", services.Wrap(services.ErrNotFound, "notion", "nas path", "no path recorded", nil)
	}
	return path, nil
}

type recordingOpener struct {
	opened []string
	err    error
}

func (o *recordingOpener) open(_ context.Context, path string) error {
	if o.err != nil {
		return o.err
	}
	o.opened = append(o.opened, path)
	return nil
}

func newTestServer(t *testing.T, source server.PathSource, opener *recordingOpener) *httptest.Server {
	t.Helper()
	srv := server.New("127.0.0.1:0", source, nil, server.WithOpener(opener.open))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return resp, body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, mapSource{}, &recordingOpener{})
	resp, body := get(t, ts.URL+"/health")
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected health response %d %v", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}

func TestPlayOpensExistingFile(t *testing.T) {
	path := testsupport.PlaceMovies(t, t.TempDir(), "Inception (2010).mkv")[0]
	opener := &recordingOpener{}
	ts := newTestServer(t, mapSource{"page-1": path}, opener)

	resp, body := get(t, ts.URL+"/play/page-1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", resp.StatusCode, body)
	}
	if body["path"] != path || len(opener.opened) != 1 || opener.opened[0] != path {
		t.Fatalf("unexpected open %v %v", body, opener.opened)
	}
}

func TestLegacyOpenRoute(t *testing.T) {
	path := testsupport.PlaceMovies(t, t.TempDir(), "Heat.mkv")[0]
	opener := &recordingOpener{}
	ts := newTestServer(t, mapSource{"page-2": path}, opener)

	resp, _ := get(t, ts.URL+"/open?movie_id=page-2")
	if resp.StatusCode != http.StatusOK || len(opener.opened) != 1 {
		t.Fatalf("expected legacy route to open the file, got %d", resp.StatusCode)
	}
	resp, _ = get(t, ts.URL+"/open")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without movie_id, got %d", resp.StatusCode)
	}
}

func TestPlayUnknownPage(t *testing.T) {
	opener := &recordingOpener{}
	ts := newTestServer(t, mapSource{}, opener)
	resp, _ := get(t, ts.URL+"/play/missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if len(opener.opened) != 0 {
		t.Fatal("nothing should be opened")
	}
}

func TestPlayMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.mkv")
	opener := &recordingOpener{}
	ts := newTestServer(t, mapSource{"page-1": path}, opener)
	resp, body := get(t, ts.URL+"/play/page-1")
	if resp.StatusCode != http.StatusNotFound || !strings.Contains(body["error"], "gone.mkv") {
		t.Fatalf("expected 404 naming the file, got %d %v", resp.StatusCode, body)
	}
}

func TestPlayUnsupportedHost(t *testing.T) {
	path := testsupport.PlaceMovies(t, t.TempDir(), "Heat.mkv")[0]
	opener := &recordingOpener{err: services.Wrap(services.ErrUnsupported, "server", "open file", "no opener", nil)}
	ts := newTestServer(t, mapSource{"page-1": path}, opener)
	resp, _ := get(t, ts.URL+"/play/page-1")
	if resp.StatusCode != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", resp.StatusCode)
	}
}

func TestRunRefusesHeldLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "server.lock")
	held := flock.New(lockPath)
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: %v %v", ok, err)
	}
	defer held.Unlock()

	srv := server.New("127.0.0.1:0", mapSource{}, nil, server.WithLockPath(lockPath))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected lock contention error")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := server.New("127.0.0.1:0", mapSource{}, nil,
		server.WithLockPath(filepath.Join(t.TempDir(), "server.lock")))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
