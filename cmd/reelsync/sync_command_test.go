package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"reelsync/internal/enrichment"
	"reelsync/internal/library"
)

func TestRunSyncPassesIsolatesReconcileFailure(t *testing.T) {
	shareDown := errors.New("share unreachable")
	reconciled := make(chan struct{})

	res := runSyncPasses(context.Background(),
		func(ctx context.Context) (enrichment.Summary, error) {
			<-reconciled
			select {
			case <-ctx.Done():
				return enrichment.Summary{}, ctx.Err()
			case <-time.After(50 * time.Millisecond):
			}
			return enrichment.Summary{RunID: "run-1", Enriched: 3}, nil
		},
		func(context.Context) (library.Report, error) {
			defer close(reconciled)
			return library.Report{}, shareDown
		},
	)

	if res.enrichErr != nil || res.summary.Enriched != 3 {
		t.Fatalf("enrichment should finish despite the reconcile failure, got %+v %v", res.summary, res.enrichErr)
	}
	if !errors.Is(res.reconcileErr, shareDown) {
		t.Fatalf("expected reconcile error, got %v", res.reconcileErr)
	}
}

func TestSyncEnrichesWhenShareIsMissing(t *testing.T) {
	var (
		mu      sync.Mutex
		patches []map[string]any
	)
	notion := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/databases/db-1/query":
			_, _ = io.WriteString(w, `{"results":[`+unenrichedPage("p1", "Inception")+`],"has_more":false,"next_cursor":null}`)
		case r.Method == http.MethodPatch && r.URL.Path == "/pages/p1":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			patches = append(patches, body)
			mu.Unlock()
			_, _ = io.WriteString(w, `{"object":"page","id":"p1"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer notion.Close()

	tmdb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/movie":
			_, _ = io.WriteString(w, `{"page":1,"total_results":1,"total_pages":1,"results":[
				{"id":27205,"title":"Inception","original_title":"Inception","release_date":"2010-07-15",
				 "vote_average":8.4,"vote_count":36000,"popularity":95}]}`)
		case "/movie/27205":
			_, _ = io.WriteString(w, `{"id":27205,"title":"Inception","release_date":"2010-07-15","genres":[{"id":878,"name":"Science Fiction"}]}`)
		case "/movie/27205/credits":
			_, _ = io.WriteString(w, `{"id":27205,"crew":[{"name":"Christopher Nolan","job":"Director","department":"Directing"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer tmdb.Close()

	env := setupCLITestEnv(t, notion.URL, tmdb.URL)
	if err := os.RemoveAll(env.nasRoot); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"sync"}, env.configPath, "")
	if err == nil {
		t.Fatal("expected sync to report the reconcile failure")
	}
	requireContains(t, out, "Reconciliation failed")

	mu.Lock()
	defer mu.Unlock()
	if len(patches) != 2 {
		t.Fatalf("expected field and flag patches, got %d", len(patches))
	}
	flag, _ := json.Marshal(patches[1])
	if !strings.Contains(string(flag), `"TMDB_OK"`) {
		t.Fatalf("enrichment did not finish, last patch %s", flag)
	}
}

func unenrichedPage(id, title string) string {
	return `{"object":"page","id":"` + id + `","cover":null,"properties":{"Nom":{"type":"title","title":[{"type":"text","text":{"content":"` +
		title + `"},"plain_text":"` + title + `"}]},"TMDB_OK":{"type":"checkbox","checkbox":false}}}`
}
