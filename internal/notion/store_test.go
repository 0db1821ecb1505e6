package notion_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"reelsync/internal/catalog"
	"reelsync/internal/config"
	"reelsync/internal/notion"
	"reelsync/internal/services"
)

func newStore(t *testing.T, handler http.HandlerFunc) *notion.Store {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := notion.New("secret", server.URL, "", notion.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return notion.NewStore(client, "db-1", config.Default().Notion.Properties, nil)
}

func pageJSON(id, title string, enriched bool, extra string) string {
	props := `"Nom":{"type":"title","title":[{"type":"text","text":{"content":"` + title + `"},"plain_text":"` + title + `"}]},` +
		`"TMDB_OK":{"type":"checkbox","checkbox":` + map[bool]string{true: "true", false: "false"}[enriched] + `}`
	if extra != "" {
		props += "," + extra
	}
	return `{"object":"page","id":"` + id + `","cover":null,"properties":{` + props + `}}`
}

func TestListEntriesFollowsCursors(t *testing.T) {
	var calls int
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/databases/db-1/query" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" || r.Header.Get("Notion-Version") != notion.DefaultVersion {
			t.Errorf("missing auth headers: %v", r.Header)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls++
		switch body["start_cursor"] {
		case nil:
			_, _ = io.WriteString(w, `{"results":[`+pageJSON("p1", "Heat", false, "")+`],"has_more":true,"next_cursor":"c2"}`)
		case "c2":
			_, _ = io.WriteString(w, `{"results":[`+pageJSON("p2", "Inception", true,
				`"Date de sortie":{"type":"date","date":{"start":"2010-07-16"}},"Catégorie":{"type":"multi_select","multi_select":[{"name":"Action"},{"name":"Science-Fiction"}]}`)+
				`],"has_more":false,"next_cursor":null}`)
		default:
			t.Errorf("unexpected cursor %v", body["start_cursor"])
		}
	})

	entries, err := store.ListEntries(context.Background())
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if calls != 2 || len(entries) != 2 {
		t.Fatalf("expected 2 calls and 2 entries, got %d calls %d entries", calls, len(entries))
	}
	if entries[0].ID != "p1" || entries[0].Title != "Heat" || entries[0].Enriched {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	second := entries[1]
	if !second.Enriched || second.ReleaseYear() != 2010 || len(second.Categories) != 2 {
		t.Fatalf("unexpected second entry %+v", second)
	}
}

func TestUpdateEntryWritesConfiguredProperties(t *testing.T) {
	var got map[string]map[string]json.RawMessage
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/pages/p1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Properties map[string]map[string]json.RawMessage `json:"properties"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		got = body.Properties
		_, _ = io.WriteString(w, `{"object":"page","id":"p1"}`)
	})

	title := "Inception"
	enriched := true
	release := time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC)
	err := store.UpdateEntry(context.Background(), "p1", catalog.Patch{
		Title:       &title,
		Enriched:    &enriched,
		Tags:        []string{"complex", "must-see"},
		ReleaseDate: &release,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := got["Nom"]["title"]; !ok {
		t.Fatalf("expected title property, got %v", got)
	}
	if string(got["TMDB_OK"]["checkbox"]) != "true" {
		t.Fatalf("expected checkbox true, got %s", got["TMDB_OK"]["checkbox"])
	}
	if !strings.Contains(string(got["Date de sortie"]["date"]), "2010-07-16") {
		t.Fatalf("unexpected date %s", got["Date de sortie"]["date"])
	}
	if !strings.Contains(string(got["Tags"]["multi_select"]), "must-see") {
		t.Fatalf("unexpected tags %s", got["Tags"]["multi_select"])
	}
	if _, ok := got["Synopsis"]; ok {
		t.Fatal("nil fields must not be written")
	}
}

func TestUpdateEntrySkipsEmptyPatch(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})
	if err := store.UpdateEntry(context.Background(), "p1", catalog.Patch{}); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestImageBlocks(t *testing.T) {
	var mu sync.Mutex
	var appended []map[string]any
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `{"results":[`+
				`{"id":"b1","type":"paragraph"},`+
				`{"id":"b2","type":"image","image":{"type":"external","external":{"url":"https://img/poster.jpg"}}}`+
				`],"has_more":false}`)
		case http.MethodPatch:
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			appended = append(appended, body)
			_, _ = io.WriteString(w, `{"results":[{"id":"new-1","type":"image","image":{"type":"external","external":{"url":"https://img/backdrop.jpg"}}}]}`)
		}
	})
	ctx := context.Background()

	has, err := store.HasImage(ctx, "p1", "https://img/poster.jpg")
	if err != nil || !has {
		t.Fatalf("expected poster present, got %v %v", has, err)
	}
	has, err = store.HasImage(ctx, "p1", "https://img/backdrop.jpg")
	if err != nil || has {
		t.Fatalf("expected backdrop absent, got %v %v", has, err)
	}
	first, err := store.FirstBlockID(ctx, "p1")
	if err != nil || first != "b1" {
		t.Fatalf("unexpected first block %q %v", first, err)
	}
	id, err := store.AppendImage(ctx, "p1", "https://img/backdrop.jpg", "b2")
	if err != nil || id != "new-1" {
		t.Fatalf("unexpected append result %q %v", id, err)
	}
	if len(appended) != 1 || appended[0]["after"] != "b2" {
		t.Fatalf("expected append after b2, got %v", appended)
	}
}

func TestEntryJoinsFormattedTitleRuns(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"p1","cover":null,"properties":{"Nom":{"type":"title","title":[`+
			`{"type":"text","text":{"content":"The "},"plain_text":"The "},`+
			`{"type":"text","text":{"content":"Good, the Bad"},"plain_text":"Good, the Bad"},`+
			`{"type":"text","text":{"content":" and the Ugly"},"plain_text":" and the Ugly"}]},`+
			`"NAS Path":{"type":"rich_text","rich_text":[{"type":"text","plain_text":"/mnt/movies/"},{"type":"text","plain_text":"GBU.mkv"}]}}}`)
	})

	entry, err := store.Entry(context.Background(), "p1")
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if entry.Title != "The Good, the Bad and the Ugly" {
		t.Fatalf("title truncated: %q", entry.Title)
	}
	if entry.NASPath != "/mnt/movies/GBU.mkv" {
		t.Fatalf("nas path truncated: %q", entry.NASPath)
	}
}

func TestCoverAndNASPath(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pages/with-path":
			_, _ = io.WriteString(w, `{"id":"with-path","cover":{"type":"external","external":{"url":"https://img/c.jpg"}},"properties":{`+
				`"NAS Path":{"type":"rich_text","rich_text":[{"type":"text","plain_text":"/mnt/movies/Heat.mkv"}]}}}`)
		case "/pages/no-path":
			_, _ = io.WriteString(w, `{"id":"no-path","cover":null,"properties":{}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"object":"error","status":404,"code":"object_not_found","message":"missing"}`)
		}
	})
	ctx := context.Background()

	if has, err := store.HasCover(ctx, "with-path"); err != nil || !has {
		t.Fatalf("expected cover, got %v %v", has, err)
	}
	if has, err := store.HasCover(ctx, "no-path"); err != nil || has {
		t.Fatalf("expected no cover, got %v %v", has, err)
	}
	path, err := store.NASPath(ctx, "with-path")
	if err != nil || path != "/mnt/movies/Heat.mkv" {
		t.Fatalf("unexpected path %q %v", path, err)
	}
	if _, err := store.NASPath(ctx, "no-path"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for empty path, got %v", err)
	}
	if _, err := store.NASPath(ctx, "unknown"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for unknown page, got %v", err)
	}
}

func TestClientRequiresToken(t *testing.T) {
	if _, err := notion.New(" ", "", ""); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestServerErrorsAreTransient(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := store.ListEntries(context.Background())
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
}
