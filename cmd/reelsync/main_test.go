package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelsync/internal/catalog"
	"reelsync/internal/config"
	"reelsync/internal/enrichment"
	"reelsync/internal/identification"
	"reelsync/internal/library"
	"reelsync/internal/testsupport"
)

type cliTestEnv struct {
	configPath string
	nasRoot    string
}

func setupCLITestEnv(t *testing.T, notionURL, tmdbURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	nasRoot := filepath.Join(base, "nas")
	if err := os.MkdirAll(nasRoot, 0o755); err != nil {
		t.Fatalf("mkdir nas: %v", err)
	}
	if notionURL == "" {
		notionURL = "https://api.notion.com/v1"
	}
	if tmdbURL == "" {
		tmdbURL = "https://api.themoviedb.org/3"
	}

	content := `[paths]
state_dir = "` + filepath.Join(base, "state") + `"
log_dir = "` + filepath.Join(base, "logs") + `"

[notion]
token = "test-token"
database_id = "db-1"
base_url = "` + notionURL + `"

[tmdb]
api_key = "test-key"
base_url = "` + tmdbURL + `"

[calendar]
enabled = false

[nas]
root = "` + nasRoot + `"
linux_root = "/volume1/Movies"
smb_host = "nas.local"
`
	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{configPath: configPath, nasRoot: nasRoot}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, "", "")

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}

func TestConfigValidateReportsFeatures(t *testing.T) {
	env := setupCLITestEnv(t, "", "")

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "watch reminders")
	requireContains(t, out, "disabled")
	if strings.Contains(out, "missing") {
		t.Fatalf("expected every enabled feature ready, got %q", out)
	}
}

func TestFeatureReportListsMissingCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.Notion.Token = "secret"
	cfg.Notion.DatabaseID = "db-1"

	var out bytes.Buffer
	writeFeatureReport(&out, &cfg)
	requireContains(t, out.String(), "missing")
	requireContains(t, out.String(), "tmdb.api_key is required")
}

func TestIdentifyShowsRankingAndDecision(t *testing.T) {
	tmdb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("query") == "" {
			t.Errorf("missing query parameter")
		}
		_, _ = io.WriteString(w, `{"page":1,"total_results":1,"total_pages":1,"results":[
			{"id":27205,"title":"Inception","original_title":"Inception","release_date":"2010-07-15",
			 "vote_average":8.4,"vote_count":36000,"popularity":95}]}`)
	}))
	defer tmdb.Close()
	env := setupCLITestEnv(t, "", tmdb.URL)

	out, _, err := runCLI(t, []string{"identify", "Inception"}, env.configPath, "")
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	requireContains(t, out, "Inception")
	requireContains(t, out, "27205")
	requireContains(t, out, "accepted")
}

func TestReconcileJSON(t *testing.T) {
	notion := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/databases/db-1/query" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{"results":[`+
			notionPage("p1", "Inception")+","+notionPage("p2", "Heat")+
			`],"has_more":false,"next_cursor":null}`)
	}))
	defer notion.Close()
	env := setupCLITestEnv(t, notion.URL, "")
	testsupport.PlaceMovies(t, env.nasRoot, "Inception (2010).mkv")

	out, _, err := runCLI(t, []string{"reconcile", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	var report library.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report %q: %v", out, err)
	}
	if report.Found != 1 || report.Missing != 1 || report.Files != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if got := report.Rows[0].Linux; got != "/volume1/Movies/Inception (2010).mkv" {
		t.Fatalf("unexpected linux path %q", got)
	}
}

func notionPage(id, title string) string {
	return `{"object":"page","id":"` + id + `","properties":{"Nom":{"type":"title","title":[{"type":"text","text":{"content":"` +
		title + `"},"plain_text":"` + title + `"}]},"TMDB_OK":{"type":"checkbox","checkbox":true}}}`
}

func TestPendingListEmpty(t *testing.T) {
	env := setupCLITestEnv(t, "", "")
	out, _, err := runCLI(t, []string{"pending", "list"}, env.configPath, "")
	if err != nil {
		t.Fatalf("pending list: %v", err)
	}
	requireContains(t, out, "No pending decisions")
}

func TestDoctorPassesWithReachableServices(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	env := setupCLITestEnv(t, ok.URL, ok.URL)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath, "")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Notion")
	requireContains(t, out, "TMDB")
}

func TestParseChoice(t *testing.T) {
	cases := []struct {
		input string
		kind  enrichment.ChoiceKind
		index int
		ok    bool
	}{
		{"", enrichment.ChoiceSelected, 0, true},
		{"2", enrichment.ChoiceSelected, 1, true},
		{"e", enrichment.ChoiceExplicit, 0, true},
		{"C", enrichment.ChoiceCancelled, 0, true},
		{"0", enrichment.ChoiceCancelled, 0, true},
		{"4", 0, 0, false},
		{"abc", 0, 0, false},
	}
	for _, tc := range cases {
		got, ok := parseChoice(tc.input, 3)
		if ok != tc.ok {
			t.Fatalf("%q: ok=%v, want %v", tc.input, ok, tc.ok)
		}
		if ok && (got.Kind != tc.kind || got.Index != tc.index) {
			t.Fatalf("%q: got %+v", tc.input, got)
		}
	}
}

func TestTruncateOverview(t *testing.T) {
	short := "A thief who steals corporate secrets."
	if truncateOverview(short) != short {
		t.Fatal("short overview should be unchanged")
	}
	long := strings.Repeat("dream ", 60)
	got := truncateOverview(long)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if n := len([]rune(got)); n > overviewLimit {
		t.Fatalf("truncated overview too long: %d runes", n)
	}
	if strings.Contains(got, "drea…") {
		t.Fatalf("expected word boundary cut, got %q", got)
	}
}

type creditsProvider struct{ identification.Provider }

func (creditsProvider) Credits(context.Context, int64) []catalog.Credit {
	return []catalog.Credit{{Name: "Michael Mann", Job: "Director"}}
}

func TestTerminalPrompter(t *testing.T) {
	req := enrichment.ChoiceRequest{
		Entry:  catalog.Entry{ID: "p1", Title: "Heat"},
		Reason: identification.ReasonAmbiguous,
		Ranked: []identification.ScoredCandidate{
			{Candidate: catalog.Candidate{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15", VoteAverage: 7.9, VoteCount: 7000}},
			{Candidate: catalog.Candidate{ID: 33542, Title: "Heat", ReleaseDate: "1986-03-14"}},
		},
	}

	var out bytes.Buffer
	p := newTerminalPrompter(strings.NewReader("9\n2\n"), &out, creditsProvider{})
	got, err := p.Prompt(context.Background(), req)
	if err != nil {
		t.Fatalf("Prompt: %v", err)
	}
	if got.Kind != enrichment.ChoiceSelected || got.Index != 1 {
		t.Fatalf("unexpected result %+v", got)
	}
	requireContains(t, out.String(), "Invalid choice")
	requireContains(t, out.String(), "Michael Mann")
	requireContains(t, out.String(), "⭐ 7.9/10 · 7000 votes")
	requireContains(t, out.String(), "Heat (1995)")

	p = newTerminalPrompter(strings.NewReader("e\nhttps://www.imdb.com/title/tt0113277/\n"), io.Discard, nil)
	got, _ = p.Prompt(context.Background(), req)
	if got.Kind != enrichment.ChoiceExplicit || got.Reference != "https://www.imdb.com/title/tt0113277/" {
		t.Fatalf("unexpected explicit result %+v", got)
	}

	p = newTerminalPrompter(strings.NewReader(""), io.Discard, nil)
	got, _ = p.Prompt(context.Background(), req)
	if got.Kind != enrichment.ChoiceCancelled {
		t.Fatalf("closed input should cancel, got %+v", got)
	}
}
