package testsupport

import (
	"path/filepath"
	"testing"

	"reelsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Credentials are filled with placeholders so feature validation passes.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Notion.Token = "test-token"
	cfgVal.Notion.DatabaseID = "test-db"
	cfgVal.TMDB.APIKey = "test"
	cfgVal.Calendar.Enabled = false
	cfgVal.NAS.Root = filepath.Join(base, "nas")
	cfgVal.Server.Bind = "127.0.0.1:0"

	builder := &configBuilder{cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithNotionURL points the Notion client at a test server.
func WithNotionURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notion.BaseURL = url
	}
}

// WithTMDBURL points the TMDB client at a test server.
func WithTMDBURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.BaseURL = url
	}
}
