package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains local state directories.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// NotionProperties maps catalog fields to the property names of the Notion
// database. Defaults follow the French schema the catalog was created with.
type NotionProperties struct {
	Title       string `toml:"title" validate:"required"`
	Enriched    string `toml:"enriched" validate:"required"`
	ReleaseDate string `toml:"release_date" validate:"required"`
	Categories  string `toml:"categories" validate:"required"`
	Tags        string `toml:"tags" validate:"required"`
	Synopsis    string `toml:"synopsis" validate:"required"`
	Director    string `toml:"director" validate:"required"`
	Status      string `toml:"status" validate:"required"`
	Support     string `toml:"support" validate:"required"`
	Type        string `toml:"type" validate:"required"`
	NASPath     string `toml:"nas_path" validate:"required"`
}

// Notion contains the document store credentials and API tuning.
type Notion struct {
	Token             string           `toml:"token"`
	DatabaseID        string           `toml:"database_id"`
	BaseURL           string           `toml:"base_url" validate:"required,url"`
	Version           string           `toml:"version" validate:"required"`
	WriteSettleMS     int              `toml:"write_settle_ms" validate:"gte=0"`
	RequestsPerSecond float64          `toml:"requests_per_second" validate:"gt=0"`
	Properties        NotionProperties `toml:"properties"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url" validate:"required,url"`
	Language          string  `toml:"language" validate:"required"`
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"gt=0"`
	SearchCacheSize   int     `toml:"search_cache_size" validate:"gt=0"`
	RequestTimeout    int     `toml:"request_timeout" validate:"gt=0"`
}

// Matching tunes the auto-accept policy.
type Matching struct {
	DecisiveScore   float64 `toml:"decisive_score" validate:"gte=0"`
	DecisiveMargin  float64 `toml:"decisive_margin" validate:"gte=0"`
	PopularScore    float64 `toml:"popular_score" validate:"gte=0"`
	PopularVotes    int64   `toml:"popular_votes" validate:"gte=0"`
	TitleSimilarity float64 `toml:"title_similarity" validate:"gte=0,lte=1"`
}

// Enrichment holds the labels written to Notion when a film is enriched.
type Enrichment struct {
	DefaultStatus   string `toml:"default_status" validate:"required"`
	SupportUpcoming string `toml:"support_upcoming" validate:"required"`
	SupportReleased string `toml:"support_released" validate:"required"`
	TypeLabel       string `toml:"type_label" validate:"required"`
	AttachImages    bool   `toml:"attach_images"`
	SetCover        bool   `toml:"set_cover"`
}

// Calendar contains Google Calendar reminder settings.
type Calendar struct {
	Enabled         bool   `toml:"enabled"`
	CredentialsFile string `toml:"credentials_file"`
	CalendarID      string `toml:"calendar_id"`
	SummaryPrefix   string `toml:"summary_prefix" validate:"required"`
}

// NAS describes the file share that holds the movie files.
type NAS struct {
	Root           string   `toml:"root"`
	LinuxRoot      string   `toml:"linux_root"`
	SMBHost        string   `toml:"smb_host"`
	SMBSharePrefix string   `toml:"smb_share_prefix"`
	Extensions     []string `toml:"extensions" validate:"min=1,dive,startswith=."`
}

// Server contains the file-open server settings.
type Server struct {
	Bind string `toml:"bind" validate:"required"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout" validate:"gt=0"`
	PendingReview  bool   `toml:"pending_review"`
	RunSummary     bool   `toml:"run_summary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" validate:"oneof=console json"`
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
}

// Config encapsulates all configuration values for reelsync.
//
// Configuration sections by subsystem:
//   - Paths: state (pending queue, locks) and log directories
//   - Notion: catalog database credentials and property names
//   - TMDB: metadata provider
//   - Matching: auto-accept thresholds
//   - Enrichment: labels written back to the catalog
//   - Calendar: release reminders
//   - NAS: file share layout for reconciliation
//   - Server: file-open server bind address
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Notion        Notion        `toml:"notion"`
	TMDB          TMDB          `toml:"tmdb"`
	Matching      Matching      `toml:"matching"`
	Enrichment    Enrichment    `toml:"enrichment"`
	Calendar      Calendar      `toml:"calendar"`
	NAS           NAS           `toml:"nas"`
	Server        Server        `toml:"server"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A .env file in the
// working directory is read first so credentials can live outside the TOML.
// Credentials themselves are checked per command through ValidateFor.
func Load(path string) (*Config, string, bool, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", false, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("reelsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the single-instance lock file for enrichment passes.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "reelsync.lock")
}

// ServerLockPath returns the lock file held by the file-open server.
func (c *Config) ServerLockPath() string {
	return filepath.Join(c.Paths.StateDir, "server.lock")
}

// PendingDBPath returns the SQLite file holding deferred match decisions.
func (c *Config) PendingDBPath() string {
	return filepath.Join(c.Paths.StateDir, "pending.db")
}

// WriteSettle is the pause after each image append before the next existence check.
func (c *Config) WriteSettle() time.Duration {
	return time.Duration(c.Notion.WriteSettleMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
