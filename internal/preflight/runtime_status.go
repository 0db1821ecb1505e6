package preflight

import (
	"context"

	"reelsync/internal/config"
)

// CheckConfig validates the whole configuration.
func CheckConfig(cfg *config.Config) Result {
	const name = "Configuration"
	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if err := cfg.Validate(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "Valid"}
}

// CheckNotionFromConfig checks Notion reachability with the configured credentials.
func CheckNotionFromConfig(ctx context.Context, cfg *config.Config) Result {
	if cfg == nil {
		return Result{Name: "Notion", Detail: "Unknown"}
	}
	return CheckNotion(ctx, cfg.Notion.BaseURL, cfg.Notion.Version, cfg.Notion.Token, cfg.Notion.DatabaseID)
}

// CheckTMDBFromConfig checks TMDB reachability with the configured key.
func CheckTMDBFromConfig(ctx context.Context, cfg *config.Config) Result {
	if cfg == nil {
		return Result{Name: "TMDB", Detail: "Unknown"}
	}
	return CheckTMDB(ctx, cfg.TMDB.BaseURL, cfg.TMDB.APIKey)
}

// CheckCalendarFromConfig checks that the service-account key is readable
// when reminders are enabled.
func CheckCalendarFromConfig(cfg *config.Config) Result {
	const name = "Google Calendar"
	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.Calendar.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	if cfg.Calendar.CalendarID == "" {
		return Result{Name: name, Detail: "Missing calendar id"}
	}
	return CheckReadableFile(name, cfg.Calendar.CredentialsFile)
}
