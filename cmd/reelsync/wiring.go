package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"reelsync/internal/calendar"
	"reelsync/internal/config"
	"reelsync/internal/enrichment"
	"reelsync/internal/identification"
	"reelsync/internal/identification/tmdb"
	"reelsync/internal/notifications"
	"reelsync/internal/notion"
)

func thresholdsFromConfig(m config.Matching) identification.Thresholds {
	return identification.Thresholds{
		DecisiveScore:   m.DecisiveScore,
		DecisiveMargin:  m.DecisiveMargin,
		PopularScore:    m.PopularScore,
		PopularVotes:    m.PopularVotes,
		TitleSimilarity: m.TitleSimilarity,
	}
}

func newProvider(cfg *config.Config, logger *slog.Logger) (*tmdb.Provider, error) {
	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		tmdb.WithRateLimit(cfg.TMDB.RequestsPerSecond),
		tmdb.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TMDB.RequestTimeout) * time.Second}),
	)
	if err != nil {
		return nil, fmt.Errorf("create TMDB client: %w", err)
	}
	return tmdb.NewProvider(client, logger, cfg.TMDB.SearchCacheSize)
}

func newMatcher(cfg *config.Config, provider identification.Provider, logger *slog.Logger, th identification.Thresholds) *identification.Matcher {
	return identification.NewMatcher(provider,
		identification.WithThresholds(th),
		identification.WithLanguage(cfg.TMDB.Language),
		identification.WithLogger(logger),
	)
}

// runnerSetup is the fully wired enrichment stack of one command.
type runnerSetup struct {
	runner   *enrichment.Runner
	store    *notion.Store
	provider *tmdb.Provider
}

// choosePrompter builds a prompter once the metadata provider exists.
type choosePrompter func(provider *tmdb.Provider) enrichment.Prompter

func newRunnerSetup(ctx context.Context, cfg *config.Config, logger *slog.Logger, chooser choosePrompter, opts enrichment.Options) (*runnerSetup, error) {
	store, err := notion.NewStoreFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	provider, err := newProvider(cfg, logger)
	if err != nil {
		return nil, err
	}
	deps := enrichment.Dependencies{
		Store:    store,
		Provider: provider,
		Matcher:  newMatcher(cfg, provider, logger, thresholdsFromConfig(cfg.Matching)),
		Notifier: notifications.NewService(cfg),
		Logger:   logger,
	}
	if chooser != nil {
		deps.Prompter = chooser(provider)
	}
	if !opts.SkipCalendar {
		cal, err := calendar.NewFromConfig(ctx, cfg.Calendar, logger)
		if err != nil {
			return nil, err
		}
		deps.Calendar = cal
	}
	runner, err := enrichment.NewRunner(deps, opts)
	if err != nil {
		return nil, err
	}
	return &runnerSetup{runner: runner, store: store, provider: provider}, nil
}

// enrichFeatures lists the config sections a run with opts touches.
func enrichFeatures(opts enrichment.Options) []config.Feature {
	features := []config.Feature{config.FeatureNotion, config.FeatureTMDB}
	if !opts.SkipCalendar {
		features = append(features, config.FeatureCalendar)
	}
	return features
}
