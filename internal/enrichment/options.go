package enrichment

import (
	"time"

	"reelsync/internal/config"
)

// Options are the catalog conventions applied while enriching.
type Options struct {
	DefaultStatus   string
	SupportUpcoming string
	SupportReleased string
	TypeLabel       string
	AttachImages    bool
	SetCover        bool
	SummaryPrefix   string
	// WriteSettle pauses after each image append so the next existence check
	// sees the new block.
	WriteSettle  time.Duration
	SkipBackfill bool
	SkipCalendar bool
}

// OptionsFromConfig maps the enrichment, calendar, and notion sections.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DefaultStatus:   cfg.Enrichment.DefaultStatus,
		SupportUpcoming: cfg.Enrichment.SupportUpcoming,
		SupportReleased: cfg.Enrichment.SupportReleased,
		TypeLabel:       cfg.Enrichment.TypeLabel,
		AttachImages:    cfg.Enrichment.AttachImages,
		SetCover:        cfg.Enrichment.SetCover,
		SummaryPrefix:   cfg.Calendar.SummaryPrefix,
		WriteSettle:     cfg.WriteSettle(),
		SkipCalendar:    !cfg.Calendar.Enabled,
	}
}
