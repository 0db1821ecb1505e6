package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelsync/internal/catalog"
	"reelsync/internal/config"
	"reelsync/internal/identification"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var year int
	var permissive bool

	cmd := &cobra.Command{
		Use:   "identify <title>",
		Short: "Show how a title would be matched against TMDB",
		Long: `Search TMDB for a title and show the ranked candidates, their scores, and
the auto-accept decision. Nothing is written to the catalog.

Examples:
  reelsync identify "Inception"
  reelsync identify "Heat" --year 1995
  reelsync identify "Dune" --permissive   # score rules only, no consistency gate`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configFor(config.FeatureTMDB)
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			provider, err := newProvider(cfg, logger)
			if err != nil {
				return err
			}
			th := thresholdsFromConfig(cfg.Matching)
			th.DisableConsistencyGate = permissive
			matcher := newMatcher(cfg, provider, logger, th)

			entry := catalog.Entry{Title: strings.Join(args, " ")}
			if year > 0 {
				release := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
				entry.ReleaseDate = &release
			}

			runCtx, cancel := signalContext(cmd)
			defer cancel()
			result, err := matcher.Match(runCtx, entry)
			if errors.Is(err, identification.ErrEmptyTitle) {
				return fmt.Errorf("%q has nothing to search for", entry.Title)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			yearLabel := "any"
			if result.Year > 0 {
				yearLabel = strconv.Itoa(result.Year)
			}
			fmt.Fprintf(out, "🔍 Query: %q · year: %s · results: %d\n", result.Query, yearLabel, result.ResultCount)
			if len(result.Decision.Ranked) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Title", "Year", "Score", "Rating", "Votes", "Popularity", "TMDB"},
					rankedRows(result.Decision.Ranked),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
			}
			fmt.Fprintln(out, describeDecision(result.Decision))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Release year to narrow the search")
	cmd.Flags().BoolVar(&permissive, "permissive", false, "Skip the release/title consistency gate")
	return cmd
}

func rankedRows(ranked []identification.ScoredCandidate) [][]string {
	rows := make([][]string, 0, len(ranked))
	for i, c := range ranked {
		year := ""
		if y := c.Year(); y > 0 {
			year = strconv.Itoa(y)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Title,
			year,
			fmt.Sprintf("%.3f", c.Score),
			fmt.Sprintf("%.1f", c.VoteAverage),
			strconv.FormatInt(c.VoteCount, 10),
			fmt.Sprintf("%.1f", c.Popularity),
			strconv.FormatInt(c.ID, 10),
		})
	}
	return rows
}

func describeDecision(d identification.Decision) string {
	switch d.Kind {
	case identification.DecisionAccepted:
		return fmt.Sprintf("✅ Decision: accepted (%s) → %s (%d), TMDB %d",
			d.Reason, d.Accepted.Title, d.Accepted.Year(), d.Accepted.ID)
	case identification.DecisionNeedsManualChoice:
		return fmt.Sprintf("🤔 Decision: manual choice needed (%s)", d.Reason)
	default:
		return fmt.Sprintf("❌ Decision: no candidates, an explicit TMDB or IMDb reference is needed (%s)", d.Reason)
	}
}
