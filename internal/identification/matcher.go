package identification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"reelsync/internal/catalog"
	"reelsync/internal/logging"
)

// ErrEmptyTitle means the catalog title normalizes to nothing usable.
var ErrEmptyTitle = errors.New("title has no searchable characters")

// MatchResult is the full outcome of matching one catalog entry.
type MatchResult struct {
	Query       string
	Year        int
	ResultCount int
	Decision    Decision
}

// Matcher runs the search, rank, and decide pipeline for catalog entries.
type Matcher struct {
	provider   Provider
	thresholds Thresholds
	language   string
	logger     *slog.Logger
	now        func() time.Time
}

// MatcherOption customizes a Matcher.
type MatcherOption func(*Matcher)

// WithThresholds overrides the default auto-accept thresholds.
func WithThresholds(th Thresholds) MatcherOption {
	return func(m *Matcher) { m.thresholds = th }
}

// WithLanguage sets the provider language passed on every search.
func WithLanguage(language string) MatcherOption {
	return func(m *Matcher) { m.language = language }
}

// WithLogger attaches a logger for scoring diagnostics.
func WithLogger(logger *slog.Logger) MatcherOption {
	return func(m *Matcher) { m.logger = logger }
}

// WithClock injects the time source used by the future-release check.
func WithClock(now func() time.Time) MatcherOption {
	return func(m *Matcher) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMatcher constructs a Matcher over the provider.
func NewMatcher(provider Provider, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		provider:   provider,
		thresholds: DefaultThresholds(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.NewComponentLogger(m.logger, "identification")
	return m
}

// Match resolves a catalog entry to a decision. A year embedded in the title
// wins over the entry's release date when narrowing the search.
func (m *Matcher) Match(ctx context.Context, entry catalog.Entry) (MatchResult, error) {
	logger := logging.WithContext(ctx, m.logger)
	if NormalizeStrict(entry.Title) == "" {
		return MatchResult{}, ErrEmptyTitle
	}
	query := CleanSearchTitle(entry.Title)
	year, ok := ExtractYear(entry.Title)
	if !ok {
		year = entry.ReleaseYear()
	}

	candidates := m.provider.Search(ctx, query, year, m.language)
	if err := ProviderErr(m.provider); err != nil {
		return MatchResult{}, err
	}
	ranked := Rank(candidates, entry.Title)
	logRanking(logger, entry.Title, query, ranked, len(candidates))

	decision := Decide(ranked, entry.Title, DecideOptions{
		Now:         m.now(),
		ResultCount: len(candidates),
		Thresholds:  m.thresholds,
	})
	logger.Info("match decision",
		logging.Args(append(logging.DecisionAttrs("tmdb_match", decision.Kind.String(), decision.Reason),
			logging.String("title", entry.Title),
			logging.Int("result_count", len(candidates)))...)...)
	return MatchResult{Query: query, Year: year, ResultCount: len(candidates), Decision: decision}, nil
}

func logRanking(logger *slog.Logger, title, query string, ranked []ScoredCandidate, total int) {
	logger.Debug("candidate ranking",
		logging.String("title", title),
		logging.String("query", query),
		logging.Int("total_results", total))
	for idx, c := range ranked {
		logger.Debug("candidate score",
			logging.Int("rank", idx+1),
			logging.Int64("tmdb_id", c.ID),
			logging.String("candidate_title", c.Title),
			logging.String("release_date", c.ReleaseDate),
			logging.Float64("score", c.Score),
			logging.Float64("vote_average", c.VoteAverage),
			logging.Int64("vote_count", c.VoteCount))
	}
}
