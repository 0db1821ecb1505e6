package tmdb

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/patrickmn/go-cache"

	"reelsync/internal/catalog"
	"reelsync/internal/logging"
	"reelsync/internal/services"
)

const (
	defaultSearchCacheSize = 256
	searchCacheTTL         = 10 * time.Minute
	metadataCacheTTL       = time.Hour
)

// Provider adapts Client to the matcher's fail-soft contract. Failures are
// logged and surface as empty results; configuration failures are also
// latched and reported by Err. Searches are cached in a bounded, expiring LRU;
// credits, details, and id lookups in a TTL cache so a prompt that shows the
// director of ten candidates does not refetch them when the reviewer picks one.
type Provider struct {
	client   *Client
	logger   *slog.Logger
	searches *expirable.LRU[string, []catalog.Candidate]
	metadata *cache.Cache

	mu     sync.Mutex
	failed error
}

// NewProvider wraps client. cacheSize bounds the search cache; zero uses the default.
func NewProvider(client *Client, logger *slog.Logger, cacheSize int) (*Provider, error) {
	if client == nil {
		return nil, services.Wrap(services.ErrConfiguration, "tmdb", "new provider", "client is nil", nil)
	}
	if cacheSize <= 0 {
		cacheSize = defaultSearchCacheSize
	}
	return &Provider{
		client:   client,
		logger:   logging.NewComponentLogger(logger, "tmdb"),
		searches: expirable.NewLRU[string, []catalog.Candidate](cacheSize, nil, searchCacheTTL),
		metadata: cache.New(metadataCacheTTL, 2*metadataCacheTTL),
	}, nil
}

// Search returns the first page of movie hits, or nil on failure.
func (p *Provider) Search(ctx context.Context, title string, year int, language string) []catalog.Candidate {
	opts := SearchOptions{Year: year, Language: language}
	key := strings.ToLower(strings.TrimSpace(title)) + "|" + opts.CacheKey()
	if candidates, ok := p.searches.Get(key); ok {
		return candidates
	}

	resp, err := p.client.SearchMovie(ctx, title, opts)
	if err != nil {
		p.warn(ctx, "tmdb search failed", "tmdb_search_failed", err, logging.String("query", title), logging.Int("year", year))
		return nil
	}
	candidates := make([]catalog.Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		candidates = append(candidates, toCandidate(r))
	}
	p.searches.Add(key, candidates)
	return candidates
}

// GetByID fetches a movie by its TMDB id string.
func (p *Provider) GetByID(ctx context.Context, id string) (*catalog.Candidate, bool) {
	movieID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || movieID <= 0 {
		p.warn(ctx, "invalid tmdb id", "tmdb_invalid_id", services.Wrap(services.ErrValidation, "tmdb", "get", "not a numeric id", err), logging.String("tmdb_id", id))
		return nil, false
	}
	details, ok := p.movie(ctx, movieID)
	if !ok {
		return nil, false
	}
	candidate := toCandidate(details.Result)
	return &candidate, true
}

// GetByAlternateID resolves an IMDb id through /find.
func (p *Provider) GetByAlternateID(ctx context.Context, imdbID string) (*catalog.Candidate, bool) {
	key := "find:" + imdbID
	if cached, ok := p.metadata.Get(key); ok {
		candidate := cached.(catalog.Candidate)
		return &candidate, true
	}
	result, err := p.client.FindByIMDbID(ctx, imdbID)
	if err != nil {
		p.warn(ctx, "tmdb find failed", "tmdb_find_failed", err, logging.String("imdb_id", imdbID))
		return nil, false
	}
	candidate := toCandidate(*result)
	p.metadata.SetDefault(key, candidate)
	return &candidate, true
}

// Credits returns the crew list, or nil on failure.
func (p *Provider) Credits(ctx context.Context, id int64) []catalog.Credit {
	key := "credits:" + strconv.FormatInt(id, 10)
	if cached, ok := p.metadata.Get(key); ok {
		return cached.([]catalog.Credit)
	}
	credits, err := p.client.GetCredits(ctx, id)
	if err != nil {
		p.warn(ctx, "tmdb credits failed", "tmdb_credits_failed", err, logging.Int64("tmdb_id", id))
		return nil
	}
	out := make([]catalog.Credit, 0, len(credits.Crew))
	for _, member := range credits.Crew {
		out = append(out, catalog.Credit{Name: member.Name, Job: member.Job})
	}
	p.metadata.SetDefault(key, out)
	return out
}

// Details returns the genre names, or empty details on failure.
func (p *Provider) Details(ctx context.Context, id int64) catalog.Details {
	details, ok := p.movie(ctx, id)
	if !ok {
		return catalog.Details{}
	}
	genres := make([]string, 0, len(details.Genres))
	for _, g := range details.Genres {
		if name := strings.TrimSpace(g.Name); name != "" {
			genres = append(genres, name)
		}
	}
	return catalog.Details{Genres: genres}
}

func (p *Provider) movie(ctx context.Context, id int64) (*MovieDetails, bool) {
	key := "movie:" + strconv.FormatInt(id, 10)
	if cached, ok := p.metadata.Get(key); ok {
		return cached.(*MovieDetails), true
	}
	details, err := p.client.GetMovie(ctx, id)
	if err != nil {
		p.warn(ctx, "tmdb movie lookup failed", "tmdb_movie_failed", err, logging.Int64("tmdb_id", id))
		return nil, false
	}
	p.metadata.SetDefault(key, details)
	return details, true
}

// Err returns the first configuration failure seen, such as a rejected API
// key. Every later request would fail the same way.
func (p *Provider) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

func (p *Provider) warn(ctx context.Context, msg, eventType string, err error, attrs ...logging.Attr) {
	if errors.Is(err, services.ErrConfiguration) {
		p.mu.Lock()
		if p.failed == nil {
			p.failed = err
		}
		p.mu.Unlock()
	}
	attrs = append(attrs,
		logging.Error(err),
		logging.String(logging.FieldErrorHint, services.Hint(err)),
		logging.String(logging.FieldImpact, "no usable candidate; entry skipped for this run"),
	)
	logging.WarnWithContext(logging.WithContext(ctx, p.logger), msg, eventType, attrs...)
}

func toCandidate(r Result) catalog.Candidate {
	return catalog.Candidate{
		ID:            r.ID,
		Title:         strings.TrimSpace(r.Title),
		OriginalTitle: strings.TrimSpace(r.OriginalTitle),
		ReleaseDate:   strings.TrimSpace(r.ReleaseDate),
		VoteAverage:   r.VoteAverage,
		VoteCount:     r.VoteCount,
		Popularity:    r.Popularity,
		Overview:      strings.TrimSpace(r.Overview),
		PosterPath:    r.PosterPath,
		BackdropPath:  r.BackdropPath,
	}
}
