package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"reelsync/internal/services"
)

// Result represents a single TMDB movie record as returned by search, find,
// and movie detail endpoints.
type Result struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	Popularity    float64 `json:"popularity"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int64   `json:"vote_count"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Genre is a TMDB genre label, localized to the request language.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the /movie/{id} payload.
type MovieDetails struct {
	Result
	Genres []Genre `json:"genres"`
}

// CrewMember is one crew line of the credits payload.
type CrewMember struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits is the /movie/{id}/credits payload; cast is not needed.
type Credits struct {
	ID   int64        `json:"id"`
	Crew []CrewMember `json:"crew"`
}

type findResponse struct {
	MovieResults []Result `json:"movie_results"`
}

// Client provides access to the TMDB v3 API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or negative disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tmdb", "new client", "api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tmdb", "new client", "base url required", nil)
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Language returns the default request language.
func (c *Client) Language() string {
	return c.language
}

// SearchOptions contains optional parameters for TMDB movie search.
type SearchOptions struct {
	Year     int
	Language string
}

// CacheKey returns a stable string representation for caching.
func (o SearchOptions) CacheKey() string {
	return "y=" + strconv.Itoa(o.Year) + "|l=" + strings.ToLower(strings.TrimSpace(o.Language))
}

// SearchMovie performs a TMDB movie search. Only the first result page is read.
func (c *Client) SearchMovie(ctx context.Context, query string, opts SearchOptions) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "search", "query must not be empty", nil)
	}
	params := url.Values{}
	params.Set("query", query)
	if opts.Year > 0 {
		params.Set("year", strconv.Itoa(opts.Year))
	}
	var payload Response
	if err := c.get(ctx, "/search/movie", opts.Language, params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetMovie fetches movie details, genres included, by TMDB id.
func (c *Client) GetMovie(ctx context.Context, movieID int64) (*MovieDetails, error) {
	if movieID <= 0 {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "movie details", "movie id must be positive", nil)
	}
	var payload MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), "", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FindByIMDbID resolves an IMDb title id to the first matching TMDB movie.
func (c *Client) FindByIMDbID(ctx context.Context, imdbID string) (*Result, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "find", "imdb id must not be empty", nil)
	}
	params := url.Values{}
	params.Set("external_source", "imdb_id")
	var payload findResponse
	if err := c.get(ctx, "/find/"+url.PathEscape(imdbID), "", params, &payload); err != nil {
		return nil, err
	}
	if len(payload.MovieResults) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "tmdb", "find", "no movie for "+imdbID, nil)
	}
	return &payload.MovieResults[0], nil
}

// GetCredits fetches the crew list for a movie.
func (c *Client) GetCredits(ctx context.Context, movieID int64) (*Credits, error) {
	if movieID <= 0 {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "credits", "movie id must be positive", nil)
	}
	var payload Credits
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", movieID), "", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path, language string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if language == "" {
		language = c.language
	}
	if language != "" {
		params.Set("language", language)
	}
	endpoint.RawQuery = params.Encode()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("tmdb rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrTransient, "tmdb", path, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "tmdb", path, fmt.Sprintf("returned 404 (latency=%v)", latency), nil)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return services.Wrap(services.ErrConfiguration, "tmdb", path,
			fmt.Sprintf("api key rejected (%d)", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return services.Wrap(services.ErrTransient, "tmdb", path, fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrTransient, "tmdb", path, "decode response", err)
	}
	return nil
}

// IsNotFound reports whether err is a TMDB 404 or an empty find result.
func IsNotFound(err error) bool {
	return errors.Is(err, services.ErrNotFound)
}
