package identification

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"reelsync/internal/catalog"
)

// ErrUnrecognizedReference is returned when the input is neither a TMDB movie
// URL/id nor an IMDb title URL/id. It is terminal for the entry.
var ErrUnrecognizedReference = errors.New("unrecognized movie reference")

// ErrReferenceNotFound means the reference parsed but the provider has no movie for it.
var ErrReferenceNotFound = errors.New("movie reference not found")

var (
	tmdbURLPattern  = regexp.MustCompile(`/movie/(\d+)`)
	imdbURLPattern  = regexp.MustCompile(`/title/(tt\d+)`)
	bareTMDBPattern = regexp.MustCompile(`^\d+$`)
	bareIMDbPattern = regexp.MustCompile(`^tt\d+$`)
)

// ExplicitReference carries whichever identifier was recognized. At most one
// field is set.
type ExplicitReference struct {
	TMDBID string
	IMDbID string
}

// Empty reports whether nothing was recognized.
func (r ExplicitReference) Empty() bool {
	return r.TMDBID == "" && r.IMDbID == ""
}

// ParseExplicitReference recognizes a TMDB movie URL, an IMDb title URL, or a
// bare numeric TMDB id / tt-prefixed IMDb id. TMDB URLs take precedence when a
// string somehow contains both.
func ParseExplicitReference(input string) ExplicitReference {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ExplicitReference{}
	}
	if m := tmdbURLPattern.FindStringSubmatch(trimmed); m != nil {
		return ExplicitReference{TMDBID: m[1]}
	}
	if m := imdbURLPattern.FindStringSubmatch(trimmed); m != nil {
		return ExplicitReference{IMDbID: m[1]}
	}
	if bareTMDBPattern.MatchString(trimmed) {
		return ExplicitReference{TMDBID: trimmed}
	}
	if bareIMDbPattern.MatchString(trimmed) {
		return ExplicitReference{IMDbID: trimmed}
	}
	return ExplicitReference{}
}

// Resolver fetches a candidate from an explicit reference.
type Resolver struct {
	provider Provider
}

// NewResolver wraps a metadata provider.
func NewResolver(provider Provider) *Resolver {
	return &Resolver{provider: provider}
}

// ResolveExplicit parses input and fetches the movie it names. Unrecognized
// input returns ErrUnrecognizedReference without calling the provider.
func (r *Resolver) ResolveExplicit(ctx context.Context, input string) (*catalog.Candidate, error) {
	ref := ParseExplicitReference(input)
	if ref.Empty() {
		return nil, ErrUnrecognizedReference
	}
	var (
		candidate *catalog.Candidate
		ok        bool
	)
	if ref.TMDBID != "" {
		candidate, ok = r.provider.GetByID(ctx, ref.TMDBID)
	} else {
		candidate, ok = r.provider.GetByAlternateID(ctx, ref.IMDbID)
	}
	if err := ProviderErr(r.provider); err != nil {
		return nil, err
	}
	if !ok || candidate == nil {
		return nil, ErrReferenceNotFound
	}
	return candidate, nil
}
