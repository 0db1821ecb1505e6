package catalog

import (
	"strings"
	"time"
)

const (
	posterBaseURL   = "https://image.tmdb.org/t/p/w500"
	backdropBaseURL = "https://image.tmdb.org/t/p/w780"
	dateLayout      = "2006-01-02"
)

// Entry is one movie page of the tracked Notion database.
type Entry struct {
	ID          string
	Title       string
	ReleaseDate *time.Time
	Enriched    bool
	Tags        []string
	Categories  []string
	NASPath     string
}

// NeedsEnrichment reports whether the entry has no TMDB linkage yet.
func (e Entry) NeedsEnrichment() bool {
	return !e.Enriched
}

// NeedsTagBackfill reports whether the entry qualifies for the one-time tag repair:
// enriched, categorized, and still without tags.
func (e Entry) NeedsTagBackfill() bool {
	return e.Enriched && len(e.Categories) > 0 && len(e.Tags) == 0
}

// ReleaseYear returns the release year or 0 when unknown.
func (e Entry) ReleaseYear() int {
	if e.ReleaseDate == nil {
		return 0
	}
	return e.ReleaseDate.Year()
}

// Candidate is one TMDB movie record returned by a search or lookup.
type Candidate struct {
	ID            int64
	Title         string
	OriginalTitle string
	ReleaseDate   string
	VoteAverage   float64
	VoteCount     int64
	Popularity    float64
	Overview      string
	PosterPath    string
	BackdropPath  string
}

// ReleaseTime parses the ISO release date. Empty or malformed dates report false.
func (c Candidate) ReleaseTime() (time.Time, bool) {
	raw := strings.TrimSpace(c.ReleaseDate)
	if len(raw) < len(dateLayout) {
		return time.Time{}, false
	}
	parsed, err := time.Parse(dateLayout, raw[:len(dateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// Year returns the release year or 0 when the date is unusable.
func (c Candidate) Year() int {
	if t, ok := c.ReleaseTime(); ok {
		return t.Year()
	}
	return 0
}

// PosterURL returns the w500 poster URL, or "" when TMDB has no poster.
func (c Candidate) PosterURL() string {
	if strings.TrimSpace(c.PosterPath) == "" {
		return ""
	}
	return posterBaseURL + c.PosterPath
}

// BackdropURL returns the w780 backdrop URL, or "" when TMDB has no backdrop.
func (c Candidate) BackdropURL() string {
	if strings.TrimSpace(c.BackdropPath) == "" {
		return ""
	}
	return backdropBaseURL + c.BackdropPath
}

// Credit is a single cast or crew line.
type Credit struct {
	Name string
	Job  string
}

// Director returns the first credited director, or "".
func Director(credits []Credit) string {
	for _, c := range credits {
		if c.Job == "Director" {
			return c.Name
		}
	}
	return ""
}

// Details carries the extra movie fields fetched after a match.
type Details struct {
	Genres []string
}

// Patch lists the properties written back to a catalog entry. Nil pointers and
// empty slices are left untouched by the store.
type Patch struct {
	Title       *string
	Synopsis    *string
	Director    *string
	Status      *string
	Support     *string
	Type        *string
	Enriched    *bool
	Categories  []string
	Tags        []string
	ReleaseDate *time.Time
}

// Empty reports whether the patch would write nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Synopsis == nil && p.Director == nil && p.Status == nil &&
		p.Support == nil && p.Type == nil && p.Enriched == nil && len(p.Categories) == 0 &&
		len(p.Tags) == 0 && p.ReleaseDate == nil
}
