package catalog_test

import (
	"testing"
	"time"

	"reelsync/internal/catalog"
)

func TestCandidateReleaseTime(t *testing.T) {
	c := catalog.Candidate{ReleaseDate: "2010-07-15"}
	release, ok := c.ReleaseTime()
	if !ok || release.Year() != 2010 || release.Month() != time.July {
		t.Fatalf("unexpected release %v %v", release, ok)
	}
	for _, raw := range []string{"", "2010", "15/07/2010", "not-a-date"} {
		if _, ok := (catalog.Candidate{ReleaseDate: raw}).ReleaseTime(); ok {
			t.Fatalf("expected %q to be treated as absent", raw)
		}
	}
	if (catalog.Candidate{ReleaseDate: "bogus"}).Year() != 0 {
		t.Fatal("expected year 0 for malformed date")
	}
}

func TestCandidateImageURLs(t *testing.T) {
	c := catalog.Candidate{PosterPath: "/p.jpg", BackdropPath: "/b.jpg"}
	if c.PosterURL() != "https://image.tmdb.org/t/p/w500/p.jpg" {
		t.Fatalf("unexpected poster url %q", c.PosterURL())
	}
	if c.BackdropURL() != "https://image.tmdb.org/t/p/w780/b.jpg" {
		t.Fatalf("unexpected backdrop url %q", c.BackdropURL())
	}
	if (catalog.Candidate{}).PosterURL() != "" {
		t.Fatal("expected empty poster url")
	}
}

func TestDirectorPicksFirstDirector(t *testing.T) {
	credits := []catalog.Credit{
		{Name: "Emma Thomas", Job: "Producer"},
		{Name: "Christopher Nolan", Job: "Director"},
		{Name: "Someone Else", Job: "Director"},
	}
	if got := catalog.Director(credits); got != "Christopher Nolan" {
		t.Fatalf("unexpected director %q", got)
	}
	if catalog.Director(nil) != "" {
		t.Fatal("expected empty director")
	}
}

func TestEntryPredicates(t *testing.T) {
	fresh := catalog.Entry{Title: "Heat"}
	if !fresh.NeedsEnrichment() || fresh.NeedsTagBackfill() {
		t.Fatal("fresh entry needs enrichment only")
	}
	enriched := catalog.Entry{Enriched: true, Categories: []string{"Crime"}}
	if enriched.NeedsEnrichment() || !enriched.NeedsTagBackfill() {
		t.Fatal("enriched entry without tags needs backfill")
	}
	enriched.Tags = []string{"classic"}
	if enriched.NeedsTagBackfill() {
		t.Fatal("existing tags must block backfill")
	}
	if (catalog.Entry{Enriched: true}).NeedsTagBackfill() {
		t.Fatal("no categories means no backfill")
	}
}

func TestPatchEmpty(t *testing.T) {
	if !(catalog.Patch{}).Empty() {
		t.Fatal("zero patch should be empty")
	}
	title := "Heat"
	if (catalog.Patch{Title: &title}).Empty() {
		t.Fatal("patch with title is not empty")
	}
}
