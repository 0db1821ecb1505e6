package tagging

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tag labels.
const (
	Relaxing       = "relaxing"
	Complex        = "complex"
	IntenseHarsh   = "intense/harsh"
	Classic        = "classic"
	FamilyFriendly = "family-friendly"
	MustSee        = "must-see"
	Overrated      = "overrated"
	Obscure        = "obscure"
	Trending       = "trending"
	ExactMatch     = "exact-match"
)

const classicBefore = 2000

var categoryGroups = []struct {
	tag   string
	names []string
}{
	{Relaxing, []string{"comedy", "comedie", "animation", "family", "familial", "romance", "musical", "music", "musique", "humor", "humour"}},
	{Complex, []string{"psychological", "psychologique", "drama", "drame", "mystery", "mystere", "noir", "film noir", "historical", "history", "histoire", "historique"}},
	{IntenseHarsh, []string{"horror", "horreur", "war", "guerre", "crime", "thriller", "police", "policier"}},
	{FamilyFriendly, []string{"animation", "family", "familial"}},
}

// Metrics are the provider figures behind the metric tags.
type Metrics struct {
	VoteAverage float64
	VoteCount   int64
	Popularity  float64
	// ResultCount is the raw number of search hits for the title.
	ResultCount int
}

// Set is a sorted, duplicate-free list of tags.
type Set []string

// Contains reports whether tag is in the set.
func (s Set) Contains(tag string) bool {
	i := sort.SearchStrings(s, tag)
	return i < len(s) && s[i] == tag
}

// Union merges two sets.
func (s Set) Union(other Set) Set {
	return newSet(append(append([]string{}, s...), other...))
}

func newSet(tags []string) Set {
	if len(tags) == 0 {
		return Set{}
	}
	sort.Strings(tags)
	out := tags[:1]
	for _, t := range tags[1:] {
		if t != out[len(out)-1] {
			out = append(out, t)
		}
	}
	return Set(out)
}

// Infer returns the category tags for categories and releaseYear (0 when
// unknown) plus the metric tags when metrics is non-nil.
func Infer(categories []string, releaseYear int, metrics *Metrics) Set {
	present := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if key := foldCategory(c); key != "" {
			present[key] = struct{}{}
		}
	}

	var tags []string
	for _, group := range categoryGroups {
		for _, name := range group.names {
			if _, ok := present[name]; ok {
				tags = append(tags, group.tag)
				break
			}
		}
	}
	if releaseYear > 0 && releaseYear < classicBefore {
		tags = append(tags, Classic)
	}
	if metrics != nil {
		tags = append(tags, metricTags(*metrics)...)
	}
	return newSet(tags)
}

func metricTags(m Metrics) []string {
	var tags []string
	if m.VoteAverage >= 7.8 && m.VoteCount >= 5000 {
		tags = append(tags, MustSee)
	}
	if m.VoteAverage <= 6 && m.VoteCount >= 2000 {
		tags = append(tags, Overrated)
	}
	if m.VoteCount < 500 {
		tags = append(tags, Obscure)
	}
	if m.Popularity >= 80 {
		tags = append(tags, Trending)
	}
	if m.ResultCount == 1 {
		tags = append(tags, ExactMatch)
	}
	return tags
}

// foldCategory case-folds, strips diacritics, and collapses punctuation and
// whitespace runs into single spaces. Digits are kept.
func foldCategory(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, cases.Fold().String(name))
	if err != nil {
		stripped = strings.ToLower(name)
	}
	return strings.Join(strings.FieldsFunc(stripped, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}
