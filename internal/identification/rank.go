package identification

import (
	"math"
	"sort"

	"reelsync/internal/catalog"
)

// MaxRanked caps how many candidates survive ranking and reach a reviewer.
const MaxRanked = 10

const (
	weightSimilarity = 3.0
	weightVote       = 1.6
	weightPopularity = 0.9
	weightVoteCount  = 0.6
)

// ScoredCandidate pairs a candidate with its ranking score.
type ScoredCandidate struct {
	catalog.Candidate
	Score float64
}

// Score ranks a candidate against the catalog title. Title similarity dominates;
// rating, popularity, and damped vote count break ties between plausible titles.
// Popularity is not capped.
func Score(candidate catalog.Candidate, query string) float64 {
	sim := titleSimilarity(candidate, query)
	vote := candidate.VoteAverage / 10
	pop := candidate.Popularity / 100
	count := math.Log10(1+float64(max(candidate.VoteCount, 0))) / 4
	return weightSimilarity*sim + weightVote*vote + weightPopularity*pop + weightVoteCount*count
}

// titleSimilarity compares the query against both the localized and original
// title so dubbed releases still match.
func titleSimilarity(candidate catalog.Candidate, query string) float64 {
	normalizedQuery := NormalizeStrict(query)
	best := Similarity(normalizedQuery, NormalizeStrict(candidate.Title))
	if candidate.OriginalTitle != "" {
		if original := Similarity(normalizedQuery, NormalizeStrict(candidate.OriginalTitle)); original > best {
			best = original
		}
	}
	return best
}

// Rank scores every candidate, orders them best first (provider order on ties),
// and keeps at most MaxRanked.
func Rank(candidates []catalog.Candidate, query string) []ScoredCandidate {
	if len(candidates) == 0 {
		return nil
	}
	scored := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = ScoredCandidate{Candidate: c, Score: Score(c, query)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > MaxRanked {
		scored = scored[:MaxRanked]
	}
	return scored
}
