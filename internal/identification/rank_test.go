package identification

import (
	"fmt"
	"math"
	"testing"

	"reelsync/internal/catalog"
)

func TestScoreFormula(t *testing.T) {
	c := catalog.Candidate{Title: "Inception", VoteAverage: 8, Popularity: 50, VoteCount: 9999}
	want := 3*1.0 + 1.6*0.8 + 0.9*0.5 + 0.6*math.Log10(10000)/4
	if got := Score(c, "Inception"); math.Abs(got-want) > 1e-9 {
		t.Fatalf("Score = %v, want %v", got, want)
	}
}

func TestScoreUsesOriginalTitle(t *testing.T) {
	dubbed := catalog.Candidate{Title: "Le Voyage de Chihiro", OriginalTitle: "Spirited Away"}
	plain := catalog.Candidate{Title: "Le Voyage de Chihiro"}
	if Score(dubbed, "Spirited Away") <= Score(plain, "Spirited Away") {
		t.Fatal("expected original title to lift the score")
	}
}

func TestRankOrdersDescendingAndKeepsTies(t *testing.T) {
	candidates := []catalog.Candidate{
		{ID: 1, Title: "Heat", VoteAverage: 5},
		{ID: 2, Title: "Inception", VoteAverage: 5},
		{ID: 3, Title: "Heat", VoteAverage: 5},
	}
	ranked := Rank(candidates, "Heat")
	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked, got %d", len(ranked))
	}
	if ranked[0].ID != 1 || ranked[1].ID != 3 || ranked[2].ID != 2 {
		t.Fatalf("unexpected order: %d %d %d", ranked[0].ID, ranked[1].ID, ranked[2].ID)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Fatalf("ranking not descending at %d", i)
		}
	}
}

func TestRankIsStableAcrossCalls(t *testing.T) {
	candidates := make([]catalog.Candidate, 0, 6)
	for i := range 6 {
		candidates = append(candidates, catalog.Candidate{ID: int64(i), Title: "Same", VoteAverage: 7})
	}
	first := Rank(candidates, "Same")
	second := Rank(candidates, "Same")
	for i := range first {
		if first[i].ID != int64(i) || second[i].ID != int64(i) {
			t.Fatalf("tie order changed at %d: %d / %d", i, first[i].ID, second[i].ID)
		}
	}
}

func TestRankTruncatesToMax(t *testing.T) {
	candidates := make([]catalog.Candidate, 0, 15)
	for i := range 15 {
		candidates = append(candidates, catalog.Candidate{ID: int64(i), Title: fmt.Sprintf("Film %c", 'a'+i)})
	}
	if got := len(Rank(candidates, "Film")); got != MaxRanked {
		t.Fatalf("expected %d ranked, got %d", MaxRanked, got)
	}
	if Rank(nil, "anything") != nil {
		t.Fatal("expected nil for no candidates")
	}
}
