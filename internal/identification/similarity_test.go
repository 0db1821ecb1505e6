package identification

import (
	"math"
	"testing"
)

func TestSimilarityIdentity(t *testing.T) {
	for _, s := range []string{"", "a", "inception", "amelie", "東京物語"} {
		if got := Similarity(s, s); got != 1.0 {
			t.Fatalf("Similarity(%q, %q) = %v, want 1", s, s, got)
		}
	}
}

func TestSimilarityKnownValues(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"abcd", "bcde", 0.75},
		{"abc", "xyz", 0},
		{"inception", "inceptio", 16.0 / 17.0},
		{"", "abc", 0},
		{"amelie", "amélie", 10.0 / 12.0},
		{"lesmiserables", "miserables", 20.0 / 23.0},
	}
	for _, tc := range cases {
		if got := Similarity(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("Similarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSimilarityIsSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"inception", "interstellar"},
		{"abcd", "bcda"},
		{"thedarkknight", "darkknightrises"},
		{"aab", "aba"},
		{"lesmiserables", "miserables"},
	}
	for _, pair := range pairs {
		ab := Similarity(pair[0], pair[1])
		ba := Similarity(pair[1], pair[0])
		if ab != ba {
			t.Fatalf("Similarity not symmetric for %q/%q: %v vs %v", pair[0], pair[1], ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Fatalf("Similarity out of range: %v", ab)
		}
	}
}
