package identification

import "github.com/pmezard/go-difflib/difflib"

// Similarity returns the Ratcliff/Obershelp ratio 2*M/T between two strings,
// compared rune by rune. Inputs are put in a canonical order first so the
// result does not depend on argument order.
func Similarity(a, b string) float64 {
	if b < a {
		a, b = b, a
	}
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
