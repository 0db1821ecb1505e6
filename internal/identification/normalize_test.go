package identification

import "testing"

func TestNormalizeStrict(t *testing.T) {
	cases := map[string]string{
		"Amélie (2001)":           "amelie",
		"Spider-Man: No Way Home": "spidermannowayhome",
		"L'Été meurtrier":         "letemeurtrier",
		"Inception (2010).mkv":    "inceptionmkv",
		"!!!":                     "",
		"1984":                    "",
	}
	for input, want := range cases {
		if got := NormalizeStrict(input); got != want {
			t.Fatalf("NormalizeStrict(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeLoose(t *testing.T) {
	cases := map[string]string{
		"Le Fabuleux Destin d'Amélie Poulain": "le fabuleux destin d amelie poulain",
		"2001: A Space Odyssey":               "a space odyssey",
		"  Heat  (Director's Cut) ":           "heat",
		"...":                                 "",
	}
	for input, want := range cases {
		if got := NormalizeLoose(input); got != want {
			t.Fatalf("NormalizeLoose(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizationIsIdempotent(t *testing.T) {
	inputs := []string{
		"Amélie (2001)",
		"Spider-Man: Across the Spider-Verse",
		"東京物語",
		"Ça (2017) — Chapitre 2",
		"",
		"Mission: Impossible – Dead Reckoning Part One",
	}
	for _, input := range inputs {
		loose := NormalizeLoose(input)
		if again := NormalizeLoose(loose); again != loose {
			t.Fatalf("NormalizeLoose not idempotent for %q: %q then %q", input, loose, again)
		}
		strict := NormalizeStrict(input)
		if again := NormalizeStrict(strict); again != strict {
			t.Fatalf("NormalizeStrict not idempotent for %q: %q then %q", input, strict, again)
		}
	}
}

func TestCleanSearchTitle(t *testing.T) {
	cases := map[string]string{
		"Inception (2010): Director's Cut": "inception director's cut",
		"Spider-Man – Far From Home":       "spider man far from home",
		"Amélie (Le Fabuleux Destin)":      "amélie",
		"Blade Runner 2049":                "blade runner",
	}
	for input, want := range cases {
		if got := CleanSearchTitle(input); got != want {
			t.Fatalf("CleanSearchTitle(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestExtractYear(t *testing.T) {
	if year, ok := ExtractYear("Dune (2021)"); !ok || year != 2021 {
		t.Fatalf("expected 2021, got %d %v", year, ok)
	}
	if year, ok := ExtractYear("Inception.2010.1080p.mkv"); !ok || year != 2010 {
		t.Fatalf("expected 2010, got %d %v", year, ok)
	}
	if _, ok := ExtractYear("Heat"); ok {
		t.Fatal("expected no year")
	}
	if _, ok := ExtractYear("Room 1408"); ok {
		t.Fatal("1408 is not a 19xx/20xx year")
	}
}
