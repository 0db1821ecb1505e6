package identification

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parenthesizedPattern = regexp.MustCompile(`\([^)]*\)`)
	digitRunPattern      = regexp.MustCompile(`[0-9]+`)
	yearPattern          = regexp.MustCompile(`(19|20)[0-9]{2}`)
	annotatedYearPattern = regexp.MustCompile(`\([0-9]{4}\)`)
	bareYearPattern      = regexp.MustCompile(`[0-9]{4}`)
	lazyParenPattern     = regexp.MustCompile(`\(.*?\)`)
	separatorPattern     = regexp.MustCompile(`[:\-–]`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
)

// foldTitle lower-cases, strips diacritics, and drops parenthesized annotations
// and digit runs. It is the shared prefix of both normalization policies.
func foldTitle(text string) string {
	folded := strings.ToLower(text)
	folded = stripMarks(folded)
	folded = parenthesizedPattern.ReplaceAllString(folded, "")
	return digitRunPattern.ReplaceAllString(folded, "")
}

func stripMarks(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}

// NormalizeLoose cleans a title for display-grade comparison: words are kept
// apart by single spaces. Letters outside ASCII survive so non-Latin titles do
// not collapse to nothing.
func NormalizeLoose(text string) string {
	folded := foldTitle(text)
	var builder strings.Builder
	pendingSpace := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && builder.Len() > 0 {
				builder.WriteByte(' ')
			}
			pendingSpace = false
			builder.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return builder.String()
}

// NormalizeStrict reduces a title to [a-z0-9] with no separators. It is used
// for similarity scoring and filename matching. An empty result means the
// input held no usable title.
func NormalizeStrict(text string) string {
	folded := foldTitle(text)
	var builder strings.Builder
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// CleanSearchTitle prepares a catalog title for the TMDB search query. Year
// annotations and parenthesized notes are removed and subtitle separators become
// spaces; other punctuation and accents are kept for the provider.
func CleanSearchTitle(title string) string {
	t := strings.ToLower(title)
	t = annotatedYearPattern.ReplaceAllString(t, "")
	t = bareYearPattern.ReplaceAllString(t, "")
	t = lazyParenPattern.ReplaceAllString(t, "")
	t = separatorPattern.ReplaceAllString(t, " ")
	t = whitespacePattern.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// ExtractYear returns the first 19xx or 20xx run in text.
func ExtractYear(text string) (int, bool) {
	match := yearPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}
