package library

import (
	"strings"

	"reelsync/internal/identification"
)

// FindMatch returns the first file whose normalized name contains the
// normalized title. When the title carries a year the file year must equal it.
// A title that normalizes to nothing never matches.
func FindMatch(title string, files []File) (File, bool) {
	key := identification.NormalizeStrict(title)
	if key == "" {
		return File{}, false
	}
	year, hasYear := identification.ExtractYear(title)
	for _, f := range files {
		if !strings.Contains(f.Normalized, key) {
			continue
		}
		if hasYear && f.Year != year {
			continue
		}
		return f, true
	}
	return File{}, false
}
