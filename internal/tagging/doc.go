// Package tagging derives descriptive tags for a movie from its genre
// categories, release year, and provider vote figures.
//
// Infer is pure. Category matching ignores case and diacritics and knows both
// the English and French TMDB genre names.
package tagging
