// Package tmdb provides the TMDB API client and the fail-soft provider the
// matcher searches.
//
// The client covers movie search, movie details (with genres), credits, and
// IMDb id lookups through /find. Requests share a token-bucket rate limiter.
// The Provider layer converts payloads into catalog candidates, caches
// searches and metadata, and turns every failure into an empty result plus a
// structured warning.
package tmdb
