// Package config loads, normalizes, and validates reelsync configuration data.
//
// It supplies defaults matching the original French Notion schema, expands user
// paths (including tilde shortcuts), reads TOML files, and honours a .env file
// plus environment fallbacks such as NOTION_TOKEN and TMDB_API_KEY. Structural
// checks run at load time; credentials are validated per command so `reelsync
// reconcile` does not demand calendar credentials.
package config
