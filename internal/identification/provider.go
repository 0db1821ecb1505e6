package identification

import (
	"context"

	"reelsync/internal/catalog"
)

// Provider is the metadata source the matcher searches. Implementations are
// fail-soft: transport or decoding failures are logged and surface as empty or
// absent results so a flaky provider skips entries instead of aborting a run.
// Failures no retry can fix, such as a rejected API key, are latched and
// reported through ProviderErr.
type Provider interface {
	// Search returns the provider's first page of movie hits. An empty
	// language selects the provider default.
	Search(ctx context.Context, title string, year int, language string) []catalog.Candidate
	GetByID(ctx context.Context, id string) (*catalog.Candidate, bool)
	GetByAlternateID(ctx context.Context, imdbID string) (*catalog.Candidate, bool)
	Credits(ctx context.Context, id int64) []catalog.Credit
	Details(ctx context.Context, id int64) catalog.Details
}

// FailureLatch is implemented by providers that remember a failure every
// later call would repeat.
type FailureLatch interface {
	Err() error
}

// ProviderErr returns the latched failure of p, or nil.
func ProviderErr(p Provider) error {
	if latch, ok := p.(FailureLatch); ok {
		return latch.Err()
	}
	return nil
}
