package enrichment

import (
	"context"
	"time"

	"reelsync/internal/catalog"
	"reelsync/internal/identification"
)

// Store is the catalog document store.
type Store interface {
	ListEntries(ctx context.Context) ([]catalog.Entry, error)
	Entry(ctx context.Context, pageID string) (catalog.Entry, error)
	UpdateEntry(ctx context.Context, pageID string, patch catalog.Patch) error
	HasImage(ctx context.Context, pageID, imageURL string) (bool, error)
	AppendImage(ctx context.Context, pageID, imageURL, after string) (string, error)
	FirstBlockID(ctx context.Context, pageID string) (string, error)
	SetCover(ctx context.Context, pageID, imageURL string) error
	HasCover(ctx context.Context, pageID string) (bool, error)
}

// Calendar creates release reminders.
type Calendar interface {
	EventExistsForUID(ctx context.Context, uid string) (bool, error)
	EventExistsOnDay(ctx context.Context, title string, day time.Time) (bool, error)
	CreateEvent(ctx context.Context, summary string, day time.Time, uid string) error
}

// ChoiceKind is the answer to a manual choice.
type ChoiceKind int

const (
	// ChoiceCancelled skips the entry for this run.
	ChoiceCancelled ChoiceKind = iota
	// ChoiceSelected picks Ranked[Index].
	ChoiceSelected
	// ChoiceExplicit supplies a TMDB or IMDb reference in Reference.
	ChoiceExplicit
	// ChoiceDeferred parks the choice for a later session.
	ChoiceDeferred
)

func (k ChoiceKind) String() string {
	switch k {
	case ChoiceSelected:
		return "selected"
	case ChoiceExplicit:
		return "explicit"
	case ChoiceDeferred:
		return "deferred"
	default:
		return "cancelled"
	}
}

// ChoiceRequest is what a Prompter is asked to decide.
type ChoiceRequest struct {
	Entry       catalog.Entry
	Ranked      []identification.ScoredCandidate
	Query       string
	Year        int
	ResultCount int
	Reason      string
}

// ChoiceResult is a Prompter answer.
type ChoiceResult struct {
	Kind      ChoiceKind
	Index     int
	Reference string
}

// Prompter resolves manual choices.
type Prompter interface {
	Prompt(ctx context.Context, req ChoiceRequest) (ChoiceResult, error)
}
