package notion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"reelsync/internal/catalog"
	"reelsync/internal/config"
	"reelsync/internal/logging"
	"reelsync/internal/services"
)

const (
	dateLayout = "2006-01-02"
	// maxTextLength is the Notion limit for a single rich text run.
	maxTextLength = 2000
)

// Store exposes the movie database as catalog entries.
type Store struct {
	client     *Client
	databaseID string
	props      config.NotionProperties
	logger     *slog.Logger
}

// NewStore binds a client to a database and its property schema.
func NewStore(client *Client, databaseID string, props config.NotionProperties, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		client:     client,
		databaseID: strings.TrimSpace(databaseID),
		props:      props,
		logger:     logging.NewComponentLogger(logger, "notion"),
	}
}

// NewStoreFromConfig builds the client and store from the notion config section.
func NewStoreFromConfig(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "notion", "new store", "config required", nil)
	}
	client, err := New(cfg.Notion.Token, cfg.Notion.BaseURL, cfg.Notion.Version,
		WithRateLimit(cfg.Notion.RequestsPerSecond))
	if err != nil {
		return nil, err
	}
	return NewStore(client, cfg.Notion.DatabaseID, cfg.Notion.Properties, logger), nil
}

// ListEntries returns every page of the database as an entry.
func (s *Store) ListEntries(ctx context.Context) ([]catalog.Entry, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID)
	if err != nil {
		return nil, fmt.Errorf("list catalog entries: %w", err)
	}
	entries := make([]catalog.Entry, 0, len(pages))
	for _, page := range pages {
		entries = append(entries, s.entryFromPage(page))
	}
	s.logger.Debug("catalog loaded", logging.Int("entries", len(entries)))
	return entries, nil
}

// Entry fetches a single page as an entry.
func (s *Store) Entry(ctx context.Context, pageID string) (catalog.Entry, error) {
	page, err := s.client.GetPage(ctx, pageID)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("get catalog entry %s: %w", pageID, err)
	}
	return s.entryFromPage(*page), nil
}

// NASPath returns the stored file path of a page. A page without a path
// reports services.ErrNotFound.
func (s *Store) NASPath(ctx context.Context, pageID string) (string, error) {
	entry, err := s.Entry(ctx, pageID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(entry.NASPath) == "" {
		return "", services.Wrap(services.ErrNotFound, "notion", "nas path", "no path recorded for "+pageID, nil)
	}
	return entry.NASPath, nil
}

// UpdateEntry writes the non-empty fields of patch to the page.
func (s *Store) UpdateEntry(ctx context.Context, pageID string, patch catalog.Patch) error {
	if patch.Empty() {
		return nil
	}
	if err := s.client.UpdatePage(ctx, pageID, s.propertiesFromPatch(patch)); err != nil {
		return fmt.Errorf("update catalog entry %s: %w", pageID, err)
	}
	return nil
}

// HasImage reports whether the page already holds an image block for imageURL.
func (s *Store) HasImage(ctx context.Context, pageID, imageURL string) (bool, error) {
	blocks, err := s.client.ListChildren(ctx, pageID)
	if err != nil {
		return false, fmt.Errorf("list blocks of %s: %w", pageID, err)
	}
	for _, b := range blocks {
		if b.Type == "image" && b.Image.URL() == imageURL {
			return true, nil
		}
	}
	return false, nil
}

// FirstBlockID returns the id of the first content block, or "" for an empty page.
func (s *Store) FirstBlockID(ctx context.Context, pageID string) (string, error) {
	blocks, err := s.client.ListChildren(ctx, pageID)
	if err != nil {
		return "", fmt.Errorf("list blocks of %s: %w", pageID, err)
	}
	if len(blocks) == 0 {
		return "", nil
	}
	return blocks[0].ID, nil
}

// AppendImage adds an external image block after the given block (or at the
// end when after is empty) and returns the new block id.
func (s *Store) AppendImage(ctx context.Context, pageID, imageURL, after string) (string, error) {
	created, err := s.client.AppendChildren(ctx, pageID, []Block{imageBlock(imageURL)}, after)
	if err != nil {
		return "", fmt.Errorf("append image to %s: %w", pageID, err)
	}
	for _, b := range created {
		if b.Type == "image" && b.Image.URL() == imageURL {
			return b.ID, nil
		}
	}
	if len(created) > 0 {
		return created[0].ID, nil
	}
	return "", nil
}

// HasCover reports whether the page has a cover image.
func (s *Store) HasCover(ctx context.Context, pageID string) (bool, error) {
	page, err := s.client.GetPage(ctx, pageID)
	if err != nil {
		return false, fmt.Errorf("get page %s: %w", pageID, err)
	}
	return page.Cover.URL() != "", nil
}

// SetCover sets the page cover to imageURL.
func (s *Store) SetCover(ctx context.Context, pageID, imageURL string) error {
	if err := s.client.SetPageCover(ctx, pageID, imageURL); err != nil {
		return fmt.Errorf("set cover of %s: %w", pageID, err)
	}
	return nil
}

func (s *Store) entryFromPage(page Page) catalog.Entry {
	props := page.Properties
	entry := catalog.Entry{
		ID:         page.ID,
		Title:      joinText(props[s.props.Title].Title),
		Tags:       optionNames(props[s.props.Tags].MultiSelect),
		Categories: optionNames(props[s.props.Categories].MultiSelect),
		NASPath:    joinText(props[s.props.NASPath].RichText),
	}
	if cb := props[s.props.Enriched].Checkbox; cb != nil {
		entry.Enriched = *cb
	}
	if date := props[s.props.ReleaseDate].Date; date != nil {
		if parsed, ok := parseDate(date.Start); ok {
			entry.ReleaseDate = &parsed
		} else {
			s.logger.Debug("unparsable release date",
				logging.String(logging.FieldPageID, page.ID),
				logging.String("raw", date.Start),
			)
		}
	}
	return entry
}

func (s *Store) propertiesFromPatch(patch catalog.Patch) map[string]Property {
	props := make(map[string]Property)
	if patch.Type != nil {
		props[s.props.Type] = Property{Select: &SelectOption{Name: *patch.Type}}
	}
	if patch.Title != nil {
		props[s.props.Title] = textProperty("title", truncateText(*patch.Title))
	}
	if patch.Synopsis != nil {
		props[s.props.Synopsis] = textProperty("rich_text", truncateText(*patch.Synopsis))
	}
	if patch.Director != nil {
		props[s.props.Director] = textProperty("rich_text", truncateText(*patch.Director))
	}
	if patch.Status != nil {
		props[s.props.Status] = Property{Select: &SelectOption{Name: *patch.Status}}
	}
	if patch.Support != nil {
		props[s.props.Support] = Property{Select: &SelectOption{Name: *patch.Support}}
	}
	if patch.Enriched != nil {
		value := *patch.Enriched
		props[s.props.Enriched] = Property{Checkbox: &value}
	}
	if len(patch.Categories) > 0 {
		props[s.props.Categories] = Property{MultiSelect: selectOptions(patch.Categories)}
	}
	if len(patch.Tags) > 0 {
		props[s.props.Tags] = Property{MultiSelect: selectOptions(patch.Tags)}
	}
	if patch.ReleaseDate != nil {
		props[s.props.ReleaseDate] = Property{Date: &DateValue{Start: patch.ReleaseDate.Format(dateLayout)}}
	}
	return props
}

// joinText concatenates every run; Notion splits text at formatting changes.
func joinText(runs []RichText) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.String())
	}
	return strings.TrimSpace(b.String())
}

func optionNames(options []SelectOption) []string {
	if len(options) == 0 {
		return nil
	}
	names := make([]string, 0, len(options))
	for _, o := range options {
		if name := strings.TrimSpace(o.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func selectOptions(names []string) []SelectOption {
	options := make([]SelectOption, 0, len(names))
	for _, n := range names {
		// Notion rejects commas in option names.
		options = append(options, SelectOption{Name: strings.ReplaceAll(n, ",", " ")})
	}
	return options
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < len(dateLayout) {
		return time.Time{}, false
	}
	parsed, err := time.Parse(dateLayout, raw[:len(dateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func truncateText(s string) string {
	if utf8.RuneCountInString(s) <= maxTextLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxTextLength])
}
