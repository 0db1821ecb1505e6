package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"reelsync/internal/config"
	"reelsync/internal/logging"
	"reelsync/internal/services"
)

const (
	uidPrefix   = "notion-film-"
	uidProperty = "notion_uid"
	dayLayout   = "2006-01-02"
)

// UID returns the stable event identifier for a catalog page.
func UID(pageID string) string {
	return uidPrefix + pageID
}

// ReminderDay is the day before release, truncated to a calendar date.
func ReminderDay(release time.Time) time.Time {
	y, m, d := release.Date()
	return time.Date(y, m, d-1, 0, 0, 0, 0, time.UTC)
}

// Summary builds the event title.
func Summary(prefix, title string) string {
	return prefix + strings.TrimSpace(title)
}

// Service wraps the Calendar events API for one calendar.
type Service struct {
	events     *gcal.EventsService
	calendarID string
	logger     *slog.Logger
}

// New wraps an existing calendar API client.
func New(api *gcal.Service, calendarID string, logger *slog.Logger) (*Service, error) {
	if api == nil {
		return nil, services.Wrap(services.ErrConfiguration, "calendar", "new service", "api client required", nil)
	}
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return nil, services.Wrap(services.ErrConfiguration, "calendar", "new service", "calendar id required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		events:     api.Events,
		calendarID: calendarID,
		logger:     logging.NewComponentLogger(logger, "calendar"),
	}, nil
}

// NewFromConfig authenticates with the service-account credentials file and
// binds the configured calendar.
func NewFromConfig(ctx context.Context, cfg config.Calendar, logger *slog.Logger) (*Service, error) {
	raw, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "calendar", "read credentials", cfg.CredentialsFile, err)
	}
	jwt, err := google.JWTConfigFromJSON(raw, gcal.CalendarScope)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "calendar", "parse credentials", "expected a service account key", err)
	}
	api, err := gcal.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create calendar client: %w", err)
	}
	return New(api, cfg.CalendarID, logger)
}

// EventExistsForUID reports whether an event tagged with uid exists.
func (s *Service) EventExistsForUID(ctx context.Context, uid string) (bool, error) {
	events, err := s.events.List(s.calendarID).
		PrivateExtendedProperty(uidProperty + "=" + uid).
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return false, services.Wrap(services.ErrTransient, "calendar", "list by uid", uid, err)
	}
	return len(events.Items) > 0, nil
}

// EventExistsOnDay reports whether an event mentioning title falls on day.
func (s *Service) EventExistsOnDay(ctx context.Context, title string, day time.Time) (bool, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Second)
	events, err := s.events.List(s.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		Q(title).
		SingleEvents(true).
		Context(ctx).
		Do()
	if err != nil {
		return false, services.Wrap(services.ErrTransient, "calendar", "list by day", title, err)
	}
	return len(events.Items) > 0, nil
}

// CreateEvent inserts an all-day event on day tagged with uid.
func (s *Service) CreateEvent(ctx context.Context, summary string, day time.Time, uid string) error {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	event := &gcal.Event{
		Summary: summary,
		Start:   &gcal.EventDateTime{Date: start.Format(dayLayout)},
		// All-day end dates are exclusive.
		End: &gcal.EventDateTime{Date: start.AddDate(0, 0, 1).Format(dayLayout)},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{uidProperty: uid},
		},
	}
	created, err := s.events.Insert(s.calendarID, event).Context(ctx).Do()
	if err != nil {
		return services.Wrap(services.ErrTransient, "calendar", "insert", summary, err)
	}
	s.logger.Info("reminder created",
		logging.String("summary", summary),
		logging.String("day", start.Format(dayLayout)),
		logging.String("event_id", created.Id),
	)
	return nil
}
