package calendar_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"reelsync/internal/calendar"
)

func TestUIDAndSummary(t *testing.T) {
	if got := calendar.UID("abc-123"); got != "notion-film-abc-123" {
		t.Fatalf("unexpected uid %q", got)
	}
	if got := calendar.Summary("🎬 Release tomorrow: ", " Dune "); got != "🎬 Release tomorrow: Dune" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestReminderDayIsDayBefore(t *testing.T) {
	day := calendar.ReminderDay(time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC))
	if day.Format("2006-01-02") != "2026-02-28" {
		t.Fatalf("unexpected reminder day %s", day)
	}
}

func newService(t *testing.T, handler http.HandlerFunc) *calendar.Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	ctx := context.Background()
	api, err := gcal.NewService(ctx, option.WithHTTPClient(server.Client()), option.WithEndpoint(server.URL+"/"))
	if err != nil {
		t.Fatalf("new api: %v", err)
	}
	svc, err := calendar.New(api, "cal-1", nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestEventLookups(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/calendars/cal-1/events") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		switch {
		case q.Get("privateExtendedProperty") == "notion_uid=notion-film-known":
			_, _ = io.WriteString(w, `{"items":[{"id":"e1"}]}`)
		case q.Get("q") == "Dune":
			if q.Get("timeMin") != "2026-02-28T00:00:00Z" {
				t.Errorf("unexpected timeMin %q", q.Get("timeMin"))
			}
			_, _ = io.WriteString(w, `{"items":[{"id":"e2"}]}`)
		default:
			_, _ = io.WriteString(w, `{"items":[]}`)
		}
	})
	ctx := context.Background()

	if ok, err := svc.EventExistsForUID(ctx, "notion-film-known"); err != nil || !ok {
		t.Fatalf("expected uid hit, got %v %v", ok, err)
	}
	if ok, err := svc.EventExistsForUID(ctx, "notion-film-other"); err != nil || ok {
		t.Fatalf("expected uid miss, got %v %v", ok, err)
	}
	day := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	if ok, err := svc.EventExistsOnDay(ctx, "Dune", day); err != nil || !ok {
		t.Fatalf("expected title hit, got %v %v", ok, err)
	}
}

func TestCreateEventIsAllDayWithUID(t *testing.T) {
	var got gcal.Event
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = io.WriteString(w, `{"id":"created"}`)
	})
	day := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	if err := svc.CreateEvent(context.Background(), "🎬 Release tomorrow: Dune", day, "notion-film-p1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.Start == nil || got.Start.Date != "2026-02-28" || got.End == nil || got.End.Date != "2026-03-01" {
		t.Fatalf("unexpected dates %+v %+v", got.Start, got.End)
	}
	if got.ExtendedProperties == nil || got.ExtendedProperties.Private["notion_uid"] != "notion-film-p1" {
		t.Fatalf("missing uid property: %+v", got.ExtendedProperties)
	}
}

func TestNewRequiresCalendarID(t *testing.T) {
	api, err := gcal.NewService(context.Background(), option.WithHTTPClient(http.DefaultClient))
	if err != nil {
		t.Fatalf("new api: %v", err)
	}
	if _, err := calendar.New(api, " ", nil); err == nil {
		t.Fatal("expected error for blank calendar id")
	}
}
