package calendar

import (
	"testing"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

func TestListQueryNormalize(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.FixedZone("CET", 3600))

	tests := []struct {
		name        string
		query       ListQuery
		wantTimeMin time.Time
		wantMax     int64
	}{
		{
			name:        "empty query defaults to start of today UTC",
			query:       ListQuery{},
			wantTimeMin: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			wantMax:     DefaultMaxResults,
		},
		{
			name: "explicit timeMin is preserved",
			query: ListQuery{
				TimeMin: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
			},
			wantTimeMin: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
			wantMax:     DefaultMaxResults,
		},
		{
			name:        "explicit maxResults is preserved",
			query:       ListQuery{MaxResults: 50},
			wantTimeMin: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			wantMax:     50,
		},
		{
			name:        "negative maxResults falls back to default",
			query:       ListQuery{MaxResults: -1},
			wantTimeMin: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			wantMax:     DefaultMaxResults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.query.normalize(now)
			if !got.TimeMin.Equal(tt.wantTimeMin) {
				t.Errorf("TimeMin = %v, want %v", got.TimeMin, tt.wantTimeMin)
			}
			if got.MaxResults != tt.wantMax {
				t.Errorf("MaxResults = %d, want %d", got.MaxResults, tt.wantMax)
			}
		})
	}
}

func TestListQueryNormalizeCrossesDateLine(t *testing.T) {
	// Local time is already March 15 but UTC is still March 14. The default
	// window must follow UTC.
	now := time.Date(2025, 3, 15, 8, 0, 0, 0, time.FixedZone("NZDT", 13*3600))

	got := ListQuery{}.normalize(now)
	want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	if !got.TimeMin.Equal(want) {
		t.Errorf("TimeMin = %v, want %v", got.TimeMin, want)
	}
}

func TestToEventSummary(t *testing.T) {
	event := &gcal.Event{
		Id:          "evt-1",
		Summary:     "Team Standup",
		Description: "Daily sync",
		Location:    "Room 1",
		Status:      "confirmed",
		Start:       &gcal.EventDateTime{DateTime: "2025-03-14T09:00:00Z"},
		End:         &gcal.EventDateTime{DateTime: "2025-03-14T09:15:00Z"},
		Organizer:   &gcal.EventOrganizer{Email: "lead@example.com"},
		Attendees: []*gcal.EventAttendee{
			{Email: "alice@example.com", ResponseStatus: "accepted"},
			{Email: "bob@example.com", ResponseStatus: "declined", Optional: true},
		},
		ConferenceData: &gcal.ConferenceData{
			EntryPoints: []*gcal.EntryPoint{
				{EntryPointType: "phone", Uri: "tel:+1234"},
				{EntryPointType: "video", Uri: "https://meet.example.com/abc"},
			},
		},
	}

	got := toEventSummary(event)

	if got.ID != "evt-1" {
		t.Errorf("ID = %q, want evt-1", got.ID)
	}
	if got.Summary != "Team Standup" {
		t.Errorf("Summary = %q, want Team Standup", got.Summary)
	}
	if got.AllDay {
		t.Error("AllDay = true for a timed event")
	}
	wantStart := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	if !got.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", got.Start, wantStart)
	}
	if got.Organizer != "lead@example.com" {
		t.Errorf("Organizer = %q, want lead@example.com", got.Organizer)
	}
	if len(got.Attendees) != 2 {
		t.Fatalf("len(Attendees) = %d, want 2", len(got.Attendees))
	}
	if !got.Attendees[1].Optional {
		t.Error("Attendees[1].Optional = false, want true")
	}
	if got.MeetLink != "https://meet.example.com/abc" {
		t.Errorf("MeetLink = %q, want video entry point", got.MeetLink)
	}
}

func TestToEventSummaryAllDay(t *testing.T) {
	event := &gcal.Event{
		Id:      "evt-2",
		Summary: "Company Holiday",
		Start:   &gcal.EventDateTime{Date: "2025-03-14"},
		End:     &gcal.EventDateTime{Date: "2025-03-15"},
	}

	got := toEventSummary(event)

	if !got.AllDay {
		t.Error("AllDay = false for a date-only event")
	}
	wantStart := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	if !got.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", got.Start, wantStart)
	}
}

func TestToCalendarInfo(t *testing.T) {
	entry := &gcal.CalendarListEntry{
		Id:         "primary",
		Summary:    "Work",
		TimeZone:   "Europe/Berlin",
		Primary:    true,
		AccessRole: "owner",
	}

	got := toCalendarInfo(entry)
	if got.ID != "primary" || !got.Primary || got.AccessRole != "owner" {
		t.Errorf("toCalendarInfo() = %+v", got)
	}
	if got.TimeZone != "Europe/Berlin" {
		t.Errorf("TimeZone = %q", got.TimeZone)
	}
}
