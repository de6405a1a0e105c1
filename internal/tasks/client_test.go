package tasks

import (
	"testing"
	"time"

	gtasks "google.golang.org/api/tasks/v1"
)

func TestListQueryNormalize(t *testing.T) {
	now := time.Date(2025, 6, 2, 18, 30, 0, 0, time.FixedZone("PDT", -7*3600))

	tests := []struct {
		name       string
		query      ListQuery
		wantDueMin time.Time
		wantMax    int64
	}{
		{
			name:       "empty query defaults to start of today UTC",
			query:      ListQuery{},
			wantDueMin: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
			wantMax:    DefaultMaxResults,
		},
		{
			name: "explicit dueMin is preserved",
			query: ListQuery{
				DueMin: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			},
			wantDueMin: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			wantMax:    DefaultMaxResults,
		},
		{
			name:       "explicit maxResults is preserved",
			query:      ListQuery{MaxResults: 25},
			wantDueMin: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
			wantMax:    25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.query.normalize(now)
			if !got.DueMin.Equal(tt.wantDueMin) {
				t.Errorf("DueMin = %v, want %v", got.DueMin, tt.wantDueMin)
			}
			if got.MaxResults != tt.wantMax {
				t.Errorf("MaxResults = %d, want %d", got.MaxResults, tt.wantMax)
			}
		})
	}
}

func TestToReminder(t *testing.T) {
	completed := "2025-06-02T12:00:00.000Z"
	task := &gtasks.Task{
		Id:        "task-1",
		Title:     "File expense report",
		Notes:     "Q2 receipts",
		Status:    "completed",
		Due:       "2025-06-02T00:00:00.000Z",
		Completed: &completed,
	}

	got := toReminder(task, "Work")

	if got.ID != "task-1" {
		t.Errorf("ID = %q, want task-1", got.ID)
	}
	if got.List != "Work" {
		t.Errorf("List = %q, want Work", got.List)
	}
	wantDue := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if !got.Due.Equal(wantDue) {
		t.Errorf("Due = %v, want %v", got.Due, wantDue)
	}
	if got.Completed.IsZero() {
		t.Error("Completed should be parsed")
	}
}

func TestToReminderNil(t *testing.T) {
	got := toReminder(nil, "Work")
	if got.ID != "" || got.List != "" {
		t.Errorf("toReminder(nil) = %+v, want zero value", got)
	}
}

func TestToTaskList(t *testing.T) {
	tl := &gtasks.TaskList{
		Id:      "list-1",
		Title:   "Errands",
		Updated: "2025-06-01T08:00:00.000Z",
	}

	got := toTaskList(tl)
	if got.ID != "list-1" || got.Title != "Errands" {
		t.Errorf("toTaskList() = %+v", got)
	}
	if got.Updated.IsZero() {
		t.Error("Updated should be parsed")
	}

	if zero := toTaskList(nil); zero.ID != "" {
		t.Errorf("toTaskList(nil) = %+v, want zero value", zero)
	}
}
