package meeting

import (
	"reflect"
	"testing"

	"github.com/agendahub/agendahub/store"
)

func TestValidStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		expected bool
	}{
		{name: "Scheduled", status: store.MeetingScheduled, expected: true},
		{name: "In progress", status: store.MeetingInProgress, expected: true},
		{name: "Completed", status: store.MeetingCompleted, expected: true},
		{name: "Cancelled", status: store.MeetingCancelled, expected: true},
		{name: "Unknown", status: "postponed", expected: false},
		{name: "Empty", status: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidStatus(tt.status); got != tt.expected {
				t.Errorf("ValidStatus(%q) = %v; want %v", tt.status, got, tt.expected)
			}
		})
	}
}

func TestFilterByText(t *testing.T) {
	meetings := []store.Meeting{
		{ID: "m1", Title: "Quarterly planning"},
		{ID: "m2", Title: "Standup", Description: "daily sync on planning items"},
		{ID: "m3", Title: "1:1"},
	}

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{
			name:     "Empty query keeps everything",
			query:    "",
			expected: []string{"m1", "m2", "m3"},
		},
		{
			name:     "Title match is case-insensitive",
			query:    "QUARTERLY",
			expected: []string{"m1"},
		},
		{
			name:     "Description is searched too",
			query:    "planning",
			expected: []string{"m1", "m2"},
		},
		{
			name:     "Whitespace-only query keeps everything",
			query:    "   ",
			expected: []string{"m1", "m2", "m3"},
		},
		{
			name:     "No match",
			query:    "retro",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, m := range FilterByText(meetings, tt.query) {
				got = append(got, m.ID)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("FilterByText(%q) = %v; want %v", tt.query, got, tt.expected)
			}
		})
	}
}

func TestSortByStart(t *testing.T) {
	meetings := []store.Meeting{
		{ID: "m1", StartTime: "2025-06-02T10:00:00Z"},
		{ID: "m2", StartTime: "2025-06-01T09:00:00Z"},
		{ID: "m3"},
		{ID: "m4", StartTime: "2025-06-01T15:00:00Z"},
	}

	var got []string
	for _, m := range SortByStart(meetings) {
		got = append(got, m.ID)
	}
	expected := []string{"m2", "m4", "m1", "m3"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("SortByStart order = %v; want %v", got, expected)
	}
}

func TestDedupe(t *testing.T) {
	meetings := []store.Meeting{
		{ID: "m1"},
		{ID: "m2"},
		{ID: "m1"},
		{ID: "m3"},
		{ID: "m2"},
	}

	var got []string
	for _, m := range Dedupe(meetings) {
		got = append(got, m.ID)
	}
	expected := []string{"m1", "m2", "m3"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Dedupe = %v; want %v", got, expected)
	}
}
