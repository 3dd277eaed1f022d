package meeting

import (
	"sort"
	"strings"

	"github.com/agendahub/agendahub/store"
)

// ValidStatus reports whether status is part of the meeting lifecycle.
func ValidStatus(status string) bool {
	switch status {
	case store.MeetingScheduled, store.MeetingInProgress, store.MeetingCompleted, store.MeetingCancelled:
		return true
	}
	return false
}

// FilterByText keeps meetings whose title or description contains the query,
// case-insensitively. An empty query keeps everything.
func FilterByText(meetings []store.Meeting, query string) []store.Meeting {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return meetings
	}
	var matched []store.Meeting
	for _, m := range meetings {
		if strings.Contains(strings.ToLower(m.Title), query) ||
			strings.Contains(strings.ToLower(m.Description), query) {
			matched = append(matched, m)
		}
	}
	return matched
}

// SortByStart orders meetings chronologically by start time; meetings
// without one keep their relative position.
func SortByStart(meetings []store.Meeting) []store.Meeting {
	sort.SliceStable(meetings, func(i, j int) bool {
		if meetings[i].StartTime == "" || meetings[j].StartTime == "" {
			return false
		}
		return meetings[i].StartTime < meetings[j].StartTime
	})
	return meetings
}

// Dedupe drops duplicate meetings by id, keeping first occurrences in order.
func Dedupe(meetings []store.Meeting) []store.Meeting {
	seen := make(map[string]bool, len(meetings))
	var unique []store.Meeting
	for _, m := range meetings {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		unique = append(unique, m)
	}
	return unique
}
