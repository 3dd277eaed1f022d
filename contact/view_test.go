package contact

import (
	"reflect"
	"testing"
	"time"

	"github.com/agendahub/agendahub/store"
)

func TestMetadataFor(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	chats := []store.Chat{
		{
			ID:          "alice_bob",
			LastMessage: &store.LastMessage{Text: "hi", Timestamp: ts},
			UnreadCount: map[string]int64{"alice": 2, "bob": 0},
		},
		{
			ID: "group-1",
		},
	}

	tests := []struct {
		name     string
		uid      string
		chatID   string
		expected Metadata
	}{
		{
			name:     "Unread counter for the owner",
			uid:      "alice",
			chatID:   "alice_bob",
			expected: Metadata{LastMessageAt: ts, Unread: 2},
		},
		{
			name:     "Zero unread for the other side",
			uid:      "bob",
			chatID:   "alice_bob",
			expected: Metadata{LastMessageAt: ts},
		},
		{
			name:     "Conversation without messages",
			uid:      "alice",
			chatID:   "group-1",
			expected: Metadata{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := MetadataFor(tt.uid, chats)
			if got := meta[tt.chatID]; got != tt.expected {
				t.Errorf("MetadataFor(%q)[%q] = %+v; want %+v", tt.uid, tt.chatID, got, tt.expected)
			}
		})
	}
}

func TestSort(t *testing.T) {
	old := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	contacts := []store.Contact{
		{ID: "bob", Type: store.TypeDirect},
		{ID: "carol", Type: store.TypeDirect},
		{ID: "group-1", Type: store.TypeGroup, Pinned: true},
		{ID: "dave", Type: store.TypeDirect},
	}
	meta := map[string]Metadata{
		"alice_bob":   {LastMessageAt: recent, Unread: 1},
		"alice_carol": {LastMessageAt: old},
		"group-1":     {LastMessageAt: old},
	}

	entries := Sort("alice", contacts, meta)

	var order []string
	for _, e := range entries {
		order = append(order, e.ID)
	}
	expected := []string{"group-1", "bob", "carol", "dave"}
	if !reflect.DeepEqual(order, expected) {
		t.Errorf("Sort order = %v; want %v", order, expected)
	}

	unread := map[string]bool{}
	for _, e := range entries {
		unread[e.ID] = e.Unread
	}
	if !unread["bob"] {
		t.Error("bob should carry the unread badge")
	}
	if unread["carol"] || unread["group-1"] || unread["dave"] {
		t.Errorf("only bob should be unread: %v", unread)
	}
}
