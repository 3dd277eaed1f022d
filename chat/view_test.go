package chat

import (
	"reflect"
	"testing"

	"github.com/agendahub/agendahub/store"
)

func TestVisibleMessages(t *testing.T) {
	msgs := []store.Message{
		{ID: "m1", Text: "hello"},
		{ID: "m2", Text: "hidden from alice", DeletedFor: []string{"alice"}},
		{ID: "m3", Text: "hidden from bob", DeletedFor: []string{"bob"}},
		{ID: "m4", Text: "hidden from both", DeletedFor: []string{"alice", "bob"}},
	}

	tests := []struct {
		name     string
		uid      string
		expected []string
	}{
		{
			name:     "Alice sees her view",
			uid:      "alice",
			expected: []string{"m1", "m3"},
		},
		{
			name:     "Bob sees his view",
			uid:      "bob",
			expected: []string{"m1", "m2"},
		},
		{
			name:     "Third party sees everything",
			uid:      "carol",
			expected: []string{"m1", "m2", "m3", "m4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, msg := range VisibleMessages(msgs, tt.uid) {
				got = append(got, msg.ID)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("VisibleMessages(%q) = %v; want %v", tt.uid, got, tt.expected)
			}
		})
	}
}

func TestDisplayText(t *testing.T) {
	tests := []struct {
		name     string
		msg      store.Message
		expected string
	}{
		{
			name:     "Plain message",
			msg:      store.Message{Text: "see you at 10"},
			expected: "see you at 10",
		},
		{
			name:     "Deleted for everyone shows tombstone",
			msg:      store.Message{Text: "see you at 10", DeletedForEveryone: true},
			expected: Tombstone,
		},
		{
			name:     "Tombstone wins over edit",
			msg:      store.Message{Text: "edited text", Edited: true, DeletedForEveryone: true},
			expected: Tombstone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayText(tt.msg); got != tt.expected {
				t.Errorf("DisplayText() = %q; want %q", got, tt.expected)
			}
		})
	}
}

func TestForwardCopy(t *testing.T) {
	original := store.Message{
		ID:         "m1",
		Text:       "agenda attached",
		SenderID:   "alice",
		SenderName: "Alice",
		Edited:     true,
		DeletedFor: []string{"bob"},
	}
	sender := Sender{UID: "carol", Name: "Carol", PhotoURL: "https://example.com/carol.png"}

	got := ForwardCopy(original, sender)

	if got.Text != original.Text {
		t.Errorf("Text = %q; want %q", got.Text, original.Text)
	}
	if !got.Edited {
		t.Error("Edited flag should be carried over")
	}
	if !got.Forwarded {
		t.Error("Forwarded flag should be set")
	}
	if got.SenderID != sender.UID || got.SenderName != sender.Name || got.SenderPhotoURL != sender.PhotoURL {
		t.Errorf("sender not re-attributed: got %q/%q/%q", got.SenderID, got.SenderName, got.SenderPhotoURL)
	}
	if len(got.DeletedFor) != 0 || got.DeletedForEveryone {
		t.Error("deletion state should be dropped")
	}
	if !got.Timestamp.IsZero() {
		t.Error("timestamp should be left for the server to assign")
	}
}
