package chat

import (
	"testing"

	"github.com/agendahub/agendahub/store"
)

func TestConversationID(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected string
	}{
		{
			name:     "Already ordered",
			a:        "alice",
			b:        "bob",
			expected: "alice_bob",
		},
		{
			name:     "Reversed input",
			a:        "bob",
			b:        "alice",
			expected: "alice_bob",
		},
		{
			name:     "Uppercase sorts before lowercase",
			a:        "alice",
			b:        "Bob",
			expected: "Bob_alice",
		},
		{
			name:     "Same user twice",
			a:        "alice",
			b:        "alice",
			expected: "alice_alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConversationID(tt.a, tt.b)
			if got != tt.expected {
				t.Errorf("ConversationID(%q, %q) = %q; want %q", tt.a, tt.b, got, tt.expected)
			}
			if sym := ConversationID(tt.b, tt.a); sym != got {
				t.Errorf("ConversationID is not symmetric: %q vs %q", got, sym)
			}
		})
	}
}

func TestTargetConversationID(t *testing.T) {
	tests := []struct {
		name     string
		target   Target
		uid      string
		expected string
	}{
		{
			name:     "Direct target resolves sorted pair",
			target:   Target{ID: "bob", Type: store.TypeDirect},
			uid:      "alice",
			expected: "alice_bob",
		},
		{
			name:     "Group id passes through",
			target:   Target{ID: "group-123", Type: store.TypeGroup},
			uid:      "alice",
			expected: "group-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.target.ConversationID(tt.uid); got != tt.expected {
				t.Errorf("ConversationID(%q) = %q; want %q", tt.uid, got, tt.expected)
			}
		})
	}
}
